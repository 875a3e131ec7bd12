package repl

// OutcomeKind says what the dispatcher does once a command succeeds.
type OutcomeKind int

const (
	NoOutput  OutcomeKind = iota // Print nothing
	Output                       // Print Outcome.Text
	Terminate                    // End the session with success
)

// Outcome is the result of a successful command.
type Outcome struct {
	Kind OutcomeKind
	Text string
}

func outputOf(text string) Outcome {
	return Outcome{Kind: Output, Text: text}
}
