package outwriter

import (
	"os"

	"golang.org/x/term"
)

// GetMaxPeerWidth calculates the maximum width for peer ids in table output
// based on terminal width. A positive override replaces detection.
func GetMaxPeerWidth(override int) int {
	termWidth := override
	if termWidth <= 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Hash and Timestamp columns plus borders and padding
	baseWidth := 7 + 19 + 16

	available := termWidth - baseWidth
	if available < 12 {
		return 12
	}
	if available > 64 {
		return 64
	}
	return available
}
