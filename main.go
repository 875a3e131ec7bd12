// main is the entry point for the dhtcli console.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/dhtcli/cmd"
)

func main() {
	err := cmd.Execute()
	cmd.Shutdown()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
