package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"vqlite/engine"
	"vqlite/shell"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: vqlite <database file>")
		os.Exit(1)
	}

	table, err := engine.Open(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}

	sh := shell.New(table, os.Stdout)
	reader := bufio.NewReader(os.Stdin)

	for {
		shell.PrintPrompt(os.Stdout)
		line, readErr := shell.ReadLine(reader)

		if line != "" {
			if dispatchErr := sh.Dispatch(line); dispatchErr != nil {
				if errors.Is(dispatchErr, shell.ErrExit) {
					closeOrFatal(table)
					os.Exit(0)
				}
				reportError(dispatchErr)
			}
		}

		if readErr != nil {
			if readErr != io.EOF {
				fmt.Fprintln(os.Stderr, "fatal:", readErr)
				closeOrFatal(table)
				os.Exit(1)
			}
			closeOrFatal(table)
			os.Exit(0)
		}
	}
}

func reportError(err error) {
	switch {
	case errors.Is(err, shell.ErrUnrecognized):
		fmt.Println("Unrecognized command.")
	case errors.Is(err, shell.ErrInputSyntax):
		fmt.Println("Syntax error. Could not parse statement.")
	case errors.Is(err, engine.ErrDuplicateKey):
		fmt.Println("Error: duplicate key.")
	case errors.Is(err, engine.ErrKeyNotFound):
		fmt.Println("Error: not found.")
	case errors.Is(err, engine.ErrTableFull):
		fmt.Println("Error: table full.")
	default:
		fmt.Printf("Error: %v\n", err)
	}
}

// closeOrFatal closes the table on the way out. A flush failure here
// means the on-disk file may be left corrupt; the spec calls this fatal
// rather than something to silently swallow.
func closeOrFatal(table *engine.Table) {
	if err := table.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}
