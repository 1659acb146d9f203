// Package shell is the line-oriented REPL over the engine: a tokenizer,
// meta-commands, and a tiny insert/select statement dispatcher. It is
// deliberately thin — each statement bottoms out in one engine operation
// (insert or select_all), and .btree reads pages through the table.
package shell

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"vqlite/engine"
)

// ErrInputSyntax marks a malformed shell command: too few tokens, or a
// negative id literal.
var ErrInputSyntax = errors.New("input syntax error")

// ErrExit is returned by Dispatch when the user typed .exit; the caller is
// expected to flush and terminate with status 0.
var ErrExit = errors.New("exit")

// ErrUnrecognized marks an input line that is neither a known
// meta-command nor a known statement keyword.
var ErrUnrecognized = errors.New("unrecognized command")

// Shell holds the open table and the stream the REPL writes output to.
type Shell struct {
	Table *engine.Table
	Out   io.Writer
}

// New wraps an already-open table in a Shell writing to out.
func New(table *engine.Table, out io.Writer) *Shell {
	return &Shell{Table: table, Out: out}
}

// Dispatch runs a single line of input. A leading '.' routes to a
// meta-command; anything else is parsed as a statement. It returns
// ErrExit on `.exit`, ErrUnrecognized for an unknown command or
// statement keyword, ErrInputSyntax for a malformed statement, or an
// engine error from insert/select.
func (sh *Shell) Dispatch(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if strings.HasPrefix(line, ".") {
		return sh.runMetaCommand(line)
	}
	return sh.runStatement(line)
}

func (sh *Shell) runMetaCommand(line string) error {
	fields := tokenize(line)
	fn, ok := metaCommands[fields[0]]
	if !ok {
		return ErrUnrecognized
	}
	return fn(sh, fields[1:])
}

type metaCommand func(sh *Shell, args []string) error

var metaCommands = map[string]metaCommand{
	".exit": func(sh *Shell, args []string) error {
		return ErrExit
	},
	".help": func(sh *Shell, args []string) error {
		return printHelp(sh.Out)
	},
	".constants": func(sh *Shell, args []string) error {
		return printConstants(sh.Out)
	},
	".btree": func(sh *Shell, args []string) error {
		return printTree(sh.Out, sh.Table)
	},
}

// tokenize splits a line on whitespace, the shell's only lexical rule.
func tokenize(line string) []string {
	return strings.Fields(line)
}

// parseID validates a shell-level id literal: a base-10 unsigned integer
// with no sign. A leading '-' is the spec's explicitly named syntax
// error.
func parseID(tok string) (uint32, error) {
	if strings.HasPrefix(tok, "-") {
		return 0, ErrInputSyntax
	}
	n, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		return 0, ErrInputSyntax
	}
	return uint32(n), nil
}
