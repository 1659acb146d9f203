package shell

import (
	"errors"
	"fmt"

	"vqlite/engine"
)

// runStatement parses and executes one `insert` or `select` line,
// printing its result to sh.Out and returning any error to the caller.
func (sh *Shell) runStatement(line string) error {
	fields := tokenize(line)
	switch fields[0] {
	case "insert":
		return sh.execInsert(fields[1:])
	case "select":
		return sh.execSelect()
	default:
		return ErrUnrecognized
	}
}

// execInsert parses `<id> <username> <email>` and inserts the row,
// printing `Executed.` on success. On failure it prints nothing and
// returns the error.
func (sh *Shell) execInsert(args []string) error {
	if len(args) != 3 {
		return ErrInputSyntax
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := sh.Table.Insert(id, args[1], args[2]); err != nil {
		return classifyError(err)
	}
	fmt.Fprintln(sh.Out, "Executed.")
	return nil
}

// execSelect streams every row in ascending id order, one
// "(id, email, username)" line per row.
func (sh *Shell) execSelect() error {
	err := sh.Table.SelectAll(func(r engine.Row) error {
		_, err := fmt.Fprintln(sh.Out, r.String())
		return err
	})
	if err != nil {
		return classifyError(err)
	}
	fmt.Fprintln(sh.Out, "Executed.")
	return nil
}

// classifyError passes engine sentinel errors through unchanged so the
// caller's error-reporting loop can classify them with errors.Is; it
// exists as the one seam where a future wire-protocol error code would
// be derived instead of a Go error value.
func classifyError(err error) error {
	if errors.Is(err, engine.ErrDuplicateKey) ||
		errors.Is(err, engine.ErrKeyNotFound) ||
		errors.Is(err, engine.ErrTableFull) ||
		errors.Is(err, engine.ErrOutOfRange) ||
		errors.Is(err, engine.ErrCorruptFile) ||
		errors.Is(err, engine.ErrIOFailure) {
		return err
	}
	return fmt.Errorf("internal failure: %w", err)
}
