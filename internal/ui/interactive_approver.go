package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pgload/pgload/pkg/pgload"
)

// InteractiveApprover implements the Approver interface for console-based
// interactive confirmation. It prompts the user to type the table name
// before the table is dropped.
type InteractiveApprover struct {
	verbose bool
	input   io.Reader
	output  io.Writer
}

// NewInteractiveApprover creates an InteractiveApprover on stdin/stderr.
func NewInteractiveApprover(verbose bool) pgload.Approver {
	return &InteractiveApprover{verbose: verbose, input: os.Stdin, output: os.Stderr}
}

// RequestApproval prompts the user to type the table name to confirm.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, table string) (bool, error) {
	fmt.Fprintf(a.output, "\n⚠️  WARNING: You are about to DROP and RECREATE the table '%s'\n", table)
	fmt.Fprintln(a.output, "This will permanently delete all rows in this table!")
	fmt.Fprintf(a.output, "\nTo confirm, type the table name '%s' and press Enter: ", table)

	input, err := ReadLine(ctx, bufio.NewReader(a.input))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, fmt.Errorf("failed to read input: %w", err)
	}

	if input == table {
		fmt.Fprintln(a.output, "✓ Confirmed. Replacing table...")
		return true, nil
	}
	fmt.Fprintf(a.output, "✗ Input '%s' does not match table name '%s'. Operation cancelled.\n", input, table)
	return false, nil
}

var _ pgload.Approver = (*InteractiveApprover)(nil)
