package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pgload/pgload/internal/tui"
	"github.com/pgload/pgload/pkg/pgload"
)

// ForcedApprover implements the Approver interface for forced (non-interactive)
// approval. It displays a countdown and automatically approves after the countdown,
// used when the --force flag is provided.
type ForcedApprover struct {
	verbose bool
	output  io.Writer
	sleepFn func(time.Duration)
}

// NewForcedApprover creates a new ForcedApprover writing to stderr.
func NewForcedApprover(verbose bool) pgload.Approver {
	return &ForcedApprover{verbose: verbose, output: os.Stderr, sleepFn: time.Sleep}
}

// RequestApproval displays a countdown and automatically approves after the countdown.
func (a *ForcedApprover) RequestApproval(ctx context.Context, table string) (bool, error) {
	fmt.Fprintln(a.output)
	fmt.Fprintln(a.output, tui.ErrorStyle.Render(fmt.Sprintf("DANGER: table '%s' will be dropped and recreated (--force)", table)))
	fmt.Fprintln(a.output)

	countdownSeconds := int(pgload.DefaultForceApprovalCountdown.Seconds())
	for i := countdownSeconds; i > 0; i-- {
		select {
		case <-ctx.Done():
			fmt.Fprintln(a.output)
			return false, ctx.Err()
		default:
			fmt.Fprintf(a.output, "\rDropping in: %d seconds... (Press Ctrl+C to cancel)", i)
			a.sleepFn(time.Second)
		}
	}
	if err := ctx.Err(); err != nil {
		fmt.Fprintln(a.output)
		return false, err
	}

	fmt.Fprintf(a.output, "\r✓ Proceeding with table replace...                              \n")
	return true, nil
}

var _ pgload.Approver = (*ForcedApprover)(nil)
