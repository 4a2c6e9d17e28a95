package ui

import (
	"bufio"
	"context"
	"strings"
)

// ReadLine reads one line from r and returns it trimmed. It returns early
// with ctx.Err() when the context is cancelled; the pending read is abandoned.
// A final line without a newline is returned without error.
func ReadLine(ctx context.Context, r *bufio.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		line string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		line, err := r.ReadString('\n')
		if err != nil && line != "" {
			err = nil
		}
		done <- result{line: strings.TrimSpace(line), err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.line, res.err
	}
}
