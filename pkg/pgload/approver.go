package pgload

import "context"

// Approver handles user interaction for destructive operations,
// currently dropping an existing destination table in replace mode.
//
// Implementations:
//   - ForcedApprover: Shows countdown and automatically approves
//   - InteractiveApprover: Prompts user to type the table name for confirmation
type Approver interface {
	// RequestApproval prompts for confirmation before dropping target.
	//
	// Returns:
	//   - bool: true if approved, false if denied
	//   - error: Any error that occurred during the approval process
	RequestApproval(ctx context.Context, target string) (bool, error)
}

// Prompter asks the operator for the values the load procedures need.
type Prompter interface {
	// Ask prints label and returns the trimmed line typed in response.
	Ask(ctx context.Context, label string) (string, error)

	// Choose asks the operator to pick one of options. The returned value
	// is whatever was chosen or typed; it is not guaranteed to be in options.
	Choose(ctx context.Context, title string, options []string) (string, error)
}
