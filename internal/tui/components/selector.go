package components

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pgload/pgload/internal/tui"
)

// ErrSelectionCancelled is returned by RunSelector when the user quits
// without picking an option.
var ErrSelectionCancelled = errors.New("selection cancelled")

// Option represents a selectable option in the selector.
type Option struct {
	Label       string
	Description string
	Value       string
}

// OptionsFromStrings builds options whose label and value are the same string.
func OptionsFromStrings(values []string) []Option {
	options := make([]Option, len(values))
	for i, v := range values {
		options[i] = Option{Label: v, Value: v}
	}
	return options
}

// Selector is a component for selecting from a list of options.
type Selector struct {
	title     string
	options   []Option
	cursor    int
	selected  int
	width     int
	showHelp  bool
	keyMap    tui.KeyMap
	submitted bool
	cancelled bool
}

// NewSelector creates a new selector component.
func NewSelector(title string, options []Option) Selector {
	return Selector{
		title:    title,
		options:  options,
		selected: -1,
		width:    60,
		showHelp: true,
		keyMap:   tui.DefaultKeyMap(),
	}
}

// WithShowHelp enables or disables the help text.
func (s Selector) WithShowHelp(show bool) Selector {
	s.showHelp = show
	return s
}

// Init implements tea.Model.
func (s Selector) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (s Selector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keyMap.Up):
			if s.cursor > 0 {
				s.cursor--
			}
		case key.Matches(msg, s.keyMap.Down):
			if s.cursor < len(s.options)-1 {
				s.cursor++
			}
		case key.Matches(msg, s.keyMap.Select):
			if len(s.options) == 0 {
				return s, nil
			}
			s.selected = s.cursor
			s.submitted = true
			return s, tea.Quit
		case key.Matches(msg, s.keyMap.Quit):
			s.cancelled = true
			return s, tea.Quit
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
	}
	return s, nil
}

// View implements tea.Model.
func (s Selector) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render(s.title))
	b.WriteString("\n\n")

	for i, opt := range s.options {
		cursor := "  "
		style := tui.UnselectedStyle
		symbol := tui.SymbolUnselected

		if i == s.cursor {
			cursor = ""
			style = tui.SelectedStyle
			symbol = tui.SymbolSelected
		}

		b.WriteString(cursor)
		b.WriteString(style.Render(symbol + " " + opt.Label))
		b.WriteString("\n")

		if opt.Description != "" {
			b.WriteString(tui.DescriptionStyle.Render(opt.Description))
			b.WriteString("\n")
		}
	}

	if s.showHelp {
		b.WriteString(tui.HelpStyle.Render("\n" + s.keyMap.HelpText()))
	}

	return b.String()
}

// Selected returns the selected option index, or -1 if none selected.
func (s Selector) Selected() int {
	return s.selected
}

// SelectedOption returns the selected option, or nil if none selected.
func (s Selector) SelectedOption() *Option {
	if s.selected >= 0 && s.selected < len(s.options) {
		return &s.options[s.selected]
	}
	return nil
}

// Cancelled returns true if the user cancelled the selection.
func (s Selector) Cancelled() bool {
	return s.cancelled
}

// Submitted returns true if the user made a selection.
func (s Selector) Submitted() bool {
	return s.submitted
}

// Value returns the value of the selected option.
func (s Selector) Value() string {
	if opt := s.SelectedOption(); opt != nil {
		return opt.Value
	}
	return ""
}

// RunSelector shows a selector on out, reading keys from in, and returns the
// chosen value. Cancelling the context stops the program.
func RunSelector(ctx context.Context, title string, options []Option, in io.Reader, out io.Writer) (string, error) {
	program := tea.NewProgram(NewSelector(title, options),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	final, err := program.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("selector failed: %w", err)
	}

	selector, ok := final.(Selector)
	if !ok || !selector.Submitted() {
		return "", ErrSelectionCancelled
	}
	return selector.Value(), nil
}
