package prompt

import (
	"context"
	"fmt"

	"github.com/pgload/pgload/pkg/pgload"
)

const (
	LabelPath        = "Select CSV path: "
	LabelCreateTable = "Create table? (Y/n): "
	LabelTableName   = "Table name: "
	TitleSelectTable = "Select table from"
	columnSuffix     = " :"
)

// AskPath asks for the CSV file to load.
func AskPath(ctx context.Context, p pgload.Prompter) (string, error) {
	return p.Ask(ctx, LabelPath)
}

// AskColumnTypes asks for the SQL type of each column, in order. Answers
// are used verbatim.
func AskColumnTypes(ctx context.Context, p pgload.Prompter, names []string) ([]pgload.Column, error) {
	columns := make([]pgload.Column, 0, len(names))
	for _, name := range names {
		typ, err := p.Ask(ctx, name+columnSuffix)
		if err != nil {
			return nil, fmt.Errorf("type of column %q: %w", name, err)
		}
		columns = append(columns, pgload.Column{Name: name, Type: typ})
	}
	return columns, nil
}

// AskCreateTable reports whether the operator answered exactly "Y".
func AskCreateTable(ctx context.Context, p pgload.Prompter) (bool, error) {
	answer, err := p.Ask(ctx, LabelCreateTable)
	if err != nil {
		return false, err
	}
	return answer == "Y", nil
}

// AskTableName asks for the name of the table to create.
func AskTableName(ctx context.Context, p pgload.Prompter) (string, error) {
	return p.Ask(ctx, LabelTableName)
}

// ChooseTable asks which of the existing tables to load into.
func ChooseTable(ctx context.Context, p pgload.Prompter, tables []string) (string, error) {
	return p.Choose(ctx, TitleSelectTable, tables)
}
