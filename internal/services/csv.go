package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgload/pgload/internal/prompt"
	"github.com/pgload/pgload/internal/source"
	"github.com/pgload/pgload/pkg/pgload"
)

// CSVRequest holds what is already known about a CSV load. Anything left
// empty is asked for through the prompter.
type CSVRequest struct {
	Path string
	// Table is created when Create is true, otherwise loaded into.
	Table string
	// Create is asked when nil.
	Create *bool
	// Types maps column name to SQL type; missing columns are asked for.
	Types   map[string]string
	Schema  string
	Options pgload.LoadOptions
}

// CSVService implements the interactive CSV load.
type CSVService struct {
	store    pgload.TableStore
	prompter pgload.Prompter
	logger   pgload.Logger
	readCSV  func(path string) (*pgload.Dataset, error)
}

// NewCSVService creates a CSVService. It panics on nil dependencies.
func NewCSVService(store pgload.TableStore, prompter pgload.Prompter, logger pgload.Logger) *CSVService {
	if store == nil {
		panic("store cannot be nil")
	}
	if prompter == nil {
		panic("prompter cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &CSVService{
		store:    store,
		prompter: prompter,
		logger:   logger,
		readCSV: func(path string) (*pgload.Dataset, error) {
			return source.ReadCSV(path)
		},
	}
}

// Run reads the CSV file, optionally creates the destination table from the
// column types and inserts every row.
func (s *CSVService) Run(ctx context.Context, req CSVRequest) (*pgload.LoadResult, error) {
	schemaName := req.Schema
	if schemaName == "" {
		schemaName = pgload.DefaultSchema
	}

	path := req.Path
	if path == "" {
		var err error
		if path, err = prompt.AskPath(ctx, s.prompter); err != nil {
			return nil, err
		}
	}

	ds, err := s.readCSV(path)
	if err != nil {
		return nil, err
	}
	s.logger.Verbose("Read %d rows and %d columns from %s", ds.Len(), len(ds.Columns), path)

	var columns []pgload.Column
	if req.Create == nil || *req.Create {
		if columns, err = s.columnTypes(ctx, ds.Columns, req.Types); err != nil {
			return nil, err
		}
	}

	create := false
	if req.Create != nil {
		create = *req.Create
	} else if create, err = prompt.AskCreateTable(ctx, s.prompter); err != nil {
		return nil, err
	}

	var table pgload.TableName
	if create {
		if table, err = s.createTable(ctx, req.Table, schemaName, columns); err != nil {
			return nil, err
		}
	} else {
		if table, err = s.chooseTable(ctx, req.Table, schemaName); err != nil {
			return nil, err
		}
	}

	return s.store.Load(ctx, table, ds, req.Options)
}

func (s *CSVService) columnTypes(ctx context.Context, names []string, known map[string]string) ([]pgload.Column, error) {
	var missing []string
	for _, name := range names {
		if _, ok := known[name]; !ok {
			missing = append(missing, name)
		}
	}

	asked := map[string]pgload.Column{}
	if len(missing) > 0 {
		s.logger.Info("Assign types:\n")
		answers, err := prompt.AskColumnTypes(ctx, s.prompter, missing)
		if err != nil {
			return nil, err
		}
		for _, col := range answers {
			asked[col.Name] = col
		}
	}

	columns := make([]pgload.Column, 0, len(names))
	for _, name := range names {
		if typ, ok := known[name]; ok {
			columns = append(columns, pgload.Column{Name: name, Type: typ})
			continue
		}
		columns = append(columns, asked[name])
	}
	return columns, nil
}

func (s *CSVService) createTable(ctx context.Context, name, schemaName string, columns []pgload.Column) (pgload.TableName, error) {
	if name == "" {
		var err error
		if name, err = prompt.AskTableName(ctx, s.prompter); err != nil {
			return pgload.TableName{}, err
		}
	}

	table, err := pgload.ParseTableName(name, schemaName)
	if err != nil {
		return pgload.TableName{}, err
	}
	if err := s.store.CreateTable(ctx, table, columns); err != nil {
		return pgload.TableName{}, fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return table, nil
}

func (s *CSVService) chooseTable(ctx context.Context, name, schemaName string) (pgload.TableName, error) {
	if name == "" {
		tables, err := s.store.ListTables(ctx, schemaName)
		if err != nil {
			return pgload.TableName{}, fmt.Errorf("failed to list tables in schema %q: %w", schemaName, err)
		}
		if name, err = prompt.ChooseTable(ctx, s.prompter, tables); err != nil {
			return pgload.TableName{}, err
		}
	}
	return pgload.ParseTableName(strings.TrimSpace(name), schemaName)
}
