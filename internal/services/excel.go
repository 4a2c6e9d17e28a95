package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/pgload/pgload/internal/schema"
	"github.com/pgload/pgload/internal/source"
	"github.com/pgload/pgload/pkg/pgload"
)

// ExcelService combines a directory of workbooks, infers the table
// definition and loads the rows.
type ExcelService struct {
	store    pgload.TableStore
	approver pgload.Approver
	logger   pgload.Logger
	readDir  func(dir string) (*pgload.Dataset, error)
}

// NewExcelService creates an ExcelService. The approver is consulted before
// an existing table is replaced. It panics on nil dependencies.
func NewExcelService(store pgload.TableStore, approver pgload.Approver, logger pgload.Logger) *ExcelService {
	if store == nil {
		panic("store cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &ExcelService{
		store:    store,
		approver: approver,
		logger:   logger,
		readDir:  source.ReadExcelDir,
	}
}

// Run executes job. The table's existing state is handled according to
// job.IfExists before any row is inserted.
func (s *ExcelService) Run(ctx context.Context, job pgload.LoadJob) (*pgload.LoadResult, error) {
	ds, err := s.readDir(job.SourceDir)
	if err != nil {
		return nil, err
	}
	s.logger.Verbose("Combined %d rows and %d columns from %s", ds.Len(), len(ds.Columns), job.SourceDir)

	columns, kinds := schema.InferColumns(ds, job.VarcharHeadroom)
	s.logInference(ds, columns, job.VarcharHeadroom)

	if err := schema.ConvertCells(ds, kinds); err != nil {
		return nil, err
	}

	if err := s.prepareTable(ctx, job, columns); err != nil {
		return nil, err
	}

	return s.store.Load(ctx, job.Table, ds, job.Options)
}

func (s *ExcelService) prepareTable(ctx context.Context, job pgload.LoadJob, columns []pgload.Column) error {
	exists, err := s.store.TableExists(ctx, job.Table)
	if err != nil {
		return fmt.Errorf("failed to check table %s: %w", job.Table, err)
	}

	if exists {
		switch job.IfExists {
		case pgload.IfExistsAppend:
			s.logger.Info("Appending to existing table %s", job.Table)
			return nil
		case pgload.IfExistsReplace:
			approved, err := s.approver.RequestApproval(ctx, job.Table.String())
			if err != nil {
				return fmt.Errorf("approval failed: %w", err)
			}
			if !approved {
				return fmt.Errorf("replacing %s: %w", job.Table, pgload.ErrApprovalDenied)
			}
			if err := s.store.DropTable(ctx, job.Table); err != nil {
				return fmt.Errorf("failed to drop table %s: %w", job.Table, err)
			}
		default:
			return fmt.Errorf("%s (use if_exists replace or append): %w", job.Table, pgload.ErrTableExists)
		}
	}

	if err := s.store.CreateTable(ctx, job.Table, columns); err != nil {
		return fmt.Errorf("failed to create table %s: %w", job.Table, err)
	}
	return nil
}

func (s *ExcelService) logInference(ds *pgload.Dataset, columns []pgload.Column, headroom int) {
	widths := schema.InferVarcharWidths(ds, headroom)
	names := make([]string, 0, len(widths))
	for name := range widths {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.logger.Verbose("Column %q: max length %d, VARCHAR(%d)", name, widths[name]-headroom, widths[name])
	}
	for _, col := range columns {
		s.logger.Verbose("Column %q inferred as %s", col.Name, col.Type)
	}
}
