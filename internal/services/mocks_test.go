package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/pgload/pgload/pkg/pgload"
)

type mockStore struct {
	tables    []string
	listErr   error
	exists    bool
	existsErr error
	createErr error
	dropErr   error
	loadErr   error

	calls      []string
	created    []pgload.Column
	loadedInto pgload.TableName
	loaded     *pgload.Dataset
	loadOpts   pgload.LoadOptions
}

func (m *mockStore) CreateTable(_ context.Context, table pgload.TableName, columns []pgload.Column) error {
	m.calls = append(m.calls, "create "+table.String())
	m.created = columns
	return m.createErr
}

func (m *mockStore) DropTable(_ context.Context, table pgload.TableName) error {
	m.calls = append(m.calls, "drop "+table.String())
	return m.dropErr
}

func (m *mockStore) ListTables(_ context.Context, schema string) ([]string, error) {
	m.calls = append(m.calls, "list "+schema)
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.tables, nil
}

func (m *mockStore) TableExists(_ context.Context, table pgload.TableName) (bool, error) {
	m.calls = append(m.calls, "exists "+table.String())
	return m.exists, m.existsErr
}

func (m *mockStore) Load(_ context.Context, table pgload.TableName, ds *pgload.Dataset, opts pgload.LoadOptions) (*pgload.LoadResult, error) {
	m.calls = append(m.calls, "load "+table.String())
	m.loadedInto, m.loaded, m.loadOpts = table, ds, opts
	result := &pgload.LoadResult{Table: table, TotalRows: ds.Len()}
	if ds.Len() > 0 {
		result.Batches = []pgload.BatchResult{{Rows: ds.Len(), Err: m.loadErr}}
	}
	return result, result.Err()
}

type mockApprover struct {
	approved bool
	err      error
	asked    []string
}

func (m *mockApprover) RequestApproval(_ context.Context, target string) (bool, error) {
	m.asked = append(m.asked, target)
	return m.approved, m.err
}

// scriptedPrompter answers Ask and Choose calls in order.
type scriptedPrompter struct {
	answers []string
	labels  []string
	choices [][]string
}

func (p *scriptedPrompter) next(label string) (string, error) {
	p.labels = append(p.labels, label)
	if len(p.answers) == 0 {
		return "", fmt.Errorf("unexpected prompt %q", label)
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func (p *scriptedPrompter) Ask(_ context.Context, label string) (string, error) {
	return p.next(label)
}

func (p *scriptedPrompter) Choose(_ context.Context, title string, options []string) (string, error) {
	p.choices = append(p.choices, options)
	return p.next(title)
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) record(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+" "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Verbose(format string, args ...interface{}) { l.record("VERBOSE", format, args...) }
func (l *recordingLogger) Info(format string, args ...interface{})    { l.record("INFO", format, args...) }
func (l *recordingLogger) Error(format string, args ...interface{})   { l.record("ERROR", format, args...) }

func (l *recordingLogger) contains(s string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}

type mockDatabaseManager struct {
	exists    bool
	existsErr error
	createErr error
	created   []string
}

func (m *mockDatabaseManager) Exists(_ context.Context, _ pgload.DBConnection, _ string) (bool, error) {
	return m.exists, m.existsErr
}

func (m *mockDatabaseManager) Create(_ context.Context, _ pgload.DBConnection, name string) error {
	m.created = append(m.created, name)
	return m.createErr
}

var errBoom = errors.New("boom")

func boolPtr(b bool) *bool { return &b }

func salesDataset() *pgload.Dataset {
	return &pgload.Dataset{
		Columns: []string{"id", "name"},
		Rows: [][]any{
			{"1", "Ana"},
			{"2", "Bo"},
		},
	}
}
