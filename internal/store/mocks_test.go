package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MockPool implements PgPool with canned rows
type MockPool struct {
	ExecSQL  []string
	ExecArgs [][]any
	ExecErr  error

	QuerySQL  string
	QueryArgs []any
	Rows      [][]any
	QueryErr  error
}

func (m *MockPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	m.QuerySQL, m.QueryArgs = sql, args
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	return &MockRows{data: m.Rows, idx: -1}, nil
}

func (m *MockPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.QuerySQL, m.QueryArgs = sql, args
	if len(m.Rows) == 0 {
		return &MockRow{err: pgx.ErrNoRows}
	}
	return &MockRow{values: m.Rows[0]}
}

func (m *MockPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.ExecSQL = append(m.ExecSQL, sql)
	m.ExecArgs = append(m.ExecArgs, args)
	return pgconn.CommandTag{}, m.ExecErr
}

func assign(dest []any, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(values))
	}
	for i, d := range dest {
		switch v := d.(type) {
		case *string:
			*v = values[i].(string)
		case *int:
			*v = values[i].(int)
		case *float64:
			*v = values[i].(float64)
		case *[]byte:
			*v = values[i].([]byte)
		case *time.Time:
			*v = values[i].(time.Time)
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

// MockRow implements pgx.Row
type MockRow struct {
	values []any
	err    error
}

func (m *MockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	return assign(dest, m.values)
}

// MockRows implements pgx.Rows
type MockRows struct {
	data [][]any
	idx  int
}

func (m *MockRows) Close()                                       {}
func (m *MockRows) Err() error                                   { return nil }
func (m *MockRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (m *MockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (m *MockRows) Next() bool                                   { m.idx++; return m.idx < len(m.data) }
func (m *MockRows) Scan(dest ...any) error                       { return assign(dest, m.data[m.idx]) }
func (m *MockRows) Values() ([]any, error)                       { return m.data[m.idx], nil }
func (m *MockRows) RawValues() [][]byte                          { return nil }
func (m *MockRows) Conn() *pgx.Conn                              { return nil }

// MockClickHouseConn implements driver.Conn for testing
type MockClickHouseConn struct {
	driver.Conn
	Executed   []string
	Batch      *MockBatch
	PrepareErr error
}

func (m *MockClickHouseConn) Exec(ctx context.Context, query string, args ...any) error {
	m.Executed = append(m.Executed, query)
	return nil
}

func (m *MockClickHouseConn) PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error) {
	if m.PrepareErr != nil {
		return nil, m.PrepareErr
	}
	m.Batch = &MockBatch{}
	return m.Batch, nil
}

// MockBatch records appended rows
type MockBatch struct {
	driver.Batch
	Appended [][]any
	Sent     bool
	Aborted  bool
}

func (m *MockBatch) Append(v ...any) error {
	m.Appended = append(m.Appended, v)
	return nil
}

func (m *MockBatch) Send() error {
	m.Sent = true
	return nil
}

func (m *MockBatch) Abort() error {
	m.Aborted = true
	return nil
}
