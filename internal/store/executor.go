package store

import (
	"context"
	"database/sql"
	"math"
	"strings"
	"time"
)

type ColumnKind string

const (
	KindNumber ColumnKind = "number"
	KindText   ColumnKind = "text"
	KindTime   ColumnKind = "time"
	KindBool   ColumnKind = "bool"
)

type Column struct {
	Name         string
	DatabaseType string
	Kind         ColumnKind
}

type Result struct {
	Columns  []Column
	Rows     [][]any
	Duration time.Duration
}

// ExecutionError carries the engine's error text verbatim. That text is the
// feedback the next synthesis attempt consumes, so nothing is added or
// normalized here.
type ExecutionError struct {
	Message string
}

func (e *ExecutionError) Error() string {
	return e.Message
}

// Engine runs candidate queries against the relational store. Each call takes
// a fresh pooled connection and a read-only transaction that is rolled back
// on every exit path, so one failed attempt cannot leave transaction state
// behind for the next.
type Engine struct {
	db *sql.DB
}

func NewEngine(db *sql.DB) *Engine {
	return &Engine{db: db}
}

func (e *Engine) Execute(ctx context.Context, sqlText string) (Result, error) {
	sqlText = stripTrailingSemicolons(sqlText)
	if sqlText == "" {
		return Result{}, &ExecutionError{Message: "sql is required"}
	}
	if !isReadOnlySQL(sqlText) {
		return Result{}, &ExecutionError{Message: "only read-only SELECT or WITH queries are allowed"}
	}

	start := time.Now()

	conn, err := e.db.Conn(ctx)
	if err != nil {
		return Result{}, &ExecutionError{Message: err.Error()}
	}
	defer func() { _ = conn.Close() }()

	tx, err := conn.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return Result{}, &ExecutionError{Message: err.Error()}
	}
	// Read intent only: the transaction is rolled back even on success.
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, sqlText)
	if err != nil {
		_ = tx.Rollback()
		return Result{}, &ExecutionError{Message: err.Error()}
	}
	defer func() { _ = rows.Close() }()

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return Result{}, &ExecutionError{Message: err.Error()}
	}
	columns := make([]Column, 0, len(columnTypes))
	for _, ct := range columnTypes {
		columns = append(columns, Column{
			Name:         ct.Name(),
			DatabaseType: ct.DatabaseTypeName(),
			Kind:         kindForDatabaseType(ct.DatabaseTypeName()),
		})
	}

	resultRows := make([][]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return Result{}, &ExecutionError{Message: err.Error()}
		}
		resultRows = append(resultRows, sanitizeValues(values))
	}
	if err := rows.Err(); err != nil {
		return Result{}, &ExecutionError{Message: err.Error()}
	}

	return Result{
		Columns:  columns,
		Rows:     resultRows,
		Duration: time.Since(start),
	}, nil
}

// sanitizeValues replaces values the JSON and charting layers cannot
// represent: byte slices become strings, non-finite floats become NULL.
func sanitizeValues(values []any) []any {
	sanitized := make([]any, len(values))
	for i, value := range values {
		switch typed := value.(type) {
		case []byte:
			sanitized[i] = string(typed)
		case float64:
			if math.IsNaN(typed) || math.IsInf(typed, 0) {
				sanitized[i] = nil
			} else {
				sanitized[i] = typed
			}
		case float32:
			f := float64(typed)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				sanitized[i] = nil
			} else {
				sanitized[i] = typed
			}
		default:
			sanitized[i] = typed
		}
	}
	return sanitized
}

func kindForDatabaseType(dbType string) ColumnKind {
	upper := strings.ToUpper(dbType)
	switch upper {
	case "INT2", "INT4", "INT8", "SMALLINT", "INT", "INTEGER", "BIGINT",
		"FLOAT4", "FLOAT8", "REAL", "DOUBLE", "DOUBLE PRECISION",
		"NUMERIC", "DECIMAL", "MONEY":
		return KindNumber
	case "BOOL", "BOOLEAN":
		return KindBool
	}
	if strings.Contains(upper, "TIMESTAMP") || strings.Contains(upper, "DATE") || strings.Contains(upper, "TIME") {
		return KindTime
	}
	// Everything else behaves as a categorical label downstream.
	return KindText
}

func isReadOnlySQL(sqlText string) bool {
	normalized := strings.ToLower(strings.TrimSpace(sqlText))
	return strings.HasPrefix(normalized, "select") || strings.HasPrefix(normalized, "with")
}

func stripTrailingSemicolons(sqlText string) string {
	trimmed := strings.TrimSpace(sqlText)
	for strings.HasSuffix(trimmed, ";") {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, ";"))
	}
	return trimmed
}
