package quack

import (
	"errors"
	"math/big"
	"testing"
	"time"
)

func TestPreparedStatement(t *testing.T) {
	conn := openTestConnection(t)

	if err := conn.ExecBatch(
		"CREATE TABLE users (id INTEGER, name VARCHAR)",
		"INSERT INTO users VALUES (1, 'Alice'), (2, 'Bob'), (3, 'Carol')",
	); err != nil {
		t.Fatalf("Failed to set up table: %v", err)
	}

	stmt, err := conn.Prepare("SELECT name FROM users WHERE id = ?")
	if err != nil {
		t.Fatalf("Failed to prepare statement: %v", err)
	}
	defer stmt.Close()

	if got := stmt.ParameterCount(); got != 1 {
		t.Errorf("Expected 1 parameter, got %d", got)
	}

	if err := stmt.Bind(int32(2)); err != nil {
		t.Fatalf("Failed to bind: %v", err)
	}

	res, err := stmt.Fetch()
	if err != nil {
		t.Fatalf("Failed to fetch: %v", err)
	}
	defer res.Close()

	row, err := res.Next()
	if err != nil {
		t.Fatalf("Failed to read row: %v", err)
	}
	if got := row.Value(0).Text(); got != "Bob" {
		t.Errorf("Expected Bob, got %s", got)
	}
}

func TestStatementSingleExecution(t *testing.T) {
	conn := openTestConnection(t)

	stmt, err := conn.Prepare("SELECT 1")
	if err != nil {
		t.Fatalf("Failed to prepare statement: %v", err)
	}
	defer stmt.Close()

	res, err := stmt.Fetch()
	if err != nil {
		t.Fatalf("Failed to fetch: %v", err)
	}
	res.Close()

	if _, err := stmt.Fetch(); !errors.Is(err, ErrAlreadyExecuted) {
		t.Fatalf("Expected ErrAlreadyExecuted, got %v", err)
	}
}

func TestStatementResetResult(t *testing.T) {
	conn := openTestConnection(t)

	stmt, err := conn.Prepare("SELECT ?::INTEGER + 1")
	if err != nil {
		t.Fatalf("Failed to prepare statement: %v", err)
	}
	defer stmt.Close()

	if err := stmt.Bind(int32(41)); err != nil {
		t.Fatalf("Failed to bind: %v", err)
	}
	res, err := stmt.Fetch()
	if err != nil {
		t.Fatalf("Failed to fetch: %v", err)
	}
	res.Close()

	// ResetResult re-arms the statement for exactly one more fetch,
	// keeping the bound parameters.
	stmt.ResetResult()
	res, err = stmt.Fetch()
	if err != nil {
		t.Fatalf("Failed to fetch after reset: %v", err)
	}
	row, err := res.Next()
	if err != nil {
		t.Fatalf("Failed to read row: %v", err)
	}
	if got := row.Value(0).Int64(); got != 42 {
		t.Errorf("Expected 42, got %d", got)
	}
	res.Close()

	if _, err := stmt.Fetch(); !errors.Is(err, ErrAlreadyExecuted) {
		t.Fatalf("Expected ErrAlreadyExecuted after second fetch, got %v", err)
	}
}

func TestBindAt(t *testing.T) {
	conn := openTestConnection(t)

	stmt, err := conn.Prepare("SELECT ?::VARCHAR || ?::VARCHAR")
	if err != nil {
		t.Fatalf("Failed to prepare statement: %v", err)
	}
	defer stmt.Close()

	// Indices are 0-based, bound out of order.
	if err := stmt.BindAt(1, "world"); err != nil {
		t.Fatalf("Failed to bind second parameter: %v", err)
	}
	if err := stmt.BindAt(0, "hello "); err != nil {
		t.Fatalf("Failed to bind first parameter: %v", err)
	}

	res, err := stmt.Fetch()
	if err != nil {
		t.Fatalf("Failed to fetch: %v", err)
	}
	defer res.Close()

	row, err := res.Next()
	if err != nil {
		t.Fatalf("Failed to read row: %v", err)
	}
	if got := row.Value(0).Text(); got != "hello world" {
		t.Errorf("Expected 'hello world', got %q", got)
	}
}

func TestClearBindings(t *testing.T) {
	conn := openTestConnection(t)

	stmt, err := conn.Prepare("SELECT ?::INTEGER")
	if err != nil {
		t.Fatalf("Failed to prepare statement: %v", err)
	}
	defer stmt.Close()

	if err := stmt.Bind(int32(1)); err != nil {
		t.Fatalf("Failed to bind: %v", err)
	}
	if err := stmt.ClearBindings(); err != nil {
		t.Fatalf("Failed to clear bindings: %v", err)
	}

	// The positional cursor starts over after clearing.
	if err := stmt.Bind(int32(7)); err != nil {
		t.Fatalf("Failed to rebind: %v", err)
	}
	res, err := stmt.Fetch()
	if err != nil {
		t.Fatalf("Failed to fetch: %v", err)
	}
	defer res.Close()

	row, err := res.Next()
	if err != nil {
		t.Fatalf("Failed to read row: %v", err)
	}
	if got := row.Value(0).Int64(); got != 7 {
		t.Errorf("Expected 7, got %d", got)
	}
}

func TestBindTypes(t *testing.T) {
	conn := openTestConnection(t)

	if _, err := conn.Exec(`CREATE TABLE typed (
		b BOOLEAN, i BIGINT, u UBIGINT, f DOUBLE,
		s VARCHAR, bl BLOB, h HUGEINT, ts TIMESTAMP, n INTEGER
	)`); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	stmt, err := conn.Prepare("INSERT INTO typed VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		t.Fatalf("Failed to prepare statement: %v", err)
	}
	defer stmt.Close()

	when := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	huge := new(big.Int).Lsh(big.NewInt(1), 100)
	for _, v := range []any{
		true, int64(-9), uint64(9), 3.5,
		"text", []byte{0xde, 0xad}, huge, when, nil,
	} {
		if err := stmt.Bind(v); err != nil {
			t.Fatalf("Failed to bind %v: %v", v, err)
		}
	}

	changed, err := stmt.Exec()
	if err != nil {
		t.Fatalf("Failed to execute: %v", err)
	}
	if changed != 1 {
		t.Errorf("Expected 1 row changed, got %d", changed)
	}

	res, err := conn.Query("SELECT b, i, u, f, s, bl, h, ts, n FROM typed")
	if err != nil {
		t.Fatalf("Failed to query: %v", err)
	}
	defer res.Close()

	row, err := res.Next()
	if err != nil {
		t.Fatalf("Failed to read row: %v", err)
	}
	if !row.Value(0).Bool() {
		t.Error("Expected true boolean")
	}
	if got := row.Value(1).Int64(); got != -9 {
		t.Errorf("Expected -9, got %d", got)
	}
	if got := row.Value(2).Uint64(); got != 9 {
		t.Errorf("Expected 9, got %d", got)
	}
	if got := row.Value(3).Float64(); got != 3.5 {
		t.Errorf("Expected 3.5, got %f", got)
	}
	if got := row.Value(4).Text(); got != "text" {
		t.Errorf("Expected 'text', got %q", got)
	}
	if got := row.Value(5).Blob(); len(got) != 2 || got[0] != 0xde || got[1] != 0xad {
		t.Errorf("Blob mismatch: %x", got)
	}
	if got := row.Value(6).BigInt(); got.Cmp(huge) != 0 {
		t.Errorf("Expected %s, got %s", huge, got)
	}
	if got := row.Value(7).Time(); !got.Equal(when) {
		t.Errorf("Expected %v, got %v", when, got)
	}
	if !row.Value(8).IsNull() {
		t.Error("Expected NULL in last column")
	}
}

func TestBindRow(t *testing.T) {
	conn := openTestConnection(t)

	stmt, err := conn.Prepare("SELECT ?::INTEGER + ?::INTEGER")
	if err != nil {
		t.Fatalf("Failed to prepare statement: %v", err)
	}
	defer stmt.Close()

	if err := stmt.BindRow(RowValues{Int32Value(40), Int32Value(2)}); err != nil {
		t.Fatalf("Failed to bind row: %v", err)
	}
	res, err := stmt.Fetch()
	if err != nil {
		t.Fatalf("Failed to fetch: %v", err)
	}
	defer res.Close()

	row, err := res.Next()
	if err != nil {
		t.Fatalf("Failed to read row: %v", err)
	}
	if got := row.Value(0).Int64(); got != 42 {
		t.Errorf("Expected 42, got %d", got)
	}
}

func TestBindUnsupportedType(t *testing.T) {
	conn := openTestConnection(t)

	stmt, err := conn.Prepare("SELECT ?")
	if err != nil {
		t.Fatalf("Failed to prepare statement: %v", err)
	}
	defer stmt.Close()

	err = stmt.Bind(struct{ X int }{1})
	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("Expected ConversionError, got %v", err)
	}
}

func TestStatementClosedGuards(t *testing.T) {
	conn := openTestConnection(t)

	stmt, err := conn.Prepare("SELECT 1")
	if err != nil {
		t.Fatalf("Failed to prepare statement: %v", err)
	}
	if err := stmt.Close(); err != nil {
		t.Fatalf("Failed to close statement: %v", err)
	}
	if err := stmt.Close(); err != nil {
		t.Fatalf("Second close should be a no-op, got %v", err)
	}
	if _, err := stmt.Fetch(); !errors.Is(err, ErrClosed) {
		t.Fatalf("Expected ErrClosed from Fetch, got %v", err)
	}
	if err := stmt.Bind(int32(1)); !errors.Is(err, ErrClosed) {
		t.Fatalf("Expected ErrClosed from Bind, got %v", err)
	}
}
