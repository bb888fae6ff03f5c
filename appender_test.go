package quack

import (
	"errors"
	"testing"
)

func TestAppenderRoundTrip(t *testing.T) {
	conn := openTestConnection(t)

	if _, err := conn.Exec("CREATE TABLE people (id INTEGER, name VARCHAR)"); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	app, err := conn.NewAppender("", "people")
	if err != nil {
		t.Fatalf("Failed to create appender: %v", err)
	}

	if got := app.ColumnCount(); got != 2 {
		t.Errorf("Expected 2 columns, got %d", got)
	}

	names := []string{"Alice", "Sara", "Charlie"}
	for i, name := range names {
		if err := app.AppendRow(int32(i+1), name); err != nil {
			t.Fatalf("Failed to append row %d: %v", i, err)
		}
	}
	if err := app.Save(); err != nil {
		t.Fatalf("Failed to save appender: %v", err)
	}

	res, err := conn.Query("SELECT id, name FROM people ORDER BY id")
	if err != nil {
		t.Fatalf("Failed to query: %v", err)
	}
	defer res.Close()

	count := 0
	for row, err := range res.Rows() {
		if err != nil {
			t.Fatalf("Failed to decode row: %v", err)
		}
		if got := row.Value(0).Int64(); got != int64(count+1) {
			t.Errorf("Expected id %d, got %d", count+1, got)
		}
		if got := row.Value(1).Text(); got != names[count] {
			t.Errorf("Expected name %s, got %s", names[count], got)
		}
		count++
	}
	if count != 3 {
		t.Errorf("Expected 3 rows, got %d", count)
	}

	empty, err := conn.Query("SELECT name FROM people WHERE id = 99")
	if err != nil {
		t.Fatalf("Failed to query: %v", err)
	}
	defer empty.Close()
	row, err := empty.Next()
	if err != nil || row != nil {
		t.Errorf("Expected zero rows for missing id, got %v, %v", row, err)
	}
}

func TestAppenderSaveClosesAppender(t *testing.T) {
	conn := openTestConnection(t)

	if _, err := conn.Exec("CREATE TABLE one (id INTEGER)"); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	app, err := conn.NewAppender("", "one")
	if err != nil {
		t.Fatalf("Failed to create appender: %v", err)
	}
	if err := app.AppendRow(int32(1)); err != nil {
		t.Fatalf("Failed to append: %v", err)
	}
	if err := app.Save(); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	if err := app.AppendRow(int32(2)); !errors.Is(err, ErrClosed) {
		t.Fatalf("Expected ErrClosed after save, got %v", err)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("Close after save should be a no-op, got %v", err)
	}
}

func TestAppenderFlushKeepsAppenderOpen(t *testing.T) {
	conn := openTestConnection(t)

	if _, err := conn.Exec("CREATE TABLE nums (id INTEGER)"); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	app, err := conn.NewAppender("", "nums")
	if err != nil {
		t.Fatalf("Failed to create appender: %v", err)
	}
	defer app.Close()

	if err := app.AppendRow(int32(1)); err != nil {
		t.Fatalf("Failed to append: %v", err)
	}
	if err := app.Flush(); err != nil {
		t.Fatalf("Failed to flush: %v", err)
	}

	// Flushed rows are visible while the appender stays usable.
	res, err := conn.Query("SELECT count(*) FROM nums")
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	row, err := res.Next()
	if err != nil {
		t.Fatalf("Failed to read row: %v", err)
	}
	if got := row.Value(0).Int64(); got != 1 {
		t.Errorf("Expected 1 row after flush, got %d", got)
	}
	res.Close()

	if err := app.AppendRow(int32(2)); err != nil {
		t.Fatalf("Appender should stay usable after flush: %v", err)
	}
}

func TestAppenderNulls(t *testing.T) {
	conn := openTestConnection(t)

	if _, err := conn.Exec("CREATE TABLE maybe (id INTEGER, note VARCHAR)"); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	app, err := conn.NewAppender("", "maybe")
	if err != nil {
		t.Fatalf("Failed to create appender: %v", err)
	}
	if err := app.AppendRow(int32(1), nil); err != nil {
		t.Fatalf("Failed to append null: %v", err)
	}
	if err := app.Save(); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	res, err := conn.Query("SELECT note FROM maybe")
	if err != nil {
		t.Fatalf("Failed to query: %v", err)
	}
	defer res.Close()
	row, err := res.Next()
	if err != nil {
		t.Fatalf("Failed to read row: %v", err)
	}
	if !row.Value(0).IsNull() {
		t.Error("Expected NULL note")
	}
}

func TestAppenderMissingTable(t *testing.T) {
	conn := openTestConnection(t)

	_, err := conn.NewAppender("", "no_such_table")
	if err == nil {
		t.Fatal("Expected appender creation to fail")
	}
	var engErr *EngineError
	if !errors.As(err, &engErr) {
		t.Fatalf("Expected EngineError, got %T", err)
	}
}

func TestAppenderValueRoundTrip(t *testing.T) {
	conn := openTestConnection(t)

	if err := conn.ExecBatch(
		"CREATE TABLE src (id INTEGER, name VARCHAR)",
		"INSERT INTO src VALUES (1, 'a'), (2, 'b')",
		"CREATE TABLE dst (id INTEGER, name VARCHAR)",
	); err != nil {
		t.Fatalf("Failed to set up tables: %v", err)
	}

	res, err := conn.Query("SELECT id, name FROM src ORDER BY id")
	if err != nil {
		t.Fatalf("Failed to query source: %v", err)
	}

	app, err := conn.NewAppender("", "dst")
	if err != nil {
		t.Fatalf("Failed to create appender: %v", err)
	}

	// Decoded rows append without unwrapping; RowValues ends the row.
	for row, err := range res.Rows() {
		if err != nil {
			t.Fatalf("Failed to decode row: %v", err)
		}
		if err := app.Append(row.Values()); err != nil {
			t.Fatalf("Failed to append row: %v", err)
		}
	}
	res.Close()
	if err := app.Save(); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	check, err := conn.Query("SELECT count(*) FROM dst")
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	defer check.Close()
	row, err := check.Next()
	if err != nil {
		t.Fatalf("Failed to read row: %v", err)
	}
	if got := row.Value(0).Int64(); got != 2 {
		t.Errorf("Expected 2 copied rows, got %d", got)
	}
}
