package quack

/*
#include <stdlib.h>
#include <duckdb.h>
*/
import "C"

import (
	"log"
	"runtime"
	"sync"
	"sync/atomic"
)

// Connection is a single session against a Database. A Connection keeps
// its Database alive through the reference count, so closing the
// Database first is safe. Connections are not safe for concurrent use;
// open one per goroutine or clone.
type Connection struct {
	db     *Database
	conn   C.duckdb_connection
	mu     sync.Mutex
	closed int32
}

// Open opens a database at path with default configuration and returns a
// connection to it. The returned connection is the sole owner of the
// database reference; closing it closes the database.
func Open(path string) (*Connection, error) {
	return openWith(path, nil)
}

// OpenInMemory opens a transient in-memory database and returns a
// connection to it.
func OpenInMemory() (*Connection, error) {
	return openWith(InMemory, nil)
}

// OpenWithConfig opens a database at path using cfg and returns a
// connection to it. cfg is consumed.
func OpenWithConfig(path string, cfg *Config) (*Connection, error) {
	return openWith(path, cfg)
}

func openWith(path string, cfg *Config) (*Connection, error) {
	db, err := OpenDatabase(path, cfg)
	if err != nil {
		return nil, err
	}
	conn, err := db.Connect()
	if err != nil {
		db.Close()
		return nil, err
	}
	// The connection's reference keeps the database open.
	db.Close()
	return conn, nil
}

// TryClone opens a new native connection against the same database. The
// clone is fully independent: it has its own session state and may be
// used and closed separately.
func (c *Connection) TryClone() (*Connection, error) {
	if atomic.LoadInt32(&c.closed) != 0 {
		return nil, ErrClosed
	}
	return c.db.Connect()
}

// Clone is TryClone for callers that treat failure as fatal.
func (c *Connection) Clone() *Connection {
	clone, err := c.TryClone()
	if err != nil {
		panic(err)
	}
	return clone
}

// Prepare compiles sql into a prepared statement bound to this
// connection.
func (c *Connection) Prepare(sql string) (*Statement, error) {
	if atomic.LoadInt32(&c.closed) != 0 {
		return nil, ErrClosed
	}

	cSQL := cString(sql)
	defer freeString(cSQL)

	c.mu.Lock()
	defer c.mu.Unlock()

	var stmt C.duckdb_prepared_statement
	if rc := C.duckdb_prepare(c.conn, cSQL, &stmt); rc == C.DuckDBError {
		return nil, prepareError(rc, &stmt)
	}

	s := &Statement{conn: c, stmt: stmt}
	runtime.SetFinalizer(s, (*Statement).finalize)
	return s, nil
}

// Query runs sql directly and returns its result.
func (c *Connection) Query(sql string) (*Result, error) {
	if atomic.LoadInt32(&c.closed) != 0 {
		return nil, ErrClosed
	}

	cSQL := cString(sql)
	defer freeString(cSQL)

	c.mu.Lock()
	defer c.mu.Unlock()

	var res C.duckdb_result
	if rc := C.duckdb_query(c.conn, cSQL, &res); rc == C.DuckDBError {
		return nil, resultError(rc, &res)
	}
	return newResult(res)
}

// Exec runs sql and discards the result, returning the number of rows
// changed.
func (c *Connection) Exec(sql string) (uint64, error) {
	res, err := c.Query(sql)
	if err != nil {
		return 0, err
	}
	defer res.Close()
	return res.Changes(), nil
}

// ExecBatch runs each statement in order, stopping at the first error.
func (c *Connection) ExecBatch(stmts ...string) error {
	for _, sql := range stmts {
		if _, err := c.Exec(sql); err != nil {
			return err
		}
	}
	return nil
}

// NewAppender creates an appender for the named table in the given
// schema. An empty schema targets the default schema.
func (c *Connection) NewAppender(schema, table string) (*Appender, error) {
	if atomic.LoadInt32(&c.closed) != 0 {
		return nil, ErrClosed
	}

	var cSchema *C.char
	if schema != "" {
		cSchema = cString(schema)
		defer freeString(cSchema)
	}
	cTable := cString(table)
	defer freeString(cTable)

	c.mu.Lock()
	defer c.mu.Unlock()

	var app C.duckdb_appender
	if rc := C.duckdb_appender_create(c.conn, cSchema, cTable, &app); rc == C.DuckDBError {
		return nil, appenderError(rc, &app)
	}

	a := &Appender{conn: c, app: app}
	runtime.SetFinalizer(a, (*Appender).finalize)
	return a, nil
}

// Close disconnects the connection and drops its database reference.
// Closing twice is a no-op. Statements and appenders created from the
// connection must be closed first.
func (c *Connection) Close() error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	runtime.SetFinalizer(c, nil)

	c.mu.Lock()
	if c.conn != nil {
		C.duckdb_disconnect(&c.conn)
		c.conn = nil
	}
	c.mu.Unlock()

	c.db.release()
	return nil
}

func (c *Connection) finalize() {
	if atomic.LoadInt32(&c.closed) != 0 {
		return
	}
	log.Printf("quack: connection finalized without Close")
	c.Close()
}
