package quack

/*
#include <stdlib.h>
#include <duckdb.h>
*/
import "C"

import (
	"log"
	"runtime"
	"strings"
	"sync/atomic"
	"unsafe"
)

// InMemory is the reserved path sentinel for a transient in-memory
// database.
const InMemory = ":memory:"

// apiKey identifies this binding to the engine. It is injected into every
// configuration before the open call consumes it.
const (
	apiKey   = "duckdb_api"
	apiValue = "go"
)

// Database owns one opened native database handle, shared by reference
// count across every Connection derived from it. The native handle is
// closed exactly once, when the Database itself and all of its
// connections have been released.
type Database struct {
	db     C.duckdb_database
	refs   int64
	closed int32
}

// OpenDatabase opens a database at path, or an in-memory database when
// path is InMemory. cfg may be nil; when non-nil it is consumed: the
// apiKey setting is injected and the configuration is closed before
// OpenDatabase returns, whether or not the open succeeded.
func OpenDatabase(path string, cfg *Config) (*Database, error) {
	if strings.ContainsRune(path, 0) {
		if cfg != nil {
			cfg.Close()
		}
		return nil, ErrInvalidPath
	}

	if cfg == nil {
		cfg = NewConfig()
	}
	defer cfg.Close()
	if err := cfg.Set(apiKey, apiValue); err != nil {
		return nil, err
	}

	cPath := cString(path)
	defer freeString(cPath)

	var db C.duckdb_database
	var cErr *C.char
	if rc := C.duckdb_open_ext(cPath, &db, cfg.handle(), &cErr); rc == C.DuckDBError {
		msg := goString(cErr)
		C.duckdb_free(unsafe.Pointer(cErr))
		return nil, engineError(rc, msg)
	}

	d := &Database{db: db, refs: 1}
	runtime.SetFinalizer(d, (*Database).finalize)
	return d, nil
}

// Connect opens a new native connection against the database. Each call
// yields an independent connection holding its own reference to the
// database.
func (d *Database) Connect() (*Connection, error) {
	if atomic.LoadInt32(&d.closed) != 0 {
		return nil, ErrClosed
	}

	if !d.retain() {
		return nil, ErrClosed
	}
	var conn C.duckdb_connection
	if rc := C.duckdb_connect(d.db, &conn); rc == C.DuckDBError {
		if conn != nil {
			C.duckdb_disconnect(&conn)
		}
		d.release()
		return nil, engineError(rc, "connect error")
	}

	c := &Connection{db: d, conn: conn}
	runtime.SetFinalizer(c, (*Connection).finalize)
	return c, nil
}

// Close releases the Database's own reference. The native database stays
// open while connections derived from it are alive; the last release
// closes it. Closing twice is a no-op.
func (d *Database) Close() error {
	if !atomic.CompareAndSwapInt32(&d.closed, 0, 1) {
		return nil
	}
	runtime.SetFinalizer(d, nil)
	d.release()
	return nil
}

// retain takes a new reference. It refuses to resurrect a count that
// has already hit zero: once the last release has run, or is about to
// run, the native handle is dead and must not be handed out again.
func (d *Database) retain() bool {
	for {
		refs := atomic.LoadInt64(&d.refs)
		if refs <= 0 {
			return false
		}
		if atomic.CompareAndSwapInt64(&d.refs, refs, refs+1) {
			return true
		}
	}
}

func (d *Database) release() {
	if atomic.AddInt64(&d.refs, -1) != 0 {
		return
	}
	if d.db != nil {
		C.duckdb_close(&d.db)
		d.db = nil
	}
}

func (d *Database) finalize() {
	if atomic.LoadInt32(&d.closed) != 0 {
		return
	}
	log.Printf("quack: database finalized without Close")
	d.Close()
}
