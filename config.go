package quack

/*
#include <stdlib.h>
#include <duckdb.h>
*/
import "C"

import (
	"strconv"
	"sync/atomic"
)

// AccessMode controls how a database file may be opened.
type AccessMode int

const (
	AccessModeAutomatic AccessMode = iota
	AccessModeReadOnly
	AccessModeReadWrite
)

func (m AccessMode) String() string {
	switch m {
	case AccessModeReadOnly:
		return "READ_ONLY"
	case AccessModeReadWrite:
		return "READ_WRITE"
	default:
		return "AUTOMATIC"
	}
}

// DefaultOrder is the sort order used when a query specifies none.
type DefaultOrder int

const (
	DefaultOrderAsc DefaultOrder = iota
	DefaultOrderDesc
)

func (o DefaultOrder) String() string {
	if o == DefaultOrderDesc {
		return "DESC"
	}
	return "ASC"
}

// DefaultNullOrder is the null ordering used when a query specifies none.
type DefaultNullOrder int

const (
	DefaultNullOrderFirst DefaultNullOrder = iota
	DefaultNullOrderLast
)

func (o DefaultNullOrder) String() string {
	if o == DefaultNullOrderLast {
		return "NULLS_LAST"
	}
	return "NULLS_FIRST"
}

// Config is a builder of engine settings consumed by a database open call.
// Keys and values are opaque strings validated by the engine itself; an
// unknown or invalid setting surfaces as an EngineError from Set.
//
// The zero value is ready to use. The native configuration object is
// created lazily on the first Set and destroyed by Close (or by the open
// call that consumes it).
type Config struct {
	cfg    C.duckdb_config
	closed int32
}

// NewConfig returns an empty configuration.
func NewConfig() *Config {
	return &Config{}
}

// Set records a key/value setting. The pair is passed verbatim to the
// engine's settings validator; no local validation happens here.
func (c *Config) Set(key, value string) error {
	if atomic.LoadInt32(&c.closed) != 0 {
		return ErrClosed
	}

	if c.cfg == nil {
		var cfg C.duckdb_config
		if rc := C.duckdb_create_config(&cfg); rc == C.DuckDBError {
			return engineError(rc, "failed to create config")
		}
		c.cfg = cfg
	}

	cKey := cString(key)
	defer freeString(cKey)
	cValue := cString(value)
	defer freeString(cValue)

	if rc := C.duckdb_set_config(c.cfg, cKey, cValue); rc == C.DuckDBError {
		return engineError(rc, "set "+key+":"+value+" error")
	}
	return nil
}

// SetAccessMode sets the database access mode (AUTOMATIC, READ_ONLY or
// READ_WRITE).
func (c *Config) SetAccessMode(mode AccessMode) error {
	return c.Set("access_mode", mode.String())
}

// SetDefaultOrder sets the order type used when none is specified.
func (c *Config) SetDefaultOrder(order DefaultOrder) error {
	return c.Set("default_order", order.String())
}

// SetDefaultNullOrder sets the null ordering used when none is specified.
func (c *Config) SetDefaultNullOrder(order DefaultNullOrder) error {
	return c.Set("default_null_order", order.String())
}

// SetMaxMemory sets the maximum memory of the system, e.g. "1GB".
func (c *Config) SetMaxMemory(memory string) error {
	return c.Set("max_memory", memory)
}

// SetThreads sets the total number of threads used by the engine.
func (c *Config) SetThreads(n int64) error {
	return c.Set("threads", strconv.FormatInt(n, 10))
}

// SetCustomUserAgent sets metadata identifying the caller to the engine.
func (c *Config) SetCustomUserAgent(agent string) error {
	return c.Set("custom_user_agent", agent)
}

// SetEnableExternalAccess allows the database to reach external state
// (COPY TO/FROM, CSV readers and similar).
func (c *Config) SetEnableExternalAccess(enabled bool) error {
	return c.Set("enable_external_access", strconv.FormatBool(enabled))
}

// SetEnableObjectCache controls the object cache used for e.g. Parquet
// metadata.
func (c *Config) SetEnableObjectCache(enabled bool) error {
	return c.Set("enable_object_cache", strconv.FormatBool(enabled))
}

// SetAllowUnsignedExtensions allows loading third-party extensions.
func (c *Config) SetAllowUnsignedExtensions() error {
	return c.Set("allow_unsigned_extensions", "true")
}

// SetAutoloadExtensions toggles automatic install and load of known
// extensions.
func (c *Config) SetAutoloadExtensions(enabled bool) error {
	v := "0"
	if enabled {
		v = "1"
	}
	if err := c.Set("autoinstall_known_extensions", v); err != nil {
		return err
	}
	return c.Set("autoload_known_extensions", v)
}

// Close destroys the native configuration object. Closing twice, or
// closing a Config that was never populated, is a no-op.
func (c *Config) Close() error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	if c.cfg != nil {
		C.duckdb_destroy_config(&c.cfg)
		c.cfg = nil
	}
	return nil
}

// handle returns the native configuration, which may be nil when no
// setting was ever recorded. The engine accepts a nil config.
func (c *Config) handle() C.duckdb_config {
	if c == nil {
		return nil
	}
	return c.cfg
}
