package quack

/*
#include <stdlib.h>
#include <duckdb.h>
*/
import "C"

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyExecuted is returned when Fetch is called on a statement
	// whose single execution has already happened.
	ErrAlreadyExecuted = errors.New("quack: statement already executed")

	// ErrInvalidPath is returned for database paths that cannot be handed
	// to the engine, such as paths containing NUL bytes.
	ErrInvalidPath = errors.New("quack: invalid database path")

	// ErrClosed is returned when an operation is attempted on a handle
	// that has already been closed or consumed.
	ErrClosed = errors.New("quack: handle is closed")
)

// EngineError reports a failed native engine call. Message always carries
// the engine's own error text when the engine produced one.
type EngineError struct {
	Code    int
	Message string
}

func (e *EngineError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("quack: engine error (code %d)", e.Code)
	}
	return fmt.Sprintf("quack: %s", e.Message)
}

// ConversionError reports a decode or encode failure: invalid UTF-8,
// impossible calendar values, unsupported column types.
type ConversionError struct {
	Reason string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("quack: conversion failed: %s", e.Reason)
}

func conversionErrorf(format string, args ...any) *ConversionError {
	return &ConversionError{Reason: fmt.Sprintf(format, args...)}
}

// ColumnIndexError reports access to a column index outside the result's
// resolved column set, or a column whose name could not be resolved.
type ColumnIndexError struct {
	Index int
}

func (e *ColumnIndexError) Error() string {
	return fmt.Sprintf("quack: invalid column index %d", e.Index)
}

// PrecisionLossError reports a value that cannot be represented without
// loss, such as a decimal scale beyond what the engine stores.
type PrecisionLossError struct {
	Reason string
}

func (e *PrecisionLossError) Error() string {
	return fmt.Sprintf("quack: precision loss: %s", e.Reason)
}

func engineError(code C.duckdb_state, message string) *EngineError {
	return &EngineError{Code: int(code), Message: message}
}

// resultError extracts the engine message from a failed result, destroys
// the result, and reports the failure. The result must not be used after.
func resultError(code C.duckdb_state, res *C.duckdb_result) error {
	msg := goString(C.duckdb_result_error(res))
	C.duckdb_destroy_result(res)
	return engineError(code, msg)
}

// prepareError extracts the engine message from a failed prepare, destroys
// the prepared statement, and reports the failure.
func prepareError(code C.duckdb_state, stmt *C.duckdb_prepared_statement) error {
	if *stmt == nil {
		return engineError(code, "prepared statement is null")
	}
	msg := goString(C.duckdb_prepare_error(*stmt))
	C.duckdb_destroy_prepare(stmt)
	return engineError(code, msg)
}

// appenderError extracts the engine message from a failed appender call,
// destroys the appender, and reports the failure. Appenders are not
// reusable after a failed operation.
func appenderError(code C.duckdb_state, app *C.duckdb_appender) error {
	if *app == nil {
		return engineError(code, "appender is null")
	}
	msg := goString(C.duckdb_appender_error(*app))
	C.duckdb_appender_destroy(app)
	return engineError(code, msg)
}
