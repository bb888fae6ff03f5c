/*
Package quack is a low-level Go access layer over the DuckDB C API.

# Overview

The package exposes the engine's native handle graph directly: a
Database opens a storage location, Connections run SQL against it,
Statements bind parameters and execute once per arming, Appenders bulk
load tables, and Results decode columnar chunks into fully owned Go
values. Every handle has an explicit Close; finalizers only log leaks.

# Example

	package main

	import (
		"fmt"
		"log"

		"github.com/quackdb/quack"
	)

	func main() {
		conn, err := quack.OpenInMemory()
		if err != nil {
			log.Fatalf("open: %v", err)
		}
		defer conn.Close()

		if err := conn.ExecBatch(
			`CREATE TABLE users (id INTEGER, name VARCHAR, age INTEGER)`,
			`INSERT INTO users VALUES (1, 'Alice', 30), (2, 'Bob', 25)`,
		); err != nil {
			log.Fatalf("setup: %v", err)
		}

		stmt, err := conn.Prepare(`SELECT name, age FROM users WHERE age > ?`)
		if err != nil {
			log.Fatalf("prepare: %v", err)
		}
		defer stmt.Close()

		if err := stmt.Bind(int32(20)); err != nil {
			log.Fatalf("bind: %v", err)
		}
		res, err := stmt.Fetch()
		if err != nil {
			log.Fatalf("fetch: %v", err)
		}
		defer res.Close()

		for row, err := range res.Rows() {
			if err != nil {
				log.Fatalf("decode: %v", err)
			}
			fmt.Printf("%s is %d\n", row.MustGet("name").Text(), row.MustGet("age").Int64())
		}
	}

# Ownership

A Database stays open while any Connection derived from it is alive;
the convenience Open constructors hand the database's sole reference to
the returned connection. Decoded rows and columnar extractions copy out
of engine memory, so they remain valid after their Result is closed.

# Columnar extraction

For analytical scans, whole columns can be pulled out of a Result at
once with Int32Column, Float64Column, StringColumn and friends. When
the optional acceleration library is present (see AccelAvailable) the
fixed-width paths bulk copy in native code.
*/
package quack
