package quack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// Optional acceleration library. When present it bulk-copies
// fixed-width vectors and expands validity bitmaps in native code;
// otherwise the pure-Go path in columnar.go is used. The library is
// looked up next to the executable, in the module directory, or at
// QUACK_ACCEL_LIB.

var (
	accelOnce   sync.Once
	accelLoaded bool
	accelErr    error
	accelHandle unsafe.Pointer
)

var (
	funcExtractFixed    unsafe.Pointer
	funcExpandValidity  unsafe.Pointer
	funcExtractStringTs unsafe.Pointer
)

// accelSymbols maps exported symbol names to their pointer slots.
var accelSymbols = map[string]*unsafe.Pointer{
	"quack_extract_fixed":    &funcExtractFixed,
	"quack_expand_validity":  &funcExpandValidity,
	"quack_extract_string_t": &funcExtractStringTs,
}

// AccelAvailable reports whether the acceleration library was found and
// all of its symbols resolved.
func AccelAvailable() bool {
	loadAccel()
	return accelLoaded
}

// AccelError reports why the acceleration library is unavailable, or
// nil when it loaded.
func AccelError() error {
	loadAccel()
	return accelErr
}

func loadAccel() {
	accelOnce.Do(func() {
		path := findAccelPath()
		if path == "" {
			accelErr = errors.New("acceleration library not found")
			return
		}

		handle, err := loadDynamicLibrary(path)
		if err != nil {
			accelErr = fmt.Errorf("failed to load acceleration library: %v", err)
			return
		}
		accelHandle = handle

		for name, slot := range accelSymbols {
			sym, err := getSymbol(handle, name)
			if err != nil {
				closeLibrary(accelHandle)
				accelErr = fmt.Errorf("missing symbol %s: %v", name, err)
				return
			}
			*slot = sym
		}
		accelLoaded = true
	})
}

func findAccelPath() string {
	if p := os.Getenv("QUACK_ACCEL_LIB"); p != "" {
		return p
	}

	var libName string
	switch runtime.GOOS {
	case "windows":
		libName = "quackaccel.dll"
	case "darwin":
		libName = "libquackaccel.dylib"
	case "linux":
		libName = "libquackaccel.so"
	default:
		return ""
	}

	candidates := []string{filepath.Join(".", libName)}
	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), libName))
	}
	if _, thisFile, _, ok := runtime.Caller(0); ok {
		dir := filepath.Dir(thisFile)
		candidates = append(candidates,
			filepath.Join(dir, libName),
			filepath.Join(dir, "lib", runtime.GOOS, runtime.GOARCH, libName))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// accelExtractFixed copies count elements of elemSize bytes from data
// into out and expands the validity bitmap into nulls (true marks a
// NULL row).
func accelExtractFixed(data, validity, out, nulls unsafe.Pointer, elemSize, count uintptr) bool {
	if !accelLoaded || funcExtractFixed == nil {
		return false
	}
	purego.SyscallN(uintptr(funcExtractFixed),
		uintptr(data),
		uintptr(validity),
		uintptr(out),
		uintptr(nulls),
		elemSize,
		count)
	return true
}

// accelExpandValidity expands a packed validity bitmap into a bool
// array of count entries, true marking a NULL row.
func accelExpandValidity(validity, nulls unsafe.Pointer, count uintptr) bool {
	if !accelLoaded || funcExpandValidity == nil {
		return false
	}
	purego.SyscallN(uintptr(funcExpandValidity),
		uintptr(validity),
		uintptr(nulls),
		count)
	return true
}

// accelExtractStringTs resolves count duckdb_string_t entries into
// payload pointers and lengths without copying the payloads.
func accelExtractStringTs(data, validity, outPtrs, outLens, nulls unsafe.Pointer, count uintptr) bool {
	if !accelLoaded || funcExtractStringTs == nil {
		return false
	}
	purego.SyscallN(uintptr(funcExtractStringTs),
		uintptr(data),
		uintptr(validity),
		uintptr(outPtrs),
		uintptr(outLens),
		uintptr(nulls),
		count)
	return true
}
