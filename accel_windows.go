//go:build windows

package quack

import (
	"errors"
	"syscall"
	"unsafe"
)

// loadDynamicLibrary opens the acceleration library. The HMODULE is
// smuggled through an unsafe.Pointer so the loader state in accel.go
// stays platform-neutral.
func loadDynamicLibrary(path string) (unsafe.Pointer, error) {
	handle, err := syscall.LoadLibrary(path)
	if err != nil {
		return nil, err
	}
	return unsafe.Pointer(uintptr(handle)), nil
}

// closeLibrary unloads a handle from loadDynamicLibrary. A nil handle
// is ignored.
func closeLibrary(handle unsafe.Pointer) {
	if handle != nil {
		syscall.FreeLibrary(syscall.Handle(uintptr(handle)))
	}
}

// getSymbol resolves an exported symbol to a callable address.
func getSymbol(handle unsafe.Pointer, name string) (unsafe.Pointer, error) {
	if handle == nil {
		return nil, errors.New("invalid library handle")
	}
	proc, err := syscall.GetProcAddress(syscall.Handle(uintptr(handle)), name)
	if err != nil {
		return nil, err
	}
	return unsafe.Pointer(proc), nil
}
