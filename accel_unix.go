//go:build !windows

package quack

import (
	"errors"
	"unsafe"

	"github.com/ebitengine/purego"
)

// loadDynamicLibrary opens the acceleration library through the system
// loader. RTLD_NOW resolves every symbol up front so a broken build of
// the library fails here rather than on the first call.
func loadDynamicLibrary(path string) (unsafe.Pointer, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, err
	}
	return unsafe.Pointer(handle), nil
}

// closeLibrary unloads a handle from loadDynamicLibrary. A nil handle
// is ignored.
func closeLibrary(handle unsafe.Pointer) {
	if handle != nil {
		purego.Dlclose(uintptr(handle))
	}
}

// getSymbol resolves an exported symbol to a callable address.
func getSymbol(handle unsafe.Pointer, name string) (unsafe.Pointer, error) {
	if handle == nil {
		return nil, errors.New("invalid library handle")
	}
	sym, err := purego.Dlsym(uintptr(handle), name)
	if err != nil {
		return nil, err
	}
	return unsafe.Pointer(sym), nil
}
