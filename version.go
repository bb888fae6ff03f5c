package quack

/*
#include <duckdb.h>
*/
import "C"

import (
	"fmt"
	"strings"
)

// Version is the linked engine's version, as reported by the library
// itself.
type Version struct {
	Major      int
	Minor      int
	Patch      int
	VersionStr string
}

func (v Version) String() string {
	if v.VersionStr != "" {
		return v.VersionStr
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// AtLeast reports whether the version is at least major.minor.patch.
func (v Version) AtLeast(major, minor, patch int) bool {
	if v.Major != major {
		return v.Major > major
	}
	if v.Minor != minor {
		return v.Minor > minor
	}
	return v.Patch >= patch
}

// EngineVersion returns the version of the linked engine library. Dev
// builds report a source id like "v1.2.0-123-gabcdef", which is parsed
// for its numeric prefix.
func EngineVersion() Version {
	versionStr := goString(C.duckdb_library_version())

	var major, minor, patch int
	numeric := strings.TrimPrefix(versionStr, "v")
	if i := strings.IndexByte(numeric, '-'); i >= 0 {
		numeric = numeric[:i]
	}
	fmt.Sscanf(numeric, "%d.%d.%d", &major, &minor, &patch)

	return Version{
		Major:      major,
		Minor:      minor,
		Patch:      patch,
		VersionStr: versionStr,
	}
}
