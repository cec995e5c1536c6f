// Package paths holds host path helpers shared by stack selection and exec.
package paths

import (
	"path"
	"path/filepath"
	"strings"
)

// Resolve returns p as an absolute, cleaned path, interpreting relative
// paths against base.
func Resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// Contains reports whether target is parent or lies below it. Both paths
// must be absolute.
func Contains(parent, target string) bool {
	rel, err := filepath.Rel(filepath.Clean(parent), filepath.Clean(target))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// ContainerPath maps target, a host path inside hostDir, to the matching
// path under containerDir.
func ContainerPath(hostDir, containerDir, target string) (string, bool) {
	if !Contains(hostDir, target) {
		return "", false
	}
	rel, err := filepath.Rel(filepath.Clean(hostDir), filepath.Clean(target))
	if err != nil {
		return "", false
	}
	return path.Join(containerDir, filepath.ToSlash(rel)), true
}
