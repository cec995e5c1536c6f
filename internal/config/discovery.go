package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
)

// File names searched for, in order of preference.
var (
	FileNames       = []string{".voila.yml", ".voila.yaml"}
	LegacyFileNames = []string{"voila.yml", "voila.yaml"}
)

// ErrNotFound is returned when no configuration file is found.
var ErrNotFound = errors.New("no voila configuration file found")

// Location is the outcome of a configuration lookup.
type Location struct {
	Path string
	// Warning is set when the file was found under a legacy name or when
	// more than one candidate existed in the same directory.
	Warning string
}

// Locate walks up from start looking for a configuration file. The search
// stops at the root of the enclosing git worktree when there is one, and at
// the filesystem root otherwise.
func Locate(start string) (Location, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return Location{}, fmt.Errorf("resolve start directory: %w", err)
	}

	boundary := worktreeRoot(dir)

	for {
		loc, found, err := lookIn(dir)
		if err != nil {
			return Location{}, err
		}
		if found {
			return loc, nil
		}

		parent := filepath.Dir(dir)
		if dir == boundary || parent == dir {
			return Location{}, fmt.Errorf("%w in %s or its parents", ErrNotFound, start)
		}
		dir = parent
	}
}

func lookIn(dir string) (Location, bool, error) {
	var matches []string
	for _, name := range FileNames {
		ok, err := isFile(filepath.Join(dir, name))
		if err != nil {
			return Location{}, false, err
		}
		if ok {
			matches = append(matches, filepath.Join(dir, name))
		}
	}

	if len(matches) > 0 {
		loc := Location{Path: matches[0]}
		if len(matches) > 1 {
			loc.Warning = fmt.Sprintf("Found both %s and %s, using %s.", filepath.Base(matches[0]), filepath.Base(matches[1]), filepath.Base(matches[0]))
		}
		return loc, true, nil
	}

	for _, name := range LegacyFileNames {
		path := filepath.Join(dir, name)
		ok, err := isFile(path)
		if err != nil {
			return Location{}, false, err
		}
		if ok {
			return Location{
				Path:    path,
				Warning: fmt.Sprintf("%s is deprecated, rename it to %s.", name, FileNames[0]),
			}, true, nil
		}
	}

	return Location{}, false, nil
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return !info.IsDir(), nil
}

// worktreeRoot returns the root of the git worktree containing dir, or ""
// when dir is not inside one.
func worktreeRoot(dir string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	wt, err := repo.Worktree()
	if err != nil {
		return ""
	}
	root, err := filepath.Abs(wt.Filesystem.Root())
	if err != nil {
		return ""
	}
	return root
}
