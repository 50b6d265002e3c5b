package fileutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Entry describes a direct child of a scanned directory
type Entry struct {
	// Name is the base name of the entry
	Name string
	// Path is the absolute path of the entry
	Path string
}

// Listing contains the direct children of a directory, split by kind
type Listing struct {
	// Dir is the absolute path of the listed directory
	Dir string
	// Files contains regular files, sorted by name
	Files []Entry
	// Dirs contains subdirectories, sorted by name
	Dirs []Entry
	// Other counts entries that are neither regular files nor directories
	Other int
	// Errors contains entries whose type could not be resolved
	Errors []error
}

// Total returns the number of entries seen, regardless of kind
func (l *Listing) Total() int {
	return len(l.Files) + len(l.Dirs) + l.Other + len(l.Errors)
}

// FileNames returns the names of all regular files in order
func (l *Listing) FileNames() []string {
	names := make([]string, len(l.Files))
	for i, f := range l.Files {
		names[i] = f.Name
	}
	return names
}

// DirNames returns the names of all subdirectories in order
func (l *Listing) DirNames() []string {
	names := make([]string, len(l.Dirs))
	for i, d := range l.Dirs {
		names[i] = d.Name
	}
	return names
}

// ListDir reads the direct children of dir without descending into
// subdirectories. Symlinks are followed to decide whether an entry is a
// regular file or a directory; broken links are collected in Errors.
func ListDir(dir string) (*Listing, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", dir, err)
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	result := &Listing{
		Dir:    absDir,
		Files:  make([]Entry, 0, len(entries)),
		Dirs:   make([]Entry, 0),
		Errors: make([]error, 0),
	}

	for _, d := range entries {
		path := filepath.Join(absDir, d.Name())
		mode := d.Type()

		if mode&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
				continue
			}
			mode = info.Mode().Type()
		}

		entry := Entry{Name: d.Name(), Path: path}
		switch {
		case mode.IsRegular():
			result.Files = append(result.Files, entry)
		case mode.IsDir():
			result.Dirs = append(result.Dirs, entry)
		default:
			result.Other++
		}
	}

	// os.ReadDir already sorts by name; keep the guarantee explicit
	sort.Slice(result.Files, func(i, j int) bool { return result.Files[i].Name < result.Files[j].Name })
	sort.Slice(result.Dirs, func(i, j int) bool { return result.Dirs[i].Name < result.Dirs[j].Name })

	return result, nil
}

// CanRead reports whether path can be opened for reading by the current
// process. It returns the open error when it cannot.
func CanRead(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}

// CanList reports whether dir can be opened and its entries enumerated.
func CanList(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.ReadDir(1); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
