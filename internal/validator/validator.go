// Package validator checks that an input location can be processed.
//
// Checks run in a fixed order and stop at the first failure:
//
//  1. the location exists
//  2. it is a directory
//  3. it can be opened and listed
//  4. it holds at least MinFiles direct-child regular files
//  5. every direct-child regular file can be opened for reading
//
// Only direct children are ever inspected. Files inside subdirectories do
// not count toward rule 4 and are never opened. Validation never modifies
// the filesystem.
package validator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/harrison/filestat/internal/fileutil"
)

// MinFiles is the minimum number of direct-child files required.
const MinFiles = 1

// maxListedDirs caps how many subfolder names are quoted in a rule 4 failure.
const maxListedDirs = 5

// Observer receives progress from Validate. A nil Observer is allowed.
type Observer interface {
	// CheckPassed is called once per successful check, in order.
	CheckPassed(description string)
	// Note reports extra detail that does not affect the outcome.
	Note(message string)
}

type nopObserver struct{}

func (nopObserver) CheckPassed(string) {}
func (nopObserver) Note(string)        {}

// Validate runs all checks against path. On success it returns the
// directory listing the checks were made against. On failure the error
// is always a *ValidationError.
func Validate(path string, obs Observer) (*fileutil.Listing, error) {
	if obs == nil {
		obs = nopObserver{}
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	// Rule 1: exists
	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			verr := newError(KindNotFound, absPath, "Input folder not found: %s", absPath)
			verr.Cause = err
			return nil, verr
		}
		verr := newError(KindUnreadable, absPath, "Cannot read folder: %s", absPath)
		verr.Cause = err
		return nil, verr
	}
	obs.CheckPassed("Input folder exists")

	// Rule 2: is a directory
	if !info.IsDir() {
		return nil, newError(KindNotDirectory, absPath, "Path is not a directory: %s", absPath)
	}
	obs.CheckPassed("Path is a directory")

	// Rule 3: readable
	if err := fileutil.CanList(absPath); err != nil {
		verr := newError(KindUnreadable, absPath, "Cannot read folder: %s", absPath)
		verr.Cause = err
		return nil, verr
	}
	listing, err := fileutil.ListDir(absPath)
	if err != nil {
		verr := newError(KindUnreadable, absPath, "Cannot read folder: %s", absPath)
		verr.Cause = err
		return nil, verr
	}
	obs.CheckPassed("Folder is readable")

	// Rule 4: enough direct-child files
	if len(listing.Files) < MinFiles {
		obs.Note(fmt.Sprintf("Contents of input folder: [%s]", strings.Join(entryNames(listing), ", ")))
		return nil, noFilesError(listing)
	}
	obs.CheckPassed(fmt.Sprintf("Found %d file(s)", len(listing.Files)))
	if len(listing.Dirs) > 0 {
		obs.Note(fmt.Sprintf("  ℹ Also found %d subfolder(s) (will be ignored)", len(listing.Dirs)))
	}

	// Rule 5: every file readable
	var unreadable []string
	var causes *multierror.Error
	for _, f := range listing.Files {
		if err := fileutil.CanRead(f.Path); err != nil {
			unreadable = append(unreadable, f.Name)
			causes = multierror.Append(causes, err)
		}
	}
	if len(unreadable) > 0 {
		verr := newError(KindUnreadableFiles, absPath, "Cannot read files: %s", strings.Join(unreadable, ", "))
		verr.Cause = causes.ErrorOrNil()
		return nil, verr
	}
	obs.CheckPassed("All files are readable")

	return listing, nil
}

func noFilesError(listing *fileutil.Listing) *ValidationError {
	lines := []string{
		fmt.Sprintf("Input folder must contain at least %d file(s).", MinFiles),
		fmt.Sprintf("Found: %d file(s)", len(listing.Files)),
	}

	verr := &ValidationError{Kind: KindNoFiles, Path: listing.Dir}

	switch {
	case len(listing.Dirs) > 0:
		names := listing.DirNames()
		if len(names) > maxListedDirs {
			more := len(names) - maxListedDirs
			names = append(names[:maxListedDirs:maxListedDirs], fmt.Sprintf("... and %d more", more))
		}
		lines = append(lines,
			fmt.Sprintf("Found %d subfolder(s): %s", len(listing.Dirs), strings.Join(names, ", ")),
			"",
			"Note: Only files in the root input folder are processed.",
			"Files inside subfolders are NOT processed.",
		)
		verr.Suggestion = fmt.Sprintf(
			"Move files from subfolders to the input folder root,\nor run filestat directly on the subfolder: filestat -i \"%s\"",
			listing.Dirs[0].Path,
		)
	case listing.Total() == 0:
		lines = append(lines, "The folder is completely empty.")
	}

	verr.Message = strings.Join(lines, "\n")
	return verr
}

func entryNames(listing *fileutil.Listing) []string {
	names := make([]string, 0, len(listing.Files)+len(listing.Dirs))
	names = append(names, listing.FileNames()...)
	names = append(names, listing.DirNames()...)
	return names
}
