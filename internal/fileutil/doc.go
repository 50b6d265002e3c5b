// Package fileutil lists the direct children of an input directory.
//
// Listings are deliberately shallow: subdirectories are reported by name so
// callers can explain what was skipped, but their contents are never read.
// Files and directories are returned sorted by name so that every consumer
// sees the same deterministic order regardless of the order the operating
// system returns entries in.
//
// Symlinks are resolved with os.Stat. A link to a regular file counts as a
// file, a link to a directory counts as a directory, and a dangling link is
// recorded in Listing.Errors instead of failing the whole listing.
//
// Example:
//
//	listing, err := fileutil.ListDir("input")
//	if err != nil {
//	    return err
//	}
//	for _, f := range listing.Files {
//	    fmt.Println(f.Name)
//	}
package fileutil
