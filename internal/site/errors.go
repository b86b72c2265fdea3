// Package site drives a full build: list the source folder, extract every
// document into an article, resolve the ordering, bind both templates, and
// write the output directory.
package site

import "fmt"

// EmptyFolderError is fatal: a listing with zero documents leaves nothing
// to bind.
type EmptyFolderError struct {
	FolderRef string
}

func (e *EmptyFolderError) Error() string {
	return fmt.Sprintf("folder %q contains no documents", e.FolderRef)
}
