// Package drive retrieves the source documents behind narrow interfaces:
// a folder listing and per-document content fetch, backed by the Google
// Drive and Google Docs APIs.
package drive

import "fmt"

// ListError represents a failure to enumerate the source folder, either
// because the folder reference is unparseable or the remote call failed.
type ListError struct {
	FolderRef string
	Message   string
	Cause     error
}

func (e *ListError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("list error for folder %q: %s: %v", e.FolderRef, e.Message, e.Cause)
	}
	return fmt.Sprintf("list error for folder %q: %s", e.FolderRef, e.Message)
}

func (e *ListError) Unwrap() error {
	return e.Cause
}

// FetchError represents a failed retrieval of one document's content. The
// driver drops that one article and continues.
type FetchError struct {
	DocumentID string
	Message    string
	Cause      error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for document %s: %s: %v", e.DocumentID, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for document %s: %s", e.DocumentID, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}
