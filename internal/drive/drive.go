package drive

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// listPageSize bounds a run to one page of listing results. This is an
// external quota limitation of the listing call, not a pipeline invariant.
const listPageSize = 100

const docMimeType = "application/vnd.google-apps.document"

// File identifies one listed document.
type File struct {
	ID   string
	Name string
}

// Lister enumerates the documents in a source folder.
type Lister interface {
	ListDocuments(ctx context.Context, folderRef string) ([]File, error)
}

// ContentSource retrieves one document's rich content.
type ContentSource interface {
	DocumentContent(ctx context.Context, id string) (*docs.Document, error)
}

// Source combines the two retrieval capabilities the build driver needs.
type Source interface {
	Lister
	ContentSource
}

// Service implements Source against the Google Drive and Docs APIs.
type Service struct {
	files *drive.Service
	docs  *docs.Service
}

// NewService builds a Service from an authenticated HTTP client.
func NewService(ctx context.Context, client *http.Client) (*Service, error) {
	filesSvc, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	docsSvc, err := docs.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create docs service: %w", err)
	}
	return &Service{files: filesSvc, docs: docsSvc}, nil
}

// ListDocuments returns the documents in the referenced folder, one page of
// at most listPageSize entries, ordered by name so runs are repeatable.
func (s *Service) ListDocuments(ctx context.Context, folderRef string) ([]File, error) {
	folderID, err := ParseFolderRef(folderRef)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("'%s' in parents and mimeType = '%s' and trashed = false", folderID, docMimeType)
	list, err := s.files.Files.List().
		Q(query).
		PageSize(listPageSize).
		OrderBy("name").
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, &ListError{FolderRef: folderRef, Message: "listing call failed", Cause: err}
	}

	files := make([]File, 0, len(list.Files))
	for _, f := range list.Files {
		if f.Id == "" || f.Name == "" {
			continue
		}
		files = append(files, File{ID: f.Id, Name: f.Name})
	}
	return files, nil
}

// DocumentContent fetches one document's structure from the Docs API.
func (s *Service) DocumentContent(ctx context.Context, id string) (*docs.Document, error) {
	doc, err := s.docs.Documents.Get(id).Context(ctx).Do()
	if err != nil {
		if apiErr, ok := err.(*googleapi.Error); ok {
			return nil, &FetchError{
				DocumentID: id,
				Message:    fmt.Sprintf("HTTP status %d", apiErr.Code),
				Cause:      err,
			}
		}
		return nil, &FetchError{DocumentID: id, Message: "content request failed", Cause: err}
	}
	return doc, nil
}

// ParseFolderRef extracts a folder id from either a bare id or a Drive
// folder URL of the form .../folders/<id>.
func ParseFolderRef(folderRef string) (string, error) {
	ref := strings.TrimSpace(folderRef)
	if ref == "" {
		return "", &ListError{FolderRef: folderRef, Message: "empty folder reference"}
	}

	if !strings.Contains(ref, "/") {
		return ref, nil
	}

	parsed, err := url.Parse(ref)
	if err != nil {
		return "", &ListError{FolderRef: folderRef, Message: "unparseable folder reference", Cause: err}
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i, seg := range segments {
		if seg == "folders" && i+1 < len(segments) && segments[i+1] != "" {
			return segments[i+1], nil
		}
	}

	if id := parsed.Query().Get("id"); id != "" {
		return id, nil
	}

	return "", &ListError{FolderRef: folderRef, Message: "no folder id in reference"}
}
