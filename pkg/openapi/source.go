package openapi

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// SourceKind enumerates where a document is read from.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Source identifies an OpenAPI document.
type Source struct {
	kind     SourceKind
	location string
}

// Kind reports where the document lives.
func (s Source) Kind() SourceKind { return s.kind }

// Location returns the path or URL of the document.
func (s Source) Location() string { return s.location }

func (s Source) String() string {
	return string(s.kind) + ":" + s.location
}

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return Source{kind: SourceKindFile, location: filepath.Clean(path)}
}

// SourceFromFS returns a Source identifying a resource inside the loader's
// fs.FS.
func SourceFromFS(name string) Source {
	return Source{kind: SourceKindFS, location: name}
}

// SourceFromURL validates raw and returns a Source for an HTTP(S) endpoint.
func SourceFromURL(raw string) (Source, error) {
	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return Source{}, fmt.Errorf("openapi: invalid URL %q: %w", raw, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return Source{}, fmt.Errorf("openapi: unsupported URL scheme %q", parsed.Scheme)
	}
	return Source{kind: SourceKindURL, location: raw}, nil
}

// ParseSource treats http:// and https:// locations as URLs and anything else
// as a file path.
func ParseSource(location string) (Source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return Source{}, fmt.Errorf("openapi: document location is required")
	}
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return SourceFromURL(location)
	}
	return SourceFromFile(location), nil
}
