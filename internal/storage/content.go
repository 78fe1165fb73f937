package storage

import (
	"fmt"
	"path"
)

// Content types accepted for spectra, line catalogs and TSV artifacts.
const (
	ContentTypeText   = "text/plain"
	ContentTypeTSV    = "text/tab-separated-values"
	ContentTypeBinary = "application/octet-stream"
)

var validContentTypes = map[string]bool{
	ContentTypeText:   true,
	ContentTypeTSV:    true,
	ContentTypeBinary: true,
}

// ValidateContentType validates that the content type is supported
func ValidateContentType(contentType string) error {
	if !validContentTypes[contentType] {
		return fmt.Errorf("invalid content type: %s. Supported types: %s, %s, %s",
			contentType, ContentTypeText, ContentTypeTSV, ContentTypeBinary)
	}
	return nil
}

// InputKey is the object key of an uploaded analysis input.
func InputKey(analysisID, inputID, kind string) string {
	return path.Join("analyses", analysisID, "inputs", kind+"-"+inputID)
}

// ArtifactKey is the object key of a generated artifact file.
func ArtifactKey(analysisID, name string) string {
	return path.Join("analyses", analysisID, "results", name)
}

// New returns the ObjectStore for backend ("s3" or "minio").
func New(backend string, cfg S3Config) (ObjectStore, error) {
	switch backend {
	case "", "s3":
		return NewS3Store(cfg)
	case "minio":
		store, err := NewMinioStore(cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
