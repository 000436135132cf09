package services

import (
	"mime"
	"path/filepath"
)

const defaultContentType = "application/octet-stream"

// contentTypeFor derives the Content-Type from the entry's declared name,
// not from the stored bytes.
func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return defaultContentType
}
