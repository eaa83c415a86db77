// Package loader extracts plain text from uploaded document files so the
// extraction pipeline can run over them.
package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// supported extensions; anything else is rejected at upload time.
var supported = map[string]struct{}{
	".pdf":  {},
	".docx": {},
	".txt":  {},
	".md":   {},
}

// Supported reports whether fileName has a file type the pipeline can
// process.
func Supported(fileName string) bool {
	_, ok := supported[strings.ToLower(filepath.Ext(fileName))]
	return ok
}

// Extract returns the plain text of a document, dispatching on the file
// extension. Content is the raw file as fetched from object storage.
func Extract(ctx context.Context, fileName string, content []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		text, err := parsePDF(ctx, content)
		if err != nil {
			return "", fmt.Errorf("failed to parse PDF %s: %w", fileName, err)
		}
		return text, nil
	case ".docx":
		text, err := parseDocx(content)
		if err != nil {
			return "", fmt.Errorf("failed to parse docx %s: %w", fileName, err)
		}
		return text, nil
	case ".txt", ".md":
		if !utf8.Valid(content) {
			return "", fmt.Errorf("file %s is not valid UTF-8 text", fileName)
		}
		return string(content), nil
	default:
		return "", fmt.Errorf("unsupported file type %q", filepath.Ext(fileName))
	}
}
