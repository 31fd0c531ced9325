// Package corpus discovers ingestible files under a local directory.
package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"docrag/internal/document"
)

var extensionTypes = map[string]document.DocType{
	".pdf":      document.DocTypePDF,
	".txt":      document.DocTypeText,
	".text":     document.DocTypeText,
	".html":     document.DocTypeHTML,
	".htm":      document.DocTypeHTML,
	".md":       document.DocTypeMarkdown,
	".markdown": document.DocTypeMarkdown,
}

// ScannedFile represents an ingestible file found during a scan.
type ScannedFile struct {
	RelPath string // Relative path from the scan root, forward slashes (e.g., "reports/q1.pdf")
	AbsPath string
	DocType document.DocType
}

// DocTypeForPath infers the document type from a file extension.
func DocTypeForPath(path string) (document.DocType, bool) {
	t, ok := extensionTypes[strings.ToLower(filepath.Ext(path))]
	return t, ok
}

// Scan walks root and returns every file with a known extension in lexical
// order. Hidden files and directories (leading dot) are skipped.
func Scan(ctx context.Context, root string) ([]ScannedFile, error) {
	var files []ScannedFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		hidden := path != root && strings.HasPrefix(d.Name(), ".")
		if d.IsDir() {
			if hidden {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden || !d.Type().IsRegular() {
			return nil
		}

		docType, ok := DocTypeForPath(path)
		if !ok {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		relPath = filepath.ToSlash(relPath)

		absPath, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", path, err)
		}

		files = append(files, ScannedFile{
			RelPath: relPath,
			AbsPath: absPath,
			DocType: docType,
		})
		return nil
	})
	if err != nil {
		return files, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	return files, nil
}
