package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DocumentKind is the decoder a resume file needs
type DocumentKind int

const (
	KindUnsupported DocumentKind = iota
	KindText
	KindPDF
	KindDOCX
	// KindDOC is a legacy extension; most such uploads are OOXML anyway
	KindDOC
)

var documentKinds = map[string]DocumentKind{
	".txt":      KindText,
	".text":     KindText,
	".md":       KindText,
	".markdown": KindText,
	".pdf":      KindPDF,
	".docx":     KindDOCX,
	".doc":      KindDOC,
}

// KindOf classifies a file by extension
func KindOf(filename string) DocumentKind {
	return documentKinds[GetFileExtension(filename)]
}

// IsTextFile checks if the file has a text-based extension
func IsTextFile(filename string) bool {
	return KindOf(filename) == KindText
}

// IsDocumentFile reports whether a resume upload with this name can be decoded
func IsDocumentFile(filename string) bool {
	return KindOf(filename) != KindUnsupported
}

// GetFileExtension returns the file extension in lowercase
func GetFileExtension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// ValidateInputFile checks that filename names a readable regular file. A
// missing file yields an error wrapping fs.ErrNotExist.
func ValidateInputFile(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", filename, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("cannot stat %s: %w", filename, err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filename)
	}
	return nil
}

// ValidateOutputFile creates the parent directory of filename if needed.
// An empty name means stdout.
func ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil
	}
	dir := filepath.Dir(filename)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", dir, err)
	}
	return nil
}

// IsNotExist reports whether err came from a missing file
func IsNotExist(err error) bool {
	return err != nil && errors.Is(err, fs.ErrNotExist)
}

// FormatFileSize returns a human-readable file size
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	value, suffix := float64(size), "KMGTPE"
	i := -1
	for value >= unit && i < len(suffix)-1 {
		value /= unit
		i++
	}
	return fmt.Sprintf("%.1f %cB", value, suffix[i])
}
