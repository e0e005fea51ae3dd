package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MaxUploadSize is the upload size ceiling in bytes (50 MiB).
const MaxUploadSize = 50 * 1024 * 1024

// acceptedExtensions is the set of file extensions the client accepts.
// Validation here is advisory: the remote service remains the authority.
var acceptedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
}

// AcceptedExtensions returns the accepted upload extensions, dot included.
func AcceptedExtensions() []string {
	return []string{".pdf", ".docx", ".xls", ".xlsx"}
}

// ValidateUpload checks an upload candidate against the accepted extension
// set and the size ceiling. It performs no I/O; rejections are local and
// never reach the network.
func ValidateUpload(filename string, size int64) error {
	if strings.TrimSpace(filename) == "" {
		return ErrEmptyFilename
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !acceptedExtensions[ext] {
		return fmt.Errorf("%w: %q (accepted: %s)",
			ErrUnsupportedFileType, ext, strings.Join(AcceptedExtensions(), " "))
	}

	if size > MaxUploadSize {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, size, MaxUploadSize)
	}

	return nil
}
