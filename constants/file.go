package constants

import "strings"

// MaxUploadBytes caps a single bill upload (10 MiB).
const MaxUploadBytes int64 = 10 << 20

// PDFMimeType is the only content type accepted at the upload boundary.
const PDFMimeType = "application/pdf"

// AllowedExtensions holds the allowed file extensions for bill uploads.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt checks a (possibly dotted, mixed-case) extension against the allow set.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
