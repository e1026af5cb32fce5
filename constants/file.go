package constants

import "strings"

// Source format for the format field in pipeline results.
const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
)

// AllowedExtensions holds the default allowed file extensions for uploads.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a normalized extension to a source format.
// Unknown extensions map to "".
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "jpg", "jpeg", "png":
		return IMAGE
	default:
		return ""
	}
}

// MapMIMEToFormat maps a declared MIME type to a source format.
// Unknown MIME types map to "".
func MapMIMEToFormat(mime string) string {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "application/pdf":
		return PDF
	case "image/jpeg", "image/jpg", "image/png":
		return IMAGE
	default:
		return ""
	}
}
