package storage

import (
	"net/http"
	"strings"
)

// MIMEOctetStream is the fallback content type.
const MIMEOctetStream = "application/octet-stream"

// mimeExtensions maps MIME types to preferred file extensions.
var mimeExtensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/bmp":     ".bmp",
	"image/x-icon":  ".ico",
	"image/avif":    ".avif",

	"application/pdf": ".pdf",
	"text/plain":      ".txt",
	"text/csv":        ".csv",
	"text/html":       ".html",
	"text/css":        ".css",

	"application/json":       ".json",
	"application/xml":        ".xml",
	"text/xml":               ".xml",
	"application/javascript": ".js",

	"video/mp4":  ".mp4",
	"video/webm": ".webm",
	"audio/mpeg": ".mp3",
	"audio/wav":  ".wav",
	"audio/ogg":  ".ogg",

	"application/zip":    ".zip",
	"application/gzip":   ".gz",
	"application/x-gzip": ".gz",
}

// ExtFromMIME returns the file extension for a MIME type, or "" if unknown.
func ExtFromMIME(mimeType string) string {
	return mimeExtensions[normalizeMIME(mimeType)]
}

// detectMIME prefers a declared type and falls back to sniffing data.
// A generic declared type does not override what the bytes say.
func detectMIME(declared string, data []byte) string {
	declared = normalizeMIME(declared)
	if declared != "" && declared != MIMEOctetStream {
		return declared
	}
	if len(data) == 0 {
		return MIMEOctetStream
	}
	return normalizeMIME(http.DetectContentType(data))
}

// normalizeMIME drops parameters such as charset and lowercases the type.
func normalizeMIME(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	return strings.TrimSpace(strings.ToLower(mimeType))
}

// matchesMIME reports whether mimeType matches any pattern. Patterns may
// end in "/*".
func matchesMIME(mimeType string, allowed []string) bool {
	mimeType = normalizeMIME(mimeType)
	for _, pattern := range allowed {
		pattern = strings.TrimSpace(strings.ToLower(pattern))
		if mimeType == pattern {
			return true
		}
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok && strings.HasSuffix(prefix, "/") && strings.HasPrefix(mimeType, prefix) {
			return true
		}
	}
	return false
}
