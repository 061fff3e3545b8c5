package domain

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename turns a client supplied filename into one that is safe to use
// as the last segment of a storage key. Path separators become word breaks,
// whitespace runs become a single underscore, everything outside [A-Za-z0-9_.-]
// is dropped and leading/trailing dots and underscores are trimmed, so
// "../../etc/passwd" becomes "etc_passwd". The result may be empty.
func SanitizeFilename(name string) string {
	name = norm.NFKD.String(name)
	name = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, name)

	name = strings.ReplaceAll(name, "/", " ")
	name = strings.Join(strings.FieldsFunc(name, isSeparatorSpace), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")

	return strings.Trim(name, "._")
}

// isSeparatorSpace matches ASCII whitespace plus the file, group, record and
// unit separators, which also split words.
func isSeparatorSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".json": "application/json",
	".xml":  "application/xml",
	".zip":  "application/zip",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// DefaultContentType is used for unknown or missing extensions
const DefaultContentType = "application/octet-stream"

// ContentTypeFor derives the MIME type from the file extension.
// Leading dots do not start an extension: ".pdf" has none.
func ContentTypeFor(filename string) string {
	base := strings.TrimLeft(filepath.Base(filename), ".")
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(base))]; ok {
		return ct
	}
	return DefaultContentType
}

// IsImage reports whether the content type is one the service can decode for dimensions
func IsImage(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif":
		return true
	}
	return false
}
