package storage

import "bytes"

// MaxFileSize is the inclusive upload ceiling.
const MaxFileSize = 10 * 1024 * 1024

// Leading-byte signatures per allowed MIME type. A declared type must be
// backed by a matching signature or the upload is rejected as spoofed.
var signatures = map[string][][]byte{
	"image/jpeg":      {{0xFF, 0xD8, 0xFF}},
	"image/png":       {{0x89, 0x50, 0x4E, 0x47}},
	"image/gif":       {[]byte("GIF8")},
	"image/webp":      {[]byte("RIFF")},
	"application/pdf": {[]byte("%PDF")},
}

// ValidationResult is the wire shape callers match on: Error contains "10MB",
// "not allowed" or "mismatch" depending on the failing check.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// Validate applies the upload checks in order: size ceiling, declared-type
// allow-list, then content sniff against the declared type. The first failure
// wins.
func Validate(declaredType string, size int64, head []byte) ValidationResult {
	if size > MaxFileSize {
		return ValidationResult{Error: "File size exceeds the 10MB limit"}
	}

	sigs, ok := signatures[declaredType]
	if !ok {
		return ValidationResult{Error: "File type " + declaredType + " is not allowed"}
	}

	for _, sig := range sigs {
		if bytes.HasPrefix(head, sig) {
			return ValidationResult{Valid: true}
		}
	}
	return ValidationResult{Error: "File content and declared type mismatch"}
}
