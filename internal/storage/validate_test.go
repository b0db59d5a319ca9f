package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var jpegHead = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}

func TestValidate_AcceptsAllowedTypes(t *testing.T) {
	tests := []struct {
		mime string
		head []byte
	}{
		{"image/jpeg", jpegHead},
		{"image/png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}},
		{"image/gif", []byte("GIF89a")},
		{"image/webp", []byte("RIFF\x00\x00\x00\x00WEBP")},
		{"application/pdf", []byte("%PDF-1.7")},
	}
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			res := Validate(tt.mime, 1024, tt.head)
			assert.True(t, res.Valid)
			assert.Empty(t, res.Error)
		})
	}
}

func TestValidate_SizeCeiling(t *testing.T) {
	res := Validate("image/jpeg", MaxFileSize, jpegHead)
	assert.True(t, res.Valid, "exactly 10MB is allowed")

	res = Validate("image/jpeg", MaxFileSize+1, jpegHead)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Error, "10MB")
}

func TestValidate_DisallowedType(t *testing.T) {
	res := Validate("application/zip", 1024, []byte("PK\x03\x04"))
	assert.False(t, res.Valid)
	assert.Contains(t, res.Error, "not allowed")
	assert.Contains(t, res.Error, "application/zip")
}

func TestValidate_SpoofedContent(t *testing.T) {
	// PDF bytes wearing an image content type.
	res := Validate("image/png", 1024, []byte("%PDF-1.7"))
	assert.False(t, res.Valid)
	assert.Contains(t, res.Error, "mismatch")
}

func TestValidate_SizeCheckedFirst(t *testing.T) {
	// An oversized file of a forbidden type reports the size failure.
	res := Validate("application/zip", MaxFileSize+1, []byte("PK\x03\x04"))
	assert.False(t, res.Valid)
	assert.Contains(t, res.Error, "10MB")
}

func TestValidate_EmptyHead(t *testing.T) {
	res := Validate("image/jpeg", 0, nil)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Error, "mismatch")
}
