package utils

import (
	"context"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(name, contentType string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: name,
		Header:   textproto.MIMEHeader{"Content-Type": {contentType}},
		Size:     size,
	}
}

func TestValidateImageUpload(t *testing.T) {
	tests := []struct {
		name    string
		file    *multipart.FileHeader
		wantErr string
	}{
		{"png", fileHeader("shirt.png", "image/png", 1024), ""},
		{"upper case extension", fileHeader("shirt.JPG", "image/jpeg", 1024), ""},
		{"webp at limit", fileHeader("a.webp", "image/webp", MaxImageSize), ""},
		{"pdf", fileHeader("doc.pdf", "application/pdf", 10), "Invalid file type. Only PNG, JPEG, JPG, WEBP, and GIF images are allowed."},
		{"extension mismatch", fileHeader("shirt.exe", "image/png", 10), "Invalid file type. Only PNG, JPEG, JPG, WEBP, and GIF images are allowed."},
		{"too large", fileHeader("big.gif", "image/gif", MaxImageSize+1), "File size exceeds 5MB limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageUpload(tt.file)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestUniqueImageName(t *testing.T) {
	a := UniqueImageName("Photo.PNG")
	b := UniqueImageName("Photo.PNG")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, ".png"))
}

func TestLocalImageStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store := &LocalImageStore{Dir: dir, URLPrefix: "/uploads/products/"}

	url, err := store.Save(context.Background(), "a.png", "image/png", strings.NewReader("pixels"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/products/a.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))
}
