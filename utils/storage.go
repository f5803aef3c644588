package utils

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const MaxImageSize = 5 * 1024 * 1024

var (
	allowedImageTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
		"image/gif":  true,
	}
	allowedImageExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
		".gif":  true,
	}
)

// ImageStore persists uploaded product images and returns the URL they are served from.
type ImageStore interface {
	Save(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// ValidateImageUpload checks both the declared content type and the file extension.
func ValidateImageUpload(file *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageTypes[file.Header.Get("Content-Type")] || !allowedImageExtensions[ext] {
		return NewValidationError("Invalid file type. Only PNG, JPEG, JPG, WEBP, and GIF images are allowed.")
	}
	if file.Size > MaxImageSize {
		return NewValidationError("File size exceeds 5MB limit")
	}
	return nil
}

// UniqueImageName keeps the original extension and prefixes a millisecond timestamp.
func UniqueImageName(original string) string {
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), strings.ToLower(filepath.Ext(original)))
}

type S3ImageStore struct {
	uploader *manager.Uploader
	bucket   string
}

func NewS3ImageStore(ctx context.Context, bucket string) (*S3ImageStore, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &S3ImageStore{uploader: manager.NewUploader(client), bucket: bucket}, nil
}

func (s *S3ImageStore) Save(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	result, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(path.Join("products", filename)),
		Body:        body,
		ACL:         "public-read",
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", Dependency("upload image", err)
	}
	return result.Location, nil
}

// LocalImageStore writes into Dir and serves files under URLPrefix.
type LocalImageStore struct {
	Dir       string
	URLPrefix string
}

func (s *LocalImageStore) Save(_ context.Context, filename, _ string, body io.Reader) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", Dependency("create upload dir", err)
	}

	f, err := os.Create(filepath.Join(s.Dir, filename))
	if err != nil {
		return "", Dependency("create image file", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return "", Dependency("write image file", err)
	}
	return strings.TrimSuffix(s.URLPrefix, "/") + "/" + filename, nil
}
