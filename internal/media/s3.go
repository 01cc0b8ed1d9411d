// Package media stores uploaded images in S3.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ErrUnsupportedType is returned for uploads that are not png or jpeg.
var ErrUnsupportedType = errors.New("media: unsupported image type")

// extByContentType doubles as the upload allowlist.
var extByContentType = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

// keyPrefix namespaces image objects within the bucket.
const keyPrefix = "uploads/images/"

// MaxUploadBytes caps the accepted image size.
const MaxUploadBytes = 500_000

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store stores image blobs under uploads/images/<uuid>.<ext>.
type S3Store struct {
	client s3API
	bucket string
}

// NewS3Store returns a store writing into bucket.
func NewS3Store(client *s3.Client, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket}
}

// Save stores an image and returns its object key.
func (s *S3Store) Save(ctx context.Context, contentType string, body io.Reader) (string, error) {
	ext, ok := extByContentType[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	key := keyPrefix + uuid.NewString() + "." + ext
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return key, nil
}

// Release removes the blob behind ref. Deleting an already released ref
// is not an error.
func (s *S3Store) Release(ctx context.Context, ref string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return fmt.Errorf("release image: %w", err)
	}
	return nil
}
