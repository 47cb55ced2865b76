// Package minio stores uploaded files in an S3-compatible object store.
// It is the variant to pick when the API runs with more than one
// replica, where a local directory cannot be shared.
package minio

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/webblog/publishing-api/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type FileStore struct {
	client *minio.Client
	bucket string
}

// Connect builds the client and makes sure the bucket exists.
func Connect(ctx context.Context, cfg Config) (*FileStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.Bucket, err)
		}
	}
	return &FileStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *FileStore) Save(ctx context.Context, originalFilename string, r io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ext := strings.ToLower(filepath.Ext(originalFilename))
	storedName := uuid.NewString() + ext

	_, err := s.client.PutObject(ctx, s.bucket, storedName, r, -1, minio.PutObjectOptions{
		ContentType: contentType(ext),
	})
	if err != nil {
		return "", fmt.Errorf("%w: put object: %v", domain.ErrStorageUnavailable, err)
	}
	return storedName, nil
}

func (s *FileStore) Open(ctx context.Context, storedName string) (io.ReadCloser, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, storedName, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("%w: get object: %v", domain.ErrStorageUnavailable, err)
	}

	// GetObject is lazy, so a missing key only surfaces on Stat
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if isNoSuchKey(err) {
			return nil, "", domain.ErrFileNotFound
		}
		return nil, "", fmt.Errorf("%w: stat object: %v", domain.ErrStorageUnavailable, err)
	}

	ct := info.ContentType
	if ct == "" {
		ct = contentType(filepath.Ext(storedName))
	}
	return obj, ct, nil
}

func (s *FileStore) Delete(ctx context.Context, storedName string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.client.StatObject(ctx, s.bucket, storedName, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return domain.ErrFileMissing
		}
		return fmt.Errorf("%w: stat object: %v", domain.ErrStorageUnavailable, err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, storedName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: remove object: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

func contentType(ext string) string {
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
