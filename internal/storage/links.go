package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"fbconsole/internal/models"
	"fbconsole/internal/providers"
	"fbconsole/internal/structures"
	"fbconsole/internal/view"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const DownloadPath = "/download"

var ErrStorageDisabled = errors.New("object storage is not configured")

type SignerInterface interface {
	PresignedGet(ctx context.Context, key string) (string, error)
}

type MinioSigner struct {
	client *minio.Client
	bucket string
	ttl    time.Duration
}

func NewSigner(conf *structures.Config, logger providers.Logger) (SignerInterface, error) {
	if !conf.Storage.Enabled {
		return &disabledSigner{}, nil
	}

	client, err := minio.New(conf.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.Storage.AccessKey, conf.Storage.SecretKey, ""),
		Secure: conf.Storage.UseSSL,
		Region: conf.Storage.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	ttl := conf.Storage.LinkTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	logger.Infof(providers.TypeApp, "Download links signed for bucket %s at %s", conf.Storage.Bucket, conf.Storage.Endpoint)
	return &MinioSigner{client: client, bucket: conf.Storage.Bucket, ttl: ttl}, nil
}

func (s *MinioSigner) PresignedGet(ctx context.Context, key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return "", errors.New("empty object key")
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to sign %s: %w", key, err)
	}
	return u.String(), nil
}

type disabledSigner struct{}

func (d *disabledSigner) PresignedGet(_ context.Context, _ string) (string, error) {
	return "", ErrStorageDisabled
}

// ObjectKey extracts the object key from a stored path, which is either a
// bare key or a full https://<bucket>.<endpoint>/<key> URL.
func ObjectKey(path string) string {
	if u, err := url.Parse(path); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return strings.TrimPrefix(u.Path, "/")
	}
	return strings.TrimPrefix(path, "/")
}

// LinkResolver points attachments either straight at their stored URL or at
// the console download route that signs a short-lived URL.
type LinkResolver struct {
	signed bool
}

func NewLinkResolver(conf *structures.Config) view.LinkResolver {
	return &LinkResolver{signed: conf.Storage.Enabled}
}

func (l *LinkResolver) FileURL(file models.FileRef) string {
	if !l.signed {
		return file.FilePathOnOss
	}
	return DownloadPath + "?" + url.Values{"file": {ObjectKey(file.FilePathOnOss)}}.Encode()
}
