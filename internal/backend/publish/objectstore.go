package publish

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
)

// immutableCacheControl matches the header of the /published route; object
// keys are never reused.
const immutableCacheControl = "public, max-age=604800, immutable"

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL is where chat clients load objects from. Empty selects the
	// path style bucket URL on the endpoint.
	PublicURL string
	// PublicRead grants anonymous downloads on the bucket.
	PublicRead bool
}

// ObjectStore keeps published emoji and knows where clients can load them.
type ObjectStore interface {
	PutEmoji(ctx context.Context, objectKey string, data []byte, contentType string) error
	ObjectURL(objectKey string) string
}

// MinioStore keeps published emoji in an S3 compatible bucket.
type MinioStore struct {
	client     *minio.Client
	bucket     string
	publicURL  string
	publicRead bool
}

func NewMinioStore(cfg MinioConfig) (*MinioStore, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" || strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("minio store requires endpoint and bucket")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for %s: %w", cfg.Endpoint, err)
	}

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &MinioStore{
		client:     client,
		bucket:     cfg.Bucket,
		publicURL:  publicURL,
		publicRead: cfg.PublicRead,
	}, nil
}

func (s *MinioStore) Bucket() string {
	return s.bucket
}

// EnsureBucket creates the bucket when missing and, for public stores,
// installs the anonymous read policy.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			// another replica may have created it meanwhile
			exists, checkErr := s.client.BucketExists(ctx, s.bucket)
			if checkErr != nil || !exists {
				return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
			}
		}
		slog.Info("created emoji bucket", "bucket", s.bucket)
	}

	if s.publicRead {
		if err := s.client.SetBucketPolicy(ctx, s.bucket, publicReadPolicy(s.bucket)); err != nil {
			return fmt.Errorf("failed to make bucket %s public: %w", s.bucket, err)
		}
	}
	return nil
}

func (s *MinioStore) PutEmoji(ctx context.Context, objectKey string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType:  contentType,
			CacheControl: immutableCacheControl,
		})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", objectKey, err)
	}
	return nil
}

func (s *MinioStore) ObjectURL(objectKey string) string {
	return s.publicURL + "/" + objectKey
}

func publicReadPolicy(bucket string) string {
	return fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow",`+
		`"Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, bucket)
}

// ObjectStorePublisher uploads results below an optional key prefix.
type ObjectStorePublisher struct {
	store  ObjectStore
	prefix string
}

func NewObjectStorePublisher(store ObjectStore, prefix string) *ObjectStorePublisher {
	return &ObjectStorePublisher{
		store:  store,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (p *ObjectStorePublisher) Publish(ctx context.Context, e emoji.Emoji) (string, error) {
	data, contentType, err := emoji.Encode(e)
	if err != nil {
		return "", err
	}

	key := uuid.NewString() + Extension(contentType)
	if p.prefix != "" {
		key = p.prefix + "/" + key
	}
	if err := p.store.PutEmoji(ctx, key, data, contentType); err != nil {
		return "", err
	}

	slog.Info("uploaded emoji",
		"key", key,
		"kind", e.Kind().String(),
		"frame_count", e.FrameCount(),
		"content_type", contentType,
		"size_bytes", len(data))
	return p.store.ObjectURL(key), nil
}
