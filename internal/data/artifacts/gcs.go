package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

// GCSStore keeps artifacts as objects in one bucket under an optional prefix.
// A GCS object write is atomic once the writer is closed.
type GCSStore struct {
	log    *logger.Logger
	client *storage.Client
	bucket string
	prefix string
}

type GCSConfig struct {
	Bucket          string
	Prefix          string
	CredentialsFile string
}

func NewGCSStore(ctx context.Context, log *logger.Logger, cfg GCSConfig) (*GCSStore, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("missing GCS_BUCKET")
	}
	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	log.Info("Artifact storage initialized", "bucket", cfg.Bucket, "prefix", cfg.Prefix)
	return &GCSStore{
		log:    log.With("store", "GCSStore"),
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

func (s *GCSStore) Close() error { return s.client.Close() }

func (s *GCSStore) object(p string) (*storage.ObjectHandle, string, error) {
	c, err := clean(p)
	if err != nil {
		return nil, "", err
	}
	key := c
	if s.prefix != "" {
		key = s.prefix + "/" + c
	}
	return s.client.Bucket(s.bucket).Object(key), key, nil
}

func (s *GCSStore) Save(ctx context.Context, p string, v any) error {
	return saveJSON(ctx, s, p, v)
}

func (s *GCSStore) Load(ctx context.Context, p string, v any) error {
	return loadJSON(ctx, s, p, v)
}

func (s *GCSStore) SaveRaw(ctx context.Context, p string, data []byte) error {
	obj, key, err := s.object(p)
	if err != nil {
		return err
	}
	w := obj.NewWriter(ctx)
	if strings.HasSuffix(key, ".json") {
		w.ContentType = "application/json"
	} else {
		w.ContentType = "text/markdown; charset=utf-8"
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", key, err)
	}
	s.log.Debug("artifact uploaded", "key", key, "bytes", len(data))
	return nil
}

func (s *GCSStore) LoadRaw(ctx context.Context, p string) ([]byte, error) {
	obj, key, err := s.object(p)
	if err != nil {
		return nil, err
	}
	r, err := obj.NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", key, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

func (s *GCSStore) Exists(ctx context.Context, p string) (bool, error) {
	obj, _, err := s.object(p)
	if err != nil {
		return false, err
	}
	_, err = obj.Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
