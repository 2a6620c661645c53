package app

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/coursegen-backend/internal/data/artifacts"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func TestResolveArtifactStoreLocal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ArtifactRoot = t.TempDir()

	store, closeStore, err := resolveArtifactStore(context.Background(), testLogger(t), cfg)
	if err != nil {
		t.Fatalf("resolveArtifactStore: %v", err)
	}
	defer closeStore()
	if _, ok := store.(*artifacts.LocalStore); !ok {
		t.Fatalf("want *artifacts.LocalStore, got %T", store)
	}
}

func TestResolveArtifactStoreErrors(t *testing.T) {
	orig := newGCSStore
	t.Cleanup(func() { newGCSStore = orig })
	newGCSStore = func(context.Context, *logger.Logger, artifacts.GCSConfig) (*artifacts.GCSStore, error) {
		return nil, errors.New("dial failed")
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   StorageProviderBootstrapErrorCode
	}{
		{"invalid mode", func(c *Config) { c.ArtifactStore = "s3" }, StorageProviderBootstrapErrorInvalidMode},
		{"missing bucket", func(c *Config) { c.ArtifactStore = ArtifactStoreGCS }, StorageProviderBootstrapErrorMissingBucket},
		{"connect failed", func(c *Config) { c.ArtifactStore = ArtifactStoreGCS; c.GCSBucket = "b" }, StorageProviderBootstrapErrorConnectFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			_, _, err := resolveArtifactStore(context.Background(), testLogger(t), cfg)

			var got *StorageProviderBootstrapError
			if !errors.As(err, &got) {
				t.Fatalf("expected StorageProviderBootstrapError, got=%T (%v)", err, err)
			}
			if got.Code != tc.want {
				t.Fatalf("code: want=%q got=%q", tc.want, got.Code)
			}
			if code := storageProviderBootstrapErrorCode(err); code != tc.want {
				t.Fatalf("storageProviderBootstrapErrorCode: want=%q got=%q", tc.want, code)
			}
		})
	}
}

func TestStorageProviderBootstrapErrorCodeDefault(t *testing.T) {
	if code := storageProviderBootstrapErrorCode(errors.New("boom")); code != StorageProviderBootstrapErrorConnectFailed {
		t.Fatalf("default code: got=%q", code)
	}
}
