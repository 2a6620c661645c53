package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/coursegen-backend/internal/data/artifacts"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

var (
	newGCSStore   = artifacts.NewGCSStore
	newLocalStore = artifacts.NewLocalStore
)

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode   StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorMissingBucket StorageProviderBootstrapErrorCode = "missing_bucket"
	StorageProviderBootstrapErrorConnectFailed StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code  StorageProviderBootstrapErrorCode
	Mode  string
	Cause error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "artifact storage bootstrap failed"
	}
	return fmt.Sprintf("artifact storage bootstrap failed (code=%s mode=%q): %v", e.Code, e.Mode, e.Cause)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// closeFunc releases the store's client, if it holds one.
type closeFunc func() error

func resolveArtifactStore(ctx context.Context, log *logger.Logger, cfg Config) (artifacts.Store, closeFunc, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.ArtifactStore))
	log.Info("Selecting artifact store", "mode", mode)

	switch mode {
	case ArtifactStoreLocal, "":
		store, err := newLocalStore(log, cfg.ArtifactRoot)
		if err != nil {
			return nil, nil, bootstrapFailed(log, mode, StorageProviderBootstrapErrorConnectFailed, err)
		}
		return store, func() error { return nil }, nil
	case ArtifactStoreGCS:
		if strings.TrimSpace(cfg.GCSBucket) == "" {
			return nil, nil, bootstrapFailed(log, mode, StorageProviderBootstrapErrorMissingBucket, errors.New("GCS_BUCKET is empty"))
		}
		store, err := newGCSStore(ctx, log, artifacts.GCSConfig{
			Bucket:          cfg.GCSBucket,
			Prefix:          cfg.GCSPrefix,
			CredentialsFile: cfg.GCSCredentials,
		})
		if err != nil {
			return nil, nil, bootstrapFailed(log, mode, StorageProviderBootstrapErrorConnectFailed, err)
		}
		return store, store.Close, nil
	default:
		return nil, nil, bootstrapFailed(log, mode, StorageProviderBootstrapErrorInvalidMode,
			fmt.Errorf("unsupported artifact store %q", mode))
	}
}

func bootstrapFailed(log *logger.Logger, mode string, code StorageProviderBootstrapErrorCode, cause error) error {
	err := &StorageProviderBootstrapError{Code: code, Mode: mode, Cause: cause}
	log.Error("Artifact store bootstrap failed", "mode", mode, "error_code", code, "error", cause)
	return err
}

func storageProviderBootstrapErrorCode(err error) StorageProviderBootstrapErrorCode {
	var bootstrapErr *StorageProviderBootstrapError
	if errors.As(err, &bootstrapErr) && bootstrapErr.Code != "" {
		return bootstrapErr.Code
	}
	return StorageProviderBootstrapErrorConnectFailed
}
