// Package artifacts persists stage outputs, raw replies and course documents.
// Paths are slash-separated and relative to the store root.
package artifacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
)

var ErrNotFound = errors.New("artifact not found")

type Store interface {
	Save(ctx context.Context, p string, v any) error
	Load(ctx context.Context, p string, v any) error
	SaveRaw(ctx context.Context, p string, data []byte) error
	LoadRaw(ctx context.Context, p string) ([]byte, error)
	Exists(ctx context.Context, p string) (bool, error)
}

type rawStore interface {
	SaveRaw(ctx context.Context, p string, data []byte) error
	LoadRaw(ctx context.Context, p string) ([]byte, error)
}

func saveJSON(ctx context.Context, s rawStore, p string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", p, err)
	}
	return s.SaveRaw(ctx, p, data)
}

func loadJSON(ctx context.Context, s rawStore, p string, v any) error {
	data, err := s.LoadRaw(ctx, p)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", p, err)
	}
	return nil
}

// clean rejects absolute paths and parent traversal.
func clean(p string) (string, error) {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" {
		return "", fmt.Errorf("empty artifact path")
	}
	if strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("invalid artifact path %q", p)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("invalid artifact path %q", p)
		}
	}
	c := path.Clean(p)
	if c == "." {
		return "", fmt.Errorf("invalid artifact path %q", p)
	}
	return c, nil
}

// Path helpers shared by the pipeline and the readers.

func StagePath(requestID, stage string) string { return requestID + "/" + stage + ".json" }

func RawPath(requestID, name string) string { return requestID + "/raw/" + name + ".md" }

func ProgressPath(requestID string) string { return requestID + "/progress.json" }

func ResultPath(requestID string) string { return requestID + "/result.json" }
