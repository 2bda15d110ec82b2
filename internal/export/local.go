package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tigerroll/mapchat/internal/support/logger"
)

// LocalSink writes exports below a base directory.
type LocalSink struct {
	baseDir string
}

// NewLocalSink creates the base directory if needed.
func NewLocalSink(baseDir string) (*LocalSink, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("local sink: base directory must not be empty")
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("local sink: invalid base directory %q: %w", baseDir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("local sink: failed to create %q: %w", abs, err)
	}
	return &LocalSink{baseDir: abs}, nil
}

// Upload implements Sink.
func (s *LocalSink) Upload(ctx context.Context, objectName string, data io.Reader, contentType string) error {
	path, err := s.resolvePath(objectName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("local sink: failed to create directory for %q: %w", objectName, err)
	}

	// Write next to the target and rename, so readers never see a partial file.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return fmt.Errorf("local sink: failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: data}); err != nil {
		tmp.Close()
		return fmt.Errorf("local sink: failed to write %q: %w", objectName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("local sink: failed to close %q: %w", objectName, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("local sink: failed to move %q into place: %w", objectName, err)
	}
	logger.Debugf("Wrote export object %s (%s).", path, contentType)
	return nil
}

// Location implements Sink.
func (s *LocalSink) Location(objectName string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(objectName))
}

// Close implements Sink.
func (s *LocalSink) Close() error { return nil }

func (s *LocalSink) resolvePath(objectName string) (string, error) {
	path := filepath.Join(s.baseDir, filepath.FromSlash(objectName))
	rel, err := filepath.Rel(s.baseDir, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("local sink: object name %q escapes the base directory", objectName)
	}
	return path, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
