package export

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/tigerroll/mapchat/internal/support/logger"
)

// GCSSink writes exports to a Cloud Storage bucket.
type GCSSink struct {
	client *storage.Client
	bucket string
}

// NewGCSSink connects to Cloud Storage. An empty credentialsFile uses
// Application Default Credentials; STORAGE_EMULATOR_HOST is honoured.
func NewGCSSink(ctx context.Context, bucket, credentialsFile string) (*GCSSink, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs sink: bucket must not be empty")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs sink: failed to create client: %w", err)
	}
	return &GCSSink{client: client, bucket: bucket}, nil
}

// Upload implements Sink.
func (s *GCSSink) Upload(ctx context.Context, objectName string, data io.Reader, contentType string) error {
	w := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, data); err != nil {
		w.Close()
		return fmt.Errorf("gcs sink: failed to upload %s: %w", s.Location(objectName), err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs sink: failed to finish %s: %w", s.Location(objectName), err)
	}
	logger.Debugf("Uploaded export object %s.", s.Location(objectName))
	return nil
}

// Location implements Sink.
func (s *GCSSink) Location(objectName string) string {
	return fmt.Sprintf("gs://%s/%s", s.bucket, objectName)
}

// Close implements Sink.
func (s *GCSSink) Close() error {
	return s.client.Close()
}
