package export

import (
	"context"
	"io"
)

// Sink stores finished export objects.
type Sink interface {
	// Upload writes data under objectName, replacing any previous object.
	Upload(ctx context.Context, objectName string, data io.Reader, contentType string) error
	// Location describes where objectName ends up, for logs and CLI output.
	Location(objectName string) string
	Close() error
}
