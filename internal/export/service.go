// Package export writes the visit log as Parquet to a local directory or a
// Cloud Storage bucket.
package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tigerroll/mapchat/internal/config"
	"github.com/tigerroll/mapchat/internal/domain/entity"
	"github.com/tigerroll/mapchat/internal/support/exception"
	"github.com/tigerroll/mapchat/internal/support/logger"
)

const moduleName = "export"

// ContentType is the media type of exported objects.
const ContentType = "application/vnd.apache.parquet"

var tracer = otel.Tracer("mapchat/export")

// VisitSource lists the visits to export. *repository.LocationRepository implements it.
type VisitSource interface {
	VisitRecords(ctx context.Context) ([]entity.VisitRecord, error)
}

// Result describes one finished export.
type Result struct {
	Object   string `json:"object"`
	Location string `json:"location"`
	Rows     int    `json:"rows"`
	Bytes    int    `json:"bytes"`
}

// Service exports visits.
type Service struct {
	source      VisitSource
	sink        Sink
	prefix      string
	compression string
	now         func() time.Time
}

// NewService creates a Service writing to sink.
func NewService(source VisitSource, sink Sink, cfg config.ExportConfig) *Service {
	return &Service{
		source:      source,
		sink:        sink,
		prefix:      cfg.Prefix,
		compression: cfg.Compression,
		now:         time.Now,
	}
}

// NewSink builds the sink selected by cfg.Type.
func NewSink(ctx context.Context, cfg config.ExportConfig) (Sink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var (
		sink Sink
		err  error
	)
	switch cfg.Type {
	case "gcs":
		sink, err = NewGCSSink(ctx, cfg.Bucket, cfg.CredentialsFile)
	default:
		sink, err = NewLocalSink(cfg.BaseDir)
	}
	if err != nil {
		return nil, exception.New(exception.KindConfig, moduleName, "failed to open export sink", err)
	}
	return sink, nil
}

// WriteVisits encodes every visit as Parquet on w and returns the row count.
func (s *Service) WriteVisits(ctx context.Context, w io.Writer) (int, error) {
	records, err := s.source.VisitRecords(ctx)
	if err != nil {
		return 0, err
	}
	if err := WriteVisitsParquet(w, records, s.compression); err != nil {
		return 0, exception.New(exception.KindStorage, moduleName, "failed to encode visits", err)
	}
	return len(records), nil
}

// ExportVisits writes every visit to the sink under a timestamped name.
func (s *Service) ExportVisits(ctx context.Context) (*Result, error) {
	ctx, span := tracer.Start(ctx, "export.ExportVisits")
	defer span.End()

	var buf bytes.Buffer
	rows, err := s.WriteVisits(ctx, &buf)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	name := s.objectName()
	size := buf.Len()
	if err := s.sink.Upload(ctx, name, &buf, ContentType); err != nil {
		err = exception.New(exception.KindStorage, moduleName, fmt.Sprintf("failed to upload %s", name), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("export.rows", rows), attribute.Int("export.bytes", size))

	result := &Result{Object: name, Location: s.sink.Location(name), Rows: rows, Bytes: size}
	logger.Infof("Exported %d visits to %s (%d bytes).", rows, result.Location, size)
	return result, nil
}

func (s *Service) objectName() string {
	return path.Join(s.prefix, fmt.Sprintf("visits-%s.parquet", s.now().UTC().Format("20060102T150405Z")))
}
