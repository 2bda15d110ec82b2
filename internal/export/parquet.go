package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/tigerroll/mapchat/internal/domain/entity"
)

// WriteVisitsParquet encodes records as a single Parquet file on w.
func WriteVisitsParquet(w io.Writer, records []entity.VisitRecord, compression string) (err error) {
	codec, err := compressionCodec(compression)
	if err != nil {
		return err
	}

	// np is the number of goroutines used to marshal rows.
	pw, err := writer.NewParquetWriterFromWriter(w, new(entity.VisitRecord), 4)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = codec

	for i := range records {
		if err := pw.Write(records[i]); err != nil {
			return fmt.Errorf("failed to write visit record %d: %w", i, err)
		}
	}

	// WriteStop can panic on schema mismatches deep inside the encoder.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while finalizing parquet file: %v", r)
		}
	}()
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

func compressionCodec(name string) (parquet.CompressionCodec, error) {
	switch strings.ToUpper(name) {
	case "", "SNAPPY":
		return parquet.CompressionCodec_SNAPPY, nil
	case "GZIP":
		return parquet.CompressionCodec_GZIP, nil
	case "NONE", "UNCOMPRESSED":
		return parquet.CompressionCodec_UNCOMPRESSED, nil
	default:
		return parquet.CompressionCodec_UNCOMPRESSED, fmt.Errorf("unsupported compression codec %q", name)
	}
}
