package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/tigerroll/mapchat/internal/domain/entity"
	"github.com/tigerroll/mapchat/internal/support/exception"
)

// Export is a Google Timeline location-history export.
type Export struct {
	SemanticSegments []Segment `json:"semanticSegments"`
}

// Segment is one entry of the timeline. Only segments with a Visit are stays;
// activities and timeline paths leave it nil.
type Segment struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Visit     *struct {
		TopCandidate json.RawMessage `json:"topCandidate"`
	} `json:"visit"`
}

type topCandidate struct {
	PlaceID      string `json:"placeId"`
	SemanticType string `json:"semanticType"`
}

// Batch is the parsed content of one export.
type Batch struct {
	Segments  int
	Visits    []entity.Visit
	RawPlaces []entity.RawPlace
}

// ParseExport reads an export. Every visit segment must carry both
// timestamps and a place id; the first malformed one fails the whole
// export. Raw places are collected once per distinct place id, keeping the
// first payload seen.
func ParseExport(r io.Reader) (*Batch, error) {
	var export Export
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, exception.New(exception.KindIngestionMalformed, moduleName, "location history is not valid JSON", err)
	}
	if export.SemanticSegments == nil {
		return nil, exception.New(exception.KindIngestionMalformed, moduleName, "location history has no semanticSegments", nil)
	}

	batch := &Batch{Segments: len(export.SemanticSegments)}
	seenPlaces := make(map[string]struct{})
	for i, seg := range export.SemanticSegments {
		if seg.Visit == nil {
			continue
		}
		visit, err := parseVisit(seg)
		if err != nil {
			return nil, exception.Newf(exception.KindIngestionMalformed, moduleName, "semanticSegments[%d] is not a valid visit", i, err)
		}
		batch.Visits = append(batch.Visits, visit)

		if _, ok := seenPlaces[visit.PlaceID]; !ok {
			seenPlaces[visit.PlaceID] = struct{}{}
			batch.RawPlaces = append(batch.RawPlaces, entity.RawPlace{
				PlaceID:   visit.PlaceID,
				PlaceInfo: string(seg.Visit.TopCandidate),
			})
		}
	}
	return batch, nil
}

func parseVisit(seg Segment) (entity.Visit, error) {
	if seg.StartTime == "" || seg.EndTime == "" {
		return entity.Visit{}, fmt.Errorf("missing startTime or endTime")
	}
	start, err := parseTimestamp(seg.StartTime)
	if err != nil {
		return entity.Visit{}, err
	}
	end, err := parseTimestamp(seg.EndTime)
	if err != nil {
		return entity.Visit{}, err
	}

	if len(seg.Visit.TopCandidate) == 0 {
		return entity.Visit{}, fmt.Errorf("missing visit.topCandidate")
	}
	var candidate topCandidate
	if err := json.Unmarshal(seg.Visit.TopCandidate, &candidate); err != nil {
		return entity.Visit{}, fmt.Errorf("invalid visit.topCandidate: %w", err)
	}
	if candidate.PlaceID == "" {
		return entity.Visit{}, fmt.Errorf("missing visit.topCandidate.placeId")
	}
	semanticType, err := entity.ParseSemanticType(candidate.SemanticType)
	if err != nil {
		return entity.Visit{}, err
	}

	return entity.Visit{
		StartTime:    start,
		EndTime:      end,
		PlaceID:      candidate.PlaceID,
		SemanticType: semanticType,
	}, nil
}

// localTimestamp is ISO-8601 without an offset; such values are read as UTC.
const localTimestamp = "2006-01-02T15:04:05.999999999"

// parseTimestamp converts an ISO-8601 timestamp to unix seconds.
func parseTimestamp(value string) (int64, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		local, lerr := time.Parse(localTimestamp, value)
		if lerr != nil {
			return 0, fmt.Errorf("invalid timestamp %q: %w", value, err)
		}
		t = local
	}
	return t.Unix(), nil
}
