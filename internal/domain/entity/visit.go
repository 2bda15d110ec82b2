// Package entity defines the rows of the schema store.
package entity

import (
	"fmt"
	"strings"
)

// SemanticType classifies the role a visited place plays for the user.
type SemanticType string

// The values accepted by the visit.semantic_type check constraint.
const (
	SemanticUnknown         SemanticType = "UNKNOWN"
	SemanticHome            SemanticType = "HOME"
	SemanticWork            SemanticType = "WORK"
	SemanticInferredHome    SemanticType = "INFERRED_HOME"
	SemanticInferredWork    SemanticType = "INFERRED_WORK"
	SemanticSearchedAddress SemanticType = "SEARCHED_ADDRESS"
)

// SemanticTypes lists every accepted value in declaration order.
var SemanticTypes = []SemanticType{
	SemanticUnknown,
	SemanticHome,
	SemanticWork,
	SemanticInferredHome,
	SemanticInferredWork,
	SemanticSearchedAddress,
}

// Valid reports whether s is one of the six accepted values.
func (s SemanticType) Valid() bool {
	for _, v := range SemanticTypes {
		if s == v {
			return true
		}
	}
	return false
}

// ParseSemanticType validates a semantic type from an export. An empty
// value means the export did not classify the place and maps to UNKNOWN.
func ParseSemanticType(raw string) (SemanticType, error) {
	if strings.TrimSpace(raw) == "" {
		return SemanticUnknown, nil
	}
	st := SemanticType(raw)
	if !st.Valid() {
		return "", fmt.Errorf("unsupported semantic type %q", raw)
	}
	return st, nil
}

// Visit is one detected stay at a place. Times are unix seconds.
type Visit struct {
	ID           int64        `gorm:"column:id;primaryKey;autoIncrement"`
	StartTime    int64        `gorm:"column:start_time"`
	EndTime      int64        `gorm:"column:end_time"`
	PlaceID      string       `gorm:"column:place_id"`
	SemanticType SemanticType `gorm:"column:semantic_type"`
}

// TableName specifies the table name for Visit.
func (Visit) TableName() string {
	return "visit"
}

// RawPlace is the place payload exactly as it appeared in the export.
type RawPlace struct {
	PlaceID   string `gorm:"column:place_id;primaryKey"`
	PlaceInfo string `gorm:"column:place_info"`
}

// TableName specifies the table name for RawPlace.
func (RawPlace) TableName() string {
	return "raw_place"
}

// VisitRecord is the flat, export-friendly form of a Visit joined with the
// place name. Times are unix seconds. It carries parquet tags for the visits export.
type VisitRecord struct {
	StartTime    int64    `gorm:"column:start_time" parquet:"name=start_time,type=INT64"`
	EndTime      int64    `gorm:"column:end_time" parquet:"name=end_time,type=INT64"`
	PlaceID      string   `gorm:"column:place_id" parquet:"name=place_id,type=BYTE_ARRAY,convertedtype=UTF8"`
	SemanticType string   `gorm:"column:semantic_type" parquet:"name=semantic_type,type=BYTE_ARRAY,convertedtype=UTF8"`
	PlaceName    *string  `gorm:"column:name" parquet:"name=place_name,type=BYTE_ARRAY,convertedtype=UTF8,repetitiontype=OPTIONAL"`
	Latitude     *float64 `gorm:"column:geometry_location_lat" parquet:"name=latitude,type=DOUBLE,repetitiontype=OPTIONAL"`
	Longitude    *float64 `gorm:"column:geometry_location_lng" parquet:"name=longitude,type=DOUBLE,repetitiontype=OPTIONAL"`
}
