// Package repository reads and writes the schema store.
package repository

import (
	"context"

	"gorm.io/gorm"

	gormadapter "github.com/tigerroll/mapchat/internal/adapter/database/gorm"
	"github.com/tigerroll/mapchat/internal/domain/entity"
	"github.com/tigerroll/mapchat/internal/support/exception"
	"github.com/tigerroll/mapchat/internal/support/logger"
)

const moduleName = "repository"

// insertBatchSize keeps multi-row INSERTs below SQLite's bound-variable limit.
const insertBatchSize = 200

// LocationRepository stores visits, raw places and enriched places.
type LocationRepository struct {
	db *gorm.DB
}

// NewLocationRepository creates a LocationRepository on db.
func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// Transaction runs fn with a repository bound to a single transaction.
// The transaction commits if fn returns nil and rolls back otherwise.
func (r *LocationRepository) Transaction(ctx context.Context, fn func(tx *LocationRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&LocationRepository{db: tx})
	})
}

// VisitStartTimes returns the start times of every stored visit.
// Ingestion uses them to skip visits that were imported before.
func (r *LocationRepository) VisitStartTimes(ctx context.Context) (map[int64]struct{}, error) {
	var times []int64
	if err := r.db.WithContext(ctx).Model(&entity.Visit{}).Pluck("start_time", &times).Error; err != nil {
		return nil, storageErr("failed to read visit start times", err)
	}
	set := make(map[int64]struct{}, len(times))
	for _, t := range times {
		set[t] = struct{}{}
	}
	return set, nil
}

// InsertVisits appends visits. Visits are immutable so there is no update path.
func (r *LocationRepository) InsertVisits(ctx context.Context, visits []entity.Visit) error {
	if len(visits) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&visits, insertBatchSize).Error; err != nil {
		return storageErr("failed to insert visits", err)
	}
	logger.Debugf("Inserted %d visits.", len(visits))
	return nil
}

// InsertRawPlaces stores export payloads for places seen for the first time.
// Existing rows are never overwritten. It returns the number of new rows.
func (r *LocationRepository) InsertRawPlaces(ctx context.Context, raws []entity.RawPlace) (int64, error) {
	if len(raws) == 0 {
		return 0, nil
	}
	var inserted int64
	for start := 0; start < len(raws); start += insertBatchSize {
		end := min(start+insertBatchSize, len(raws))
		batch := raws[start:end]
		n, err := gormadapter.Upsert(ctx, r.db, &batch, []string{"place_id"}, nil)
		if err != nil {
			return inserted, storageErr("failed to insert raw places", err)
		}
		inserted += n
	}
	return inserted, nil
}

// VisitedPlaceIDs lists every distinct place referenced by a visit.
func (r *LocationRepository) VisitedPlaceIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&entity.Visit{}).
		Distinct().Order("place_id").Pluck("place_id", &ids).Error
	if err != nil {
		return nil, storageErr("failed to list visited places", err)
	}
	return ids, nil
}

// PlaceIDsWithoutDetails lists visited places that have no enriched row yet.
func (r *LocationRepository) PlaceIDsWithoutDetails(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT v.place_id
		FROM visit v
		LEFT JOIN places p ON p.place_id = v.place_id
		WHERE p.place_id IS NULL
		ORDER BY v.place_id`).Scan(&ids).Error
	if err != nil {
		return nil, storageErr("failed to list places without details", err)
	}
	return ids, nil
}

// SavePlace writes an enriched place and its child rows in one transaction.
// An existing place is overwritten and its children are replaced, so
// re-enriching a place never duplicates rows.
func (r *LocationRepository) SavePlace(ctx context.Context, place *entity.Place) error {
	return r.Transaction(ctx, func(tx *LocationRepository) error {
		return tx.savePlace(ctx, place)
	})
}

func (r *LocationRepository) savePlace(ctx context.Context, place *entity.Place) error {
	db := r.db.WithContext(ctx)

	if _, err := gormadapter.Upsert(ctx, r.db, place, []string{"place_id"}, entity.PlaceColumns[1:]); err != nil {
		return storageErr("failed to upsert place "+place.PlaceID, err)
	}

	// opening_periods, special_days and secondary_opening_periods cascade.
	for _, child := range []interface{}{
		&entity.AddressComponent{}, &entity.OpeningHours{}, &entity.SecondaryOpeningHours{},
		&entity.Photo{}, &entity.Review{},
	} {
		if err := db.Where("place_id = ?", place.PlaceID).Delete(child).Error; err != nil {
			return storageErr("failed to clear child rows of place "+place.PlaceID, err)
		}
	}

	// Create on a parent slice also inserts its nested periods and special
	// days with the generated parent id.
	children := []struct {
		n     int
		model interface{}
	}{
		{len(place.AddressComponents), &place.AddressComponents},
		{len(place.OpeningHours), &place.OpeningHours},
		{len(place.SecondaryOpeningHours), &place.SecondaryOpeningHours},
		{len(place.Photos), &place.Photos},
		{len(place.Reviews), &place.Reviews},
	}
	for _, c := range children {
		if c.n == 0 {
			continue
		}
		if err := db.Create(c.model).Error; err != nil {
			return storageErr("failed to insert child rows of place "+place.PlaceID, err)
		}
	}
	return nil
}

// FindPlace loads a place with all of its child rows. It returns nil when
// the place has not been enriched.
func (r *LocationRepository) FindPlace(ctx context.Context, placeID string) (*entity.Place, error) {
	var places []entity.Place
	err := r.db.WithContext(ctx).
		Preload("AddressComponents").
		Preload("OpeningHours.Periods").
		Preload("OpeningHours.SpecialDays").
		Preload("SecondaryOpeningHours.Periods").
		Preload("Photos").
		Preload("Reviews").
		Where("place_id = ?", placeID).
		Limit(1).
		Find(&places).Error
	if err != nil {
		return nil, storageErr("failed to load place "+placeID, err)
	}
	if len(places) == 0 {
		return nil, nil
	}
	return &places[0], nil
}

// VisitRecords returns every visit joined with its place, ordered by start time.
func (r *LocationRepository) VisitRecords(ctx context.Context) ([]entity.VisitRecord, error) {
	var records []entity.VisitRecord
	err := r.db.WithContext(ctx).Raw(`
		SELECT v.start_time, v.end_time, v.place_id, v.semantic_type,
		       p.name, p.geometry_location_lat, p.geometry_location_lng
		FROM visit v
		LEFT JOIN places p ON p.place_id = v.place_id
		ORDER BY v.start_time`).Scan(&records).Error
	if err != nil {
		return nil, storageErr("failed to read visits", err)
	}
	return records, nil
}

// Stats counts the rows of the main tables.
type Stats struct {
	Visits    int64 `json:"visits"`
	RawPlaces int64 `json:"raw_places"`
	Places    int64 `json:"places"`
}

// Stats returns row counts for the status page.
func (r *LocationRepository) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	db := r.db.WithContext(ctx)
	if err := db.Model(&entity.Visit{}).Count(&s.Visits).Error; err != nil {
		return s, storageErr("failed to count visits", err)
	}
	if err := db.Model(&entity.RawPlace{}).Count(&s.RawPlaces).Error; err != nil {
		return s, storageErr("failed to count raw places", err)
	}
	if err := db.Model(&entity.Place{}).Count(&s.Places).Error; err != nil {
		return s, storageErr("failed to count places", err)
	}
	return s, nil
}

func storageErr(msg string, err error) error {
	return exception.New(exception.KindStorage, moduleName, msg, err)
}
