package places

import (
	"encoding/json"

	"github.com/tigerroll/mapchat/internal/domain/entity"
)

// Flatten converts a Details result into a Place row and its child rows.
// The row is keyed by placeID, the id that was looked up, so a place whose
// id was migrated by Google still joins its visits. Repeated fields that
// are absent from the payload produce no child rows.
func Flatten(placeID string, d *Details) *entity.Place {
	p := &entity.Place{
		PlaceID:                      placeID,
		Name:                         d.Name,
		FormattedAddress:             d.FormattedAddress,
		FormattedPhoneNumber:         d.FormattedPhoneNumber,
		InternationalPhoneNumber:     d.InternationalPhoneNumber,
		BusinessStatus:               d.BusinessStatus,
		CurbsidePickup:               d.CurbsidePickup,
		Delivery:                     d.Delivery,
		DineIn:                       d.DineIn,
		Reservable:                   d.Reservable,
		ServesBeer:                   d.ServesBeer,
		ServesBrunch:                 d.ServesBrunch,
		ServesDinner:                 d.ServesDinner,
		ServesLunch:                  d.ServesLunch,
		ServesVegetarianFood:         d.ServesVegetarianFood,
		ServesWine:                   d.ServesWine,
		Takeout:                      d.Takeout,
		PriceLevel:                   d.PriceLevel,
		Rating:                       d.Rating,
		UserRatingsTotal:             d.UserRatingsTotal,
		URL:                          d.URL,
		Website:                      d.Website,
		WheelchairAccessibleEntrance: d.WheelchairAccessibleEntrance,
		UTCOffset:                    d.UTCOffset,
		Vicinity:                     d.Vicinity,
		Icon:                         d.Icon,
		IconBackgroundColor:          d.IconBackgroundColor,
		IconMaskBaseURI:              d.IconMaskBaseURI,
		Categories:                   jsonList(d.Types),
	}

	if s := d.EditorialSummary; s != nil {
		p.EditorialSummaryLanguage = s.Language
		p.EditorialSummaryOverview = s.Overview
	}
	if g := d.Geometry; g != nil {
		if g.Location != nil {
			p.GeometryLocationLat, p.GeometryLocationLng = g.Location.Lat, g.Location.Lng
		}
		if v := g.Viewport; v != nil {
			if v.Northeast != nil {
				p.GeometryViewportNortheastLat, p.GeometryViewportNortheastLng = v.Northeast.Lat, v.Northeast.Lng
			}
			if v.Southwest != nil {
				p.GeometryViewportSouthwestLat, p.GeometryViewportSouthwestLng = v.Southwest.Lat, v.Southwest.Lng
			}
		}
	}

	for _, c := range d.AddressComponents {
		p.AddressComponents = append(p.AddressComponents, entity.AddressComponent{
			PlaceID:   placeID,
			LongName:  c.LongName,
			ShortName: c.ShortName,
			Types:     *jsonList(c.Types),
		})
	}

	if oh := openingHours(placeID, d); oh != nil {
		p.OpeningHours = []entity.OpeningHours{*oh}
	}

	for _, s := range d.SecondaryOpeningHours {
		soh := entity.SecondaryOpeningHours{PlaceID: placeID, Type: s.Type, OpenNow: s.OpenNow}
		for _, period := range s.Periods {
			sp := entity.SecondaryOpeningPeriod{}
			if period.Open != nil {
				sp.OpenDay, sp.OpenTime, sp.OpenDate = period.Open.Day, period.Open.Time, period.Open.Date
			}
			if period.Close != nil {
				sp.CloseDay, sp.CloseTime, sp.CloseDate = period.Close.Day, period.Close.Time, period.Close.Date
			}
			soh.Periods = append(soh.Periods, sp)
		}
		p.SecondaryOpeningHours = append(p.SecondaryOpeningHours, soh)
	}

	for _, ph := range d.Photos {
		p.Photos = append(p.Photos, entity.Photo{
			PlaceID:          placeID,
			Height:           ph.Height,
			Width:            ph.Width,
			PhotoReference:   ph.PhotoReference,
			HTMLAttributions: *jsonList(ph.HTMLAttributions),
		})
	}

	for _, r := range d.Reviews {
		p.Reviews = append(p.Reviews, entity.Review{
			PlaceID:                 placeID,
			AuthorName:              r.AuthorName,
			AuthorURL:               r.AuthorURL,
			Language:                r.Language,
			OriginalLanguage:        r.OriginalLanguage,
			ProfilePhotoURL:         r.ProfilePhotoURL,
			Rating:                  r.Rating,
			RelativeTimeDescription: r.RelativeTimeDescription,
			Text:                    r.Text,
			Time:                    r.Time,
			Translated:              r.Translated,
		})
	}
	return p
}

// openingHours builds the regular hours block. Special days come from
// current_opening_hours and hang off the same block; when the payload has
// special days but no regular hours, the block is built from the current
// hours so the special days still have a parent row.
func openingHours(placeID string, d *Details) *entity.OpeningHours {
	var specialDays []SpecialDay
	if d.CurrentOpeningHours != nil {
		specialDays = d.CurrentOpeningHours.SpecialDays
	}

	var oh *entity.OpeningHours
	switch {
	case d.OpeningHours != nil:
		oh = &entity.OpeningHours{PlaceID: placeID, OpenNow: d.OpeningHours.OpenNow}
		for _, period := range d.OpeningHours.Periods {
			op := entity.OpeningPeriod{}
			if period.Open != nil {
				op.OpenDay, op.OpenTime = period.Open.Day, period.Open.Time
			}
			if period.Close != nil {
				op.CloseDay, op.CloseTime = period.Close.Day, period.Close.Time
			}
			oh.Periods = append(oh.Periods, op)
		}
	case len(specialDays) > 0:
		oh = &entity.OpeningHours{PlaceID: placeID, OpenNow: d.CurrentOpeningHours.OpenNow}
	default:
		return nil
	}

	for _, sd := range specialDays {
		oh.SpecialDays = append(oh.SpecialDays, entity.SpecialDay{
			Date:             sd.Date,
			ExceptionalHours: sd.ExceptionalHours,
		})
	}
	return oh
}

// jsonList renders a string list as a JSON array, "[]" when empty.
func jsonList(values []string) *string {
	if values == nil {
		values = []string{}
	}
	b, _ := json.Marshal(values)
	s := string(b)
	return &s
}
