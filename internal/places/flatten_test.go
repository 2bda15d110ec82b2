package places_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/mapchat/internal/places"
)

const fullPlace = `{
  "place_id": "p1",
  "name": "Corner Cafe",
  "rating": 4.6,
  "price_level": 2,
  "serves_wine": true,
  "editorial_summary": {"language": "en", "overview": "Cosy."},
  "geometry": {
    "location": {"lat": 47.1, "lng": 8.2},
    "viewport": {"northeast": {"lat": 47.2, "lng": 8.3}, "southwest": {"lat": 47.0, "lng": 8.1}}
  },
  "types": ["cafe", "food"],
  "address_components": [{"long_name": "Main Street", "short_name": "Main St", "types": ["route"]}],
  "opening_hours": {
    "open_now": false,
    "periods": [{"open": {"day": 1, "time": "0700"}, "close": {"day": 1, "time": "1700"}}]
  },
  "current_opening_hours": {"special_days": [{"date": "2024-12-24", "exceptional_hours": true}]},
  "secondary_opening_hours": [{
    "type": "DELIVERY",
    "periods": [{"open": {"day": 2, "time": "1100", "date": "2024-06-04"}, "close": {"day": 2, "time": "2100", "date": "2024-06-04"}}]
  }],
  "photos": [{"height": 400, "width": 600, "photo_reference": "ref", "html_attributions": ["<a>me</a>"]}],
  "reviews": [{"author_name": "Bo", "rating": 5, "text": "Lovely", "time": 1700000000, "translated": false}]
}`

func decode(t *testing.T, raw string) *places.Details {
	t.Helper()
	var d places.Details
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	return &d
}

func TestFlatten_FullPayload(t *testing.T) {
	p := places.Flatten("p1", decode(t, fullPlace))

	assert.Equal(t, "p1", p.PlaceID)
	assert.Equal(t, "Corner Cafe", *p.Name)
	assert.Equal(t, 4.6, *p.Rating)
	assert.Equal(t, int64(2), *p.PriceLevel)
	assert.True(t, *p.ServesWine)
	assert.Nil(t, p.Takeout)
	assert.Equal(t, "Cosy.", *p.EditorialSummaryOverview)
	assert.Equal(t, 47.1, *p.GeometryLocationLat)
	assert.Equal(t, 8.1, *p.GeometryViewportSouthwestLng)
	assert.JSONEq(t, `["cafe","food"]`, *p.Categories)

	require.Len(t, p.AddressComponents, 1)
	assert.Equal(t, "p1", p.AddressComponents[0].PlaceID)
	assert.JSONEq(t, `["route"]`, p.AddressComponents[0].Types)

	require.Len(t, p.OpeningHours, 1)
	assert.False(t, *p.OpeningHours[0].OpenNow)
	require.Len(t, p.OpeningHours[0].Periods, 1)
	assert.Equal(t, "1700", *p.OpeningHours[0].Periods[0].CloseTime)
	require.Len(t, p.OpeningHours[0].SpecialDays, 1)
	assert.Equal(t, "2024-12-24", *p.OpeningHours[0].SpecialDays[0].Date)

	require.Len(t, p.SecondaryOpeningHours, 1)
	assert.Equal(t, "DELIVERY", *p.SecondaryOpeningHours[0].Type)
	require.Len(t, p.SecondaryOpeningHours[0].Periods, 1)
	assert.Equal(t, "2024-06-04", *p.SecondaryOpeningHours[0].Periods[0].OpenDate)

	require.Len(t, p.Photos, 1)
	assert.JSONEq(t, `["<a>me</a>"]`, p.Photos[0].HTMLAttributions)
	require.Len(t, p.Reviews, 1)
	assert.Equal(t, int64(1700000000), *p.Reviews[0].Time)
}

func TestFlatten_MinimalPayloadHasNoChildren(t *testing.T) {
	p := places.Flatten("p2", decode(t, `{"place_id":"p2","name":"Bare"}`))

	assert.Equal(t, "p2", p.PlaceID)
	assert.Equal(t, "[]", *p.Categories)
	assert.Nil(t, p.GeometryLocationLat)
	assert.Empty(t, p.AddressComponents)
	assert.Empty(t, p.OpeningHours)
	assert.Empty(t, p.SecondaryOpeningHours)
	assert.Empty(t, p.Photos)
	assert.Empty(t, p.Reviews)
}

func TestFlatten_SpecialDaysWithoutRegularHours(t *testing.T) {
	p := places.Flatten("p3", decode(t, `{
		"place_id": "p3",
		"current_opening_hours": {"open_now": true, "special_days": [{"date": "2024-01-01"}]}
	}`))

	require.Len(t, p.OpeningHours, 1)
	assert.True(t, *p.OpeningHours[0].OpenNow)
	assert.Empty(t, p.OpeningHours[0].Periods)
	assert.Len(t, p.OpeningHours[0].SpecialDays, 1)
}

func TestFlatten_UsesRequestedID(t *testing.T) {
	p := places.Flatten("old-id", decode(t, `{"place_id":"new-id"}`))
	assert.Equal(t, "old-id", p.PlaceID)
}
