package entity

// Place is the enriched description of a place returned by the Places API.
// Every attribute is nullable because coverage varies per place.
type Place struct {
	PlaceID                      string   `gorm:"column:place_id;primaryKey"`
	Name                         *string  `gorm:"column:name"`
	FormattedAddress             *string  `gorm:"column:formatted_address"`
	FormattedPhoneNumber         *string  `gorm:"column:formatted_phone_number"`
	InternationalPhoneNumber     *string  `gorm:"column:international_phone_number"`
	BusinessStatus               *string  `gorm:"column:business_status"`
	CurbsidePickup               *bool    `gorm:"column:curbside_pickup"`
	Delivery                     *bool    `gorm:"column:delivery"`
	DineIn                       *bool    `gorm:"column:dine_in"`
	Reservable                   *bool    `gorm:"column:reservable"`
	ServesBeer                   *bool    `gorm:"column:serves_beer"`
	ServesBrunch                 *bool    `gorm:"column:serves_brunch"`
	ServesDinner                 *bool    `gorm:"column:serves_dinner"`
	ServesLunch                  *bool    `gorm:"column:serves_lunch"`
	ServesVegetarianFood         *bool    `gorm:"column:serves_vegetarian_food"`
	ServesWine                   *bool    `gorm:"column:serves_wine"`
	Takeout                      *bool    `gorm:"column:takeout"`
	PriceLevel                   *int64   `gorm:"column:price_level"`
	Rating                       *float64 `gorm:"column:rating"`
	UserRatingsTotal             *int64   `gorm:"column:user_ratings_total"`
	URL                          *string  `gorm:"column:url"`
	Website                      *string  `gorm:"column:website"`
	WheelchairAccessibleEntrance *bool    `gorm:"column:wheelchair_accessible_entrance"`
	UTCOffset                    *int64   `gorm:"column:utc_offset"`
	Vicinity                     *string  `gorm:"column:vicinity"`
	Icon                         *string  `gorm:"column:icon"`
	IconBackgroundColor          *string  `gorm:"column:icon_background_color"`
	IconMaskBaseURI              *string  `gorm:"column:icon_mask_base_uri"`
	EditorialSummaryLanguage     *string  `gorm:"column:editorial_summary_language"`
	EditorialSummaryOverview     *string  `gorm:"column:editorial_summary_overview"`
	GeometryLocationLat          *float64 `gorm:"column:geometry_location_lat"`
	GeometryLocationLng          *float64 `gorm:"column:geometry_location_lng"`
	GeometryViewportNortheastLat *float64 `gorm:"column:geometry_viewport_northeast_lat"`
	GeometryViewportNortheastLng *float64 `gorm:"column:geometry_viewport_northeast_lng"`
	GeometryViewportSouthwestLat *float64 `gorm:"column:geometry_viewport_southwest_lat"`
	GeometryViewportSouthwestLng *float64 `gorm:"column:geometry_viewport_southwest_lng"`
	// Categories is a JSON array of the Places "types".
	Categories *string `gorm:"column:categories"`

	AddressComponents     []AddressComponent      `gorm:"foreignKey:PlaceID;references:PlaceID"`
	OpeningHours          []OpeningHours          `gorm:"foreignKey:PlaceID;references:PlaceID"`
	SecondaryOpeningHours []SecondaryOpeningHours `gorm:"foreignKey:PlaceID;references:PlaceID"`
	Photos                []Photo                 `gorm:"foreignKey:PlaceID;references:PlaceID"`
	Reviews               []Review                `gorm:"foreignKey:PlaceID;references:PlaceID"`
}

// TableName specifies the table name for Place.
func (Place) TableName() string {
	return "places"
}

// PlaceColumns are the scalar columns of places, in schema order.
var PlaceColumns = []string{
	"place_id", "name", "formatted_address", "formatted_phone_number", "international_phone_number",
	"business_status", "curbside_pickup", "delivery", "dine_in", "reservable", "serves_beer",
	"serves_brunch", "serves_dinner", "serves_lunch", "serves_vegetarian_food", "serves_wine",
	"takeout", "price_level", "rating", "user_ratings_total", "url", "website",
	"wheelchair_accessible_entrance", "utc_offset", "vicinity", "icon", "icon_background_color",
	"icon_mask_base_uri", "editorial_summary_language", "editorial_summary_overview",
	"geometry_location_lat", "geometry_location_lng",
	"geometry_viewport_northeast_lat", "geometry_viewport_northeast_lng",
	"geometry_viewport_southwest_lat", "geometry_viewport_southwest_lng", "categories",
}

// AddressComponent is one element of a place's address.
type AddressComponent struct {
	ID        int64   `gorm:"column:id;primaryKey;autoIncrement"`
	PlaceID   string  `gorm:"column:place_id"`
	LongName  *string `gorm:"column:long_name"`
	ShortName *string `gorm:"column:short_name"`
	Types     string  `gorm:"column:types"`
}

// TableName specifies the table name for AddressComponent.
func (AddressComponent) TableName() string {
	return "address_components"
}

// OpeningHours is a place's regular opening hours block.
type OpeningHours struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	PlaceID     string          `gorm:"column:place_id"`
	OpenNow     *bool           `gorm:"column:open_now"`
	Periods     []OpeningPeriod `gorm:"foreignKey:OpeningHoursID"`
	SpecialDays []SpecialDay    `gorm:"foreignKey:OpeningHoursID"`
}

// TableName specifies the table name for OpeningHours.
func (OpeningHours) TableName() string {
	return "opening_hours"
}

// OpeningPeriod is one open/close pair. Days are 0 (Sunday) to 6, times HHMM.
type OpeningPeriod struct {
	ID             int64   `gorm:"column:id;primaryKey;autoIncrement"`
	OpeningHoursID int64   `gorm:"column:opening_hours_id"`
	OpenDay        *int64  `gorm:"column:open_day"`
	OpenTime       *string `gorm:"column:open_time"`
	CloseDay       *int64  `gorm:"column:close_day"`
	CloseTime      *string `gorm:"column:close_time"`
}

// TableName specifies the table name for OpeningPeriod.
func (OpeningPeriod) TableName() string {
	return "opening_periods"
}

// SpecialDay is a date with hours that differ from the regular schedule.
type SpecialDay struct {
	ID               int64   `gorm:"column:id;primaryKey;autoIncrement"`
	OpeningHoursID   int64   `gorm:"column:opening_hours_id"`
	Date             *string `gorm:"column:date"`
	ExceptionalHours *bool   `gorm:"column:exceptional_hours"`
}

// TableName specifies the table name for SpecialDay.
func (SpecialDay) TableName() string {
	return "special_days"
}

// SecondaryOpeningHours are hours of a sub-service such as DRIVE_THROUGH.
type SecondaryOpeningHours struct {
	ID      int64                    `gorm:"column:id;primaryKey;autoIncrement"`
	PlaceID string                   `gorm:"column:place_id"`
	Type    *string                  `gorm:"column:type"`
	OpenNow *bool                    `gorm:"column:open_now"`
	Periods []SecondaryOpeningPeriod `gorm:"foreignKey:SecondaryOpeningHoursID"`
}

// TableName specifies the table name for SecondaryOpeningHours.
func (SecondaryOpeningHours) TableName() string {
	return "secondary_opening_hours"
}

// SecondaryOpeningPeriod is one open/close pair of a secondary schedule.
type SecondaryOpeningPeriod struct {
	ID                      int64   `gorm:"column:id;primaryKey;autoIncrement"`
	SecondaryOpeningHoursID int64   `gorm:"column:secondary_opening_hours_id"`
	OpenDay                 *int64  `gorm:"column:open_day"`
	OpenTime                *string `gorm:"column:open_time"`
	CloseDay                *int64  `gorm:"column:close_day"`
	CloseTime               *string `gorm:"column:close_time"`
	OpenDate                *string `gorm:"column:open_date"`
	CloseDate               *string `gorm:"column:close_date"`
}

// TableName specifies the table name for SecondaryOpeningPeriod.
func (SecondaryOpeningPeriod) TableName() string {
	return "secondary_opening_periods"
}

// Photo references a place photo.
type Photo struct {
	ID               int64   `gorm:"column:id;primaryKey;autoIncrement"`
	PlaceID          string  `gorm:"column:place_id"`
	Height           *int64  `gorm:"column:height"`
	Width            *int64  `gorm:"column:width"`
	PhotoReference   *string `gorm:"column:photo_reference"`
	HTMLAttributions string  `gorm:"column:html_attributions"`
}

// TableName specifies the table name for Photo.
func (Photo) TableName() string {
	return "photos"
}

// Review is a user review of a place.
type Review struct {
	ID                      int64   `gorm:"column:id;primaryKey;autoIncrement"`
	PlaceID                 string  `gorm:"column:place_id"`
	AuthorName              *string `gorm:"column:author_name"`
	AuthorURL               *string `gorm:"column:author_url"`
	Language                *string `gorm:"column:language"`
	OriginalLanguage        *string `gorm:"column:original_language"`
	ProfilePhotoURL         *string `gorm:"column:profile_photo_url"`
	Rating                  *int64  `gorm:"column:rating"`
	RelativeTimeDescription *string `gorm:"column:relative_time_description"`
	Text                    *string `gorm:"column:text"`
	Time                    *int64  `gorm:"column:time"`
	Translated              *bool   `gorm:"column:translated"`
}

// TableName specifies the table name for Review.
func (Review) TableName() string {
	return "reviews"
}
