package places

import "encoding/json"

// DetailsResponse is the envelope of a Place Details response.
type DetailsResponse struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Result       json.RawMessage `json:"result,omitempty"`
}

// Details is the subset of a Place Details result that is stored.
type Details struct {
	PlaceID                      string                  `json:"place_id"`
	Name                         *string                 `json:"name"`
	FormattedAddress             *string                 `json:"formatted_address"`
	FormattedPhoneNumber         *string                 `json:"formatted_phone_number"`
	InternationalPhoneNumber     *string                 `json:"international_phone_number"`
	BusinessStatus               *string                 `json:"business_status"`
	CurbsidePickup               *bool                   `json:"curbside_pickup"`
	Delivery                     *bool                   `json:"delivery"`
	DineIn                       *bool                   `json:"dine_in"`
	Reservable                   *bool                   `json:"reservable"`
	ServesBeer                   *bool                   `json:"serves_beer"`
	ServesBrunch                 *bool                   `json:"serves_brunch"`
	ServesDinner                 *bool                   `json:"serves_dinner"`
	ServesLunch                  *bool                   `json:"serves_lunch"`
	ServesVegetarianFood         *bool                   `json:"serves_vegetarian_food"`
	ServesWine                   *bool                   `json:"serves_wine"`
	Takeout                      *bool                   `json:"takeout"`
	PriceLevel                   *int64                  `json:"price_level"`
	Rating                       *float64                `json:"rating"`
	UserRatingsTotal             *int64                  `json:"user_ratings_total"`
	URL                          *string                 `json:"url"`
	Website                      *string                 `json:"website"`
	WheelchairAccessibleEntrance *bool                   `json:"wheelchair_accessible_entrance"`
	UTCOffset                    *int64                  `json:"utc_offset"`
	Vicinity                     *string                 `json:"vicinity"`
	Icon                         *string                 `json:"icon"`
	IconBackgroundColor          *string                 `json:"icon_background_color"`
	IconMaskBaseURI              *string                 `json:"icon_mask_base_uri"`
	EditorialSummary             *EditorialSummary       `json:"editorial_summary"`
	Geometry                     *Geometry               `json:"geometry"`
	Types                        []string                `json:"types"`
	AddressComponents            []AddressComponent      `json:"address_components"`
	OpeningHours                 *OpeningHours           `json:"opening_hours"`
	CurrentOpeningHours          *OpeningHours           `json:"current_opening_hours"`
	SecondaryOpeningHours        []SecondaryOpeningHours `json:"secondary_opening_hours"`
	Photos                       []Photo                 `json:"photos"`
	Reviews                      []Review                `json:"reviews"`
}

type EditorialSummary struct {
	Language *string `json:"language"`
	Overview *string `json:"overview"`
}

type LatLng struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type Geometry struct {
	Location *LatLng `json:"location"`
	Viewport *struct {
		Northeast *LatLng `json:"northeast"`
		Southwest *LatLng `json:"southwest"`
	} `json:"viewport"`
}

type AddressComponent struct {
	LongName  *string  `json:"long_name"`
	ShortName *string  `json:"short_name"`
	Types     []string `json:"types"`
}

// TimePoint is one end of an opening period. Day 0 is Sunday.
type TimePoint struct {
	Day  *int64  `json:"day"`
	Time *string `json:"time"`
	Date *string `json:"date"`
}

type Period struct {
	Open  *TimePoint `json:"open"`
	Close *TimePoint `json:"close"`
}

type SpecialDay struct {
	Date             *string `json:"date"`
	ExceptionalHours *bool   `json:"exceptional_hours"`
}

type OpeningHours struct {
	OpenNow     *bool        `json:"open_now"`
	Periods     []Period     `json:"periods"`
	SpecialDays []SpecialDay `json:"special_days"`
}

type SecondaryOpeningHours struct {
	Type    *string  `json:"type"`
	OpenNow *bool    `json:"open_now"`
	Periods []Period `json:"periods"`
}

type Photo struct {
	Height           *int64   `json:"height"`
	Width            *int64   `json:"width"`
	PhotoReference   *string  `json:"photo_reference"`
	HTMLAttributions []string `json:"html_attributions"`
}

type Review struct {
	AuthorName              *string `json:"author_name"`
	AuthorURL               *string `json:"author_url"`
	Language                *string `json:"language"`
	OriginalLanguage        *string `json:"original_language"`
	ProfilePhotoURL         *string `json:"profile_photo_url"`
	Rating                  *int64  `json:"rating"`
	RelativeTimeDescription *string `json:"relative_time_description"`
	Text                    *string `json:"text"`
	Time                    *int64  `json:"time"`
	Translated              *bool   `json:"translated"`
}
