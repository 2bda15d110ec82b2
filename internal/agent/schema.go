package agent

import (
	"fmt"
	"strings"
)

// Column describes one column of a queryable table.
type Column struct {
	Name string
	Type string
	Note string
}

// Table describes a table the model may query.
type Table struct {
	Name    string
	Note    string
	Columns []Column
}

// Tables is the static description of the location schema handed to the
// model. It mirrors the migrations; the chat table is deliberately absent.
var Tables = []Table{
	{
		Name: "visit",
		Note: "One row per detected stay at a place.",
		Columns: []Column{
			{"id", "INTEGER", "primary key"},
			{"start_time", "INTEGER", "start of the stay, unix seconds UTC"},
			{"end_time", "INTEGER", "end of the stay, unix seconds UTC"},
			{"place_id", "TEXT", "joins places.place_id and raw_place.place_id"},
			{"semantic_type", "TEXT", "one of UNKNOWN, HOME, WORK, INFERRED_HOME, INFERRED_WORK, SEARCHED_ADDRESS"},
		},
	},
	{
		Name: "raw_place",
		Note: "Place candidate exactly as exported, one row per place.",
		Columns: []Column{
			{"place_id", "TEXT", "primary key"},
			{"place_info", "TEXT", "JSON object with placeId, semanticType, probability, placeLocation.latLng"},
		},
	},
	{
		Name: "places",
		Note: "Place details from Google Places. A visited place may have no row here.",
		Columns: []Column{
			{"place_id", "TEXT", "primary key"},
			{"name", "TEXT", ""},
			{"formatted_address", "TEXT", ""},
			{"formatted_phone_number", "TEXT", ""},
			{"international_phone_number", "TEXT", ""},
			{"business_status", "TEXT", "OPERATIONAL, CLOSED_TEMPORARILY or CLOSED_PERMANENTLY"},
			{"curbside_pickup", "BOOLEAN", ""},
			{"delivery", "BOOLEAN", ""},
			{"dine_in", "BOOLEAN", ""},
			{"reservable", "BOOLEAN", ""},
			{"serves_beer", "BOOLEAN", ""},
			{"serves_brunch", "BOOLEAN", ""},
			{"serves_dinner", "BOOLEAN", ""},
			{"serves_lunch", "BOOLEAN", ""},
			{"serves_vegetarian_food", "BOOLEAN", ""},
			{"serves_wine", "BOOLEAN", ""},
			{"takeout", "BOOLEAN", ""},
			{"price_level", "INTEGER", "0 (free) to 4 (very expensive)"},
			{"rating", "REAL", "1.0 to 5.0"},
			{"user_ratings_total", "INTEGER", ""},
			{"url", "TEXT", "Google Maps URL"},
			{"website", "TEXT", ""},
			{"wheelchair_accessible_entrance", "BOOLEAN", ""},
			{"utc_offset", "INTEGER", "minutes from UTC"},
			{"vicinity", "TEXT", "short address"},
			{"icon", "TEXT", ""},
			{"icon_background_color", "TEXT", ""},
			{"icon_mask_base_uri", "TEXT", ""},
			{"editorial_summary_language", "TEXT", ""},
			{"editorial_summary_overview", "TEXT", ""},
			{"geometry_location_lat", "REAL", ""},
			{"geometry_location_lng", "REAL", ""},
			{"geometry_viewport_northeast_lat", "REAL", ""},
			{"geometry_viewport_northeast_lng", "REAL", ""},
			{"geometry_viewport_southwest_lat", "REAL", ""},
			{"geometry_viewport_southwest_lng", "REAL", ""},
			{"categories", "TEXT", `JSON array of place types, e.g. ["cafe","food"]`},
		},
	},
	{
		Name: "address_components",
		Columns: []Column{
			{"id", "INTEGER", "primary key"},
			{"place_id", "TEXT", "references places"},
			{"long_name", "TEXT", ""},
			{"short_name", "TEXT", ""},
			{"types", "TEXT", `JSON array, e.g. ["locality","political"]`},
		},
	},
	{
		Name: "opening_hours",
		Columns: []Column{
			{"id", "INTEGER", "primary key"},
			{"place_id", "TEXT", "references places"},
			{"open_now", "BOOLEAN", "as of enrichment time"},
		},
	},
	{
		Name: "opening_periods",
		Columns: []Column{
			{"id", "INTEGER", "primary key"},
			{"opening_hours_id", "INTEGER", "references opening_hours"},
			{"open_day", "INTEGER", "0 = Sunday to 6 = Saturday"},
			{"open_time", "TEXT", "HHMM"},
			{"close_day", "INTEGER", "0 = Sunday to 6 = Saturday"},
			{"close_time", "TEXT", "HHMM"},
		},
	},
	{
		Name: "special_days",
		Columns: []Column{
			{"id", "INTEGER", "primary key"},
			{"opening_hours_id", "INTEGER", "references opening_hours"},
			{"date", "TEXT", "YYYY-MM-DD"},
			{"exceptional_hours", "BOOLEAN", ""},
		},
	},
	{
		Name: "secondary_opening_hours",
		Columns: []Column{
			{"id", "INTEGER", "primary key"},
			{"place_id", "TEXT", "references places"},
			{"type", "TEXT", "e.g. DRIVE_THROUGH, DELIVERY, TAKEOUT"},
			{"open_now", "BOOLEAN", ""},
		},
	},
	{
		Name: "secondary_opening_periods",
		Columns: []Column{
			{"id", "INTEGER", "primary key"},
			{"secondary_opening_hours_id", "INTEGER", "references secondary_opening_hours"},
			{"open_day", "INTEGER", ""},
			{"open_time", "TEXT", "HHMM"},
			{"close_day", "INTEGER", ""},
			{"close_time", "TEXT", "HHMM"},
			{"open_date", "TEXT", "YYYY-MM-DD"},
			{"close_date", "TEXT", "YYYY-MM-DD"},
		},
	},
	{
		Name: "photos",
		Columns: []Column{
			{"id", "INTEGER", "primary key"},
			{"place_id", "TEXT", "references places"},
			{"height", "INTEGER", ""},
			{"width", "INTEGER", ""},
			{"photo_reference", "TEXT", ""},
			{"html_attributions", "TEXT", "JSON array"},
		},
	},
	{
		Name: "reviews",
		Columns: []Column{
			{"id", "INTEGER", "primary key"},
			{"place_id", "TEXT", "references places"},
			{"author_name", "TEXT", ""},
			{"author_url", "TEXT", ""},
			{"language", "TEXT", ""},
			{"original_language", "TEXT", ""},
			{"profile_photo_url", "TEXT", ""},
			{"rating", "INTEGER", "1 to 5"},
			{"relative_time_description", "TEXT", ""},
			{"text", "TEXT", ""},
			{"time", "INTEGER", "unix seconds"},
			{"translated", "BOOLEAN", ""},
		},
	},
}

// DescribeSchema renders Tables as SQLite DDL with column notes as comments.
func DescribeSchema() string {
	var b strings.Builder
	for i, t := range Tables {
		if i > 0 {
			b.WriteString("\n")
		}
		if t.Note != "" {
			fmt.Fprintf(&b, "-- %s\n", t.Note)
		}
		fmt.Fprintf(&b, "CREATE TABLE %s (\n", t.Name)
		for j, c := range t.Columns {
			sep := ","
			if j == len(t.Columns)-1 {
				sep = ""
			}
			if c.Note != "" {
				fmt.Fprintf(&b, "  %s %s%s -- %s\n", c.Name, c.Type, sep, c.Note)
			} else {
				fmt.Fprintf(&b, "  %s %s%s\n", c.Name, c.Type, sep)
			}
		}
		b.WriteString(");\n")
	}
	return b.String()
}
