package places

// Location is a geographic point.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geometry wraps the location of a place record.
type Geometry struct {
	Location Location `json:"location"`
}

// Photo is a photo reference attached to a place record.
type Photo struct {
	PhotoReference string `json:"photo_reference"`
}

// OpeningHours carries the optional open-now flag.
type OpeningHours struct {
	OpenNow *bool `json:"open_now"`
}

// Place is one raw record from the places upstream. Rating and PriceLevel are
// pointers because upstream records routinely omit them; a missing field must
// not fail the batch.
type Place struct {
	PlaceID      string        `json:"place_id"`
	Name         string        `json:"name"`
	Geometry     Geometry      `json:"geometry"`
	Vicinity     string        `json:"vicinity"`
	Rating       *float64      `json:"rating"`
	PriceLevel   *int          `json:"price_level"`
	Types        []string      `json:"types"`
	Photos       []Photo       `json:"photos"`
	OpeningHours *OpeningHours `json:"opening_hours"`
}

// searchResponse is the wire shape of a nearby-search response.
type searchResponse struct {
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message"`
	Results      []Place `json:"results"`
}
