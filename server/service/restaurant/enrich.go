package restaurant

import (
	"math"
	"strings"

	"github.com/nutrisense/nutrisense/plugin/places"
)

// Record is one ranked restaurant as served to clients. It is derived 1:1
// from an upstream place record at fetch time and never persisted.
type Record struct {
	ID             string   `json:"restaurant_id"`
	Name           string   `json:"name"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	Address        string   `json:"address"`
	Rating         float64  `json:"avg_rating"`
	NutritionScore float64  `json:"nutrition_score"`
	Category       string   `json:"category"`
	PriceLevel     int      `json:"price_level"`
	DistanceKm     float64  `json:"distance_km"`
	Tags           []string `json:"tags"`
	ImageURL       string   `json:"image_url,omitempty"`
	IsOpen         *bool    `json:"is_open"`
}

const (
	// earthRadiusKm is the sphere radius used by the haversine formula.
	earthRadiusKm = 6371.0

	// Per-field defaults for upstream records missing the attribute. One bad
	// record must not fail the batch.
	defaultRating     = 4.0
	defaultPriceLevel = 2
	defaultAddress    = "地址未提供"

	maxTags = 4
)

var (
	healthyKeywords   = []string{"沙拉", "輕食", "健康", "蔬食", "素食", "有機"}
	unhealthyKeywords = []string{"炸", "燒烤", "速食", "鹽酥雞"}

	japaneseMarkers = []string{"日式", "日本", "壽司", "拉麵"}
	italianMarkers  = []string{"義式", "義大利", "披薩"}
	hotPotMarkers   = []string{"火鍋", "鍋物"}
	brunchMarkers   = []string{"早餐", "早午餐"}

	groupDiningMarkers = []string{"火鍋", "燒肉", "海鮮", "聚餐"}
)

// haversine returns the great-circle distance between two points in km.
func haversine(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// scoreRule is one step of the nutrition-score fold: when applies holds, the
// delta is added to the running score.
type scoreRule struct {
	applies func(name string, types []string) bool
	delta   float64
}

var scoreRules = []scoreRule{
	{func(_ string, types []string) bool { return hasType(types, "cafe") }, 0.5},
	{func(_ string, types []string) bool { return hasType(types, "meal_takeaway") }, -0.5},
	{func(name string, _ []string) bool { return containsAny(name, healthyKeywords) }, 1.5},
	{func(name string, _ []string) bool { return containsAny(name, unhealthyKeywords) }, -2.0},
}

// nutritionScore folds the rule table over a base of 6.0, then clamps to
// [3.0, 10.0] and rounds to one decimal. Keyword rules count at most once
// each regardless of how many keywords match.
func nutritionScore(name string, types []string) float64 {
	name = strings.ToLower(name)
	score := 6.0
	for _, rule := range scoreRules {
		if rule.applies(name, types) {
			score += rule.delta
		}
	}
	return round1(math.Min(math.Max(score, 3.0), 10.0))
}

// classify assigns the category label, first matching rule wins.
func classify(name string, types []string) string {
	name = strings.ToLower(name)
	switch {
	case hasType(types, "cafe") || strings.Contains(name, "咖啡"):
		return "cafe"
	case hasType(types, "meal_takeaway") || strings.Contains(name, "便當"):
		return "boxed-meal"
	case hasType(types, "bar"):
		return "bar"
	case containsAny(name, japaneseMarkers):
		return "japanese"
	case containsAny(name, italianMarkers):
		return "italian"
	case containsAny(name, hotPotMarkers):
		return "hot-pot"
	case containsAny(name, brunchMarkers):
		return "brunch"
	default:
		return "restaurant"
	}
}

// buildTags derives the record's tag list. Order is significant: the price
// tier comes first, and the list is capped at 4. rating is on the upstream
// 0-5 scale. If no rule fires, a single type-based fallback tag is added.
func buildTags(name string, types []string, priceLevel int, rating float64, openNow bool) []string {
	name = strings.ToLower(name)
	tags := make([]string, 0, maxTags)

	switch {
	case priceLevel <= 1:
		tags = append(tags, "budget")
	case priceLevel >= 3:
		tags = append(tags, "upscale")
	default:
		tags = append(tags, "mid-range")
	}

	if containsAny(name, healthyKeywords) {
		tags = append(tags, "healthy")
	}

	if rating >= 4.5 {
		tags = append(tags, "top-rated")
	} else if rating >= 4.0 {
		tags = append(tags, "well-reviewed")
	}

	if hasType(types, "cafe") || strings.Contains(name, "咖啡") {
		tags = append(tags, "coffee-study")
	}
	if strings.Contains(name, "火鍋") || strings.Contains(name, "hot pot") {
		tags = append(tags, "hot-pot")
	}
	if containsAny(name, groupDiningMarkers) {
		tags = append(tags, "group-dining")
	}
	if openNow {
		tags = append(tags, "open-now")
	}

	if len(tags) == 0 {
		switch {
		case hasType(types, "cafe"):
			tags = append(tags, "coffee")
		case hasType(types, "restaurant"):
			tags = append(tags, "recommended")
		default:
			tags = append(tags, "new-find")
		}
	}

	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags
}

// newRecord derives a Record from a raw upstream place. Missing fields fall
// back to per-field defaults. photoURL may be nil when no image URLs can be
// built. The served rating is rescaled from the upstream 0-5 scale to 0-10.
func newRecord(place places.Place, center places.Location, photoURL func(string) string) Record {
	rating := defaultRating
	if place.Rating != nil {
		rating = *place.Rating
	}
	priceLevel := defaultPriceLevel
	if place.PriceLevel != nil {
		priceLevel = *place.PriceLevel
	}
	address := place.Vicinity
	if address == "" {
		address = defaultAddress
	}

	var openNow bool
	var isOpen *bool
	if place.OpeningHours != nil && place.OpeningHours.OpenNow != nil {
		openNow = *place.OpeningHours.OpenNow
		isOpen = place.OpeningHours.OpenNow
	}

	var imageURL string
	if photoURL != nil && len(place.Photos) > 0 {
		imageURL = photoURL(place.Photos[0].PhotoReference)
	}

	loc := place.Geometry.Location
	return Record{
		ID:             place.PlaceID,
		Name:           place.Name,
		Latitude:       loc.Lat,
		Longitude:      loc.Lng,
		Address:        address,
		Rating:         round1(rating * 2),
		NutritionScore: nutritionScore(place.Name, place.Types),
		Category:       classify(place.Name, place.Types),
		PriceLevel:     priceLevel,
		DistanceKm:     round1(haversine(center.Lat, center.Lng, loc.Lat, loc.Lng)),
		Tags:           buildTags(place.Name, place.Types, priceLevel, rating, openNow),
		ImageURL:       imageURL,
		IsOpen:         isOpen,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func hasType(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
