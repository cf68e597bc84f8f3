package restaurant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrisense/nutrisense/plugin/places"
)

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }
func ptrBool(v bool) *bool        { return &v }

func TestHaversine(t *testing.T) {
	t.Run("zero distance for identical points", func(t *testing.T) {
		assert.Equal(t, 0.0, haversine(22.6273, 120.3014, 22.6273, 120.3014))
	})

	t.Run("symmetric", func(t *testing.T) {
		d1 := haversine(22.6273, 120.3014, 22.63, 120.31)
		d2 := haversine(22.63, 120.31, 22.6273, 120.3014)
		assert.InDelta(t, d1, d2, 1e-9)
		assert.Greater(t, d1, 0.0)
	})
}

func TestNutritionScore(t *testing.T) {
	tests := []struct {
		name     string
		place    string
		types    []string
		expected float64
	}{
		{"plain restaurant keeps the base", "小吃店", []string{"restaurant"}, 6.0},
		{"healthy keyword adds 1.5", "健康沙拉屋", []string{"restaurant"}, 7.5},
		{"healthy keywords do not stack", "健康沙拉輕食", []string{"restaurant"}, 7.5},
		{"cafe type adds 0.5", "某某店", []string{"cafe"}, 6.5},
		{"takeaway subtracts 0.5", "某某店", []string{"meal_takeaway"}, 5.5},
		{"unhealthy keyword subtracts 2.0", "鹽酥雞大王", []string{"restaurant"}, 4.0},
		{"worst case stays above the floor", "炸物專賣", []string{"meal_takeaway"}, 3.5},
		{"best case stays below the ceiling", "有機輕食咖啡", []string{"cafe"}, 8.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := nutritionScore(tt.place, tt.types)
			assert.Equal(t, tt.expected, score)
			assert.GreaterOrEqual(t, score, 3.0)
			assert.LessOrEqual(t, score, 10.0)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		place    string
		types    []string
		expected string
	}{
		{"cafe by type", "某某店", []string{"cafe"}, "cafe"},
		{"cafe by name", "路易莎咖啡", []string{"restaurant"}, "cafe"},
		{"cafe wins over hot pot markers", "火鍋咖啡", []string{"restaurant"}, "cafe"},
		{"boxed meal by type", "某某店", []string{"meal_takeaway"}, "boxed-meal"},
		{"boxed meal by name", "池上便當", []string{"restaurant"}, "boxed-meal"},
		{"bar by type", "某某店", []string{"bar"}, "bar"},
		{"japanese by name", "一蘭拉麵", []string{"restaurant"}, "japanese"},
		{"italian by name", "拿坡里披薩", []string{"restaurant"}, "italian"},
		{"hot pot by name", "石二鍋物", []string{"restaurant"}, "hot-pot"},
		{"brunch by name", "晨間早午餐", []string{"restaurant"}, "brunch"},
		{"generic fallback", "無名小吃", []string{"restaurant"}, "restaurant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classify(tt.place, tt.types))
		})
	}
}

func TestBuildTags(t *testing.T) {
	t.Run("price tier first, then healthy, then rating", func(t *testing.T) {
		tags := buildTags("健康沙拉屋", []string{"restaurant"}, 1, 4.6, false)
		assert.Equal(t, []string{"budget", "healthy", "top-rated"}, tags)
	})

	t.Run("top-rated and well-reviewed are exclusive", func(t *testing.T) {
		tags := buildTags("小吃", []string{"restaurant"}, 2, 4.2, false)
		assert.Equal(t, []string{"mid-range", "well-reviewed"}, tags)
	})

	t.Run("capped at four", func(t *testing.T) {
		tags := buildTags("健康沙拉火鍋海鮮", []string{"cafe"}, 3, 4.8, true)
		assert.Len(t, tags, maxTags)
		assert.Equal(t, []string{"upscale", "healthy", "top-rated", "coffee-study"}, tags)
	})

	t.Run("open now appended when room remains", func(t *testing.T) {
		tags := buildTags("小吃", []string{"restaurant"}, 2, 3.0, true)
		assert.Equal(t, []string{"mid-range", "open-now"}, tags)
	})
}

func TestNewRecord(t *testing.T) {
	center := places.Location{Lat: 22.6273, Lng: 120.3014}

	t.Run("full record", func(t *testing.T) {
		p := places.Place{
			PlaceID:      "p1",
			Name:         "健康沙拉屋",
			Geometry:     places.Geometry{Location: places.Location{Lat: 22.6273, Lng: 120.3014}},
			Vicinity:     "建工路100號",
			Rating:       ptrFloat(4.6),
			PriceLevel:   ptrInt(1),
			Types:        []string{"restaurant"},
			Photos:       []places.Photo{{PhotoReference: "ref-1"}},
			OpeningHours: &places.OpeningHours{OpenNow: ptrBool(true)},
		}

		r := newRecord(p, center, func(ref string) string { return "http://img/" + ref })
		assert.Equal(t, "p1", r.ID)
		assert.Equal(t, 9.2, r.Rating)
		assert.Equal(t, 7.5, r.NutritionScore)
		assert.Equal(t, "restaurant", r.Category)
		assert.Equal(t, 0.0, r.DistanceKm)
		assert.Equal(t, []string{"budget", "healthy", "top-rated", "open-now"}, r.Tags)
		assert.Equal(t, "http://img/ref-1", r.ImageURL)
		require.NotNil(t, r.IsOpen)
		assert.True(t, *r.IsOpen)
	})

	t.Run("missing fields fall back to defaults", func(t *testing.T) {
		p := places.Place{
			PlaceID:  "p2",
			Name:     "無名小吃",
			Geometry: places.Geometry{Location: places.Location{Lat: 22.63, Lng: 120.31}},
			Types:    []string{"restaurant"},
		}

		r := newRecord(p, center, nil)
		assert.Equal(t, 8.0, r.Rating)
		assert.Equal(t, defaultPriceLevel, r.PriceLevel)
		assert.Equal(t, defaultAddress, r.Address)
		assert.Empty(t, r.ImageURL)
		assert.Nil(t, r.IsOpen)
		// Default rating 4.0 still earns the well-reviewed tag.
		assert.Contains(t, r.Tags, "well-reviewed")
	})
}

func TestSortRecords(t *testing.T) {
	records := []Record{
		{ID: "far", DistanceKm: 2.0, Rating: 9.8},
		{ID: "near-low", DistanceKm: 0.5, Rating: 7.0},
		{ID: "near-high", DistanceKm: 0.5, Rating: 9.0},
	}

	sortRecords(records)
	ids := []string{records[0].ID, records[1].ID, records[2].ID}
	assert.Equal(t, []string{"near-high", "near-low", "far"}, ids)

	// Re-sorting an already sorted list is a no-op.
	before := append([]Record(nil), records...)
	sortRecords(records)
	assert.Equal(t, before, records)
}
