package restaurant

import (
	"strings"

	apierrors "github.com/nutrisense/nutrisense/internal/errors"
)

// Category is the closed set of list filters a caller can ask for.
type Category string

const (
	CategoryAll         Category = "all"
	CategoryHealth      Category = "health"
	CategoryBudget      Category = "budget"
	CategoryGroupDining Category = "group-dining"
	CategoryCafe        Category = "cafe"
)

// categoryKeywords maps each filter category to the substrings that select a
// record. A record matches when any keyword appears, case-insensitively, in
// its name, its category label, or any of its tags. The label terms
// ("boxed-meal", "restaurant", "hot-pot", "japanese", "italian") keep the
// label-side matches working: a generic restaurant counts as group dining and
// a takeaway shop counts as budget through its label alone.
var categoryKeywords = map[Category][]string{
	CategoryHealth: {
		"健康", "輕食", "沙拉", "蔬菜", "素食", "健身", "無糖",
		"低卡", "雞肉", "健身餐", "超商", "smoothie", "bowl", "healthy",
	},
	CategoryBudget: {
		"平價", "便當", "小吃", "蚵仔煎", "大腸麵線", "滷肉飯", "麵",
		"飯", "湯", "拉麵", "牛肉麵", "傳統", "budget", "boxed-meal",
	},
	CategoryGroupDining: {
		"火鍋", "燒肉", "海鮮", "餐廳", "聚餐", "聚", "日式", "義式",
		"烤", "吃到飽", "和食", "中式", "bbq", "group-dining",
		"restaurant", "hot-pot", "japanese", "italian",
	},
	CategoryCafe: {
		"咖啡", "cafe", "咖啡館", "手沖", "拿鐵", "卡布奇諾", "coffee",
		"甜點", "烘焙", "冷萃",
	},
}

// ParseCategory maps a request parameter to a Category. An empty value means
// the unfiltered list.
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return CategoryAll, nil
	}
	switch c := Category(strings.ToLower(s)); c {
	case CategoryAll, CategoryHealth, CategoryBudget, CategoryGroupDining, CategoryCafe:
		return c, nil
	default:
		return "", apierrors.InvalidArgument("unknown category: " + s)
	}
}

// matchesCategory reports whether the record matches the category's keyword
// set in its name, category label, or tags.
func matchesCategory(r Record, category Category) bool {
	keywords := categoryKeywords[category]
	name := strings.ToLower(r.Name)
	label := strings.ToLower(r.Category)
	for _, keyword := range keywords {
		k := strings.ToLower(keyword)
		if strings.Contains(name, k) || strings.Contains(label, k) {
			return true
		}
		for _, tag := range r.Tags {
			if strings.Contains(strings.ToLower(tag), k) {
				return true
			}
		}
	}
	return false
}
