// Package nutrition builds the diet-analysis and recommendation prompts for
// the generation upstream and parses its free-text answers back into
// structured results.
package nutrition

import (
	"context"
	"fmt"
	"strings"

	"github.com/nutrisense/nutrisense/plugin/ai"
	"github.com/nutrisense/nutrisense/plugin/ai/conversation"
)

// nutritionExpertPrompt keeps the system role short; longer role prompts were
// observed to trip the upstream safety filter.
const nutritionExpertPrompt = "你是營養師,用繁體中文。"

// Meal is one logged food item.
type Meal struct {
	FoodName string  `json:"food_name"`
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// UserProfile is the caller's health profile used for recommendations.
type UserProfile struct {
	Age                int     `json:"age"`
	Gender             string  `json:"gender"`
	Height             float64 `json:"height"`
	Weight             float64 `json:"weight"`
	ActivityLevel      string  `json:"activity_level"`
	Goal               string  `json:"goal"`
	DietaryPreferences string  `json:"dietary_preferences,omitempty"`
}

// Analysis is the structured result of a meal analysis.
type Analysis struct {
	TotalCalories int      `json:"total_calories"`
	TotalProtein  float64  `json:"total_protein"`
	TotalCarbs    float64  `json:"total_carbs"`
	TotalFat      float64  `json:"total_fat"`
	Analysis      string   `json:"analysis"`
	Suggestions   []string `json:"suggestions"`
}

// RestaurantSuggestion is one recommended restaurant type.
type RestaurantSuggestion struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// RestaurantRecommendation is the structured result of a restaurant
// recommendation request.
type RestaurantRecommendation struct {
	Restaurants        []RestaurantSuggestion `json:"restaurants"`
	Reasoning          string                 `json:"reasoning"`
	HealthTips         []string               `json:"health_tips"`
	DailyCalorieTarget int                    `json:"daily_calorie_target"`
}

// Advisor answers nutrition questions through the generation upstream,
// optionally threading the session's conversation window into the prompt.
type Advisor struct {
	llm      ai.Generator
	sessions *conversation.Store
}

// NewAdvisor creates a new advisor.
func NewAdvisor(llm ai.Generator, sessions *conversation.Store) *Advisor {
	return &Advisor{
		llm:      llm,
		sessions: sessions,
	}
}

// AnalyzeMeals totals the logged meals and asks the upstream for an assessment
// and improvement suggestions. Analysis is context-free: each request stands
// on its own.
func (a *Advisor) AnalyzeMeals(ctx context.Context, meals []Meal) (*Analysis, error) {
	analysis := &Analysis{}
	var lines []string
	for _, meal := range meals {
		analysis.TotalCalories += meal.Calories
		analysis.TotalProtein += meal.Protein
		analysis.TotalCarbs += meal.Carbs
		analysis.TotalFat += meal.Fat
		lines = append(lines, fmt.Sprintf("- %s: %d 大卡 (蛋白質: %.1fg, 碳水: %.1fg, 脂肪: %.1fg)",
			meal.FoodName, meal.Calories, meal.Protein, meal.Carbs, meal.Fat))
	}

	prompt := fmt.Sprintf(`請分析以下飲食紀錄:

%s

總計:
- 熱量: %d 大卡
- 蛋白質: %.1fg
- 碳水化合物: %.1fg
- 脂肪: %.1fg

請提供:
1. 整體營養評估 (3-4 句話,要具體)
2. 4-6 個實用的改善建議

回應格式:
評估: [你的評估]
建議:
- [建議1]
- [建議2]
- [建議3]`,
		strings.Join(lines, "\n"),
		analysis.TotalCalories, analysis.TotalProtein, analysis.TotalCarbs, analysis.TotalFat)

	response, err := a.generate(ctx, "", prompt, nutritionExpertPrompt, 1000, 0)
	if err != nil {
		return nil, err
	}

	analysis.Analysis, analysis.Suggestions = parseAnalysis(response)
	return analysis, nil
}

// RecommendRestaurants asks for restaurant types matched to the user's goal
// and preferences. The session's recent conversation is threaded in so
// follow-ups like "第一家怎麼點餐" resolve naturally.
func (a *Advisor) RecommendRestaurants(ctx context.Context, sessionID string, profile UserProfile, mealType, cuisinePreference string) (*RestaurantRecommendation, error) {
	if mealType == "" {
		mealType = "午餐"
	}
	preferences := profile.DietaryPreferences
	if preferences == "" {
		preferences = "無特殊限制"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `請為以下使用者推薦適合的健康餐廳:

使用者資訊:
- 目標: %s
- 飲食偏好: %s
- 餐點類型: %s
`, profile.Goal, preferences, mealType)
	if cuisinePreference != "" {
		fmt.Fprintf(&sb, "- 菜系偏好: %s\n", cuisinePreference)
	}
	sb.WriteString(`
請推薦 3-5 家餐廳類型,並說明理由。

重要:
1. 優先推薦營養均衡、食材新鮮的餐廳
2. 考慮使用者的健康目標
3. 提供具體的餐廳類型或特色
4. 給出健康點餐建議

回應格式:
1. [餐廳類型] - [推薦理由和點餐建議]
2. [餐廳類型] - [推薦理由和點餐建議]
...

健康提醒:
- [提醒1]
- [提醒2]`)

	response, err := a.generate(ctx, sessionID, sb.String(), nutritionExpertPrompt, 1000, 0)
	if err != nil {
		return nil, err
	}

	recommendation := parseRecommendation(response)
	recommendation.DailyCalorieTarget = DailyCalorieTarget(profile)
	return recommendation, nil
}

// Recipe returns cooking steps for a dish. Context-aware: the model remembers
// what it recommended earlier in the session.
func (a *Advisor) Recipe(ctx context.Context, sessionID, dishName string) (string, error) {
	prompt := fmt.Sprintf("請提供 %s 的詳細料理步驟和食譜", dishName)
	return a.generate(ctx, sessionID, prompt, nutritionExpertPrompt, 1200, 0.7)
}

// Answer answers a free-form nutrition question with conversation context.
// No system prompt: bare questions were the least likely to be filtered.
func (a *Advisor) Answer(ctx context.Context, sessionID, question string) (string, error) {
	return a.generate(ctx, sessionID, question, "", 800, 0.8)
}

// generate composes the final prompt (conversation window, then system role),
// submits it, and records the exchange on success.
func (a *Advisor) generate(ctx context.Context, sessionID, prompt, systemPrompt string, maxTokens int, temperature float32) (string, error) {
	fullPrompt := prompt
	if sessionID != "" && a.sessions != nil {
		if history := a.sessions.RenderContext(sessionID, conversation.DefaultWindow); history != "" {
			fullPrompt = fmt.Sprintf("先前對話:\n%s\n\n現在問題: %s", history, prompt)
		}
	}
	if systemPrompt != "" {
		fullPrompt = systemPrompt + "\n\n" + fullPrompt
	}

	answer, err := a.llm.Generate(ctx, fullPrompt, maxTokens, temperature)
	if err != nil {
		return "", err
	}

	if sessionID != "" && a.sessions != nil {
		a.sessions.AppendExchange(sessionID, prompt, answer)
	}
	return answer, nil
}

// parseAnalysis extracts the assessment line and suggestion bullets from a
// formatted response, with safe fallbacks when the model drifts off format.
func parseAnalysis(response string) (string, []string) {
	var analysis string
	var suggestions []string

	inSuggestions := false
	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "評估:"):
			analysis = strings.TrimSpace(strings.TrimPrefix(line, "評估:"))
		case strings.HasPrefix(line, "建議:"):
			inSuggestions = true
		case inSuggestions && (strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•")):
			if suggestion := strings.TrimSpace(strings.TrimLeft(line, "-•")); suggestion != "" {
				suggestions = append(suggestions, suggestion)
			}
		}
	}

	if analysis == "" {
		analysis = truncateRunes(response, 200)
	}
	if len(suggestions) == 0 {
		suggestions = []string{"請保持均衡飲食", "多喝水", "適量運動"}
	}
	return analysis, suggestions
}

// parseRecommendation extracts numbered "type - description" lines and the
// trailing health-tip bullets.
func parseRecommendation(response string) *RestaurantRecommendation {
	recommendation := &RestaurantRecommendation{
		Reasoning: "根據您的健康目標和飲食偏好推薦",
	}

	inTips := false
	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.Contains(line, "健康提醒") || strings.Contains(line, "注意事項") {
			inTips = true
			continue
		}

		if inTips {
			if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") {
				if tip := strings.TrimSpace(strings.TrimLeft(line, "-•")); tip != "" {
					recommendation.HealthTips = append(recommendation.HealthTips, tip)
				}
			}
			continue
		}

		if isNumberedLine(line) {
			if parts := strings.SplitN(line, "-", 2); len(parts) == 2 {
				recommendation.Restaurants = append(recommendation.Restaurants, RestaurantSuggestion{
					Type:        strings.TrimSpace(parts[0]),
					Description: strings.TrimSpace(parts[1]),
				})
			}
		}
	}

	if len(recommendation.HealthTips) == 0 {
		recommendation.HealthTips = []string{"選擇少油少鹽的烹調方式", "注意食材新鮮度"}
	}
	return recommendation
}

// isNumberedLine reports whether a line starts like "1." or "2.".
func isNumberedLine(line string) bool {
	if line == "" || line[0] < '0' || line[0] > '9' {
		return false
	}
	head := line
	if len(head) > 3 {
		head = head[:3]
	}
	return strings.Contains(head, ".")
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
