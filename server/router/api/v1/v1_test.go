package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrisense/nutrisense/internal/profile"
	"github.com/nutrisense/nutrisense/plugin/ai/conversation"
	"github.com/nutrisense/nutrisense/plugin/ai/nutrition"
	"github.com/nutrisense/nutrisense/plugin/places"
	"github.com/nutrisense/nutrisense/server/service/restaurant"
	"github.com/nutrisense/nutrisense/store"
	"github.com/nutrisense/nutrisense/store/db/sqlite"
)

type fakeGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, _ int, _ float32) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeSearcher struct {
	results []places.Place
	err     error
}

func (f *fakeSearcher) NearbySearch(context.Context, places.Location, int, string) ([]places.Place, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeSearcher) PhotoURL(ref string) string { return "http://img/" + ref }

func testRating(v float64) *float64 { return &v }

type testEnv struct {
	service *APIV1Service
	echo    *echo.Echo
	llm     *fakeGenerator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	p := &profile.Profile{Mode: "dev", Driver: "sqlite", DSN: ":memory:", GeminiModel: "gemini-2.5-flash"}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)
	t.Cleanup(func() { driver.Close() })
	require.NoError(t, driver.Migrate(context.Background()))

	sessions := conversation.NewStore(0)
	llm := &fakeGenerator{response: "好的,建議多喝水。"}
	advisor := nutrition.NewAdvisor(llm, sessions)
	restaurants := restaurant.NewService(&fakeSearcher{results: []places.Place{
		{
			PlaceID:  "p1",
			Name:     "健康沙拉屋",
			Geometry: places.Geometry{Location: places.Location{Lat: 22.6273, Lng: 120.3014}},
			Rating:   testRating(4.6),
			Types:    []string{"restaurant"},
		},
	}}, nil)

	service := NewAPIV1Service(p, store.New(driver, p), sessions, llm, advisor, restaurants)
	e := echo.New()
	service.RegisterRoutes(e)
	return &testEnv{service: service, echo: e, llm: llm}
}

func (env *testEnv) request(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestChat(t *testing.T) {
	env := newTestEnv(t)
	env.llm.response = "**你好!** 建議:\n## 多喝水"

	rec := env.request(t, http.MethodPost, "/api/chat", `{"message":"嗨","session_id":"s1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	// Markdown markers are stripped before the client sees them.
	assert.Equal(t, "你好! 建議:\n 多喝水", body["response"])
	assert.Equal(t, "s1", body["session_id"])

	// The follow-up prompt carries the recorded exchange.
	env.llm.response = "好"
	rec = env.request(t, http.MethodPost, "/api/chat", `{"message":"然後呢","session_id":"s1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, env.llm.lastPrompt, "Q: 嗨")
	assert.Contains(t, env.llm.lastPrompt, "Q: 然後呢")
}

func TestChat_EmptyMessage(t *testing.T) {
	env := newTestEnv(t)
	rec := env.request(t, http.MethodPost, "/api/chat", `{"message":"","session_id":"s1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_AIDisabled(t *testing.T) {
	env := newTestEnv(t)
	env.service.LLM = nil
	rec := env.request(t, http.MethodPost, "/api/chat", `{"message":"嗨"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestClearChat(t *testing.T) {
	env := newTestEnv(t)
	env.request(t, http.MethodPost, "/api/chat", `{"message":"嗨","session_id":"s1"}`)

	rec := env.request(t, http.MethodPost, "/api/chat/clear", `{"session_id":"s1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.service.Sessions.RenderContext("s1", conversation.DefaultWindow))
}

func TestListRestaurants(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/api/restaurants?category=health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, "health", body["category"])
}

func TestListRestaurants_UnknownCategory(t *testing.T) {
	env := newTestEnv(t)
	rec := env.request(t, http.MethodGet, "/api/restaurants?category=sushi", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRestaurants_PlacesDisabled(t *testing.T) {
	env := newTestEnv(t)
	env.service.Restaurants = nil
	rec := env.request(t, http.MethodGet, "/api/restaurants", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSearchRestaurants(t *testing.T) {
	env := newTestEnv(t)
	rec := env.request(t, http.MethodGet, "/api/search?q=%E6%B2%99%E6%8B%89", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "沙拉", body["query"])
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, false, body["stale"])
}

func TestGetRestaurant(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/api/restaurants/p1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]any)
	assert.Equal(t, "健康沙拉屋", data["name"])

	rec = env.request(t, http.MethodGet, "/api/restaurants/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClearCacheAndHealth(t *testing.T) {
	env := newTestEnv(t)
	env.request(t, http.MethodGet, "/api/restaurants", "")

	rec := env.request(t, http.MethodPost, "/api/cache/clear", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "empty", body["cache_status"])
}

func TestAskQuestion(t *testing.T) {
	env := newTestEnv(t)
	rec := env.request(t, http.MethodPost, "/api/ai/question", `{"question":"蛋白質一天要吃多少?","session_id":"s1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, "蛋白質一天要吃多少?", data["question"])
	assert.NotEmpty(t, data["answer"])
}

func TestAIHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.request(t, http.MethodGet, "/api/ai/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["enabled"])

	env.service.Advisor = nil
	rec = env.request(t, http.MethodGet, "/api/ai/health", "")
	body = decodeBody(t, rec)
	assert.Equal(t, "disabled", body["status"])
}

func TestAnalyze_AIDisabled(t *testing.T) {
	env := newTestEnv(t)
	env.service.Advisor = nil
	rec := env.request(t, http.MethodPost, "/api/ai/analyze", `{"meals":[{"food_name":"便當","calories":700}]}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUserCRUD(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPost, "/api/users", `{"name":"小明","email":"ming@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decodeBody(t, rec)["user"].(map[string]any)
	id := user["ID"].(float64)
	assert.NotZero(t, id)

	rec = env.request(t, http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/users/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.request(t, http.MethodPost, "/api/users", `{"name":"","email":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDiaryCRUD(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPost, "/api/diary", `{"user_id":1,"food":"雞胸沙拉","calories":350}`)
	require.Equal(t, http.StatusOK, rec.Code)
	entry := decodeBody(t, rec)["diary"].(map[string]any)
	id := int(entry["ID"].(float64))

	rec = env.request(t, http.MethodGet, "/api/diary?user_id=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodDelete, "/api/diary/"+strconv.Itoa(id), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodDelete, "/api/diary/"+strconv.Itoa(id), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSocialPosts(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPost, "/api/social/posts", `{"user_id":1,"content":"今天達成喝水目標!"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/social/posts", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/social/posts/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
