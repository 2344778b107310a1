package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

var (
	testRouter     *gin.Engine
	testRouterOnce sync.Once
)

func getTestRouter() *gin.Engine {
	testRouterOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		testRouter = gin.New()
		InitAppRoutes(testRouter)
	})
	return testRouter
}

func sendRequest(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		assert.Nil(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	assert.Nil(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	getTestRouter().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func uploadRows(kind string) []map[string]interface{} {
	switch kind {
	case "influencers":
		return []map[string]interface{}{
			{"id": "1", "name": "Asha Rao", "category": "Fitness", "gender": "F",
				"follower_count": 120000, "platform": "Instagram"},
			{"id": "2", "name": "Vikram Shah", "category": "Nutrition", "gender": "M",
				"follower_count": 45000, "platform": "YouTube"},
		}
	case "posts":
		return []map[string]interface{}{
			{"influencer_id": "1", "platform": "Instagram", "date": "2024-01-02",
				"url": "https://x/p1", "caption": "launch", "reach": 1000, "likes": 50, "comments": 10},
		}
	case "tracking":
		return []map[string]interface{}{
			{"source": "Instagram", "campaign": "summer_push", "influencer_id": "1",
				"user_id": "u1", "product": "protein_bar", "date": "2024-01-03",
				"orders": 3, "revenue": 1500},
			{"source": "YouTube", "campaign": "summer_push", "influencer_id": "2",
				"user_id": "u2", "product": "multivitamin", "date": "2024-01-05",
				"orders": 1, "revenue": 400},
		}
	case "payouts":
		return []map[string]interface{}{
			{"influencer_id": "1", "basis": "post", "total_payout": 500},
			{"influencer_id": "2", "basis": "order", "total_payout": 250},
		}
	}
	return nil
}

func createLoadedSession(t *testing.T) string {
	w := sendRequest(t, http.MethodPost, "/sessions", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	sessionID, _ := decodeBody(t, w)["id"].(string)
	assert.NotEmpty(t, sessionID)

	for _, kind := range []string{"influencers", "posts", "tracking", "payouts"} {
		w := sendRequest(t, http.MethodPost,
			fmt.Sprintf("/sessions/%s/datasets/%s", sessionID, kind),
			map[string]interface{}{"rows": uploadRows(kind)})
		assert.Equal(t, http.StatusOK, w.Code)
	}
	return sessionID
}

func TestStatusRoute(t *testing.T) {
	w := sendRequest(t, http.MethodGet, "/status", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", decodeBody(t, w)["status"])
}

func TestSessionLifecycle(t *testing.T) {
	sessionID := createLoadedSession(t)

	w := sendRequest(t, http.MethodGet, "/sessions/"+sessionID+"/status", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	status := body["status"].(map[string]interface{})
	assert.Equal(t, true, status["all_uploaded"])

	summary := body["summary"].(map[string]interface{})
	assert.Equal(t, 2.0, summary["total_influencers"])
	assert.Equal(t, 1900.0, summary["total_revenue"])
	assert.Equal(t, 750.0, summary["total_payouts"])

	integrity := body["integrity"].(map[string]interface{})
	assert.Empty(t, integrity["issues"])
}

func TestSessionNotFound(t *testing.T) {
	getTestRouter()
	for _, path := range []string{
		"/sessions/missing/status",
		"/sessions/missing/platforms",
		"/sessions/missing/export/roi.csv",
	} {
		w := sendRequest(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	}
	w := sendRequest(t, http.MethodPost, "/sessions/missing/unified", map[string]interface{}{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadDatasetValidation(t *testing.T) {
	w := sendRequest(t, http.MethodPost, "/sessions", nil)
	sessionID, _ := decodeBody(t, w)["id"].(string)

	w = sendRequest(t, http.MethodPost, "/sessions/"+sessionID+"/datasets/followers",
		map[string]interface{}{"rows": []map[string]interface{}{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Second row has a negative follower count and is skipped.
	rows := uploadRows("influencers")
	rows[1]["follower_count"] = -5
	w = sendRequest(t, http.MethodPost, "/sessions/"+sessionID+"/datasets/influencers",
		map[string]interface{}{"rows": rows})
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, 1.0, body["loaded"])
	assert.Equal(t, 1.0, body["skipped"])

	// Strict mode rejects the whole table instead.
	w = sendRequest(t, http.MethodPost,
		"/sessions/"+sessionID+"/datasets/influencers?strict=true",
		map[string]interface{}{"rows": rows})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotNil(t, decodeBody(t, w)["validation"])
}

func TestUnifiedViewRoute(t *testing.T) {
	sessionID := createLoadedSession(t)

	w := sendRequest(t, http.MethodPost, "/sessions/"+sessionID+"/unified",
		map[string]interface{}{})
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	records := body["records"].([]interface{})
	assert.Len(t, records, 2)

	first := records[0].(map[string]interface{})
	assert.Equal(t, "1", first["influencer_id"])
	assert.Equal(t, "summer_push", first["campaign"])
	assert.Equal(t, 1500.0, first["revenue"])

	// Filtered to YouTube only.
	w = sendRequest(t, http.MethodPost, "/sessions/"+sessionID+"/unified",
		map[string]interface{}{"filters": map[string]interface{}{"platforms": []string{"YouTube"}}})
	assert.Equal(t, http.StatusOK, w.Code)
	records = decodeBody(t, w)["records"].([]interface{})
	assert.Len(t, records, 1)

	w = sendRequest(t, http.MethodPost, "/sessions/"+sessionID+"/unified",
		map[string]interface{}{"filters": map[string]interface{}{"from": "not-a-date"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttributionRoute(t *testing.T) {
	sessionID := createLoadedSession(t)

	w := sendRequest(t, http.MethodPost, "/sessions/"+sessionID+"/attribution",
		map[string]interface{}{"method": "Linear"})
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Linear", body["method"])

	roi := body["roi"].([]interface{})
	assert.Len(t, roi, 2)
	first := roi[0].(map[string]interface{})
	assert.Equal(t, "1", first["influencer_id"])
	assert.Equal(t, 1500.0, first["attributed_revenue"])
	assert.Equal(t, 2.0, first["roi"])
	assert.Equal(t, 3.0, first["roas"])
	assert.Equal(t, "High", first["tier"])

	w = sendRequest(t, http.MethodPost, "/sessions/"+sessionID+"/attribution",
		map[string]interface{}{"method": "Shapley"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = sendRequest(t, http.MethodPost, "/sessions/"+sessionID+"/attribution",
		map[string]interface{}{"method": "Time_Decay", "half_life_days": -2})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScoreRoute(t *testing.T) {
	sessionID := createLoadedSession(t)

	w := sendRequest(t, http.MethodPost, "/sessions/"+sessionID+"/scores",
		map[string]interface{}{})
	assert.Equal(t, http.StatusOK, w.Code)
	scores := decodeBody(t, w)["scores"].([]interface{})
	assert.Len(t, scores, 2)
	top := scores[0].(map[string]interface{})
	assert.Equal(t, 1.0, top["rank"])
	assert.NotEmpty(t, top["segment"])

	w = sendRequest(t, http.MethodPost, "/sessions/"+sessionID+"/scores",
		map[string]interface{}{"weights": map[string]interface{}{"engagement": -1}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlatformAndTimeSeriesRoutes(t *testing.T) {
	sessionID := createLoadedSession(t)

	w := sendRequest(t, http.MethodGet, "/sessions/"+sessionID+"/platforms", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	platforms := decodeBody(t, w)["platforms"].([]interface{})
	assert.Len(t, platforms, 2)

	w = sendRequest(t, http.MethodPost, "/sessions/"+sessionID+"/timeseries",
		map[string]interface{}{"period": "daily"})
	assert.Equal(t, http.StatusOK, w.Code)
	series := decodeBody(t, w)["series"].([]interface{})
	assert.Len(t, series, 2)
}

func TestExportROICSVRoute(t *testing.T) {
	sessionID := createLoadedSession(t)

	w := sendRequest(t, http.MethodGet, "/sessions/"+sessionID+"/export/roi.csv", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, strings.Join(roiExportHeader, ","), strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "Asha Rao")

	w = sendRequest(t, http.MethodGet,
		"/sessions/"+sessionID+"/export/roi.csv?method=Shapley", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportROIXLSXRoute(t *testing.T) {
	sessionID := createLoadedSession(t)

	w := sendRequest(t, http.MethodGet, "/sessions/"+sessionID+"/export/roi.xlsx", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, w.Body.Len())
}
