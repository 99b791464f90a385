package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"dataanalyzer-ai/backend/analysis"
	"dataanalyzer-ai/backend/config"
	"dataanalyzer-ai/backend/loader/loadertest"
	"dataanalyzer-ai/backend/session"
	"dataanalyzer-ai/backend/utils"
)

func testConfig() config.Config {
	return config.Config{
		SessionSecret:  "test-secret",
		SessionTTL:     time.Hour,
		Profile:        "generic",
		MaxUploadBytes: 1 << 20,
		LLMTimeout:     time.Second,
	}
}

func newServer(t *testing.T, cfg config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r, cfg, session.NewStore(cfg.SessionTTL), analysis.NewGenerator(nil, cfg.LLMTimeout))
	return r
}

func upload(t *testing.T, r http.Handler, path, filename string, content []byte, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("X-Session-Token", token)
	}
	return do(t, r, req)
}

func analyze(t *testing.T, r http.Handler, query, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	b, err := json.Marshal(map[string]string{"query": query})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/analyze/", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return do(t, r, req)
}

func do(t *testing.T, r http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func TestHealth(t *testing.T) {
	r := newServer(t, testConfig())
	for _, path := range []string{"/health/", "/api/health/"} {
		w, body := do(t, r, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, body["status"])
	}
}

func TestUploadAndAnalyzeEndToEnd(t *testing.T) {
	r := newServer(t, testConfig())

	w, body := upload(t, r, "/upload/", "items.csv", []byte("name,price\nAlpha,100\nBeta,200\n"), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 2.0, body["rows"])
	assert.Equal(t, []any{"name", "price"}, body["columns"])
	assert.Equal(t, []any{"Alpha", "Beta"}, body["sample_areas"])
	assert.Equal(t, map[string]any{"numeric": []any{"price"}, "text": []any{"name"}, "dates": []any{}}, body["data_types"])
	assert.NotEmpty(t, body["session_token"])
	assert.Equal(t, body["session_token"], w.Header().Get("X-Session-Token"))

	w, body = analyze(t, r, "alpha", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	table := body["table_data"].([]any)
	require.Len(t, table, 1)
	assert.Equal(t, "Alpha", table[0].(map[string]any)["name"])
	assert.Equal(t, 100.0, table[0].(map[string]any)["price"])
	assert.Equal(t, []any{}, body["chart_data"])

	meta := body["metadata"].(map[string]any)
	assert.Equal(t, 1.0, meta["total_rows"])
	assert.Equal(t, "fallback", meta["insight_source"])
	assert.Equal(t, map[string]any{"token": "alpha", "column": "name"}, meta["filter"])
	assert.Contains(t, body["summary"], "Total Records: 1")
	assert.Contains(t, body["summary"], "name")
}

func TestAnalyzeRequiresUploadAndQuery(t *testing.T) {
	r := newServer(t, testConfig())

	w, body := analyze(t, r, "anything", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please upload a file first", body["error"])

	w, _ = upload(t, r, "/upload/", "items.csv", []byte("name,price\nAlpha,100\n"), "")
	require.Equal(t, http.StatusOK, w.Code)

	w, body = analyze(t, r, "   ", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Query is required", body["error"])
}

func TestUploadRejectsBadInput(t *testing.T) {
	r := newServer(t, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/upload/", strings.NewReader(""))
	w, body := do(t, r, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No file uploaded", body["error"])

	w, body = upload(t, r, "/upload/", "notes.docx", []byte("hello"), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "Unsupported file type")

	w, body = upload(t, r, "/upload/", "empty.csv", []byte("name,price\n"), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "could not read file or file is empty")

	w, _ = upload(t, r, "/upload/", "big.csv", bytes.Repeat([]byte("a,b\n"), 300_000), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRealEstateProfileRejectsPDF(t *testing.T) {
	cfg := testConfig()
	cfg.Profile = "realestate"
	r := newServer(t, cfg)

	w, body := upload(t, r, "/upload/", "report.pdf", []byte("%PDF-1.4"), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], ".csv, .xlsx, .xls")
}

func TestSessionsAreIsolated(t *testing.T) {
	r := newServer(t, testConfig())

	_, first := upload(t, r, "/upload/", "items.csv", []byte("name,price\nAlpha,100\nBeta,200\n"), "")
	_, second := upload(t, r, "/upload/", "cities.csv", []byte("city,n\nPune,1\nMumbai,2\n"), "")
	tokenA, tokenB := first["session_token"].(string), second["session_token"].(string)
	require.NotEqual(t, tokenA, tokenB)

	w, body := analyze(t, r, "alpha", tokenA)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["table_data"], 1)

	// the tokenless default session now holds the second upload
	for _, tok := range []string{tokenB, ""} {
		w, body = analyze(t, r, "alpha", tok)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []any{}, body["table_data"])
		assert.Equal(t, []any{"Pune", "Mumbai"}, body["suggestions"])
		assert.Contains(t, body["summary"], "No matching records found")
		assert.Nil(t, body["metadata"])
	}

	w, body = analyze(t, r, "alpha", "forged")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid session token", body["error"])
}

func TestExpiredTokenStillReachesSession(t *testing.T) {
	cfg := testConfig()
	r := newServer(t, cfg)
	expired, err := utils.GenerateSessionToken(cfg.SessionSecret, "sid-late", -time.Minute)
	require.NoError(t, err)

	w, body := upload(t, r, "/upload/", "items.csv", []byte("name,price\nAlpha,100\nBeta,200\n"), expired)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	fresh := body["session_token"].(string)
	assert.NotEqual(t, expired, fresh)
	claims, err := utils.ParseSessionToken(cfg.SessionSecret, fresh)
	require.NoError(t, err)
	assert.Equal(t, "sid-late", claims.SessionID)

	w, body = analyze(t, r, "alpha", expired)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, body["table_data"], 1)
	refreshed := w.Header().Get("X-Session-Token")
	require.NotEmpty(t, refreshed)
	assert.Equal(t, refreshed, body["session_token"])

	w, body = analyze(t, r, "beta", refreshed)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, body["table_data"], 1)
}

func TestActiveSessionOutlivesTokenTTL(t *testing.T) {
	cfg := testConfig()
	cfg.SessionTTL = 200 * time.Millisecond
	r := newServer(t, cfg)

	_, body := upload(t, r, "/upload/", "items.csv", []byte("name,price\nAlpha,100\n"), "")
	token := body["session_token"].(string)

	// each request is within the idle TTL, the sequence as a whole is not
	for i := 0; i < 3; i++ {
		time.Sleep(120 * time.Millisecond)
		w, body := analyze(t, r, "alpha", token)
		require.Equal(t, http.StatusOK, w.Code, "request %d: %s", i, w.Body.String())
		assert.Len(t, body["table_data"], 1)
	}
}

func TestIdleSessionNeedsNewUpload(t *testing.T) {
	cfg := testConfig()
	cfg.SessionTTL = 50 * time.Millisecond
	r := newServer(t, cfg)

	_, body := upload(t, r, "/upload/", "items.csv", []byte("name,price\nAlpha,100\n"), "")
	token := body["session_token"].(string)
	time.Sleep(120 * time.Millisecond)

	w, body := analyze(t, r, "alpha", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please upload a file first", body["error"])

	unknown, err := utils.GenerateSessionToken(cfg.SessionSecret, "never-uploaded", time.Hour)
	require.NoError(t, err)
	w, body = analyze(t, r, "alpha", unknown)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please upload a file first", body["error"])
}

func TestAnalyzeRejectsMalformedBody(t *testing.T) {
	r := newServer(t, testConfig())
	upload(t, r, "/upload/", "items.csv", []byte("name,price\nAlpha,100\n"), "")

	req := httptest.NewRequest(http.MethodPost, "/analyze/", strings.NewReader(`{"query": "alpha"`))
	req.Header.Set("Content-Type", "application/json")
	w, body := do(t, r, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "Invalid request body")

	// an absent body is an empty query, not a malformed one
	req = httptest.NewRequest(http.MethodPost, "/analyze/", nil)
	req.Header.Set("Content-Type", "application/json")
	w, body = do(t, r, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Query is required", body["error"])
}

func TestUploadTablePDF(t *testing.T) {
	r := newServer(t, testConfig())
	pdf := loadertest.TablePDF("Listings", [][]string{
		{"Area", "Price"},
		{"Baner", "7000"},
		{"Wakad", "5000"},
	})

	w, body := upload(t, r, "/upload/", "listings.pdf", pdf, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 2.0, body["rows"])
	assert.Equal(t, []any{"Area", "Price"}, body["columns"])

	w, body = analyze(t, r, "wakad", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []any{map[string]any{"Area": "Wakad", "Price": 5000.0}}, body["table_data"])
}

func TestUploadTextOnlyPDFKeepsTable(t *testing.T) {
	r := newServer(t, testConfig())
	_, first := upload(t, r, "/upload/", "items.csv", []byte("name,price\nAlpha,100\n"), "")
	token := first["session_token"].(string)

	lines := make([]string, 40)
	for i := range lines {
		lines[i] = "Narrative paragraph with no figures at all."
	}
	w, body := upload(t, r, "/upload/", "notes.pdf", loadertest.TextPDF(lines), token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "PDF uploaded (text-only)", body["message"])
	assert.Equal(t, 0.0, body["rows"])
	assert.Equal(t, []any{}, body["columns"])
	assert.Equal(t, []any{}, body["sample_areas"])
	assert.NotEmpty(t, body["note"])
	assert.NotEmpty(t, body["session_token"])
	preview := body["text_preview"].(string)
	assert.Equal(t, 503, len([]rune(preview)))
	assert.True(t, strings.HasSuffix(preview, "..."))

	w, body = analyze(t, r, "alpha", token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, body["table_data"], 1)

	// tokenless text-only upload leaves the default session alone too
	w, body = upload(t, r, "/upload/", "notes.pdf", loadertest.TextPDF(lines), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, body["session_token"])
	w, body = analyze(t, r, "alpha", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["table_data"], 1)
}

func TestUploadWithTokenKeepsSession(t *testing.T) {
	r := newServer(t, testConfig())

	_, first := upload(t, r, "/upload/", "items.csv", []byte("name,price\nAlpha,100\n"), "")
	tokenA := first["session_token"].(string)
	w, _ := upload(t, r, "/upload/", "more.csv", []byte("name,price\nGamma,300\n"), tokenA)
	require.Equal(t, http.StatusOK, w.Code)

	_, body := analyze(t, r, "gamma", tokenA)
	assert.Len(t, body["table_data"], 1)

	// the default session still holds the first tokenless upload
	_, body = analyze(t, r, "alpha", "")
	assert.Len(t, body["table_data"], 1)
}

func TestAnalyzeAllOnMiss(t *testing.T) {
	cfg := testConfig()
	cfg.AnalyzeAllOnMiss = true
	r := newServer(t, cfg)

	upload(t, r, "/upload/", "items.csv", []byte("name,price\nAlpha,100\nBeta,200\n"), "")
	w, body := analyze(t, r, "zzzz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["table_data"], 2)
	assert.Nil(t, body["metadata"].(map[string]any)["filter"])
}

func TestUploadExcelUnderAPIPrefix(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Location", "Price", "Year"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Baner", 7000, 2021}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"Baner", 8000, 2022}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]any{"Wakad", 5000, 2022}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Profile = "realestate"
	r := newServer(t, cfg)

	w, body := upload(t, r, "/api/upload/", "listings.xlsx", buf.Bytes(), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 3.0, body["rows"])

	req := httptest.NewRequest(http.MethodPost, "/api/analyze/", strings.NewReader(`{"query":"Analyze Baner"}`))
	req.Header.Set("Content-Type", "application/json")
	w, body = do(t, r, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, body["table_data"], 2)
	assert.Len(t, body["chart_data"], 2)
	assert.Contains(t, body["summary"], "Real Estate Market Analysis")
	assert.Equal(t, map[string]any{"area": "Location", "price": "Price", "year": "Year"}, body["metadata"].(map[string]any)["roles"])
}

func TestHistoryWithoutDatabase(t *testing.T) {
	r := newServer(t, testConfig())
	w, body := do(t, r, httptest.NewRequest(http.MethodGet, "/history/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotEmpty(t, body["error"])
}
