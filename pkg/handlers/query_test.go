package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/homewiz/query-engine/pkg/executor"
	"github.com/homewiz/query-engine/pkg/llm"
	"github.com/homewiz/query-engine/pkg/models"
	"github.com/homewiz/query-engine/pkg/schema"
	"github.com/homewiz/query-engine/pkg/services"
)

func newTestRouter(client llm.LLMClient, exec executor.Executor) chi.Router {
	processor := services.NewProcessor(client, exec, schema.MustLoad(), zap.NewNop(),
		services.WithClock(func() time.Time {
			return time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
		}))
	r := chi.NewRouter()
	NewQueryHandler(processor, zap.NewNop()).RegisterRoutes(r)
	return r
}

func TestHandleQuerySuccess(t *testing.T) {
	mock := llm.NewMockLLMClient().RespondWithSequence(
		`{"function_name": "universal_query_function", "parameters": {}, "confidence": 0.9}`,
		`{}`,
		`{"sql": "SELECT * FROM rooms", "tables_used": ["rooms"], "explanation": "All rooms."}`,
	)
	exec := executor.NewMockExecutor().ReturnRows(
		[]map[string]any{{"room_id": "r1", "room_number": "101"}},
		[]string{"room_id", "room_number"},
	)
	router := newTestRouter(mock, exec)

	body := `{"query": "show me rooms", "user_context": {"role": "basic", "permissions": ["basic"]}}`
	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.FrontendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.TotalResults)
	assert.Equal(t, "SELECT * FROM rooms", resp.SQL)
}

func TestHandleQueryPipelineFailureStillHTTP200(t *testing.T) {
	mock := llm.NewMockLLMClient().RespondWithSequence(
		`{"function_name": "universal_query_function", "parameters": {}, "confidence": 0.9}`,
		`{}`,
		`{"sql": "DROP TABLE rooms", "tables_used": ["rooms"], "explanation": "x"}`,
	)
	router := newTestRouter(mock, executor.NewMockExecutor())

	body := `{"query": "drop the rooms", "user_context": {"role": "basic", "permissions": ["basic"]}}`
	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.FrontendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestHandleQueryMalformedBody(t *testing.T) {
	router := newTestRouter(llm.NewMockLLMClient(), executor.NewMockExecutor())

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleValidateReturnsPlanOnly(t *testing.T) {
	mock := llm.NewMockLLMClient().RespondWithSequence(
		`{"function_name": "universal_query_function", "parameters": {}, "confidence": 0.9}`,
		`{"sql": "SELECT * FROM rooms", "tables_used": ["rooms"], "explanation": "All rooms."}`,
	)
	exec := executor.NewMockExecutor()
	router := newTestRouter(mock, exec)

	body := `{"query": "show me rooms", "user_context": {"role": "basic", "permissions": ["basic"]}}`
	req := httptest.NewRequest(http.MethodPost, "/api/query/validate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.FrontendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "SELECT * FROM rooms", resp.SQL)
	assert.Zero(t, exec.ExecuteCalls)
}
