package transport_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fieldcheck/inspectd/internal/testserver"
)

func doJSON(t *testing.T, ts *testserver.TestServer, method, path, userID string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reader)
	require.NoError(t, err)
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func createSession(t *testing.T, ts *testserver.TestServer, tenantID, userID, goal string) (sessionID, stepID string) {
	t.Helper()
	resp, body := doJSON(t, ts, http.MethodPost,
		fmt.Sprintf("/api/v1/tenants/%s/inspection_sessions", tenantID), userID,
		map[string]any{"intent": map[string]any{"goal": goal}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	sessionID = body["sessionId"].(string)
	prompt := body["currentPrompt"].(map[string]any)
	stepID = prompt["stepId"].(string)
	return sessionID, stepID
}

func TestFullInspectionWorkflow(t *testing.T) {
	ts := testserver.New(t)
	base := "/api/v1/tenants/tenant1/inspection_sessions"

	// Create
	resp, body := doJSON(t, ts, http.MethodPost, base, "user1", map[string]any{
		"intent": map[string]any{"goal": "inspect the warehouse roof"},
		"target": map[string]any{"type": "site", "displayName": "Warehouse 7"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "in_progress", body["status"])
	sessionID := body["sessionId"].(string)
	require.NotEmpty(t, sessionID)

	prompt := body["currentPrompt"].(map[string]any)
	require.Contains(t, prompt["text"], "inspect the warehouse roof")
	require.Len(t, body["initialSteps"], 1)

	// Resume view
	resp, body = doJSON(t, ts, http.MethodGet, base+"/"+sessionID, "user1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "in_progress", body["status"])
	progress := body["progress"].(map[string]any)
	require.Equal(t, float64(1), progress["totalSteps"])

	// Answer the prompt
	resp, body = doJSON(t, ts, http.MethodPost, base+"/"+sessionID+"/next", "user1", map[string]any{
		"answer":   "membrane is cracked near the north drain",
		"priority": "critical",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, false, body["hasNext"])
	stepCompleted := body["stepCompleted"].(map[string]any)
	require.Equal(t, "completed", stepCompleted["status"])

	// Attach evidence to the recorded observation
	var observationID string
	require.NoError(t, ts.DB.QueryRow(`SELECT id FROM observations WHERE session_id = ?`, sessionID).Scan(&observationID))
	resp, body = doJSON(t, ts, http.MethodPost, base+"/"+sessionID+"/evidence", "user1", map[string]any{
		"observationId": observationID,
		"type":          "photo",
		"storagePath":   "tenants/tenant1/evidence/crack.jpg",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	evidenceID := body["evidenceId"].(string)
	require.NotEmpty(t, evidenceID)

	// Complete
	resp, body = doJSON(t, ts, http.MethodPost, base+"/"+sessionID+"/complete", "user1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "completed", body["status"])

	// Record
	resp, body = doJSON(t, ts, http.MethodGet, base+"/"+sessionID+"/record", "user1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(1), body["version"])
	summary := body["summary"].(map[string]any)
	findings := summary["findings"].([]any)
	require.Len(t, findings, 1)
	finding := findings[0].(map[string]any)
	require.Equal(t, "membrane is cracked near the north drain", finding["content"])
	require.Equal(t, "critical", finding["priority"])
	require.Equal(t, []any{evidenceID}, finding["evidenceIds"])
	require.Empty(t, summary["incomplete"])
	require.NotNil(t, summary["followUps"])
}

func TestCreateSessionErrors(t *testing.T) {
	ts := testserver.New(t)
	base := "/api/v1/tenants/tenant1/inspection_sessions"

	t.Run("vague goal yields CLARIFY", func(t *testing.T) {
		resp, body := doJSON(t, ts, http.MethodPost, base, "user1", map[string]any{
			"intent": map[string]any{"goal": "hm"},
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "error", body["state"])
		require.Equal(t, "CLARIFY", body["code"])
	})

	t.Run("empty goal yields VALIDATION", func(t *testing.T) {
		resp, body := doJSON(t, ts, http.MethodPost, base, "user1", map[string]any{
			"intent": map[string]any{"goal": "   "},
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "VALIDATION", body["code"])
	})

	t.Run("missing intent yields VALIDATION", func(t *testing.T) {
		resp, body := doJSON(t, ts, http.MethodPost, base, "user1", map[string]any{})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "VALIDATION", body["code"])
	})

	t.Run("missing identity yields 401", func(t *testing.T) {
		resp, body := doJSON(t, ts, http.MethodPost, base, "", map[string]any{
			"intent": map[string]any{"goal": "inspect the roof"},
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, "UNAUTHORIZED", body["code"])
	})
}

func TestSessionNotFound(t *testing.T) {
	ts := testserver.New(t)

	resp, body := doJSON(t, ts, http.MethodGet, "/api/v1/tenants/tenant1/inspection_sessions/ghost", "user1", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "NOT_FOUND", body["code"])
}

func TestTenantIsolation(t *testing.T) {
	ts := testserver.New(t)
	sessionID, _ := createSession(t, ts, "tenant1", "user1", "inspect the roof")

	// The same session id under another tenant must look nonexistent.
	resp, body := doJSON(t, ts, http.MethodGet, "/api/v1/tenants/tenant2/inspection_sessions/"+sessionID, "user1", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "NOT_FOUND", body["code"])
}

func TestAddEvidenceErrors(t *testing.T) {
	ts := testserver.New(t)
	base := "/api/v1/tenants/tenant1/inspection_sessions"
	sessionID, _ := createSession(t, ts, "tenant1", "user1", "inspect the roof")

	t.Run("unknown observation", func(t *testing.T) {
		resp, body := doJSON(t, ts, http.MethodPost, base+"/"+sessionID+"/evidence", "user1", map[string]any{
			"observationId": "ghost",
			"type":          "note",
			"storagePath":   "somewhere",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "VALIDATION", body["code"])
	})

	t.Run("missing content", func(t *testing.T) {
		doJSON(t, ts, http.MethodPost, base+"/"+sessionID+"/next", "user1", map[string]any{"answer": "looks fine"})

		var observationID string
		require.NoError(t, ts.DB.QueryRow(`SELECT id FROM observations WHERE session_id = ?`, sessionID).Scan(&observationID))

		resp, body := doJSON(t, ts, http.MethodPost, base+"/"+sessionID+"/evidence", "user1", map[string]any{
			"observationId": observationID,
			"type":          "note",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "VALIDATION", body["code"])
	})

	t.Run("disallowed type", func(t *testing.T) {
		resp, body := doJSON(t, ts, http.MethodPost, base+"/"+sessionID+"/evidence", "user1", map[string]any{
			"observationId": "whatever",
			"type":          "video",
			"storagePath":   "somewhere",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "VALIDATION", body["code"])
	})
}

func TestCompleteSessionForbidden(t *testing.T) {
	ts := testserver.New(t)
	base := "/api/v1/tenants/tenant1/inspection_sessions"
	sessionID, _ := createSession(t, ts, "tenant1", "user1", "inspect the roof")

	resp, body := doJSON(t, ts, http.MethodPost, base+"/"+sessionID+"/complete", "user2", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "FORBIDDEN", body["code"])
}

func TestRecordBeforeCompletion(t *testing.T) {
	ts := testserver.New(t)
	base := "/api/v1/tenants/tenant1/inspection_sessions"
	sessionID, _ := createSession(t, ts, "tenant1", "user1", "inspect the roof")

	resp, body := doJSON(t, ts, http.MethodGet, base+"/"+sessionID+"/record", "user1", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "NOT_FOUND", body["code"])
	require.Contains(t, body["message"], "completed")
}

func TestCompleteIsIdempotent(t *testing.T) {
	ts := testserver.New(t)
	base := "/api/v1/tenants/tenant1/inspection_sessions"
	sessionID, _ := createSession(t, ts, "tenant1", "user1", "inspect the roof")

	resp, _ := doJSON(t, ts, http.MethodPost, base+"/"+sessionID+"/complete", "user1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, ts, http.MethodPost, base+"/"+sessionID+"/complete", "user1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "completed", body["status"])
}
