package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anti-elegant/Delphi-sub000/internal/models"
	"github.com/anti-elegant/Delphi-sub000/pkg/api"
)

func staticTokens(token string) *TokenProviderMock {
	return &TokenProviderMock{
		AccessTokenFunc: func(ctx context.Context) (string, error) {
			return token, nil
		},
	}
}

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	return NewClient(ClientConfig{
		BaseURL:        serverURL,
		NodeID:         "node-1",
		Tokens:         staticTokens("test-token"),
		BatchSize:      2,
		MaxRetries:     2,
		RetryDelayBase: time.Millisecond,
	})
}

func testRecord(id string) *models.Record {
	return &models.Record{
		RecordID:     id,
		RecordType:   models.RecordTypePrediction,
		NodeID:       "node-1",
		Fields:       json.RawMessage(`{"statement":"it rains"}`),
		LastModified: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Version:      3,
	}
}

func TestClient_EnsureZone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/zones/main", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	err := client.EnsureZone(context.Background(), "main")
	require.NoError(t, err)
}

func TestClient_PushBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/zones/main/records", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req api.PushRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		require.NoError(t, err)
		require.Len(t, req.Records, 1)
		assert.Equal(t, "p1", req.Records[0].RecordID)
		assert.Equal(t, models.RecordTypePrediction, req.Records[0].RecordType)
		assert.Equal(t, int64(3), req.Records[0].Version)

		_ = json.NewEncoder(w).Encode(api.PushResponse{SavedIDs: []string{"p1"}})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	saved, err := client.PushBatch(context.Background(), "main", []*models.Record{testRecord("p1")})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, saved)
}

func TestClient_PushBatch_Chunking(t *testing.T) {
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)

		var req api.PushRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.LessOrEqual(t, len(req.Records), 2)

		resp := api.PushResponse{}
		for _, rec := range req.Records {
			resp.SavedIDs = append(resp.SavedIDs, rec.RecordID)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	records := []*models.Record{
		testRecord("p1"), testRecord("p2"), testRecord("p3"),
		testRecord("p4"), testRecord("p5"),
	}

	client := newTestClient(t, server.URL)
	saved, err := client.PushBatch(context.Background(), "main", records)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5"}, saved)
	assert.Equal(t, int32(3), requests.Load())
}

func TestClient_PushBatch_PartialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req api.PushRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		resp := api.PushResponse{}
		for _, rec := range req.Records {
			if rec.RecordID == "p2" {
				resp.Failed = append(resp.Failed, api.RecordFailure{
					RecordID: "p2",
					Code:     api.CodeConflict,
					Message:  "version mismatch",
				})
				continue
			}
			resp.SavedIDs = append(resp.SavedIDs, rec.RecordID)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	saved, err := client.PushBatch(context.Background(), "main",
		[]*models.Record{testRecord("p1"), testRecord("p2")})

	require.Error(t, err)
	assert.Equal(t, KindPartialFailure, KindOf(err))
	assert.Equal(t, []string{"p1"}, saved)

	var re *Error
	require.ErrorAs(t, err, &re)
	require.Len(t, re.Failed, 1)
	assert.Equal(t, "p2", re.Failed[0].RecordID)
	assert.Equal(t, api.CodeConflict, re.Failed[0].Code)
}

func TestClient_DeleteBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/zones/main/records/delete", r.URL.Path)

		var req api.DeleteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, models.RecordTypePrediction, req.RecordType)

		_ = json.NewEncoder(w).Encode(api.DeleteResponse{DeletedIDs: req.RecordIDs})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	deleted, err := client.DeleteBatch(context.Background(), "main",
		models.RecordTypePrediction, []string{"p1", "p2", "p3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2", "p3"}, deleted)
}

func TestClient_FetchChangesSince(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/zones/main/changes", r.URL.Path)
		assert.Equal(t, "tok-1", r.URL.Query().Get("token"))
		assert.Equal(t, "node-1", r.URL.Query().Get("node"))

		_ = json.NewEncoder(w).Encode(api.ChangesResponse{
			Changed: []api.Record{
				{RecordID: "p9", RecordType: models.RecordTypePrediction, Version: 7},
			},
			DeletedIDs:  []string{"p3"},
			ChangeToken: "tok-2",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	cs, err := client.FetchChangesSince(context.Background(), "main", "tok-1")
	require.NoError(t, err)

	assert.Equal(t, "tok-2", cs.Token)
	assert.Equal(t, []string{"p3"}, cs.DeletedIDs)
	require.Len(t, cs.Changed, 1)
	assert.Equal(t, "p9", cs.Changed[0].RecordID)
	assert.Equal(t, int64(7), cs.Changed[0].Version)
}

func TestClient_FetchChangesSince_EmptyToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// An empty token means "from the beginning" and is omitted
		assert.False(t, r.URL.Query().Has("token"))
		_ = json.NewEncoder(w).Encode(api.ChangesResponse{ChangeToken: "tok-1"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	cs, err := client.FetchChangesSince(context.Background(), "main", "")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", cs.Token)
}

func TestClient_FetchAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/zones/main/records", r.URL.Path)
		assert.Equal(t, models.RecordTypePrediction, r.URL.Query().Get("type"))

		_ = json.NewEncoder(w).Encode(api.RecordsResponse{
			Records: []api.Record{
				{RecordID: "p1", RecordType: models.RecordTypePrediction},
				{RecordID: "p2", RecordType: models.RecordTypePrediction},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	records, err := client.FetchAll(context.Background(), "main", models.RecordTypePrediction)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "p1", records[0].RecordID)
}

func TestClient_SaveSingleton(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/zones/main/records/settings/settings", r.URL.Path)

		var rec api.Record
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rec))
		assert.Equal(t, models.SettingsRecordID, rec.RecordID)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	record := &models.Record{
		RecordID:   models.SettingsRecordID,
		RecordType: models.RecordTypeSettings,
		Fields:     json.RawMessage(`{"sync_enabled":true}`),
	}

	client := newTestClient(t, server.URL)
	err := client.SaveSingleton(context.Background(), "main", record)
	require.NoError(t, err)
}

func TestClient_FetchSingleton_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{
			Code:    api.CodeNotFound,
			Message: "no such record",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.FetchSingleton(context.Background(), "main",
		models.RecordTypeSettings, models.SettingsRecordID)
	require.Error(t, err)
	assert.Equal(t, KindRecordNotFound, KindOf(err))
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		code     string
		expected Kind
	}{
		{"unauthorized", http.StatusUnauthorized, api.CodeUnauthorized, KindAccountUnavailable},
		{"forbidden", http.StatusForbidden, api.CodeForbidden, KindPermissionDenied},
		{"zone not found", http.StatusNotFound, api.CodeZoneNotFound, KindZoneNotFound},
		{"record not found", http.StatusNotFound, api.CodeNotFound, KindRecordNotFound},
		{"conflict", http.StatusConflict, api.CodeConflict, KindConflict},
		{"token expired", http.StatusGone, api.CodeTokenExpired, KindTokenInvalid},
		{"quota exceeded", http.StatusInsufficientStorage, api.CodeQuotaExceeded, KindQuotaExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(api.ErrorResponse{Code: tt.code, Message: tt.name})
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)
			err := client.EnsureZone(context.Background(), "main")
			require.Error(t, err)
			assert.Equal(t, tt.expected, KindOf(err))
		})
	}
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	err := client.EnsureZone(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, int32(3), requests.Load())
}

func TestClient_RetryBudgetExhausted(t *testing.T) {
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	err := client.EnsureZone(context.Background(), "main")
	require.Error(t, err)
	assert.Equal(t, KindUnknown, KindOf(err))
	// Initial attempt plus two retries
	assert.Equal(t, int32(3), requests.Load())
}

func TestClient_NoRetryOnDefinitiveFailure(t *testing.T) {
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	err := client.EnsureZone(context.Background(), "main")
	require.Error(t, err)
	assert.Equal(t, KindAccountUnavailable, KindOf(err))
	assert.Equal(t, int32(1), requests.Load())
}

func TestClient_NetworkUnavailable(t *testing.T) {
	client := NewClient(ClientConfig{
		BaseURL:        "http://127.0.0.1:1",
		Tokens:         staticTokens("test-token"),
		MaxRetries:     1,
		RetryDelayBase: time.Millisecond,
	})

	err := client.EnsureZone(context.Background(), "main")
	require.Error(t, err)
	assert.Equal(t, KindNetworkUnavailable, KindOf(err))
}
