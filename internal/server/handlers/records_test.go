package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anti-elegant/Delphi-sub000/internal/models"
	"github.com/anti-elegant/Delphi-sub000/internal/server/storage/sqlite"
	"github.com/anti-elegant/Delphi-sub000/pkg/api"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordsFixture runs the records handler against a real in-memory
// SQLite store, with the auth middleware replaced by a context shim.
type recordsFixture struct {
	server *httptest.Server
	store  *sqlite.Storage
	userID string
}

func newRecordsFixture(t *testing.T) *recordsFixture {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.New(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	user := &models.User{ID: "u1", Username: "alice", AuthKeyHash: "x", PublicSalt: "x", CreatedAt: time.Now()}
	require.NoError(t, store.CreateUser(ctx, user))

	h := NewRecordsHandler(testLogger(), store, store)

	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			next(w, r.WithContext(context.WithValue(r.Context(), UserIDKey, user.ID)))
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/v1/zones/{zone}", authed(h.EnsureZone))
	mux.HandleFunc("POST /api/v1/zones/{zone}/records", authed(h.Push))
	mux.HandleFunc("GET /api/v1/zones/{zone}/records", authed(h.List))
	mux.HandleFunc("POST /api/v1/zones/{zone}/records/delete", authed(h.Delete))
	mux.HandleFunc("GET /api/v1/zones/{zone}/changes", authed(h.Changes))
	mux.HandleFunc("PUT /api/v1/zones/{zone}/records/{type}/{id}", authed(h.SaveSingleton))
	mux.HandleFunc("GET /api/v1/zones/{zone}/records/{type}/{id}", authed(h.GetSingleton))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &recordsFixture{server: server, store: store, userID: user.ID}
}

func (f *recordsFixture) do(t *testing.T, method, path string, body, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	} else if out != nil {
		// Error bodies decode into api.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(out)
	}

	return resp.StatusCode
}

func (f *recordsFixture) ensureZone(t *testing.T) {
	t.Helper()
	require.Equal(t, http.StatusNoContent, f.do(t, http.MethodPut, "/api/v1/zones/delphi", nil, nil))
}

func wireRecord(id string, version int64) api.Record {
	return api.Record{
		RecordID:     id,
		RecordType:   "prediction",
		NodeID:       "node-a",
		Fields:       []byte(`{"statement":"it will rain"}`),
		LastModified: time.Now().UTC(),
		Version:      version,
	}
}

func TestPushAndList(t *testing.T) {
	f := newRecordsFixture(t)
	f.ensureZone(t)

	var push api.PushResponse
	status := f.do(t, http.MethodPost, "/api/v1/zones/delphi/records", api.PushRequest{
		Records: []api.Record{wireRecord("p1", 0), wireRecord("p2", 0)},
	}, &push)
	require.Equal(t, http.StatusOK, status)
	assert.ElementsMatch(t, []string{"p1", "p2"}, push.SavedIDs)
	assert.Empty(t, push.Failed)

	var list api.RecordsResponse
	status = f.do(t, http.MethodGet, "/api/v1/zones/delphi/records?type=prediction", nil, &list)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list.Records, 2)
	assert.Equal(t, int64(1), list.Records[0].Version)
}

func TestPush_ConflictOnStaleVersion(t *testing.T) {
	f := newRecordsFixture(t)
	f.ensureZone(t)

	var push api.PushResponse
	f.do(t, http.MethodPost, "/api/v1/zones/delphi/records", api.PushRequest{
		Records: []api.Record{wireRecord("p1", 0)},
	}, &push)
	require.Equal(t, []string{"p1"}, push.SavedIDs)

	// Same record pushed again as new: the batch succeeds but the
	// record fails with a conflict
	push = api.PushResponse{}
	status := f.do(t, http.MethodPost, "/api/v1/zones/delphi/records", api.PushRequest{
		Records: []api.Record{wireRecord("p1", 0), wireRecord("p2", 0)},
	}, &push)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"p2"}, push.SavedIDs)
	require.Len(t, push.Failed, 1)
	assert.Equal(t, "p1", push.Failed[0].RecordID)
	assert.Equal(t, api.CodeConflict, push.Failed[0].Code)

	// Re-push with the observed version succeeds
	push = api.PushResponse{}
	f.do(t, http.MethodPost, "/api/v1/zones/delphi/records", api.PushRequest{
		Records: []api.Record{wireRecord("p1", 1)},
	}, &push)
	assert.Equal(t, []string{"p1"}, push.SavedIDs)
}

func TestPush_ZoneNotFound(t *testing.T) {
	f := newRecordsFixture(t)

	var errResp api.ErrorResponse
	status := f.do(t, http.MethodPost, "/api/v1/zones/nowhere/records", api.PushRequest{
		Records: []api.Record{wireRecord("p1", 0)},
	}, &errResp)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, api.CodeZoneNotFound, errResp.Code)
}

func TestPush_QuotaExceeded(t *testing.T) {
	f := newRecordsFixture(t)
	f.ensureZone(t)

	// Rebuild the handler with a tiny quota through a direct call
	h := NewRecordsHandler(testLogger(), f.store, f.store)
	h.Quota = 1

	raw, err := json.Marshal(api.PushRequest{Records: []api.Record{wireRecord("p1", 0), wireRecord("p2", 0)}})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/zones/delphi/records", bytes.NewReader(raw))
	req.SetPathValue("zone", "delphi")
	req = req.WithContext(context.WithValue(req.Context(), UserIDKey, f.userID))
	w := httptest.NewRecorder()
	h.Push(w, req)

	require.Equal(t, http.StatusInsufficientStorage, w.Code)
	var errResp api.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
	assert.Equal(t, api.CodeQuotaExceeded, errResp.Code)
}

func TestDelete_ToleratesMissing(t *testing.T) {
	f := newRecordsFixture(t)
	f.ensureZone(t)

	f.do(t, http.MethodPost, "/api/v1/zones/delphi/records", api.PushRequest{
		Records: []api.Record{wireRecord("p1", 0)},
	}, nil)

	var del api.DeleteResponse
	status := f.do(t, http.MethodPost, "/api/v1/zones/delphi/records/delete", api.DeleteRequest{
		RecordType: "prediction",
		RecordIDs:  []string{"p1", "ghost"},
	}, &del)
	require.Equal(t, http.StatusOK, status)
	assert.ElementsMatch(t, []string{"p1", "ghost"}, del.DeletedIDs)
}

func TestChanges_FeedRoundTrip(t *testing.T) {
	f := newRecordsFixture(t)
	f.ensureZone(t)

	f.do(t, http.MethodPost, "/api/v1/zones/delphi/records", api.PushRequest{
		Records: []api.Record{wireRecord("p1", 0), wireRecord("p2", 0)},
	}, nil)

	// First read from the beginning, as another device
	var feed api.ChangesResponse
	status := f.do(t, http.MethodGet, "/api/v1/zones/delphi/changes?node=node-b", nil, &feed)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, feed.Changed, 2)
	assert.Empty(t, feed.DeletedIDs)
	require.NotEmpty(t, feed.ChangeToken)

	// The uploading device does not get its own writes back
	var own api.ChangesResponse
	f.do(t, http.MethodGet, "/api/v1/zones/delphi/changes?node=node-a", nil, &own)
	assert.Empty(t, own.Changed)

	// Advance: one delete, then read with the held token
	f.do(t, http.MethodPost, "/api/v1/zones/delphi/records/delete", api.DeleteRequest{
		RecordType: "prediction",
		RecordIDs:  []string{"p1"},
	}, nil)

	var next api.ChangesResponse
	status = f.do(t, http.MethodGet, "/api/v1/zones/delphi/changes?node=node-b&token="+feed.ChangeToken, nil, &next)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, next.Changed)
	assert.Equal(t, []string{"p1"}, next.DeletedIDs)
	assert.NotEqual(t, feed.ChangeToken, next.ChangeToken)

	// The feed is quiet after the newest token
	var quiet api.ChangesResponse
	f.do(t, http.MethodGet, "/api/v1/zones/delphi/changes?node=node-b&token="+next.ChangeToken, nil, &quiet)
	assert.Empty(t, quiet.Changed)
	assert.Empty(t, quiet.DeletedIDs)
	assert.Equal(t, next.ChangeToken, quiet.ChangeToken)
}

func TestChanges_ExpiredToken(t *testing.T) {
	f := newRecordsFixture(t)
	f.ensureZone(t)

	var errResp api.ErrorResponse
	status := f.do(t, http.MethodGet, "/api/v1/zones/delphi/changes?token=other-epoch:5", nil, &errResp)
	require.Equal(t, http.StatusGone, status)
	assert.Equal(t, api.CodeTokenExpired, errResp.Code)
}

func TestChanges_ZoneNotFound(t *testing.T) {
	f := newRecordsFixture(t)

	var errResp api.ErrorResponse
	status := f.do(t, http.MethodGet, "/api/v1/zones/nowhere/changes", nil, &errResp)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, api.CodeZoneNotFound, errResp.Code)
}

func TestSingleton_SaveAndGet(t *testing.T) {
	f := newRecordsFixture(t)
	f.ensureZone(t)

	rec := api.Record{
		Fields:       []byte(`{"sync_enabled":true}`),
		LastModified: time.Now().UTC(),
		NodeID:       "node-a",
	}
	status := f.do(t, http.MethodPut, "/api/v1/zones/delphi/records/settings/settings", rec, nil)
	require.Equal(t, http.StatusNoContent, status)

	var got api.Record
	status = f.do(t, http.MethodGet, "/api/v1/zones/delphi/records/settings/settings", nil, &got)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "settings", got.RecordType)
	assert.Equal(t, "settings", got.RecordID)
	assert.JSONEq(t, `{"sync_enabled":true}`, string(got.Fields))

	// Singleton saves are last-writer-wins: no version needed
	status = f.do(t, http.MethodPut, "/api/v1/zones/delphi/records/settings/settings", rec, nil)
	require.Equal(t, http.StatusNoContent, status)
}

func TestSingleton_GetMissing(t *testing.T) {
	f := newRecordsFixture(t)
	f.ensureZone(t)

	var errResp api.ErrorResponse
	status := f.do(t, http.MethodGet, "/api/v1/zones/delphi/records/settings/settings", nil, &errResp)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, api.CodeNotFound, errResp.Code)
}

func TestParseChangeToken(t *testing.T) {
	epoch, seq, err := parseChangeToken("abc-def:42")
	require.NoError(t, err)
	assert.Equal(t, "abc-def", epoch)
	assert.Equal(t, int64(42), seq)

	for _, bad := range []string{"", "noseq", ":5", "epoch:", "epoch:-1", "epoch:NaN"} {
		_, _, err := parseChangeToken(bad)
		assert.Error(t, err, bad)
	}
}
