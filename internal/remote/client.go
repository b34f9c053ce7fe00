package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/anti-elegant/Delphi-sub000/internal/models"
	"github.com/anti-elegant/Delphi-sub000/pkg/api"
)

//go:generate moq -out tokens_mock.go . TokenProvider

// TokenProvider supplies the bearer token attached to every request.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// ClientConfig configures the HTTP adapter.
type ClientConfig struct {
	BaseURL        string
	NodeID         string // per-install node ID, sent for change feed echo suppression
	Tokens         TokenProvider
	Logger         *slog.Logger
	BatchSize      int           // chunk size for batch push
	MaxRetries     uint64        // retry budget per call on transient failures
	RetryDelayBase time.Duration // exponential backoff base
	HTTPTimeout    time.Duration
}

// Client is the HTTP implementation of Adapter.
type Client struct {
	httpClient *http.Client
	tokens     TokenProvider
	logger     *slog.Logger
	baseURL    string
	nodeID     string
	batchSize  int
	maxRetries uint64
	retryBase  time.Duration
}

// Compile-time check that Client implements Adapter
var _ Adapter = (*Client)(nil)

// NewClient creates the HTTP remote adapter.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.RetryDelayBase <= 0 {
		cfg.RetryDelayBase = time.Second
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		nodeID:     cfg.NodeID,
		tokens:     cfg.Tokens,
		logger:     cfg.Logger,
		batchSize:  cfg.BatchSize,
		maxRetries: cfg.MaxRetries,
		retryBase:  cfg.RetryDelayBase,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
	}
}

// EnsureZone idempotently creates the zone. "Already exists" is success
// on the server side, so no special handling is needed here.
func (c *Client) EnsureZone(ctx context.Context, zone string) error {
	path := "/api/v1/zones/" + url.PathEscape(zone)
	return c.withRetry(ctx, "ensure_zone", func(ctx context.Context) error {
		return c.doRequest(ctx, http.MethodPut, path, nil, nil)
	})
}

// PushBatch writes records in chunks of the configured batch size.
// Per-record failures don't fail the call: the accepted IDs are
// returned alongside a KindPartialFailure error listing the rest.
func (c *Client) PushBatch(ctx context.Context, zone string, records []*models.Record) ([]string, error) {
	path := "/api/v1/zones/" + url.PathEscape(zone) + "/records"

	saved := []string{}
	failed := []api.RecordFailure{}

	for start := 0; start < len(records); start += c.batchSize {
		end := min(start+c.batchSize, len(records))

		req := api.PushRequest{Records: make([]api.Record, 0, end-start)}
		for _, r := range records[start:end] {
			req.Records = append(req.Records, toWire(r))
		}

		var resp api.PushResponse
		err := c.withRetry(ctx, "push_batch", func(ctx context.Context) error {
			resp = api.PushResponse{}
			return c.doRequest(ctx, http.MethodPost, path, req, &resp)
		})
		if err != nil {
			// Transport-level failure: report what already succeeded
			return saved, err
		}

		saved = append(saved, resp.SavedIDs...)
		failed = append(failed, resp.Failed...)
	}

	if len(failed) > 0 {
		err := newError(KindPartialFailure, "push_batch",
			fmt.Sprintf("%d of %d records failed", len(failed), len(records)), nil)
		err.Failed = failed
		return saved, err
	}

	return saved, nil
}

// DeleteBatch removes records by ID. Already-deleted records count as
// deleted, so the call is idempotent.
func (c *Client) DeleteBatch(ctx context.Context, zone string, recordType string, ids []string) ([]string, error) {
	path := "/api/v1/zones/" + url.PathEscape(zone) + "/records/delete"

	deleted := []string{}

	for start := 0; start < len(ids); start += c.batchSize {
		end := min(start+c.batchSize, len(ids))

		req := api.DeleteRequest{RecordType: recordType, RecordIDs: ids[start:end]}

		var resp api.DeleteResponse
		err := c.withRetry(ctx, "delete_batch", func(ctx context.Context) error {
			resp = api.DeleteResponse{}
			return c.doRequest(ctx, http.MethodPost, path, req, &resp)
		})
		if err != nil {
			return deleted, err
		}

		deleted = append(deleted, resp.DeletedIDs...)
	}

	return deleted, nil
}

// FetchChangesSince pulls the change feed after the given token.
func (c *Client) FetchChangesSince(ctx context.Context, zone string, token string) (*ChangeSet, error) {
	q := url.Values{}
	if token != "" {
		q.Set("token", token)
	}
	if c.nodeID != "" {
		q.Set("node", c.nodeID)
	}

	path := "/api/v1/zones/" + url.PathEscape(zone) + "/changes"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}

	var resp api.ChangesResponse
	err := c.withRetry(ctx, "fetch_changes", func(ctx context.Context) error {
		resp = api.ChangesResponse{}
		return c.doRequest(ctx, http.MethodGet, path, nil, &resp)
	})
	if err != nil {
		return nil, err
	}

	cs := &ChangeSet{
		Token:      resp.ChangeToken,
		Changed:    make([]*models.Record, 0, len(resp.Changed)),
		DeletedIDs: resp.DeletedIDs,
	}
	for i := range resp.Changed {
		cs.Changed = append(cs.Changed, fromWire(&resp.Changed[i]))
	}

	return cs, nil
}

// FetchAll returns every record of one type in the zone.
func (c *Client) FetchAll(ctx context.Context, zone string, recordType string) ([]*models.Record, error) {
	path := "/api/v1/zones/" + url.PathEscape(zone) + "/records?type=" + url.QueryEscape(recordType)

	var resp api.RecordsResponse
	err := c.withRetry(ctx, "fetch_all", func(ctx context.Context) error {
		resp = api.RecordsResponse{}
		return c.doRequest(ctx, http.MethodGet, path, nil, &resp)
	})
	if err != nil {
		return nil, err
	}

	records := make([]*models.Record, 0, len(resp.Records))
	for i := range resp.Records {
		records = append(records, fromWire(&resp.Records[i]))
	}

	return records, nil
}

// SaveSingleton unconditionally upserts one record.
func (c *Client) SaveSingleton(ctx context.Context, zone string, record *models.Record) error {
	path := "/api/v1/zones/" + url.PathEscape(zone) + "/records/" +
		url.PathEscape(record.RecordType) + "/" + url.PathEscape(record.RecordID)

	req := toWire(record)
	return c.withRetry(ctx, "save_singleton", func(ctx context.Context) error {
		return c.doRequest(ctx, http.MethodPut, path, req, nil)
	})
}

// FetchSingleton retrieves one record by type and ID.
func (c *Client) FetchSingleton(ctx context.Context, zone string, recordType string, id string) (*models.Record, error) {
	path := "/api/v1/zones/" + url.PathEscape(zone) + "/records/" +
		url.PathEscape(recordType) + "/" + url.PathEscape(id)

	var resp api.Record
	err := c.withRetry(ctx, "fetch_singleton", func(ctx context.Context) error {
		resp = api.Record{}
		return c.doRequest(ctx, http.MethodGet, path, nil, &resp)
	})
	if err != nil {
		return nil, err
	}

	return fromWire(&resp), nil
}

// withRetry runs one logical call with exponential backoff on transient
// failures. Definitive failures (auth, conflict, zone missing) abort
// immediately.
func (c *Client) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.retryBase))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		err := fn(ctx)
		if err == nil {
			return nil
		}

		if IsTransient(err) {
			c.logger.Debug("transient remote failure, will retry",
				"op", op, "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}

		return err
	})
}

// doRequest performs a single HTTP request and maps the outcome to the
// error taxonomy. It is the only place HTTP statuses are interpreted.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	reqURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return newError(KindUnknown, method, "failed to marshal request body", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return newError(KindUnknown, method, "failed to create request", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return newError(KindAccountUnavailable, method, "no usable access token", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return newError(KindNetworkUnavailable, method, "request failed", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return newError(KindNetworkUnavailable, method, "failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.mapStatus(method, resp.StatusCode, respBody)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return newError(KindUnknown, method, "failed to decode response", err)
		}
	}

	return nil
}

// mapStatus converts a non-2xx answer into a taxonomy error.
func (c *Client) mapStatus(op string, status int, body []byte) error {
	var errResp api.ErrorResponse
	_ = json.Unmarshal(body, &errResp)

	msg := errResp.Message
	if msg == "" {
		msg = fmt.Sprintf("status %d", status)
	}

	switch status {
	case http.StatusUnauthorized:
		return newError(KindAccountUnavailable, op, msg, nil)
	case http.StatusForbidden:
		return newError(KindPermissionDenied, op, msg, nil)
	case http.StatusNotFound:
		if errResp.Code == api.CodeZoneNotFound {
			return newError(KindZoneNotFound, op, msg, nil)
		}
		return newError(KindRecordNotFound, op, msg, nil)
	case http.StatusConflict:
		return newError(KindConflict, op, msg, nil)
	case http.StatusGone:
		return newError(KindTokenInvalid, op, msg, nil)
	case http.StatusTooManyRequests:
		// Server rate limiting is transient, unlike a quota refusal
		return newError(KindNetworkUnavailable, op, msg, nil)
	case http.StatusInsufficientStorage:
		return newError(KindQuotaExceeded, op, msg, nil)
	default:
		return newError(KindUnknown, op, msg, nil)
	}
}

// toWire converts the local record envelope to its wire form.
func toWire(r *models.Record) api.Record {
	return api.Record{
		RecordID:     r.RecordID,
		RecordType:   r.RecordType,
		Fields:       r.Fields,
		LastModified: r.LastModified,
		Version:      r.Version,
		NodeID:       r.NodeID,
	}
}

// fromWire converts a wire record to the local envelope.
func fromWire(r *api.Record) *models.Record {
	return &models.Record{
		RecordID:     r.RecordID,
		RecordType:   r.RecordType,
		Fields:       r.Fields,
		LastModified: r.LastModified,
		Version:      r.Version,
		NodeID:       r.NodeID,
	}
}
