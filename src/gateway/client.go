package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stream-viewer/src/helpers"
	"stream-viewer/src/logger"
	"stream-viewer/src/models"
)

// -----------------------------------------------------------------------------
// Client is the REST boundary to the backend stream gateway. Every call is a
// POST with a JSON body; any non-2xx response is a failure regardless of body
// content. Failed calls are never retried here - the user retries the action.
// -----------------------------------------------------------------------------

type Client struct {
	BaseURL    string
	HttpClient *http.Client
	Logger     *logger.Logger
}

// -----------------------------------------------------------------------------

func NewClient(cfg *models.MConfig) *Client {
	return &Client{
		BaseURL: cfg.Gateway.BaseURL,
		HttpClient: &http.Client{
			Timeout: time.Duration(cfg.Gateway.RequestTimeout) * time.Second,
		},
		Logger: logger.NewLogger(cfg.LogLevel, "Gateway"),
	}
}

// -----------------------------------------------------------------------------

// post runs one JSON POST and decodes the response into out.
func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request for %s: %w", path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return helpers.NewNetworkError(fmt.Sprintf("POST %s", path), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return helpers.NewNetworkError(fmt.Sprintf("read response of POST %s", path), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.Logger.Warning("POST %s returned %s", path, resp.Status)
		return helpers.NewNetworkError(fmt.Sprintf("POST %s: %s", path, resp.Status), nil)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return helpers.NewNetworkError(fmt.Sprintf("malformed response body of POST %s", path), err)
	}
	return nil
}

// -----------------------------------------------------------------------------

// Connect asks the gateway to start (or report) the upstream streamer.
func (c *Client) Connect(ctx context.Context) (*models.MConnectResponse, error) {
	var out models.MConnectResponse
	if err := c.post(ctx, "/api/connect", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// -----------------------------------------------------------------------------

// Disconnect stops the upstream streamer.
func (c *Client) Disconnect(ctx context.Context) (*models.MDisconnectResponse, error) {
	var out models.MDisconnectResponse
	if err := c.post(ctx, "/api/disconnect", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// -----------------------------------------------------------------------------

// Subscribe asks the gateway to track one ticker symbol. The gateway may
// answer with a different (normalized) symbol than requested.
func (c *Client) Subscribe(ctx context.Context, symbol string) (*models.MSubscribeResponse, error) {
	var out models.MSubscribeResponse
	req := models.MSubscribeRequest{Symbol: symbol}
	if err := c.post(ctx, "/api/subscribe", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// -----------------------------------------------------------------------------

// Unsubscribe stops tracking the symbol.
func (c *Client) Unsubscribe(ctx context.Context, symbol string) (*models.MSubscribeResponse, error) {
	var out models.MSubscribeResponse
	req := models.MSubscribeRequest{Symbol: symbol}
	if err := c.post(ctx, "/api/unsubscribe", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
