package s0_data

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/runchengxie/a-share-animal-index/internal/contracts"
	"github.com/runchengxie/a-share-animal-index/pkg/config"
	"github.com/runchengxie/a-share-animal-index/pkg/httputil"
	"github.com/runchengxie/a-share-animal-index/pkg/logger"
)

// Client talks to the Tushare Pro HTTP API and implements contracts.MarketData
// ⭐ SSOT: Tushare API 호출은 이 클라이언트에서만
type Client struct {
	http    *httputil.Client
	logger  *logger.Logger
	token   string
	baseURL string
}

var _ contracts.MarketData = (*Client)(nil)

// NewClient creates a Tushare client with the configured rate limit
func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		http:    httputil.New(cfg, log).WithRateLimit(cfg.Tushare.RatePerMin),
		logger:  log,
		token:   cfg.Tushare.Token,
		baseURL: cfg.Tushare.BaseURL,
	}
}

// NewClientWithHTTP creates a client over an existing HTTP client (tests, custom retry)
func NewClientWithHTTP(httpClient *httputil.Client, token, baseURL string, log *logger.Logger) *Client {
	return &Client{
		http:    httpClient,
		logger:  log,
		token:   token,
		baseURL: baseURL,
	}
}

// request is the single POST body shape of the API
type request struct {
	APIName string            `json:"api_name"`
	Token   string            `json:"token"`
	Params  map[string]string `json:"params"`
	Fields  string            `json:"fields,omitempty"`
}

type response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data *struct {
		Fields []string        `json:"fields"`
		Items  [][]interface{} `json:"items"`
	} `json:"data"`
}

// APIError is a non-zero code returned by the API
type APIError struct {
	API  string
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tushare %s: code %d: %s", e.API, e.Code, e.Msg)
}

// query calls one API and returns its table
func (c *Client) query(ctx context.Context, apiName string, params map[string]string, fields string) (*table, error) {
	if params == nil {
		params = map[string]string{}
	}

	resp, err := c.http.PostJSON(ctx, c.baseURL, request{
		APIName: apiName,
		Token:   c.token,
		Params:  params,
		Fields:  fields,
	})
	if err != nil {
		return nil, fmt.Errorf("tushare %s: %w", apiName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tushare %s: http %d: %s", apiName, resp.StatusCode, string(body))
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("tushare %s: decode response: %w", apiName, err)
	}
	if out.Code != 0 {
		return nil, &APIError{API: apiName, Code: out.Code, Msg: out.Msg}
	}
	if out.Data == nil {
		return newTable(nil, nil), nil
	}

	c.logger.WithFields(map[string]interface{}{
		"api":    apiName,
		"params": params,
		"rows":   len(out.Data.Items),
	}).Debug("tushare query")

	return newTable(out.Data.Fields, out.Data.Items), nil
}
