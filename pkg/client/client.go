package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rubixchain/rubix-dapp/internal/metrics"
	"github.com/rubixchain/rubix-dapp/pkg/operation"
)

//go:generate mockgen -source=client.go -destination=mock_client.go -package=client

// Client talks to a node and to the request status endpoint.
type Client interface {
	ExecuteSmartContract(context.Context, *ExecuteRequest) (*ExecuteResponse, error)
	SubmitSignature(context.Context, *SignatureRequest) (*BasicResponse, error)
	RequestStatus(context.Context, string) (*StatusResponse, error)
	SmartContractData(context.Context, string) (*SmartContractDataReply, error)
	ListNFTs(context.Context) ([]NFTInfo, error)
	FTInfoByDID(context.Context, string) ([]FTInfo, error)
}

type Config struct {
	NodeAddr    string
	StatusUrl   string
	Timeout     time.Duration
	ConnTimeout time.Duration
}

// RequestEditorFn mutates every outgoing request, e.g. to add auth headers.
type RequestEditorFn func(ctx context.Context, req *http.Request) error

type Option func(*client)

func WithBearerToken(token string) Option {
	return func(c *client) {
		c.editors = append(c.editors, bearerToken(token))
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *client) {
		c.metrics = m
	}
}

func WithHttpClient(h *http.Client) Option {
	return func(c *client) {
		c.http = h
	}
}

type client struct {
	config  *Config
	http    *http.Client
	editors []RequestEditorFn
	metrics *metrics.Metrics
}

func New(config *Config, opts ...Option) Client {
	c := &client{
		config: config,
		http: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: config.ConnTimeout,
				}).DialContext,
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *client) ExecuteSmartContract(ctx context.Context, req *ExecuteRequest) (*ExecuteResponse, error) {
	var res ExecuteResponse
	if err := c.do(ctx, "execute", http.MethodPost, c.nodeUrl("/api/execute-smart-contract"), req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) SubmitSignature(ctx context.Context, req *SignatureRequest) (*BasicResponse, error) {
	var res BasicResponse
	if err := c.do(ctx, "signature", http.MethodPost, c.nodeUrl("/api/signature-response"), req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) RequestStatus(ctx context.Context, key string) (*StatusResponse, error) {
	u, err := url.Parse(c.config.StatusUrl)
	if err != nil {
		return nil, operation.NewError(operation.CodeValidation, "invalid status url", err)
	}

	q := u.Query()
	q.Set("req_id", key)
	u.RawQuery = q.Encode()

	var res StatusResponse
	if err := c.do(ctx, "status", http.MethodGet, u.String(), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) SmartContractData(ctx context.Context, token string) (*SmartContractDataReply, error) {
	var res SmartContractDataReply
	req := &SmartContractDataRequest{Token: token, Latest: true}
	if err := c.do(ctx, "contract-data", http.MethodPost, c.nodeUrl("/api/get-smart-contract-token-chain-data"), req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) ListNFTs(ctx context.Context) ([]NFTInfo, error) {
	var res NFTList
	if err := c.do(ctx, "list-nfts", http.MethodGet, c.nodeUrl("/api/list-nfts"), nil, &res); err != nil {
		var httpErr *HttpError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return []NFTInfo{}, nil
		}
		return nil, err
	}
	return res.NFTs, nil
}

func (c *client) FTInfoByDID(ctx context.Context, did string) ([]FTInfo, error) {
	var res FTList
	u := c.nodeUrl("/api/get-ft-info-by-did") + "?did=" + url.QueryEscape(did)
	if err := c.do(ctx, "ft-info", http.MethodGet, u, nil, &res); err != nil {
		return nil, err
	}
	return res.FTInfo, nil
}

// HttpError is returned when the remote answers with a non 2xx status.
type HttpError struct {
	StatusCode int
	Message    string
}

func (e *HttpError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
}

func (c *client) nodeUrl(path string) string {
	return strings.TrimRight(c.config.NodeAddr, "/") + path
}

// do performs a single request. It never retries: transport failures are
// returned as TransportError and a cancelled context as Cancelled.
func (c *client) do(ctx context.Context, endpoint string, method string, u string, body any, out any) (err error) {
	defer func() {
		if c.metrics != nil {
			status := "ok"
			if err != nil {
				status = operation.CodeOf(err).String()
			}
			c.metrics.NodeRequestsTotal.WithLabelValues(endpoint, status).Inc()
		}
	}()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return operation.NewError(operation.CodeValidation, "failed to encode request", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return operation.NewError(operation.CodeValidation, "failed to create request", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}
	req.Header.Set("Accept", "application/json")

	for _, edit := range c.editors {
		if err := edit(ctx, req); err != nil {
			return operation.NewError(operation.CodeValidation, "failed to edit request", err)
		}
	}

	slog.Debug("node:request", "endpoint", endpoint, "method", method, "url", u)

	res, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return operation.ErrCancelled
		}
		return operation.NewError(operation.CodeTransport, fmt.Sprintf("%s request failed", endpoint), err)
	}
	defer func() { _ = res.Body.Close() }()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		if ctx.Err() != nil {
			return operation.ErrCancelled
		}
		return operation.NewError(operation.CodeTransport, fmt.Sprintf("failed to read %s response", endpoint), err)
	}

	slog.Debug("node:response", "endpoint", endpoint, "status", res.StatusCode, "body", string(data))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var msg BasicResponse
		_ = json.Unmarshal(data, &msg)
		return operation.NewError(operation.CodeTransport, fmt.Sprintf("%s request failed", endpoint), &HttpError{
			StatusCode: res.StatusCode,
			Message:    msg.Message,
		})
	}

	if err := json.Unmarshal(data, out); err != nil {
		return operation.NewError(operation.CodeTransport, fmt.Sprintf("invalid %s response", endpoint), err)
	}

	return nil
}

// Helper functions

func bearerToken(token string) RequestEditorFn {
	return func(ctx context.Context, req *http.Request) error {
		req.Header.Set("Authorization", "Bearer "+token)
		return nil
	}
}

// StatusText renders a status reply the way the status endpoint does.
func StatusText(s operation.Status) string {
	return "Request Status: " + strconv.Itoa(int(s))
}
