package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rubixchain/rubix-dapp/internal/configstore"
	"github.com/rubixchain/rubix-dapp/internal/metrics"
	"github.com/rubixchain/rubix-dapp/internal/runner"
	"github.com/rubixchain/rubix-dapp/internal/store/sqlite"
	"github.com/rubixchain/rubix-dapp/internal/wallet"
	"github.com/rubixchain/rubix-dapp/pkg/client"
	"github.com/rubixchain/rubix-dapp/pkg/operation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type runnerFunc func(context.Context, string) (*runner.Result, error)

func (f runnerFunc) Run(ctx context.Context, hash string) (*runner.Result, error) {
	return f(ctx, hash)
}

type lister struct {
	nfts []client.NFTInfo
	fts  []client.FTInfo
	err  error
}

func (l *lister) ListNFTs(context.Context) ([]client.NFTInfo, error) { return l.nfts, l.err }
func (l *lister) ListFTs(context.Context) ([]client.FTInfo, error)   { return l.fts, l.err }

type httpTest struct {
	server   *httptest.Server
	config   *configstore.Provider
	store    *sqlite.SqliteStore
	wallet   *wallet.Registry
	metrics  *metrics.Metrics
	runner   runnerFunc
	lister   *lister
	settings *Config
}

func setup(t *testing.T, doc configstore.Document, settings *Config) *httpTest {
	backend := configstore.NewFileBackend(filepath.Join(t.TempDir(), "config.json"))

	var routes []string
	if doc != nil {
		require.Nil(t, backend.Write(context.Background(), doc))

		app, err := configstore.Decode(doc)
		require.Nil(t, err)
		routes = app.CallbackRoutes()
	}

	s, err := sqlite.New(&sqlite.Config{Path: ":memory:", TxTimeout: time.Second})
	require.Nil(t, err)
	require.Nil(t, s.Start())

	if settings == nil {
		settings = &Config{Timeout: time.Second}
	}

	ht := &httpTest{
		config:   configstore.New(backend, &configstore.Config{}),
		store:    s,
		wallet:   wallet.NewRegistry(),
		metrics:  metrics.New(prometheus.NewRegistry()),
		lister:   &lister{},
		settings: settings,
	}

	h := newHttp(&Deps{
		Config: ht.config,
		Store:  s,
		Runner: runnerFunc(func(ctx context.Context, hash string) (*runner.Result, error) {
			return ht.runner(ctx, hash)
		}),
		Lister:  ht.lister,
		Wallet:  ht.wallet,
		Metrics: ht.metrics,

		CallbackRoutes: routes,
	}, settings)

	ht.server = httptest.NewServer(h.server.Handler)
	t.Cleanup(func() {
		ht.server.Close()
		_ = s.Stop()
	})

	return ht
}

func (ht *httpTest) do(t *testing.T, method string, path string, body string, headers map[string]string) (int, map[string]any) {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}

	req, err := http.NewRequest(method, ht.server.URL+path, reader)
	require.Nil(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := ht.server.Client().Do(req)
	require.Nil(t, err)
	defer func() { _ = res.Body.Close() }()

	data, err := io.ReadAll(res.Body)
	require.Nil(t, err)

	var out map[string]any
	if strings.HasPrefix(res.Header.Get("Content-Type"), "application/json") {
		require.Nil(t, json.Unmarshal(data, &out), string(data))
	}

	return res.StatusCode, out
}

func TestConfigRoutes(t *testing.T) {
	ht := setup(t, configstore.Document{"a": 1, "b": 2}, nil)

	for _, tc := range []struct {
		name   string
		method string
		path   string
		body   string
		status int
		expect map[string]any
	}{
		{
			name:   "Read",
			method: "GET",
			path:   "/api/config",
			status: 200,
			expect: map[string]any{"a": float64(1), "b": float64(2)},
		},
		{
			name:   "Write",
			method: "POST",
			path:   "/api/writeConfig",
			body:   `{"b": 3, "c": 4}`,
			status: 200,
			expect: map[string]any{"success": true},
		},
		{
			name:   "ReadMerged",
			method: "GET",
			path:   "/api/config",
			status: 200,
			expect: map[string]any{"a": float64(1), "b": float64(3), "c": float64(4)},
		},
		{
			name:   "WriteEmpty",
			method: "POST",
			path:   "/api/writeConfig",
			body:   `{}`,
			status: 400,
			expect: map[string]any{"success": false, "error": "no update data provided"},
		},
		{
			name:   "WriteInvalid",
			method: "POST",
			path:   "/api/writeConfig",
			body:   `[1, 2]`,
			status: 400,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			status, body := ht.do(t, tc.method, tc.path, tc.body, nil)
			assert.Equal(t, tc.status, status)
			if tc.expect != nil {
				assert.Equal(t, tc.expect, body)
			}
		})
	}
}

func TestRequestStatus(t *testing.T) {
	ht := setup(t, nil, nil)
	ctx := context.Background()

	require.Nil(t, ht.store.Update(ctx, "nft-hash-mint", operation.Success))
	require.Nil(t, ht.store.Update(ctx, "ft-hash-transfer", operation.Failed))

	for _, tc := range []struct {
		key    string
		status int
	}{
		{key: "nft-hash-mint", status: 1},
		{key: "ft-hash-transfer", status: 2},
		{key: "unknown", status: 0},
	} {
		code, body := ht.do(t, "GET", "/request-status?req_id="+tc.key, "", nil)
		assert.Equal(t, 200, code)
		assert.Equal(t, map[string]any{
			"status":  float64(tc.status),
			"message": fmt.Sprintf("Request Status: %d", tc.status),
		}, body)
	}

	code, body := ht.do(t, "GET", "/request-status", "", nil)
	assert.Equal(t, 400, code)
	assert.Contains(t, body, "error")

	assert.Equal(t, float64(3), testutil.ToFloat64(ht.metrics.ApiTotal.WithLabelValues("GET", "/request-status", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(ht.metrics.ApiTotal.WithLabelValues("GET", "/request-status", "400")))
}

func TestRunDapp(t *testing.T) {
	ht := setup(t, nil, &Config{Timeout: time.Second, DappRoute: "/api/dapp"})

	ht.runner = func(_ context.Context, hash string) (*runner.Result, error) {
		switch hash {
		case "nfthash":
			return &runner.Result{TrackingKey: "nft-nfthash-mint", Function: "mint_sample_nft", Status: operation.Success, Message: "success"}, nil
		case "bad":
			return nil, operation.Errorf(operation.CodeValidation, "no smart contract data for bad")
		default:
			return nil, operation.Wrap(operation.Errorf(operation.CodeTransport, "executor returned 500"), "failed to execute contract")
		}
	}

	code, body := ht.do(t, "POST", "/api/dapp", `{"port": "20000", "smart_contract_hash": "nfthash"}`, nil)
	assert.Equal(t, 200, code)
	assert.Equal(t, "DApp executed successfully", body["message"])
	assert.Equal(t, map[string]any{
		"status":       true,
		"message":      "success",
		"function":     "mint_sample_nft",
		"tracking_key": "nft-nfthash-mint",
	}, body["data"])

	code, body = ht.do(t, "POST", "/api/dapp", `{"port": "20000"}`, nil)
	assert.Equal(t, 400, code)
	details := body["error"].(map[string]any)["details"].([]any)
	assert.Equal(t, "The field smartcontracthash is required.", details[0].(map[string]any)["message"])

	code, _ = ht.do(t, "POST", "/api/dapp", `{"smart_contract_hash": "bad"}`, nil)
	assert.Equal(t, 400, code)

	code, body = ht.do(t, "POST", "/api/dapp", `{"smart_contract_hash": "other"}`, nil)
	assert.Equal(t, 502, code)
	assert.Equal(t, "failed to execute contract: executor returned 500", body["error"].(map[string]any)["message"])

	code, _ = ht.do(t, "POST", "/api/run-dapp", `{"smart_contract_hash": "nfthash"}`, nil)
	assert.Equal(t, 200, code)

	code, _ = ht.do(t, "POST", "/api/other", `{"smart_contract_hash": "nfthash"}`, nil)
	assert.Equal(t, 404, code)
}

func TestCallbackRoutes(t *testing.T) {
	ht := setup(t, configstore.Document{
		"dapp_server_api": "http://localhost:8080/api/run-dapp",
		"contracts_info": map[string]any{
			"nft": map[string]any{"contract_hash": "nfthash", "callback_url": "http://localhost:8080/api/run-dapp"},
			"ft":  map[string]any{"contract_hash": "fthash", "callback_url": "http://localhost:8080/api/ft-callback"},
		},
	}, nil)

	ht.runner = func(ctx context.Context, hash string) (*runner.Result, error) {
		key := "ft-" + hash + "-transfer"
		if err := ht.store.Update(ctx, key, operation.Success); err != nil {
			return nil, err
		}
		return &runner.Result{TrackingKey: key, Function: "transfer_sample_ft", Status: operation.Success}, nil
	}

	code, body := ht.do(t, "POST", "/api/ft-callback", `{"smart_contract_hash": "fthash"}`, nil)
	assert.Equal(t, 200, code)
	assert.Equal(t, "ft-fthash-transfer", body["data"].(map[string]any)["tracking_key"])

	code, body = ht.do(t, "GET", "/request-status?req_id=ft-fthash-transfer", "", nil)
	assert.Equal(t, 200, code)
	assert.Equal(t, float64(1), body["status"])

	code, _ = ht.do(t, "POST", "/api/run-dapp", `{"smart_contract_hash": "fthash"}`, nil)
	assert.Equal(t, 200, code)
}

func TestCallbackRouteList(t *testing.T) {
	for _, tc := range []struct {
		name       string
		dappRoute  string
		configured []string
		routes     []string
	}{
		{name: "default only", routes: []string{"/api/run-dapp"}},
		{name: "flag and configured", dappRoute: "/api/dapp", configured: []string{"/api/run-dapp", "/api/ft"}, routes: []string{"/api/run-dapp", "/api/dapp", "/api/ft"}},
		{name: "reserved and wildcard dropped", configured: []string{"/api/writeConfig", "/api/:id", "relative"}, routes: []string{"/api/run-dapp"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.routes, callbackRoutes(tc.dappRoute, tc.configured))
		})
	}
}

func TestProxy(t *testing.T) {
	node := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"status": true, "message": %q, "result": {"id": %q}}`, r.URL.Path, string(body))
	}))
	defer node.Close()

	ht := setup(t, configstore.Document{"non_quorum_node_address": node.URL}, nil)

	for _, path := range []string{"/api/execute-smart-contract", "/api/signature-response"} {
		code, body := ht.do(t, "POST", path, `{"id":"op"}`, nil)
		assert.Equal(t, 200, code)
		assert.Equal(t, path, body["message"])
		assert.Equal(t, map[string]any{"id": `{"id":"op"}`}, body["result"])
	}
}

func TestProxyErrors(t *testing.T) {
	ht := setup(t, configstore.Document{}, nil)

	code, _ := ht.do(t, "POST", "/api/execute-smart-contract", `{}`, nil)
	assert.Equal(t, 400, code)

	node := httptest.NewServer(http.NotFoundHandler())
	addr := node.URL
	node.Close()

	_, err := ht.config.Update(context.Background(), configstore.Document{"non_quorum_node_address": addr})
	require.Nil(t, err)

	code, _ = ht.do(t, "POST", "/api/signature-response", `{}`, nil)
	assert.Equal(t, 502, code)
}

func TestListRoutes(t *testing.T) {
	ht := setup(t, nil, nil)
	ht.lister.nfts = []client.NFTInfo{{NFTId: "nft1", Owner: "did1", Value: 1}}
	ht.lister.fts = []client.FTInfo{}

	code, body := ht.do(t, "GET", "/api/nfts", "", nil)
	assert.Equal(t, 200, code)
	assert.Len(t, body["nfts"], 1)

	code, body = ht.do(t, "GET", "/api/fts", "", nil)
	assert.Equal(t, 200, code)
	assert.Equal(t, []any{}, body["fts"])

	ht.lister.err = operation.Errorf(operation.CodeValidation, "node address and user DID required")
	code, _ = ht.do(t, "GET", "/api/nfts", "", nil)
	assert.Equal(t, 400, code)
}

func TestWalletConnect(t *testing.T) {
	ht := setup(t, configstore.Document{"user_did": "old"}, &Config{
		Timeout:       time.Second,
		WalletOrigin:  "http://localhost:5173",
		WalletTimeout: 5 * time.Second,
	})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "bafy-did"}).SignedString([]byte("wallet"))
	require.Nil(t, err)

	done := make(chan map[string]any, 1)
	go func() {
		_, body := ht.do(t, "GET", "/api/wallet/connect", "", nil)
		done <- body
	}()

	// wait for the connect request to register
	require.Eventually(t, func() bool { return ht.wallet.Len() == 1 }, 5*time.Second, 10*time.Millisecond)

	evil, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "attacker-did"}).SignedString([]byte("wallet"))
	require.Nil(t, err)

	for _, tc := range []struct {
		name   string
		body   string
		origin string
	}{
		{name: "OtherOrigin", body: fmt.Sprintf(`{"token": %q}`, evil), origin: "http://evil.example"},
		{name: "BodyOrigin", body: fmt.Sprintf(`{"token": %q, "origin": "http://localhost:5173"}`, evil), origin: "http://evil.example"},
		{name: "ContainedOrigin", body: fmt.Sprintf(`{"token": %q}`, evil), origin: "http://localhost:5173.evil.example"},
		{name: "NoOrigin", body: fmt.Sprintf(`{"token": %q, "origin": "http://localhost:5173"}`, evil)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			headers := map[string]string{}
			if tc.origin != "" {
				headers["Origin"] = tc.origin
			}
			code, _ := ht.do(t, "POST", "/api/wallet/message", tc.body, headers)
			assert.Equal(t, 404, code)
		})
	}

	code, _ := ht.do(t, "POST", "/api/wallet/message", fmt.Sprintf(`{"token": %q}`, token), map[string]string{"Origin": "http://localhost:5173"})
	assert.Equal(t, 202, code)

	assert.Equal(t, map[string]any{"user_did": "bafy-did"}, <-done)

	doc, err := ht.config.Refresh(context.Background())
	require.Nil(t, err)
	assert.Equal(t, "bafy-did", doc["user_did"])
}

func TestWalletConnectTimeout(t *testing.T) {
	ht := setup(t, nil, &Config{
		Timeout:       time.Second,
		WalletOrigin:  "http://localhost:5173",
		WalletTimeout: 10 * time.Millisecond,
	})

	code, _ := ht.do(t, "GET", "/api/wallet/connect", "", nil)
	assert.Equal(t, 408, code)
	assert.Equal(t, 0, ht.wallet.Len())
}

func TestWalletNotConfigured(t *testing.T) {
	ht := setup(t, nil, nil)

	code, _ := ht.do(t, "GET", "/api/wallet/connect", "", nil)
	assert.Equal(t, 501, code)

	code, _ = ht.do(t, "POST", "/api/wallet/message", `{}`, nil)
	assert.Equal(t, 400, code)
}

func TestCorsConfig(t *testing.T) {
	c := corsConfig("*")
	assert.True(t, c.AllowAllOrigins)

	c = corsConfig("http://localhost:5173, http://localhost:3000")
	assert.False(t, c.AllowAllOrigins)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, c.AllowOrigins)

	c = corsConfig("")
	assert.True(t, c.AllowAllOrigins)
}
