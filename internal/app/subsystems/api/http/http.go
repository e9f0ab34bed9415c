package http

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rubixchain/rubix-dapp/internal/api"
	"github.com/rubixchain/rubix-dapp/internal/configstore"
	"github.com/rubixchain/rubix-dapp/internal/metrics"
	"github.com/rubixchain/rubix-dapp/internal/runner"
	"github.com/rubixchain/rubix-dapp/internal/wallet"
	"github.com/rubixchain/rubix-dapp/pkg/client"
	"github.com/rubixchain/rubix-dapp/pkg/operation"
)

const DefaultDappRoute = "/api/run-dapp"

type Config struct {
	Addr          string        `flag:"addr" desc:"http server address" default:":8080"`
	Timeout       time.Duration `flag:"timeout" desc:"http server graceful shutdown timeout" default:"10s"`
	DappRoute     string        `flag:"dapp-route" desc:"additional route the node calls back on, besides /api/run-dapp and the configured callback urls" default:""`
	CorsOrigins   string        `flag:"cors-origins" desc:"comma separated list of allowed cors origins" default:"*"`
	WalletOrigin  string        `flag:"wallet-origin" desc:"exact origin (scheme://host[:port]) the wallet posts connect messages from" default:""`
	WalletTimeout time.Duration `flag:"wallet-timeout" desc:"how long a wallet connect request waits" default:"2m"`
}

type ConfigProvider interface {
	Get(context.Context) (configstore.Document, error)
	Update(context.Context, configstore.Document) (configstore.Document, error)
	App(context.Context) (*configstore.App, error)
}

type StatusReader interface {
	Get(ctx context.Context, id string) (operation.Status, bool, error)
}

type Runner interface {
	Run(ctx context.Context, contractHash string) (*runner.Result, error)
}

type Lister interface {
	ListNFTs(context.Context) ([]client.NFTInfo, error)
	ListFTs(context.Context) ([]client.FTInfo, error)
}

// Deps are the components the http routes are served from.
type Deps struct {
	Config  ConfigProvider
	Store   StatusReader
	Runner  Runner
	Lister  Lister
	Wallet  *wallet.Registry
	Metrics *metrics.Metrics

	// paths from dapp_server_api and the contract callback urls
	CallbackRoutes []string
}

type Http struct {
	config *Config
	server *http.Server
}

func New(deps *Deps, config *Config) api.Subsystem {
	return newHttp(deps, config)
}

func newHttp(deps *Deps, config *Config) *Http {
	r := gin.Default()
	s := &server{deps: deps, config: config}

	r.Use(cors.New(corsConfig(config.CorsOrigins)))

	if deps.Metrics != nil {
		r.Use(s.instrument)
	}

	// Config API
	r.GET("/api/config", s.readConfig)
	r.POST("/api/writeConfig", s.writeConfig)

	// Request status API
	r.GET("/request-status", s.requestStatus)
	for _, route := range callbackRoutes(config.DappRoute, deps.CallbackRoutes) {
		r.POST(route, s.runDapp)
	}

	// Node API
	r.POST("/api/execute-smart-contract", s.proxy)
	r.POST("/api/signature-response", s.proxy)
	r.GET("/api/nfts", s.listNFTs)
	r.GET("/api/fts", s.listFTs)

	// Wallet API
	r.GET("/api/wallet/connect", s.connectWallet)
	r.POST("/api/wallet/message", s.walletMessage)

	return &Http{
		config: config,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: r,
		},
	}
}

func (h *Http) Start(errors chan<- error) {
	slog.Info("starting http server", "addr", h.config.Addr)
	if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		errors <- err
	}
}

func (h *Http) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	return h.server.Shutdown(ctx)
}

func (h *Http) String() string {
	return "http"
}

type server struct {
	deps   *Deps
	config *Config
}

func (s *server) instrument(c *gin.Context) {
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}

	s.deps.Metrics.ApiInFlight.WithLabelValues(route).Inc()
	defer s.deps.Metrics.ApiInFlight.WithLabelValues(route).Dec()

	c.Next()

	s.deps.Metrics.ApiTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
}

// reserved post routes cannot double as callbacks
var reserved = []string{"/api/writeConfig", "/api/execute-smart-contract", "/api/signature-response", "/api/wallet/message"}

// callbackRoutes returns the default route followed by the distinct
// configured ones. Reserved and wildcard paths are dropped.
func callbackRoutes(dappRoute string, configured []string) []string {
	routes := []string{DefaultDappRoute}

	for _, route := range append([]string{dappRoute}, configured...) {
		if route == "" || slices.Contains(routes, route) {
			continue
		}
		if !strings.HasPrefix(route, "/") || strings.ContainsAny(route, ":*") || slices.Contains(reserved, route) {
			slog.Warn("ignoring callback route", "route", route)
			continue
		}
		routes = append(routes, route)
	}

	return routes
}

func (s *server) error(c *gin.Context, err *api.Error) {
	c.JSON(err.Code, gin.H{
		"error": err,
	})
}

func corsConfig(origins string) cors.Config {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
	}

	for _, o := range strings.Split(origins, ",") {
		o = strings.TrimSpace(o)
		if o == "*" {
			config.AllowAllOrigins = true
			config.AllowOrigins = nil
			return config
		}
		if o != "" {
			config.AllowOrigins = append(config.AllowOrigins, o)
		}
	}

	if len(config.AllowOrigins) == 0 {
		config.AllowAllOrigins = true
	}

	return config
}
