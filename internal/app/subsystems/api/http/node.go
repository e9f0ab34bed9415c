package http

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rubixchain/rubix-dapp/internal/api"
	"github.com/rubixchain/rubix-dapp/pkg/operation"
)

// Proxy forwards a browser request to the configured node unchanged.
// The node address is resolved on every request since it can be
// rewritten through the config api.
func (s *server) proxy(c *gin.Context) {
	app, err := s.deps.Config.App(c.Request.Context())
	if err != nil {
		s.error(c, api.ServerError(err))
		return
	}

	if app.NodeAddress == "" {
		s.error(c, api.ServerError(operation.Errorf(operation.CodeValidation, "node address required")))
		return
	}

	target, err := url.Parse(app.NodeAddress)
	if err != nil || target.Scheme == "" || target.Host == "" {
		s.error(c, api.ServerError(operation.Errorf(operation.CodeValidation, "invalid node address %q", app.NodeAddress)))
		return
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		slog.Error("proxy:node", "path", r.URL.Path, "error", err)
		s.error(c, api.ServerError(operation.NewError(operation.CodeTransport, "node unreachable", err)))
	}

	proxy.ServeHTTP(c.Writer, c.Request)
}

// List NFTs

func (s *server) listNFTs(c *gin.Context) {
	nfts, err := s.deps.Lister.ListNFTs(c.Request.Context())
	if err != nil {
		s.error(c, api.ServerError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"nfts": nfts,
	})
}

// List FTs

func (s *server) listFTs(c *gin.Context) {
	fts, err := s.deps.Lister.ListFTs(c.Request.Context())
	if err != nil {
		s.error(c, api.ServerError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fts": fts,
	})
}
