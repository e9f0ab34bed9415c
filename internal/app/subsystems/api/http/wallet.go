package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rubixchain/rubix-dapp/internal/api"
	"github.com/rubixchain/rubix-dapp/internal/configstore"
	"github.com/rubixchain/rubix-dapp/pkg/operation"
)

// Connect Wallet

func (s *server) connectWallet(c *gin.Context) {
	if s.config.WalletOrigin == "" {
		s.error(c, api.RequestError(http.StatusNotImplemented, "wallet origin not configured"))
		return
	}

	pending, err := s.deps.Wallet.Register(s.config.WalletOrigin)
	if err != nil {
		s.error(c, api.ServerError(err))
		return
	}

	ctx := c.Request.Context()
	if s.config.WalletTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.WalletTimeout)
		defer cancel()
	}

	did, err := pending.Wait(ctx)
	if err != nil {
		if operation.CodeOf(err) == operation.CodeCancelled && c.Request.Context().Err() == nil {
			s.error(c, api.RequestError(http.StatusRequestTimeout, "wallet did not respond"))
			return
		}
		s.error(c, api.ServerError(err))
		return
	}

	if _, err := s.deps.Config.Update(c.Request.Context(), configstore.Document{"user_did": did}); err != nil {
		s.error(c, api.ServerError(err))
		return
	}

	slog.Info("wallet connected", "did", did)

	c.JSON(http.StatusOK, gin.H{
		"user_did": did,
	})
}

// Wallet Message

type WalletMessageBody struct {
	Token string `json:"token" binding:"required"`
}

func (s *server) walletMessage(c *gin.Context) {
	var body WalletMessageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.error(c, api.RequestValidationError(err))
		return
	}

	// only the browser set header is trusted
	if !s.deps.Wallet.Dispatch(c.GetHeader("Origin"), body.Token) {
		s.error(c, api.RequestError(http.StatusNotFound, "no wallet connect request pending for origin"))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
	})
}
