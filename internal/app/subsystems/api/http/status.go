package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rubixchain/rubix-dapp/internal/api"
	"github.com/rubixchain/rubix-dapp/pkg/client"
	"github.com/rubixchain/rubix-dapp/pkg/operation"
)

// Request Status

type RequestStatusParams struct {
	ReqId string `form:"req_id" binding:"required"`
}

func (s *server) requestStatus(c *gin.Context) {
	var params RequestStatusParams
	if err := c.ShouldBindQuery(&params); err != nil {
		s.error(c, api.RequestValidationError(err))
		return
	}

	status, found, err := s.deps.Store.Get(c.Request.Context(), params.ReqId)
	if err != nil {
		s.error(c, api.ServerError(err))
		return
	}
	if !found {
		slog.Debug("no record found", "req_id", params.ReqId)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": client.StatusText(status),
		"status":  int(status),
	})
}

// Run dApp

type RunDappBody struct {
	Port              string `json:"port"`
	SmartContractHash string `json:"smart_contract_hash" binding:"required"`
}

func (s *server) runDapp(c *gin.Context) {
	var body RunDappBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.error(c, api.RequestValidationError(err))
		return
	}

	res, err := s.deps.Runner.Run(c.Request.Context(), body.SmartContractHash)
	if err != nil {
		s.error(c, api.ServerError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "DApp executed successfully",
		"data": gin.H{
			"status":       res.Status == operation.Success,
			"message":      res.Message,
			"function":     res.Function,
			"tracking_key": res.TrackingKey,
		},
	})
}
