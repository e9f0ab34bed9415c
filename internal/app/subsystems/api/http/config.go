package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rubixchain/rubix-dapp/internal/configstore"
	"github.com/rubixchain/rubix-dapp/pkg/operation"
)

// Read Config

func (s *server) readConfig(c *gin.Context) {
	doc, err := s.deps.Config.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, doc)
}

// Write Config

func (s *server) writeConfig(c *gin.Context) {
	var partial configstore.Document
	if err := c.ShouldBindJSON(&partial); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	if _, err := s.deps.Config.Update(c.Request.Context(), partial); err != nil {
		status := http.StatusInternalServerError
		if operation.CodeOf(err) == operation.CodeValidation {
			status = http.StatusBadRequest
		}

		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
