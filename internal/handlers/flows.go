package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/events-protocol-client/internal/models"
	"github.com/PratikDhanave/events-protocol-client/internal/store"
)

// RegisterFlowRoutes registers the journal inspection endpoint.
//
// GET /flows/:flowId
// - Returns how many distinct messages of the flow were accepted
func RegisterFlowRoutes(r gin.IRoutes, j store.Journal) {
	r.GET("/flows/:flowId", func(c *gin.Context) {
		flowID := strings.TrimSpace(c.Param("flowId"))
		if flowID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "flowId required"})
			return
		}

		count, err := j.CountFlow(c.Request.Context(), flowID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "journal query failed"})
			return
		}

		c.JSON(http.StatusOK, models.FlowCountResponse{
			FlowID: flowID,
			Count:  count,
		})
	})
}
