package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/reservaspro/reservaspro/internal/audit/domain"
	loyaltydomain "github.com/reservaspro/reservaspro/internal/loyalty/domain"
)

func (s *Server) GetLevelTable(c *gin.Context) {
	levels, err := s.loyaltySvc.GetLevelTable(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": levels})
}

func (s *Server) ReplaceLevelTable(c *gin.Context) {
	var req loyaltydomain.ReplaceLevelTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	levels, err := s.loyaltySvc.ReplaceLevelTable(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c.Request.Context(), auditdomain.Entry{
		Action:     auditdomain.ActionLevelTableReplaced,
		TargetType: auditdomain.TargetLevelTable,
		Metadata:   map[string]any{"levels": len(levels)},
	})

	c.JSON(http.StatusOK, gin.H{"data": levels})
}
