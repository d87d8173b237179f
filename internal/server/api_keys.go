package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apikeydomain "github.com/reservaspro/reservaspro/internal/apikey/domain"
	auditdomain "github.com/reservaspro/reservaspro/internal/audit/domain"
	"go.uber.org/zap"
)

type createAPIKeyRequest struct {
	Name   string   `json:"name"`
	Role   string   `json:"role"`
	Scopes []string `json:"scopes"`
}

func (s *Server) ListAPIKeys(c *gin.Context) {
	keys, err := s.apiKeySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": keys})
}

func (s *Server) CreateAPIKey(c *gin.Context) {
	var req createAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.apiKeySvc.Create(c.Request.Context(), apikeydomain.CreateRequest{
		Name:   strings.TrimSpace(req.Name),
		Role:   strings.TrimSpace(req.Role),
		Scopes: req.Scopes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c.Request.Context(), auditdomain.Entry{
		Action:     auditdomain.ActionAPIKeyCreated,
		TargetType: auditdomain.TargetAPIKey,
		TargetID:   resp.KeyID,
		Metadata:   map[string]any{"name": strings.TrimSpace(req.Name), "role": strings.TrimSpace(req.Role)},
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RotateAPIKey(c *gin.Context) {
	keyID := strings.TrimSpace(c.Param("key_id"))
	resp, err := s.apiKeySvc.Rotate(c.Request.Context(), keyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.log.Info("api key rotated", zap.String("key_id", keyID), zap.String("next_key_id", resp.KeyID))
	s.recordAudit(c.Request.Context(), auditdomain.Entry{
		Action:     auditdomain.ActionAPIKeyRotated,
		TargetType: auditdomain.TargetAPIKey,
		TargetID:   keyID,
		Metadata:   map[string]any{"next_key_id": resp.KeyID},
	})
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RevokeAPIKey(c *gin.Context) {
	keyID := strings.TrimSpace(c.Param("key_id"))
	if err := s.apiKeySvc.Revoke(c.Request.Context(), keyID); err != nil {
		AbortWithError(c, err)
		return
	}

	s.log.Info("api key revoked", zap.String("key_id", keyID))
	s.recordAudit(c.Request.Context(), auditdomain.Entry{
		Action:     auditdomain.ActionAPIKeyRevoked,
		TargetType: auditdomain.TargetAPIKey,
		TargetID:   keyID,
	})
	c.Status(http.StatusNoContent)
}
