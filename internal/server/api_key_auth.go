package server

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	apikeydomain "github.com/reservaspro/reservaspro/internal/apikey/domain"
	obscontext "github.com/reservaspro/reservaspro/internal/observability/context"
	"github.com/reservaspro/reservaspro/internal/orgcontext"
)

const HeaderOrg = "X-Org-ID"

type contextKey string

const contextAPIKeyKey contextKey = "api_key"

// APIKeyRequired authenticates requests using an API key only.
// Organization identity is derived solely from the api_keys table.
func (s *Server) APIKeyRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if requestHasOrgID(c) {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		key, err := s.apiKeySvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, apikeydomain.ErrUnauthorized) {
				AbortWithError(c, ErrUnauthorized)
				return
			}
			AbortWithError(c, err)
			return
		}

		ctx := c.Request.Context()
		ctx = context.WithValue(ctx, contextAPIKeyKey, key)
		ctx = orgcontext.WithOrgID(ctx, int64(key.OrgID))
		ctx = obscontext.WithOrgID(ctx, key.OrgID.String())
		ctx = obscontext.WithActor(ctx, string(ActorAPIKey), key.KeyID)

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(strings.TrimSpace(header))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return parts[1], true
}

func apiKeyFromContext(ctx context.Context) (*apikeydomain.APIKey, bool) {
	if ctx == nil {
		return nil, false
	}
	key, ok := ctx.Value(contextAPIKeyKey).(*apikeydomain.APIKey)
	if !ok || key == nil || key.ID == 0 {
		return nil, false
	}
	return key, true
}

func requestHasOrgID(c *gin.Context) bool {
	if strings.TrimSpace(c.GetHeader(HeaderOrg)) != "" {
		return true
	}
	if value, ok := c.GetQuery("org_id"); ok && strings.TrimSpace(value) != "" {
		return true
	}
	if value, ok := c.GetQuery("orgId"); ok && strings.TrimSpace(value) != "" {
		return true
	}
	return false
}
