package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/reservaspro/reservaspro/internal/authorization"
)

type ActorType string

const (
	ActorAPIKey ActorType = "api_key"
)

type Actor struct {
	Type   ActorType
	OrgID  snowflake.ID
	ID     snowflake.ID
	Scopes []string
}

func (s *Server) authorizeOrgAction(object string, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.authorizeOrgActionWithContext(c, object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

func (s *Server) authorizeOrgActionWithContext(c *gin.Context, object string, action string) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return ErrUnauthorized
	}
	if actor.OrgID == 0 {
		return ErrUnauthorized
	}

	key, _ := apiKeyFromContext(c.Request.Context())
	if !key.AllowsObject(object) {
		return ErrForbidden
	}
	if s.authzSvc == nil {
		return ErrForbidden
	}
	return s.authzSvc.Authorize(
		c.Request.Context(),
		actor.subject(),
		actor.OrgID.String(),
		strings.TrimSpace(object),
		strings.TrimSpace(action),
	)
}

func actorFromContext(c *gin.Context) (Actor, bool) {
	if c == nil || c.Request == nil {
		return Actor{}, false
	}
	key, ok := apiKeyFromContext(c.Request.Context())
	if !ok {
		return Actor{}, false
	}
	return Actor{
		Type:   ActorAPIKey,
		OrgID:  key.OrgID,
		ID:     key.ID,
		Scopes: []string(key.Scopes),
	}, true
}

func (a Actor) subject() string {
	switch a.Type {
	case ActorAPIKey:
		return authorization.Actor(a.ID)
	default:
		return ""
	}
}
