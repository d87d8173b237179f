package server

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/reservaspro/reservaspro/internal/audit/domain"
	clientprofiledomain "github.com/reservaspro/reservaspro/internal/clientprofile/domain"
	"github.com/reservaspro/reservaspro/pkg/db/pagination"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type createClientProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (s *Server) CreateClientProfile(c *gin.Context) {
	var req createClientProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.clientProfileSvc.Create(c.Request.Context(), clientprofiledomain.CreateRequest{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
		Phone: strings.TrimSpace(req.Phone),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c.Request.Context(), auditdomain.Entry{
		Action:     auditdomain.ActionClientProfileCreated,
		TargetType: auditdomain.TargetClientProfile,
		TargetID:   resp.ID.String(),
		Metadata:   map[string]any{"email": resp.Email},
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListClientProfiles(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Email string `form:"email"`
		Level string `form:"level"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	level, err := parseOptionalInt(query.Level)
	if err != nil {
		AbortWithError(c, newValidationError("level", "invalid_level", "invalid level"))
		return
	}

	resp, err := s.clientProfileSvc.List(c.Request.Context(), clientprofiledomain.ListRequest{
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
		Email:     strings.TrimSpace(query.Email),
		Level:     level,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetClientProfileByID(c *gin.Context) {
	resp, err := s.clientProfileSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateClientProfile(c *gin.Context) {
	var req clientprofiledomain.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.clientProfileSvc.UpdateContact(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c.Request.Context(), auditdomain.Entry{
		Action:     auditdomain.ActionClientProfileUpdated,
		TargetType: auditdomain.TargetClientProfile,
		TargetID:   resp.ID.String(),
		Metadata:   map[string]any{"email": resp.Email, "phone": resp.Phone},
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetClientProgress(c *gin.Context) {
	resp, err := s.clientProfileSvc.GetProgress(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListClientRewards(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := s.clientProfileSvc.Get(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.loyaltySvc.ListRewards(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListClientXPHistory(c *gin.Context) {
	limit, err := parseOptionalInt(c.Query("limit"))
	if err != nil {
		AbortWithError(c, newValidationError("limit", "invalid_limit", "invalid limit"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if _, err := s.clientProfileSvc.Get(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.loyaltySvc.ListXPHistory(c.Request.Context(), id, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ExportClientProfiles(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.clientProfileSvc.ExportXLSX(c.Request.Context(), &buf); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="client_profiles.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
