package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/reservaspro/reservaspro/internal/audit/domain"
	bookingdomain "github.com/reservaspro/reservaspro/internal/booking/domain"
	"github.com/reservaspro/reservaspro/pkg/db/pagination"
)

type createBookingRequest struct {
	ServiceID      string    `json:"service_id"`
	ProfessionalID string    `json:"professional_id"`
	StartsAt       time.Time `json:"starts_at"`
	ClientName     string    `json:"client_name"`
	ClientEmail    string    `json:"client_email"`
	ClientPhone    string    `json:"client_phone"`
	Notes          string    `json:"notes"`
}

func (s *Server) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.bookingSvc.Create(c.Request.Context(), bookingdomain.CreateRequest{
		ServiceID:      strings.TrimSpace(req.ServiceID),
		ProfessionalID: strings.TrimSpace(req.ProfessionalID),
		StartsAt:       req.StartsAt,
		ClientName:     strings.TrimSpace(req.ClientName),
		ClientEmail:    strings.TrimSpace(req.ClientEmail),
		ClientPhone:    strings.TrimSpace(req.ClientPhone),
		Notes:          strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBookings(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status          string `form:"status"`
		ProfessionalID  string `form:"professional_id"`
		ClientProfileID string `form:"client_profile_id"`
		From            string `form:"from"`
		To              string `form:"to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	from, err := parseOptionalTime(query.From, false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid from"))
		return
	}
	to, err := parseOptionalTime(query.To, true)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid to"))
		return
	}

	resp, err := s.bookingSvc.List(c.Request.Context(), bookingdomain.ListRequest{
		PageToken:       query.PageToken,
		PageSize:        query.PageSize,
		Status:          strings.TrimSpace(query.Status),
		ProfessionalID:  strings.TrimSpace(query.ProfessionalID),
		ClientProfileID: strings.TrimSpace(query.ClientProfileID),
		From:            from,
		To:              to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBookingByID(c *gin.Context) {
	resp, err := s.bookingSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ConfirmBooking(c *gin.Context) {
	resp, err := s.bookingSvc.Confirm(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CancelBooking(c *gin.Context) {
	resp, err := s.bookingSvc.Cancel(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// CompleteBooking runs the completion workflow. A reward that could not be
// issued is reported in the body, the booking itself stays completed.
func (s *Server) CompleteBooking(c *gin.Context) {
	resp, err := s.bookingSvc.Complete(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	metadata := map[string]any{"xp_awarded": resp.XPAwarded, "level_up": resp.LevelUp}
	if resp.NewLevel != nil {
		metadata["new_level"] = resp.NewLevel.LevelNumber
	}
	if resp.RewardError != "" {
		metadata["reward_error"] = resp.RewardError
	}
	s.recordAudit(c.Request.Context(), auditdomain.Entry{
		Action:     auditdomain.ActionBookingCompleted,
		TargetType: auditdomain.TargetBooking,
		TargetID:   resp.BookingID.String(),
		Metadata:   metadata,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
