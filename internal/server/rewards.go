package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetRewardByID(c *gin.Context) {
	resp, err := s.loyaltySvc.GetReward(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DownloadRewardVoucher(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	doc, err := s.loyaltySvc.RenderVoucher(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="voucher-%s.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", doc)
}
