package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	reviewdomain "github.com/smallbiznis/hostelhub/internal/review/domain"
)

func (s *Server) CreateReview(c *gin.Context) {
	var req reviewdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ProductID = c.Param("id")

	resp, err := s.reviewSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

// ListProductReviews returns the approved reviews of a product, newest first.
func (s *Server) ListProductReviews(c *gin.Context) {
	resp, err := s.reviewSvc.ByProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRatingSummary(c *gin.Context) {
	resp, err := s.reviewSvc.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPendingReviews(c *gin.Context) {
	resp, err := s.reviewSvc.Pending(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ApproveReview(c *gin.Context) {
	resp, err := s.reviewSvc.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RejectReview(c *gin.Context) {
	resp, err := s.reviewSvc.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteReview(c *gin.Context) {
	if err := s.reviewSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
