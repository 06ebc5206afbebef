package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	cartdomain "github.com/smallbiznis/hostelhub/internal/cart/domain"
)

type addCartItemRequest struct {
	ProductID string `json:"product_id"`
}

func (s *Server) CreateCart(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"session_id": s.cartSvc.NewSession()}})
}

func (s *Server) GetCart(c *gin.Context) {
	resp, err := s.cartSvc.View(c.Request.Context(), c.Param("session"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) AddCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()
	session := c.Param("session")
	added, err := s.cartSvc.Add(ctx, session, req.ProductID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	cart, err := s.cartSvc.View(ctx, session)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"data": cart, "added": added})
}

func (s *Server) RemoveCartItem(c *gin.Context) {
	removed, err := s.cartSvc.Remove(c.Request.Context(), c.Param("session"), c.Param("productId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !removed {
		AbortWithError(c, ErrNotFound)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) ClearCart(c *gin.Context) {
	if err := s.cartSvc.Clear(c.Request.Context(), c.Param("session")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) Checkout(c *gin.Context) {
	var req cartdomain.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.SessionID = c.Param("session")

	resp, err := s.cartSvc.Checkout(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}
