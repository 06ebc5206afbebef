package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	chatdomain "github.com/smallbiznis/hostelhub/internal/chat/domain"
	"github.com/smallbiznis/hostelhub/pkg/pagination"
)

type markReadRequest struct {
	ReaderID string `json:"reader_id"`
}

type threadResponse struct {
	chatdomain.Thread
	Unread *int `json:"unread,omitempty"`
}

func (s *Server) OpenChat(c *gin.Context) {
	var req chatdomain.ThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.chatSvc.GetOrCreateThread(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetChat(c *gin.Context) {
	resp, err := s.chatSvc.Thread(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ListChatMessages pages through a thread's messages, oldest first.
func (s *Server) ListChatMessages(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, newValidationError("page_size", "invalid_page_size", "invalid page_size"))
		return
	}

	messages, err := s.chatSvc.ByThread(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, info, err := pagination.Page(messages, page, func(m chatdomain.Message) int64 { return m.ID })
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp, "page_info": info})
}

func (s *Server) SendChatMessage(c *gin.Context) {
	var req chatdomain.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ThreadID = c.Param("id")

	resp, err := s.chatSvc.Send(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if resp == nil {
		AbortWithError(c, chatdomain.ErrNotFound)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) MarkChatRead(c *gin.Context) {
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	marked, err := s.chatSvc.MarkRead(c.Request.Context(), c.Param("id"), req.ReaderID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"marked": marked}})
}

// ListUserChats returns the user's threads, most recent activity first.
// With ?with_unread=true each thread carries the user's unread count.
func (s *Server) ListUserChats(c *gin.Context) {
	withUnread, err := parseOptionalBool(c.Query("with_unread"))
	if err != nil {
		AbortWithError(c, newValidationError("with_unread", "invalid_with_unread", "invalid with_unread"))
		return
	}

	ctx := c.Request.Context()
	userID := c.Param("id")
	threads, err := s.chatSvc.ByUser(ctx, userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := make([]threadResponse, 0, len(threads))
	for _, thread := range threads {
		item := threadResponse{Thread: thread}
		if withUnread != nil && *withUnread {
			unread, err := s.chatSvc.UnreadCount(ctx, strconv.FormatInt(thread.ID, 10), userID)
			if err != nil {
				AbortWithError(c, err)
				return
			}
			item.Unread = &unread
		}
		resp = append(resp, item)
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetUserUnread(c *gin.Context) {
	total, err := s.chatSvc.TotalUnread(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"unread": total}})
}
