package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/hostelhub/internal/datastore"
	"github.com/smallbiznis/hostelhub/internal/livequery"
)

func (s *Server) GetStoreVersions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.db.Versions()})
}

// StreamStoreChanges pushes a server-sent event every time the named store
// commits. The first event carries the version current at subscribe time.
func (s *Server) StreamStoreChanges(c *gin.Context) {
	if s.hub == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	store := strings.TrimSpace(c.Param("store"))
	if !datastore.IsStoreName(store) {
		AbortWithError(c, ErrNotFound)
		return
	}

	subscription, backlog, err := s.hub.Subscribe(store)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer subscription.Close()

	writer := c.Writer
	headers := writer.Header()
	headers.Set("Content-Type", "text/event-stream")
	headers.Set("Cache-Control", "no-cache")
	headers.Set("Connection", "keep-alive")
	headers.Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	flusher, ok := writer.(http.Flusher)
	if !ok {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	if _, err := io.WriteString(writer, "retry: 2000\n\n"); err != nil {
		return
	}

	current := livequery.Change{Store: store, Version: s.db.Versions()[store]}
	if err := writeStoreChange(writer, current); err != nil {
		return
	}
	for _, change := range backlog {
		if change.Version <= current.Version {
			continue
		}
		if err := writeStoreChange(writer, change); err != nil {
			return
		}
		current = change
	}
	flusher.Flush()

	ctx := c.Request.Context()
	heartbeat := time.NewTicker(s.liveHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case change := <-subscription.Changes():
			if change.Version <= current.Version {
				continue
			}
			if err := writeStoreChange(writer, change); err != nil {
				return
			}
			current = change
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := io.WriteString(writer, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeStoreChange(w io.Writer, change livequery.Change) error {
	data, err := json.Marshal(change)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
