package server

import (
	"github.com/gin-gonic/gin"

	"newsreader/internal/stream"
)

// streamSSE relays seq as Server-Sent Events: one "chunk" event per chunk,
// then "done", or "error" carrying the reader-facing message. A client that
// disconnects cancels the request context, which stops the producer.
func (s *Server) streamSSE(c *gin.Context, seq stream.Text) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	for chunk, err := range stream.Until(c.Request.Context(), seq) {
		if err != nil {
			s.log.Warn("stream ended with error", "path", c.FullPath(), "err", err)
			c.SSEvent("error", gin.H{"error": publicMessage(err)})
			c.Writer.Flush()
			return
		}
		c.SSEvent("chunk", gin.H{"text": chunk})
		c.Writer.Flush()
	}
	c.SSEvent("done", gin.H{})
	c.Writer.Flush()
}
