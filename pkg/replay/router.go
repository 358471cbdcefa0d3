package replay

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/cinechat/pkg/codec"
	"github.com/killallgit/cinechat/pkg/logger"
	"github.com/killallgit/cinechat/pkg/sse"
)

// Handler streams a script to every client.
type Handler struct {
	script *Script
}

// NewHandler creates a handler for script. A nil script uses DefaultScript.
func NewHandler(script *Script) *Handler {
	if script == nil {
		script = DefaultScript()
	}
	return &Handler{script: script}
}

// NewRouter builds the replay server routes: GET streamPath streams the
// script and GET /health reports liveness.
func NewRouter(script *Script, streamPath string) *gin.Engine {
	if streamPath == "" {
		streamPath = "/chat/stream"
	}
	h := NewHandler(script)

	router := gin.New()
	router.Use(requestLogger(), recovery())
	router.GET(streamPath, h.Stream)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

// Stream writes the scripted events, pausing between them, and finishes with
// the terminal event or a dropped connection.
func (h *Handler) Stream(c *gin.Context) {
	log := logger.WithComponent("replay")

	message := c.Query("user_message")
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user_message"})
		return
	}
	log.Info("Streaming script",
		"user_message", message,
		"genres", c.Query("genres"),
		"seen_movies", c.Query("seen_movies"),
		"characters", c.Query("characters"),
		"events", len(h.script.Events))

	sse.SetHeaders(c.Writer.Header())
	c.Status(http.StatusOK)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}
	flusher.Flush()

	clientClosed := c.Request.Context().Done()
	for i, ev := range h.script.Events {
		if i > 0 && !wait(clientClosed, h.script.Delay) {
			log.Debug("Client went away", "sent", i)
			return
		}
		if err := sse.Write(c.Writer, ev.SSE()); err != nil {
			log.Warn("Write failed", "error", err)
			return
		}
		flusher.Flush()
	}

	if !wait(clientClosed, h.script.Delay) {
		return
	}
	switch {
	case h.script.Abort:
		log.Info("Dropping connection")
		// net/http closes the connection without a clean chunked trailer.
		panic(http.ErrAbortHandler)
	case h.script.End:
		_ = sse.Write(c.Writer, codec.EncodeEnd())
		flusher.Flush()
	}
}

// wait sleeps for d unless done closes first. It reports whether the full
// delay elapsed.
func wait(done <-chan struct{}, d time.Duration) bool {
	if d <= 0 {
		select {
		case <-done:
			return false
		default:
			return true
		}
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-done:
		return false
	case <-timer.C:
		return true
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithComponent("replay").Debug("Request served",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// recovery turns handler panics into 500s, except http.ErrAbortHandler which
// must reach net/http to drop the connection.
func recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if r == http.ErrAbortHandler {
				panic(r)
			}
			logger.WithComponent("replay").Error("Handler panicked", "panic", r)
			c.AbortWithStatus(http.StatusInternalServerError)
		}()
		c.Next()
	}
}
