// Package ipc exposes the filesystem and settings commands over a local HTTP
// bridge so a desktop shell can invoke them by name.
package ipc

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"crepbook/pkg/fsops"
	"crepbook/pkg/usecase"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// Response is the envelope returned by every invoke call.
type Response struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

// NewRouter builds the gin engine serving svc.
func NewRouter(svc *usecase.Service, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("ipc")

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"root":     svc.Ops().Root(),
			"commands": len(commands),
		})
	})
	router.POST("/invoke/:command", invokeHandler(svc))

	return router
}

// RequestID reuses the caller's X-Request-ID or assigns a new UUID, and
// echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog logs one line per request.
func AccessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if kind := c.GetString("error_kind"); kind != "" {
			fields = append(fields, zap.String("kind", kind))
		}

		logger.Info("request", fields...)
	}
}

func invokeHandler(svc *usecase.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("command")
		h, ok := commands[name]
		if !ok {
			fail(c, http.StatusNotFound, fmt.Errorf("%w: %s", ErrUnknownCommand, name), "unknown-command")
			return
		}

		raw, err := c.GetRawData()
		if err != nil {
			fail(c, http.StatusBadRequest, err, "invalid-argument")
			return
		}
		raw = bytes.TrimSpace(raw)

		data, err := h(svc, raw)
		if err != nil {
			if errors.Is(err, ErrInvalidArgument) {
				fail(c, http.StatusBadRequest, err, "invalid-argument")
				return
			}
			kind := fsops.KindOf(err)
			fail(c, statusFor(kind), err, kind.String())
			return
		}

		c.JSON(http.StatusOK, Response{OK: true, Data: data})
	}
}

func fail(c *gin.Context, status int, err error, kind string) {
	c.Set("error_kind", kind)
	c.JSON(status, Response{OK: false, Error: err.Error(), Kind: kind})
}

func statusFor(kind fsops.Kind) int {
	switch kind {
	case fsops.KindNotFound:
		return http.StatusNotFound
	case fsops.KindPermission:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
