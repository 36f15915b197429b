package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "performance-prime/internal/common/errors"
	"performance-prime/internal/common/logger"
)

// MediaResolver resolves an exercise media key to a playable URL.
type MediaResolver interface {
	ResolveURL(ctx context.Context, key string) (string, error)
	Invalidate(ctx context.Context, key string) error
}

// MediaHandler serves exercise media URL resolution.
type MediaHandler struct {
	resolver MediaResolver
	logger   logger.Logger
}

func NewMediaHandler(resolver MediaResolver, log logger.Logger) *MediaHandler {
	return &MediaHandler{
		resolver: resolver,
		logger:   log.WithFields(map[string]interface{}{"handler": "media"}),
	}
}

// Resolve returns the URL for a media key.
func (h *MediaHandler) Resolve(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		respondError(c, h.logger, apperrors.NewValidationError("media key is required"))
		return
	}

	url, err := h.resolver.ResolveURL(c.Request.Context(), key)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "url": url})
}

// Invalidate drops a cached media URL.
func (h *MediaHandler) Invalidate(c *gin.Context) {
	if err := h.resolver.Invalidate(c.Request.Context(), c.Param("key")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "invalidated"})
}
