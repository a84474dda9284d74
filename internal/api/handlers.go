package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/youruser/cardapp/internal/avatar"
	"github.com/youruser/cardapp/internal/card"
	imagepkg "github.com/youruser/cardapp/internal/image"
	"github.com/youruser/cardapp/internal/storage"
	"go.uber.org/zap"
)

type AvatarLookup interface {
	Resolve(ctx context.Context, handle string) avatar.Result
}

type CardAssembler interface {
	Assemble(ctx context.Context, req card.Request) (card.Data, error)
}

type CardRenderer interface {
	Render(ctx context.Context, data card.Data) (imagepkg.Artifact, error)
}

// Handler serves the card endpoints. Archive may be nil.
type Handler struct {
	Resolver  AvatarLookup
	Assembler CardAssembler
	Renderer  CardRenderer
	Archive   storage.Archive
	Log       *zap.Logger
}

const (
	defaultIdenticonSize = 128
	maxIdenticonSize     = 512
)

// health
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// avatarLookup resolves ?handle= to an avatar. A miss is still a 200.
func (h *Handler) avatarLookup(c *gin.Context) {
	handle := strings.TrimSpace(c.Query("handle"))
	if handle == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "handle is required"})
		return
	}
	c.JSON(http.StatusOK, h.Resolver.Resolve(c.Request.Context(), handle))
}

func (h *Handler) assemble(c *gin.Context) (card.Data, bool) {
	var req card.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return card.Data{}, false
	}
	data, err := h.Assembler.Assemble(c.Request.Context(), req)
	if errors.Is(err, card.ErrMissingName) || errors.Is(err, card.ErrMessageTooLong) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return card.Data{}, false
	}
	if err != nil {
		h.Log.Error("assemble card", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not prepare card"})
		return card.Data{}, false
	}
	return data, true
}

// cardData returns the assembled card without rendering it.
func (h *Handler) cardData(c *gin.Context) {
	data, ok := h.assemble(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, data)
}

// cardImage renders the card and returns it as a JPEG attachment.
func (h *Handler) cardImage(c *gin.Context) {
	data, ok := h.assemble(c)
	if !ok {
		return
	}
	art, err := h.Renderer.Render(c.Request.Context(), data)
	if err != nil {
		h.Log.Error("render card", zap.String("receiver", data.RawReceiverName), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate card image"})
		return
	}

	if h.Archive != nil {
		key := storage.ObjectKey(time.Now(), art.Filename)
		loc, err := h.Archive.Put(c.Request.Context(), key, art.Bytes, art.ContentType)
		if err != nil {
			h.Log.Warn("archive card", zap.String("key", key), zap.Error(err))
		} else {
			c.Header("X-Card-Location", loc)
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, art.Filename))
	c.Data(http.StatusOK, art.ContentType, art.Bytes)
}

// fallbackAvatar renders the self-hosted identicon for :seed, or for ?seed=
// when the path carries none, which is how avatar.Fallback builds its URLs.
func (h *Handler) fallbackAvatar(c *gin.Context) {
	seed := strings.TrimSuffix(c.Param("seed"), ".png")
	if seed == "" {
		seed = c.Query("seed")
	}
	if strings.TrimSpace(seed) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seed is required"})
		return
	}
	size := defaultIdenticonSize
	if s := c.Query("size"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			size = min(v, maxIdenticonSize)
		}
	}
	b, err := avatar.RenderIdenticon(seed, size)
	if err != nil {
		h.Log.Error("render identicon", zap.String("seed", seed), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Cache-Control", "public, max-age=86400, immutable")
	c.Data(http.StatusOK, "image/png", b)
}
