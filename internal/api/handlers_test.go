package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/youruser/cardapp/internal/avatar"
	"github.com/youruser/cardapp/internal/card"
	imagepkg "github.com/youruser/cardapp/internal/image"
	"github.com/youruser/cardapp/internal/storage"
	"go.uber.org/zap"
)

var fallback = avatar.Fallback{Base: "https://fallback.example/png", Background: "ffd5dc"}

func newTestHandler(resolver *avatar.Resolver) *Handler {
	return &Handler{
		Resolver:  resolver,
		Assembler: card.NewAssembler(resolver, fallback),
		Renderer: &imagepkg.Renderer{
			Theme:  imagepkg.DefaultTheme(),
			Scale:  2,
			Prefix: "valentine",
		},
		Log: zap.NewNop(),
	}
}

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, h, []string{"*"})
	return r
}

func degradedResolver() *avatar.Resolver {
	return avatar.NewResolver(nil, avatar.Options{}, zap.NewNop())
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := get(newRouter(newTestHandler(degradedResolver())), "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAvatarLookupDegraded(t *testing.T) {
	r := newRouter(newTestHandler(degradedResolver()))

	w := get(r, "/avatar-lookup?handle=annsmith")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"avatarUrl":null,"displayName":null}`, w.Body.String())

	w = get(r, "/avatar-lookup")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")

	w = get(r, "/avatar-lookup?handle=%20%20")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvatarLookupConfigured(t *testing.T) {
	discord := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"nick":null,"avatar":null,"user":{"id":"80351110224678912","username":"annsmith","global_name":"Ann Smith","avatar":"8342729096ea3675442027381ff50dfe"}}]`))
	}))
	defer discord.Close()

	dir := avatar.NewDiscordClient(discord.URL, "token", discord.Client())
	resolver := avatar.NewResolver(dir, avatar.Options{GuildID: "42", Timeout: time.Second}, zap.NewNop())
	r := newRouter(newTestHandler(resolver))

	w := get(r, "/avatar-lookup?handle=AnnSmith")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"avatarUrl": "https://cdn.discordapp.com/avatars/80351110224678912/8342729096ea3675442027381ff50dfe.png?size=256",
		"displayName": "Ann Smith"
	}`, w.Body.String())
}

func TestCardDataUsesFallbacks(t *testing.T) {
	r := newRouter(newTestHandler(degradedResolver()))

	w := postJSON(t, r, "/api/cards/data", card.Request{SenderName: "ann", ReceiverName: "bob", Message: "hi"})
	require.Equal(t, http.StatusOK, w.Code)

	var data card.Data
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.Equal(t, "Ann", data.SenderName)
	assert.Equal(t, "Bob", data.ReceiverName)
	assert.Equal(t, fallback.URL("ann"), data.SenderAvatarURL)
	assert.Equal(t, fallback.URL("bob"), data.ReceiverAvatarURL)
	assert.True(t, data.SenderAvatarFallback)
}

func TestCardImageDownload(t *testing.T) {
	r := newRouter(newTestHandler(degradedResolver()))

	w := postJSON(t, r, "/api/cards", card.Request{SenderName: "ann", ReceiverName: "bob", Message: "hi"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="valentine_bob.jpg"`, w.Header().Get("Content-Disposition"))
	assert.Empty(t, w.Header().Get("X-Card-Location"))

	img, err := imaging.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 2*imagepkg.DesignSize, img.Bounds().Dx())
	assert.Equal(t, 2*imagepkg.DesignSize, img.Bounds().Dy())
}

func TestCardImageArchived(t *testing.T) {
	archive, err := storage.NewDirArchive(t.TempDir())
	require.NoError(t, err)
	h := newTestHandler(degradedResolver())
	h.Archive = archive
	r := newRouter(h)

	w := postJSON(t, r, "/api/cards", card.Request{SenderName: "ann", ReceiverName: "bob"})
	require.Equal(t, http.StatusOK, w.Code)

	loc := w.Header().Get("X-Card-Location")
	require.NotEmpty(t, loc)
	stored, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, w.Body.Bytes(), stored)
}

func TestCardRejectsInvalidInput(t *testing.T) {
	r := newRouter(newTestHandler(degradedResolver()))

	tests := []struct {
		name string
		body any
	}{
		{"missing receiver", card.Request{SenderName: "ann", ReceiverName: "  "}},
		{"missing sender", card.Request{ReceiverName: "bob"}},
		{"message too long", card.Request{SenderName: "ann", ReceiverName: "bob", Message: string(make([]byte, 201))}},
		{"not json", "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, path := range []string{"/api/cards", "/api/cards/data"} {
				w := postJSON(t, r, path, tt.body)
				assert.Equal(t, http.StatusBadRequest, w.Code, path)
			}
		})
	}
}

type failingRenderer struct{}

func (failingRenderer) Render(context.Context, card.Data) (imagepkg.Artifact, error) {
	return imagepkg.Artifact{}, errors.New("encoder exploded")
}

func TestCardImageRenderFailure(t *testing.T) {
	h := newTestHandler(degradedResolver())
	h.Renderer = failingRenderer{}
	r := newRouter(h)

	w := postJSON(t, r, "/api/cards", card.Request{SenderName: "ann", ReceiverName: "bob"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"could not generate card image"}`, w.Body.String())
}

func TestFallbackAvatar(t *testing.T) {
	r := newRouter(newTestHandler(degradedResolver()))

	w := get(r, "/api/avatars/fallback/ann.png?size=64")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	_, err := imaging.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)

	again := get(r, "/api/avatars/fallback/ann?size=64")
	assert.Equal(t, w.Body.Bytes(), again.Body.Bytes())
}

func TestFallbackAvatarServesGeneratedURLs(t *testing.T) {
	srv := httptest.NewServer(newRouter(newTestHandler(degradedResolver())))
	defer srv.Close()

	self := avatar.Fallback{Base: srv.URL + "/api/avatars/fallback", Background: "ffd5dc"}
	resp, err := http.Get(self.URL("ann"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	// the renderer can use the same URL
	img, err := imagepkg.NewHTTPFetcher(5*time.Second).Fetch(context.Background(), self.URL("mary ann"))
	require.NoError(t, err)
	assert.False(t, img.Bounds().Empty())
}

func TestFallbackAvatarRequiresSeed(t *testing.T) {
	r := newRouter(newTestHandler(degradedResolver()))

	w := get(r, "/api/avatars/fallback")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get(r, "/api/avatars/fallback?seed=ann")
	assert.Equal(t, http.StatusOK, w.Code)
}
