package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"settlr/internal/config"
	"settlr/internal/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func denyAll(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token provided"})
}

func newTestServer(db Pinger) *gin.Engine {
	cfg := config.ServerConfig{
		AllowedOrigins: "*",
		AllowedMethods: "GET, POST",
		AllowedHeaders: "Content-Type,Authorization",
	}
	h := &handlers{
		search:    handler.NewSearchHandler(nil),
		feedback:  handler.NewFeedbackHandler(nil),
		embedding: handler.NewEmbeddingHandler(nil, 3),
		chat:      handler.NewChatHandler(nil),
		property:  handler.NewPropertyHandler(nil),
		account:   handler.NewAccountHandler(nil),
		thread:    handler.NewThreadHandler(nil),
	}
	return newRouter(cfg, h, denyAll, db)
}

func serve(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	w := serve(newTestServer(fakePinger{}), http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)

	w = serve(newTestServer(fakePinger{err: errors.New("down")}), http.MethodGet, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router := newTestServer(fakePinger{})

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/auth/login"},
		{http.MethodGet, "/api/tenant/profile"},
		{http.MethodGet, "/api/properties/mine"},
		{http.MethodPost, "/api/properties"},
		{http.MethodDelete, "/api/properties/0f8fad5b-d9cb-469f-a165-70867728950e"},
		{http.MethodPost, "/api/chats"},
		{http.MethodPost, "/api/chat"},
		{http.MethodPost, "/api/chat/stream"},
	} {
		w := serve(router, tc.method, tc.path)
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
	}
}

func TestNoRoute(t *testing.T) {
	w := serve(newTestServer(fakePinger{}), http.MethodGet, "/api/nowhere")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Route not found")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"GET", "POST"}, splitList(" GET, ,POST "))
	assert.Nil(t, splitList(""))
}
