package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCreateCORSMiddleware_NoOriginsReturnsNil(t *testing.T) {
	assert.Nil(t, createCORSMiddleware("", discardLogger()))
	assert.Nil(t, createCORSMiddleware(" , ", discardLogger()))
}

func TestParseOrigins(t *testing.T) {
	t.Run("Success_TrimsWhitespace", func(t *testing.T) {
		origins := parseOrigins(" https://grafana.quipay.io , https://ops.quipay.io ")
		assert.Equal(t, []string{"https://grafana.quipay.io", "https://ops.quipay.io"}, origins)
	})

	t.Run("Success_EmptyString", func(t *testing.T) {
		assert.Nil(t, parseOrigins(""))
	})
}

func TestCORSIntegration(t *testing.T) {
	newRouter := func(origins string) *gin.Engine {
		router := gin.New()
		if middleware := createCORSMiddleware(origins, discardLogger()); middleware != nil {
			router.Use(middleware)
		}
		router.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})
		return router
	}

	t.Run("Success_HeadersForAllowedOrigin", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://grafana.quipay.io")
		newRouter("https://grafana.quipay.io").ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://grafana.quipay.io", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Success_NoHeadersWhenDisabled", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://grafana.quipay.io")
		newRouter("").ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Success_PreflightHandled", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/health", nil)
		req.Header.Set("Origin", "https://grafana.quipay.io")
		req.Header.Set("Access-Control-Request-Method", "GET")
		newRouter("https://grafana.quipay.io").ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "GET")
	})
}
