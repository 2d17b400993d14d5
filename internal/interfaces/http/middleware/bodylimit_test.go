package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newUploadRouter := func(maxBytes int64) *gin.Engine {
		router := gin.New()
		router.Use(BodyLimit(maxBytes))
		router.POST("/imports", func(c *gin.Context) {
			if _, err := io.ReadAll(c.Request.Body); err != nil {
				c.String(http.StatusBadRequest, "upload truncated")
				return
			}
			c.String(http.StatusOK, "ok")
		})
		return router
	}

	t.Run("upload under the cap passes", func(t *testing.T) {
		router := newUploadRouter(1024)

		body := strings.NewReader("first_name,last_name\nFatima,Al-Thani\n")
		req := httptest.NewRequest(http.MethodPost, "/imports", body)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("declared oversize body is refused before reading", func(t *testing.T) {
		router := newUploadRouter(100)

		body := strings.NewReader(strings.Repeat("x", 200))
		req := httptest.NewRequest(http.MethodPost, "/imports", body)
		req.ContentLength = 200
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
	})

	t.Run("bodyless requests are untouched", func(t *testing.T) {
		router := gin.New()
		router.Use(BodyLimit(10))
		router.GET("/records", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		req := httptest.NewRequest(http.MethodGet, "/records", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("chunked upload with no length hits the reader cap", func(t *testing.T) {
		router := newUploadRouter(50)

		body := strings.NewReader(strings.Repeat("x", 100))
		req := httptest.NewRequest(http.MethodPost, "/imports", body)
		req.ContentLength = -1
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
