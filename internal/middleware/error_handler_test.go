package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	apperrors "chat_service/pkg/errors"
)

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"should map not found errors to 404", apperrors.ErrChatNotFound, http.StatusNotFound},
		{"should map permission errors to 403", apperrors.ErrLeftChat, http.StatusForbidden},
		{"should map validation errors to 400", apperrors.ErrEmptyMessage, http.StatusBadRequest},
		{"should map conflicts to 409", apperrors.ErrDirectChatExists, http.StatusConflict},
		{"should map wrapped errors through their category", fmt.Errorf("adding member: %w", apperrors.ErrUserNotFound), http.StatusNotFound},
		{"should map unknown errors to 500", fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)

			router := gin.New()
			router.Use(ErrorHandler())
			router.GET("/boom", func(c *gin.Context) {
				c.Error(tc.err)
			})

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/boom", nil)
			router.ServeHTTP(w, r)

			req.Equal(tc.wantStatus, w.Code)
			req.Contains(w.Body.String(), "error")
		})
	}
}
