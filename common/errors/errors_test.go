package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrom(t *testing.T) {
	nf := NotFound("Book not found")
	wrapped := fmt.Errorf("lookup: %w", nf)

	assert.Same(t, nf, From(wrapped))
	assert.Equal(t, http.StatusNotFound, StatusOf(wrapped))

	raw := fmt.Errorf("socket closed")
	got := From(raw)
	assert.Equal(t, http.StatusInternalServerError, got.Code)
	assert.Equal(t, "Internal server error", got.Message)
	assert.ErrorIs(t, got, raw)
}

func TestJSONHidesCause(t *testing.T) {
	e := Internal("Error processing checkout", fmt.Errorf("mongo: connection refused"))
	body, err := json.Marshal(e)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"error":"Error processing checkout"}`, string(body))
	assert.Contains(t, e.Error(), "connection refused")
}


func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/conflict", func(c *gin.Context) {
		Respond(c, fmt.Errorf("register: %w", Conflict("Email already registered")))
	})
	router.GET("/raw", func(c *gin.Context) {
		Respond(c, fmt.Errorf("dial tcp: refused"))
	})
	router.GET("/down", func(c *gin.Context) {
		Respond(c, Unavailable("Database unavailable", fmt.Errorf("no reachable servers")))
	})

	cases := []struct {
		path   string
		status int
		body   string
	}{
		{"/conflict", http.StatusConflict, `{"error":"Email already registered"}`},
		{"/raw", http.StatusInternalServerError, `{"error":"Internal server error"}`},
		{"/down", http.StatusServiceUnavailable, `{"error":"Database unavailable"}`},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, tc.path, nil)
			require.NoError(t, err)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			assert.JSONEq(t, tc.body, w.Body.String())
		})
	}
}
