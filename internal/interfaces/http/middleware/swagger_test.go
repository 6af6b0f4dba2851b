package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSwaggerProtection(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		allowed    []string
		remoteAddr string
		want       int
	}{
		{"disabled", false, nil, "10.0.0.1:1234", http.StatusNotFound},
		{"enabled without whitelist", true, nil, "10.0.0.1:1234", http.StatusOK},
		{"exact ip", true, []string{"10.0.0.1"}, "10.0.0.1:1234", http.StatusOK},
		{"cidr", true, []string{"192.168.0.0/16"}, "192.168.4.20:1234", http.StatusOK},
		{"not whitelisted", true, []string{"10.0.0.1", "192.168.0.0/16"}, "172.16.0.9:1234", http.StatusForbidden},
		{"garbage entries ignored", true, []string{"not-an-ip", "10.0.0.0/33"}, "10.0.0.1:1234", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/swagger/*any", SwaggerProtection(tt.enabled, tt.allowed), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
			req.RemoteAddr = tt.remoteAddr
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
