package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWebhookSourceCheck(t *testing.T) {
	h := &Handlers{
		webhookCIDRs: []string{"185.71.76.0/27", "77.75.156.11/32", "2a02:5180::/32"},
	}

	var reached bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		remoteAddr string
		status     int
		reached    bool
	}{
		{name: "Gateway range passes", remoteAddr: "185.71.76.28:51332", status: http.StatusOK, reached: true},
		{name: "Single-host range passes", remoteAddr: "77.75.156.11:443", status: http.StatusOK, reached: true},
		{name: "IPv6 gateway range passes", remoteAddr: "[2a02:5180::1]:443", status: http.StatusOK, reached: true},
		{name: "Outside address is rejected", remoteAddr: "203.0.113.9:1234", status: http.StatusForbidden, reached: false},
		{name: "RealIP-style bare host passes", remoteAddr: "185.71.76.28", status: http.StatusOK, reached: true},
		{name: "Garbage address is rejected", remoteAddr: "not-an-ip", status: http.StatusForbidden, reached: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached = false
			req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", nil)
			req.RemoteAddr = tt.remoteAddr
			rec := httptest.NewRecorder()

			h.webhookSourceCheck(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.reached, reached)
		})
	}
}
