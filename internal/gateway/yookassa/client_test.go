package yookassa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"coursemart/pkg/clients"
)

func TestCreatePayment(t *testing.T) {
	tests := []struct {
		name        string
		shopID      string
		secretKey   string
		handler     http.HandlerFunc
		expectError bool
		check       func(t *testing.T, p *Payment)
	}{
		{
			name:      "Successful creation",
			shopID:    "shop",
			secretKey: "secret",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/payments", r.URL.Path)
				assert.NotEmpty(t, r.Header.Get("Idempotence-Key"))

				user, pass, ok := r.BasicAuth()
				assert.True(t, ok)
				assert.Equal(t, "shop", user)
				assert.Equal(t, "secret", pass)

				var req CreatePaymentRequest
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "499.90", req.Amount.Value)
				assert.Equal(t, "RUB", req.Amount.Currency)
				assert.True(t, req.Capture)
				assert.Equal(t, "redirect", req.Confirmation.Type)

				json.NewEncoder(w).Encode(Payment{
					ID:     "2d9b1e5f-000f-5000-8000-1a2b3c4d5e6f",
					Status: StatusPending,
					Confirmation: Confirmation{
						Type:            "redirect",
						ConfirmationURL: "https://yoomoney.ru/checkout/payments/v2?orderId=123",
					},
				})
			},
			expectError: false,
			check: func(t *testing.T, p *Payment) {
				assert.Equal(t, StatusPending, p.Status)
				assert.NotEmpty(t, p.Confirmation.ConfirmationURL)
			},
		},
		{
			name:      "Gateway rejects request",
			shopID:    "shop",
			secretKey: "secret",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"type":"error","code":"invalid_request"}`))
			},
			expectError: true,
		},
		{
			name:        "Missing credentials",
			shopID:      "",
			secretKey:   "",
			handler:     func(w http.ResponseWriter, r *http.Request) {},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := New(tt.shopID, tt.secretKey, server.URL, clients.NewHTTPClient())
			payment, err := client.CreatePayment(context.Background(), 49990, "Course purchase", "https://example.com/return", map[string]string{"payment_id": "1"})

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, payment)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, payment)
				tt.check(t, payment)
			}
		})
	}
}

func TestGetPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/payments/abc-123", r.URL.Path)
		json.NewEncoder(w).Encode(Payment{ID: "abc-123", Status: StatusSucceeded, Paid: true})
	}))
	defer server.Close()

	client := New("shop", "secret", server.URL, clients.NewHTTPClient())
	payment, err := client.GetPayment(context.Background(), "abc-123")

	assert.NoError(t, err)
	assert.Equal(t, StatusSucceeded, payment.Status)
	assert.True(t, payment.Paid)
}

func TestGetPaymentNotConfigured(t *testing.T) {
	client := New("", "", "http://localhost", clients.NewHTTPClient())
	payment, err := client.GetPayment(context.Background(), "abc-123")

	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, payment)
}
