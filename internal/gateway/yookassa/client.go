// Package yookassa is a thin client for the YooKassa payments API v3.
package yookassa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"coursemart/pkg/clients"
	"coursemart/pkg/money"
)

var ErrNotConfigured = errors.New("yookassa credentials are not configured")

type ClientI interface {
	CreatePayment(ctx context.Context, amount int64, description, returnURL string, metadata map[string]string) (*Payment, error)
	GetPayment(ctx context.Context, paymentID string) (*Payment, error)
}

type Client struct {
	shopID    string
	secretKey string
	apiURL    string
	client    clients.HTTPClientI
}

func New(shopID, secretKey, apiURL string, client clients.HTTPClientI) *Client {
	return &Client{
		shopID:    shopID,
		secretKey: secretKey,
		apiURL:    apiURL,
		client:    client,
	}
}

// CreatePayment submits a redirect-confirmation payment for amount in minor
// units. Each call carries a fresh Idempotence-Key.
func (c *Client) CreatePayment(ctx context.Context, amount int64, description, returnURL string, metadata map[string]string) (*Payment, error) {
	if c.shopID == "" || c.secretKey == "" {
		return nil, ErrNotConfigured
	}

	reqBody := CreatePaymentRequest{
		Amount: Amount{
			Value:    strconv.FormatFloat(money.ToMajor(amount), 'f', 2, 64),
			Currency: "RUB",
		},
		Capture: true,
		Confirmation: Confirmation{
			Type:      "redirect",
			ReturnURL: returnURL,
		},
		Description: description,
		Metadata:    metadata,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/payments", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Idempotence-Key", uuid.New().String())
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.shopID, c.secretKey)

	return c.do(req)
}

// GetPayment fetches the current gateway state of a payment.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	if c.shopID == "" || c.secretKey == "" {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/payments/"+paymentID, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.shopID, c.secretKey)

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Payment, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("api error: %s (status: %d)", string(respBody), resp.StatusCode)
	}

	var payment Payment
	if err := json.Unmarshal(respBody, &payment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &payment, nil
}
