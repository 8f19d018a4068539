package paymentprovider

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// RazorpayClient — клиент Razorpay Orders API.
type RazorpayClient struct {
	keyID      string
	keySecret  string
	apiURL     string
	httpClient *http.Client
}

// NewRazorpayClient создаёт новый клиент Razorpay.
func NewRazorpayClient(keyID, keySecret, apiURL string) *RazorpayClient {
	return &RazorpayClient{
		keyID:      keyID,
		keySecret:  keySecret,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type razorpayOrderRequest struct {
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type razorpayOrderResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Receipt string `json:"receipt"`
}

// CreateOrder создаёт заказ в Razorpay. Клиент завершает оплату на стороне
// Razorpay Checkout, поэтому redirect URL не возвращается.
func (c *RazorpayClient) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	body, err := json.Marshal(razorpayOrderRequest{
		Amount:   req.Amount * 100, // в пайсах
		Currency: "INR",
		Receipt:  req.OrderID,
	})
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.keyID + ":" + c.keySecret))
	httpReq.Header.Set("Authorization", "Basic "+auth)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var orderResp razorpayOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&orderResp); err != nil {
		return nil, err
	}
	return &CreateOrderResponse{ProviderOrderID: orderResp.ID}, nil
}

// VerifyPaymentSignature проверяет подпись колбэка оплаты:
// HMAC-SHA256 от "orderID|paymentID" на секретном ключе.
func (c *RazorpayClient) VerifyPaymentSignature(providerOrderID, paymentID, signature string) bool {
	return verifyHMAC(c.keySecret, providerOrderID+"|"+paymentID, signature)
}

// VerifyWebhookSignature проверяет подпись вебхука по телу запроса.
func VerifyWebhookSignature(secret string, body []byte, signature string) bool {
	return verifyHMAC(secret, string(body), signature)
}

func verifyHMAC(secret, message, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
