package paymentprovider

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const phonePePayPath = "/pg/v1/pay"

// PhonePeClient — клиент PhonePe Pay API.
type PhonePeClient struct {
	merchantID  string
	saltKey     string
	apiURL      string
	callbackURL string
	httpClient  *http.Client
}

// NewPhonePeClient создаёт новый клиент PhonePe.
func NewPhonePeClient(merchantID, saltKey, apiURL, callbackURL string) *PhonePeClient {
	return &PhonePeClient{
		merchantID:  merchantID,
		saltKey:     saltKey,
		apiURL:      apiURL,
		callbackURL: callbackURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

type phonePePayRequest struct {
	MerchantID            string `json:"merchantId"`
	MerchantTransactionID string `json:"merchantTransactionId"`
	MerchantUserID        string `json:"merchantUserId"`
	Amount                int    `json:"amount"`
	RedirectURL           string `json:"redirectUrl"`
	RedirectMode          string `json:"redirectMode"`
	CallbackURL           string `json:"callbackUrl"`
}

type phonePePayResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Data    struct {
		MerchantTransactionID string `json:"merchantTransactionId"`
		InstrumentResponse    struct {
			RedirectInfo struct {
				URL string `json:"url"`
			} `json:"redirectInfo"`
		} `json:"instrumentResponse"`
	} `json:"data"`
}

// CreateOrder создаёт платёж в PhonePe и возвращает URL страницы оплаты.
// Тело запроса передаётся в base64, заголовок X-VERIFY содержит
// контрольную сумму по схеме PhonePe.
func (c *PhonePeClient) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	payload := phonePePayRequest{
		MerchantID:            c.merchantID,
		MerchantTransactionID: req.OrderID,
		MerchantUserID:        req.UserUID,
		Amount:                req.Amount * 100, // в пайсах
		RedirectURL:           c.callbackURL,
		RedirectMode:          "POST",
		CallbackURL:           c.callbackURL,
	}
	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	encoded := base64.StdEncoding.EncodeToString(rawPayload)

	body, err := json.Marshal(map[string]string{"request": encoded})
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+phonePePayPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-VERIFY", c.checksum(encoded))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var payResp phonePePayResponse
	if err := json.NewDecoder(resp.Body).Decode(&payResp); err != nil {
		return nil, err
	}
	if !payResp.Success {
		return nil, fmt.Errorf("phonepe rejected order: %s", payResp.Code)
	}
	return &CreateOrderResponse{
		ProviderOrderID: payResp.Data.MerchantTransactionID,
		RedirectURL:     payResp.Data.InstrumentResponse.RedirectInfo.URL,
	}, nil
}

// checksum вычисляет X-VERIFY: sha256(base64Payload + path + saltKey) + "###1".
func (c *PhonePeClient) checksum(encodedPayload string) string {
	sum := sha256.Sum256([]byte(encodedPayload + phonePePayPath + c.saltKey))
	return hex.EncodeToString(sum[:]) + "###1"
}
