package payment_gateway

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"pharmacare-service/internal/app/config"
	"pharmacare-service/internal/app/contracts"
	"pharmacare-service/internal/pkg/constvars"
	"pharmacare-service/internal/pkg/dto/responses"
	"pharmacare-service/internal/pkg/exceptions"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// razorpayService is a minimal client for the Razorpay Orders, Payments and
// Refunds APIs. Amounts are whole rupees at this boundary and paise on the
// wire. Outbound calls are paced with a shared rate limiter so webhook bursts
// cannot trip the gateway's request quota.
type razorpayService struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	Log        *zap.Logger
}

func NewRazorpayService(cfg config.AppRazorpay, logger *zap.Logger) contracts.PaymentGatewayService {
	return &razorpayService{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		baseURL:   cfg.BaseUrl,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutInSeconds) * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.MaxRequestsPerSec), cfg.MaxRequestsPerSec),
		Log:     logger,
	}
}

type gatewayOrderWire struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type gatewayPaymentWire struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Method   string `json:"method"`
}

type gatewayRefundWire struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}

func (s *razorpayService) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*responses.GatewayOrder, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("razorpayService.CreateOrder called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int64("amount", amount),
		zap.String("receipt", receipt),
	)

	reqBody := map[string]interface{}{
		"amount":   amount * 100,
		"currency": currency,
		"receipt":  receipt,
	}

	var wire gatewayOrderWire
	if err := s.do(ctx, http.MethodPost, "/orders", reqBody, &wire); err != nil {
		s.Log.Error("razorpayService.CreateOrder error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrGatewayCreateOrder(err)
	}

	return &responses.GatewayOrder{
		ID:       wire.ID,
		Amount:   wire.Amount / 100,
		Currency: wire.Currency,
		Receipt:  wire.Receipt,
		Status:   wire.Status,
	}, nil
}

func (s *razorpayService) FetchPayment(ctx context.Context, paymentID string) (*responses.GatewayPayment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("razorpayService.FetchPayment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, paymentID),
	)

	var wire gatewayPaymentWire
	if err := s.do(ctx, http.MethodGet, "/payments/"+paymentID, nil, &wire); err != nil {
		s.Log.Error("razorpayService.FetchPayment error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrGatewayFetchPayment(err)
	}

	return &responses.GatewayPayment{
		ID:       wire.ID,
		OrderID:  wire.OrderID,
		Amount:   wire.Amount / 100,
		Currency: wire.Currency,
		Status:   wire.Status,
		Method:   wire.Method,
	}, nil
}

func (s *razorpayService) CreateRefund(ctx context.Context, paymentID string, amount int64) (*responses.GatewayRefund, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("razorpayService.CreateRefund called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, paymentID),
		zap.Int64("amount", amount),
	)

	reqBody := map[string]interface{}{
		"amount": amount * 100,
		"speed":  constvars.RazorpayRefundSpeedNormal,
	}

	var wire gatewayRefundWire
	if err := s.do(ctx, http.MethodPost, "/payments/"+paymentID+"/refund", reqBody, &wire); err != nil {
		s.Log.Error("razorpayService.CreateRefund error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrRefundFailed(err)
	}

	return &responses.GatewayRefund{
		ID:        wire.ID,
		PaymentID: wire.PaymentID,
		Amount:    wire.Amount / 100,
		Status:    wire.Status,
	}, nil
}

// do sends an authenticated JSON request and decodes the response into out.
// Non-2xx responses are returned as errors carrying the gateway's error body.
func (s *razorpayService) do(ctx context.Context, method, path string, body, out interface{}) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(s.keyID, s.keySecret)
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)

	res, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var gatewayErr struct {
			Error struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		}
		json.NewDecoder(res.Body).Decode(&gatewayErr)
		return fmt.Errorf("gateway returned %d: %s %s", res.StatusCode, gatewayErr.Error.Code, gatewayErr.Error.Description)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
