package xendit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"myShopHub/domain"
	"net/http"
	"time"

	"github.com/pobyzaarif/goshortcute"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type XenditConfig struct {
	XenditApi          string
	XenditUrl          string
	SuccessRedirectUrl string
	FailureRedirectUrl string
}

type XenditRepository struct {
	xenditConfig XenditConfig
	client       *http.Client
}

func NewXenditRepository(cfg XenditConfig) *XenditRepository {
	return &XenditRepository{
		xenditConfig: cfg,
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// CreateInvoice issues a hosted invoice and returns Xendit's view of it.
func (r *XenditRepository) CreateInvoice(ctx context.Context, invoice domain.XenditInvoiceRequest) (domain.XenditResponse, error) {
	if invoice.SuccessRedirectURL == "" {
		invoice.SuccessRedirectURL = r.xenditConfig.SuccessRedirectUrl
	}
	if invoice.FailureRedirectURL == "" {
		invoice.FailureRedirectURL = r.xenditConfig.FailureRedirectUrl
	}
	if invoice.Currency == "" {
		invoice.Currency = "IDR"
	}
	if invoice.InvoiceDuration == 0 {
		invoice.InvoiceDuration = 3600
	}

	payload, err := json.Marshal(invoice)
	if err != nil {
		return domain.XenditResponse{}, fmt.Errorf("failed to marshal invoice: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.xenditConfig.XenditUrl, bytes.NewReader(payload))
	if err != nil {
		return domain.XenditResponse{}, err
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Basic "+goshortcute.StringtoBase64Encode(r.xenditConfig.XenditApi+":"))

	res, err := r.client.Do(req)
	if err != nil {
		return domain.XenditResponse{}, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return domain.XenditResponse{}, err
	}

	var xenditResponse domain.XenditResponse
	if err := json.Unmarshal(body, &xenditResponse); err != nil {
		return domain.XenditResponse{}, fmt.Errorf("failed to decode xendit response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return domain.XenditResponse{}, fmt.Errorf("xendit return negative response %v: %s %s", res.StatusCode, xenditResponse.ErrorCode, xenditResponse.Message)
	}

	return xenditResponse, nil
}
