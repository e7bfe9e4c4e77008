package domain

import "time"

// Xendit invoice statuses delivered through the callback.
const (
	XenditStatusPending = "PENDING"
	XenditStatusPaid    = "PAID"
	XenditStatusSettled = "SETTLED"
	XenditStatusExpired = "EXPIRED"
	XenditStatusFailed  = "FAILED"
)

type XenditInvoiceRequest struct {
	ExternalID         string       `json:"external_id"`
	Amount             float64      `json:"amount"`
	Description        string       `json:"description"`
	InvoiceDuration    int          `json:"invoice_duration"`
	Customer           Customer     `json:"customer"`
	SuccessRedirectURL string       `json:"success_redirect_url,omitempty"`
	FailureRedirectURL string       `json:"failure_redirect_url,omitempty"`
	Currency           string       `json:"currency"`
	Items              []XenditItem `json:"items"`
	Metadata           Metadata     `json:"metadata"`
}

type XenditResponse struct {
	ID                 string       `json:"id"`
	ExternalID         string       `json:"external_id"`
	UserID             string       `json:"user_id"`
	Status             string       `json:"status"`
	MerchantName       string       `json:"merchant_name"`
	Amount             float64      `json:"amount"`
	Description        string       `json:"description"`
	ExpiryDate         time.Time    `json:"expiry_date"`
	InvoiceURL         string       `json:"invoice_url"`
	SuccessRedirectURL string       `json:"success_redirect_url"`
	FailureRedirectURL string       `json:"failure_redirect_url"`
	Created            time.Time    `json:"created"`
	Updated            time.Time    `json:"updated"`
	Currency           string       `json:"currency"`
	Items              []XenditItem `json:"items"`
	Customer           Customer     `json:"customer"`
	Metadata           Metadata     `json:"metadata"`
	ErrorCode          string       `json:"error_code,omitempty"`
	Message            string       `json:"message,omitempty"`
}

// XenditWebhook is the invoice callback body.
type XenditWebhook struct {
	ID             string    `json:"id"`
	ExternalID     string    `json:"external_id"`
	UserID         string    `json:"user_id"`
	PaymentMethod  string    `json:"payment_method"`
	Status         string    `json:"status"`
	MerchantName   string    `json:"merchant_name"`
	Amount         float64   `json:"amount"`
	PaidAmount     float64   `json:"paid_amount"`
	BankCode       string    `json:"bank_code"`
	PaidAt         time.Time `json:"paid_at"`
	PayerEmail     string    `json:"payer_email"`
	Description    string    `json:"description"`
	Currency       string    `json:"currency"`
	PaymentChannel string    `json:"payment_channel"`
}

type Customer struct {
	Email     string `json:"email"`
	GivenName string `json:"given_names,omitempty"`
}

type XenditItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Category string  `json:"category,omitempty"`
}

type Metadata struct {
	OrderNumber string `json:"order_number"`
}
