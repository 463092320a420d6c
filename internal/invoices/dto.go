package invoices

import "github.com/google/uuid"

// CreateInvoiceRequest is the payload for issuing an invoice.
type CreateInvoiceRequest struct {
	Number      string    `json:"number" validate:"required,max=32"`
	JobCardID   uuid.UUID `json:"jobCardId" validate:"required"`
	AmountMinor int64     `json:"amountMinor" validate:"required,gt=0"`
	Currency    string    `json:"currency" validate:"required,len=3,uppercase"`
}

// InvoiceResponse decorates an invoice with its display total.
type InvoiceResponse struct {
	Invoice
	FormattedTotal string `json:"formattedTotal"`
}
