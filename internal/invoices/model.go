// Package invoices manages assay and export service invoices.
package invoices

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Status tracks invoice settlement.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
	StatusVoid    Status = "VOID"
)

// Invoice bills an exporter for assay and certification services.
type Invoice struct {
	ID          uuid.UUID `json:"id"`
	Number      string    `json:"number"`
	JobCardID   uuid.UUID `json:"jobCardId"`
	AmountMinor int64     `json:"amountMinor"`
	Currency    string    `json:"currency"`
	Status      Status    `json:"status"`
	IssuedBy    int64     `json:"issuedBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

var printer = message.NewPrinter(language.English)

// FormattedTotal renders the amount with its currency symbol, e.g. "GHS
// 1,250.00". Unknown currency codes fall back to the bare code.
func (i Invoice) FormattedTotal() string {
	amount := float64(i.AmountMinor) / 100
	unit, err := currency.ParseISO(i.Currency)
	if err != nil {
		return printer.Sprintf("%s %.2f", i.Currency, amount)
	}
	return printer.Sprintf("%v", currency.Symbol(unit.Amount(amount)))
}
