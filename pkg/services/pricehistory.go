package services

import (
	"time"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
)

// PriceChange returns the history entry to append when a product's price moves
// to newPrice in newCurrency, or nil when nothing changed. An empty
// newCurrency keeps the stored currency. A nil newPrice with a new currency
// re-denominates the stored amount.
func PriceChange(existing *models.Product, newPrice *float64, newCurrency string, now time.Time) *models.PriceEntry {
	if newPrice == nil && newCurrency == "" {
		return nil
	}

	currency := newCurrency
	if currency == "" {
		currency = existing.Currency
	}
	if currency == "" {
		currency = models.DefaultCurrency
	}

	amount := newPrice
	if amount == nil {
		amount = existing.CurrentPrice
	}
	if amount == nil {
		return nil
	}

	if existing.CurrentPrice != nil && *existing.CurrentPrice == *amount && existing.Currency == currency {
		return nil
	}
	return &models.PriceEntry{Amount: *amount, Currency: currency, Date: now}
}
