package entity

import "time"

// Company is a tenant owning users and approval rules.
// BaseCurrencyCode is fixed at creation and never changes.
type Company struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	BaseCurrencyCode string    `json:"base_currency_code"`
	CreatedAt        time.Time `json:"created_at"`
}
