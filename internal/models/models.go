// Package models defines the resource types returned by the remote
// PPOB service: user profile, balance, service catalog, promotional
// banners and transaction records.
package models

import "time"

// TransactionType classifies a history record.
type TransactionType string

const (
	TransactionTopUp   TransactionType = "TOPUP"
	TransactionPayment TransactionType = "PAYMENT"
)

// Profile is the account owner's data as returned by GET /profile.
// AvatarURL is empty until the user uploads a profile image.
type Profile struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	AvatarURL string `json:"profile_image"`
}

// Service is a single payable catalog entry. Tariff is in minor
// currency units (whole rupiah for this API).
type Service struct {
	Code   string `json:"service_code"`
	Name   string `json:"service_name"`
	Icon   string `json:"service_icon"`
	Tariff int64  `json:"service_tariff"`
}

// Banner is a promotional item shown on the home screen.
type Banner struct {
	Name        string `json:"banner_name"`
	ImageURL    string `json:"banner_image"`
	Description string `json:"description"`
}

// TransactionRecord is one line of the transaction history. Records
// arrive newest-first from the server and must not be re-sorted.
type TransactionRecord struct {
	InvoiceNumber string          `json:"invoice_number"`
	Type          TransactionType `json:"transaction_type"`
	Description   string          `json:"description"`
	Amount        int64           `json:"total_amount"`
	CreatedAt     time.Time       `json:"created_on"`
}

// Receipt is the payload returned by POST /transaction.
type Receipt struct {
	InvoiceNumber string          `json:"invoice_number"`
	ServiceCode   string          `json:"service_code"`
	ServiceName   string          `json:"service_name"`
	Type          TransactionType `json:"transaction_type"`
	Amount        int64           `json:"total_amount"`
	CreatedAt     time.Time       `json:"created_on"`
}
