// Package store implements C3: the embedded persistence layer for clients,
// invoices, invoice items and the monthly numbering sequence. It generalises
// the donor pack's models/*.go + GORM transaction idiom from a multi-tenant
// MySQL schema to a single-tenant embedded SQLite schema (§4.3, §10.5).
package store

import "time"

// Client is a billable counterparty (§3).
type Client struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:255;not null"`
	NIP        string `gorm:"column:nip;size:10;uniqueIndex;not null"`
	Address    string `gorm:"size:255"`
	City       string `gorm:"size:255"`
	PostalCode string `gorm:"size:16"`
	Email      string `gorm:"size:255"`
	Phone      string `gorm:"size:32"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Invoices []Invoice `gorm:"foreignKey:ClientID;constraint:OnDelete:RESTRICT"`
}

func (Client) TableName() string { return "clients" }

// InvoiceStatus mirrors the status enum of §3.
type InvoiceStatus string

const (
	StatusDraft     InvoiceStatus = "draft"
	StatusIssued    InvoiceStatus = "issued"
	StatusCancelled InvoiceStatus = "cancelled"
)

// PaymentMethod mirrors the payment-method enum of §3.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCard         PaymentMethod = "card"
	PaymentOther        PaymentMethod = "other"
)

// Invoice is the aggregate root of §3/§4.5.
type Invoice struct {
	ID               uint   `gorm:"primaryKey"`
	InvoiceNumber    string `gorm:"size:32;uniqueIndex;not null"`
	IssueDate        string `gorm:"size:10;index;not null"`
	SaleDate         string `gorm:"size:10;not null"`
	ClientID         uint   `gorm:"index;not null"`
	Status           InvoiceStatus `gorm:"size:16;not null"`
	PaymentMethod    PaymentMethod `gorm:"size:16;not null"`
	PaymentDeadline  string        `gorm:"size:10"`
	Currency         string        `gorm:"size:8;not null"`
	ExchangeRate     string        `gorm:"size:32"`
	Notes            string        `gorm:"size:2000"`
	SubtotalGrosze   int64         `gorm:"not null"`
	TaxGrosze        int64         `gorm:"not null"`
	TotalGrosze      int64         `gorm:"not null"`
	XMLPath          string        `gorm:"size:512"`
	PDFPath          string        `gorm:"size:512"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Client Client        `gorm:"foreignKey:ClientID"`
	Items  []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

func (Invoice) TableName() string { return "invoices" }

// InvoiceItem is a child line of an Invoice (§3).
type InvoiceItem struct {
	ID          uint   `gorm:"primaryKey"`
	InvoiceID   uint   `gorm:"index;not null"`
	Name        string `gorm:"size:255;not null"`
	Quantity    string `gorm:"size:32;not null"`
	Unit        string `gorm:"size:32;not null"`
	UnitPriceGrosze int64  `gorm:"not null"`
	VATRate     string `gorm:"size:8;not null"`
	NetGrosze   int64  `gorm:"not null"`
	VATGrosze   int64  `gorm:"not null"`
	GrossGrosze int64  `gorm:"not null"`
	CreatedAt   time.Time
}

func (InvoiceItem) TableName() string { return "invoice_items" }

// InvoiceSequence is the atomic monthly counter of §4.4.
type InvoiceSequence struct {
	ID         uint `gorm:"primaryKey"`
	Year       int  `gorm:"not null;uniqueIndex:idx_year_month"`
	Month      int  `gorm:"not null;uniqueIndex:idx_year_month"`
	LastNumber int  `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (InvoiceSequence) TableName() string { return "invoice_sequences" }
