package tracker

import (
	"fmt"
	"strings"
	"time"
)

// Merchant is the expanded merchant information attached to a Monzo
// transaction, when present.
type Merchant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Logo     string `json:"logo"`
}

// RawTransaction is one transaction as returned by the Monzo API.
// The amount is in the currency's minor units (pence for GBP), negative for
// money going out.
type RawTransaction struct {
	ID          string    `json:"id"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	Created     time.Time `json:"created"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Notes       string    `json:"notes"`
	Merchant    *Merchant `json:"merchant,omitempty"`
}

// DisplayDescription returns the merchant name when known, falling back to
// the raw description.
func (t RawTransaction) DisplayDescription() string {
	if t.Merchant != nil && t.Merchant.Name != "" {
		return t.Merchant.Name
	}
	if t.Description != "" {
		return t.Description
	}
	return "Unknown"
}

// Record is the canonical in-memory shape of one formatted transaction, the
// unit the workbook stores and recovers.
//
// The ID is the dedup key: it is globally unique, stable across re-fetches,
// and once a record with a given ID is in the workbook, re-ingesting that ID
// never creates a second row nor alters the stored one.
type Record struct {
	ID          string
	Date        time.Time // second precision
	Description string
	Amount      Money // signed, major units; negative = outflow
	Category    string
	Notes       string
}

// NewRecord builds a Record from a raw Monzo transaction, converting the
// amount to major units.
func NewRecord(raw RawTransaction) (Record, error) {
	if raw.ID == "" {
		return Record{}, fmt.Errorf("transaction has no id")
	}
	if raw.Created.IsZero() {
		return Record{}, fmt.Errorf("transaction %s has no creation time", raw.ID)
	}
	category := raw.Category
	if category == "" {
		category = "unknown"
	}
	currency := strings.ToUpper(raw.Currency)
	return Record{
		ID:          raw.ID,
		Date:        raw.Created.UTC().Truncate(time.Second),
		Description: raw.DisplayDescription(),
		Amount:      FromMinorUnits(raw.Amount, currency),
		Category:    category,
		Notes:       raw.Notes,
	}, nil
}

// Month returns the calendar month the record belongs to.
func (r Record) Month() Month { return MonthOf(r.Date) }

func (r Record) String() string {
	return fmt.Sprintf("%s %s %s %s", r.Date.Format(DatetimeFormat), r.Amount.SignedString(), r.Category, r.Description)
}
