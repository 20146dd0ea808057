package domain

import (
	"fmt"
	"strings"
)

// OrderType distinguishes confirmed orders from draft orders. The two live in
// different Shopify resources with disjoint id spaces.
type OrderType string

const (
	OrderTypeRegular OrderType = "regular"
	OrderTypeDraft   OrderType = "draft"
)

// IsValid checks if the order type is known
func (t OrderType) IsValid() bool {
	return t == OrderTypeRegular || t == OrderTypeDraft
}

// ListKind selects which sources the order feed reads from
type ListKind string

const (
	ListKindAll     ListKind = "all"
	ListKindRegular ListKind = "regular"
	ListKindDraft   ListKind = "draft"
)

// ParseListKind maps the ?type= query value to a ListKind, defaulting to all
func ParseListKind(s string) (ListKind, error) {
	switch ListKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", ListKindAll:
		return ListKindAll, nil
	case ListKindRegular:
		return ListKindRegular, nil
	case ListKindDraft:
		return ListKindDraft, nil
	default:
		return "", fmt.Errorf("unknown order type %q (expected all, regular or draft)", s)
	}
}

// FinancialStatus is the coarse payment state shown for every order in the feed
type FinancialStatus string

const (
	FinancialStatusPaid              FinancialStatus = "paid"
	FinancialStatusPending           FinancialStatus = "pending"
	FinancialStatusAuthorized        FinancialStatus = "authorized"
	FinancialStatusPartiallyPaid     FinancialStatus = "partially_paid"
	FinancialStatusRefunded          FinancialStatus = "refunded"
	FinancialStatusPartiallyRefunded FinancialStatus = "partially_refunded"
	FinancialStatusVoided            FinancialStatus = "voided"
)

// DraftStatus is the status vocabulary of Shopify draft orders
type DraftStatus string

const (
	DraftStatusOpen        DraftStatus = "open"
	DraftStatusInvoiceSent DraftStatus = "invoice_sent"
	DraftStatusCompleted   DraftStatus = "completed"
)

// FinancialStatus maps a draft status onto the regular-order vocabulary:
// completed drafts count as paid, everything else is pending.
func (s DraftStatus) FinancialStatus() FinancialStatus {
	if s == DraftStatusCompleted {
		return FinancialStatusPaid
	}
	return FinancialStatusPending
}
