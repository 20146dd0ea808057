package invoice

import (
	"regexp"
	"strings"
	"time"

	apperrors "github.com/signal-over-noise/shopify-invoice-app/pkg/errors"
)

const (
	MsgInvoiceNumberRequired = "Invoice number is required"
	MsgInvoiceDateRequired   = "Invoice date is required"
	MsgCustomerNameRequired  = "Customer name is required"
	MsgCustomerEmailRequired = "Customer email is required"
	MsgCompanyNameRequired   = "Company name is required"
	MsgLineItemRequired      = "At least one line item is required"
	MsgInvalidLineItems      = "All items must have a title, positive quantity, and non-negative price"
	MsgNegativeTotal         = "Total amount cannot be negative"
)

// Validate runs the pre-export checklist and returns every violation, in a
// fixed order. An empty result means the document can be exported.
func (d *Document) Validate() []string {
	violations := []string{}

	if strings.TrimSpace(d.InvoiceNumber) == "" {
		violations = append(violations, MsgInvoiceNumberRequired)
	}
	if strings.TrimSpace(d.InvoiceDate) == "" {
		violations = append(violations, MsgInvoiceDateRequired)
	}
	if strings.TrimSpace(d.Customer.Name) == "" {
		violations = append(violations, MsgCustomerNameRequired)
	}
	if strings.TrimSpace(d.Customer.Email) == "" {
		violations = append(violations, MsgCustomerEmailRequired)
	}
	if strings.TrimSpace(d.Company.Name) == "" {
		violations = append(violations, MsgCompanyNameRequired)
	}

	if len(d.LineItems) == 0 {
		violations = append(violations, MsgLineItemRequired)
	} else {
		for _, item := range d.LineItems {
			if strings.TrimSpace(item.Title) == "" || item.Quantity <= 0 || item.Price.IsNegative() {
				violations = append(violations, MsgInvalidLineItems)
				break
			}
		}
	}

	if d.Total.IsNegative() {
		violations = append(violations, MsgNegativeTotal)
	}

	return violations
}

// ValidationError wraps the violations of Validate as a typed validation error,
// or returns nil when there are none.
func (d *Document) ValidationError() error {
	violations := d.Validate()
	if len(violations) == 0 {
		return nil
	}
	return &apperrors.ErrValidation{
		Message:    "invalid invoice data",
		Violations: violations,
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Filename is the download name of the exported PDF:
// Invoice_<number with non-alphanumerics replaced by _>_<YYYY-MM-DD>.pdf
func (d *Document) Filename(now time.Time) string {
	return "Invoice_" + unsafeFilenameChars.ReplaceAllString(d.InvoiceNumber, "_") + "_" + now.Format(DateLayout) + ".pdf"
}
