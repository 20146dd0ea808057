package invoice

import (
	"github.com/shopspring/decimal"

	"github.com/signal-over-noise/shopify-invoice-app/internal/domain"
)

const (
	DefaultDeliveryTerms = "EXW"
	DefaultTerms         = "Payment due within 30 days"
	DefaultCurrency      = "GBP"
	DateLayout           = "2006-01-02"
)

var hundred = decimal.NewFromInt(100)

// Address is a normalised postal address. Every field is a plain string so
// renderers never deal with missing values.
type Address struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Zip     string `json:"zip"`
}

// IsEmpty reports whether no field of the address is set
func (a Address) IsEmpty() bool {
	return a == Address{}
}

type Customer struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Mobile    string  `json:"mobile"`
	Telephone string  `json:"telephone"`
	Address   Address `json:"address"`
}

// Company is the seller block printed on the invoice
type Company struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   string  `json:"email,omitempty"`
	Address Address `json:"address"`
}

// LineItem is one editable row of the invoice. Total is derived.
type LineItem struct {
	ID        string            `json:"id"`
	ProductID *int64            `json:"product_id,omitempty"`
	VariantID *int64            `json:"variant_id,omitempty"`
	Title     string            `json:"title"`
	SKU       string            `json:"sku"`
	Quantity  int               `json:"quantity"`
	Price     decimal.Decimal   `json:"price"`
	Discount  decimal.Decimal   `json:"discount"`
	Total     decimal.Decimal   `json:"total"`
	ImageURL  string            `json:"image_url,omitempty"`
	Meta      map[string]string `json:"meta,omitempty"`

	// Image is the downloaded product image, filled just before rendering
	Image *Image `json:"-"`
}

// Image is raw image data ready to embed in a PDF
type Image struct {
	Data        []byte
	ContentType string
}

// LineTotal is quantity × price − discount
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity))).Sub(li.Discount)
}

// Dimensions returns the extracted size token, if any
func (li LineItem) Dimensions() string {
	return li.Meta["dimensions"]
}

// Document is the user-editable pro-forma invoice. It lives on the client
// between edits; the server only derives, recomputes, validates and renders it.
type Document struct {
	InvoiceNumber   string `json:"invoice_number"`
	InvoiceDate     string `json:"invoice_date"`
	ClientReference string `json:"client_reference"`
	DeliveryTerms   string `json:"delivery_terms"`
	Terms           string `json:"terms"`
	Currency        string `json:"currency"`

	OrderID     *int64           `json:"order_id,omitempty"`
	OrderNumber string           `json:"order_number,omitempty"`
	OrderType   domain.OrderType `json:"order_type,omitempty"`
	OrderDate   string           `json:"order_date,omitempty"`

	Customer        Customer `json:"customer"`
	BillingAddress  Address  `json:"billing_address"`
	ShippingAddress Address  `json:"shipping_address"`
	SameAsBilling   bool     `json:"same_as_billing"`
	Company         Company  `json:"company"`

	LineItems []LineItem `json:"line_items"`

	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	ShippingCost   decimal.Decimal `json:"shipping_cost"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`

	Notes string `json:"notes,omitempty"`
}

// Recompute restores every derived value: each row's total, the subtotal as
// the sum of row totals, the discount clamp and the grand total. All mutations
// end here.
func (d *Document) Recompute() {
	subtotal := decimal.Zero
	for i := range d.LineItems {
		d.LineItems[i].Total = d.LineItems[i].LineTotal()
		subtotal = subtotal.Add(d.LineItems[i].Total)
	}
	d.Subtotal = subtotal
	d.DiscountAmount = clampDiscount(d.DiscountAmount, d.Subtotal)
	d.RecomputeTotal()
}

// RecomputeTotal only refreshes the grand total from the current aggregates.
// Derivation uses it to keep the upstream subtotal.
func (d *Document) RecomputeTotal() {
	d.Total = d.Subtotal.Add(d.TaxAmount).Add(d.ShippingCost).Sub(d.DiscountAmount)
}

func clampDiscount(v, subtotal decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	if subtotal.IsNegative() {
		return decimal.Zero
	}
	if v.GreaterThan(subtotal) {
		return subtotal
	}
	return v
}
