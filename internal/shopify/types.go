package shopify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/signal-over-noise/shopify-invoice-app/internal/domain"
)

// Money is a decimal amount that Shopify transports as a string ("12.50").
// Empty strings and null decode to zero.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		m.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid money amount %q: %w", s, err)
	}
	m.Decimal = d
	return nil
}

// Address is a Shopify mailing address (shipping, billing or customer default)
type Address struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Company     string `json:"company,omitempty"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	City        string `json:"city"`
	Province    string `json:"province"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code,omitempty"`
	Zip         string `json:"zip"`
	Phone       string `json:"phone"`
}

// Customer as returned inside orders and by customers/{id}.json. Depending on
// the app's data-access level the name fields may be blank.
type Customer struct {
	ID             int64    `json:"id"`
	Email          string   `json:"email"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Phone          string   `json:"phone"`
	DefaultAddress *Address `json:"default_address,omitempty"`
}

const GuestCustomerName = "Guest Customer"

// DisplayName resolves the customer's name: explicit first/last name, then the
// default address name, then "Customer #<last 4 digits of id>". A nil customer
// is a guest checkout.
func (c *Customer) DisplayName() string {
	if c == nil {
		return GuestCustomerName
	}
	if name := joinName(c.FirstName, c.LastName); name != "" {
		return name
	}
	if c.DefaultAddress != nil {
		if name := joinName(c.DefaultAddress.FirstName, c.DefaultAddress.LastName); name != "" {
			return name
		}
	}
	if c.ID != 0 {
		id := strconv.FormatInt(c.ID, 10)
		if len(id) > 4 {
			id = id[len(id)-4:]
		}
		return "Customer #" + id
	}
	return GuestCustomerName
}

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

// LineItem is one product line of an order or draft order
type LineItem struct {
	ID                int64  `json:"id"`
	ProductID         *int64 `json:"product_id"`
	VariantID         *int64 `json:"variant_id"`
	Title             string `json:"title"`
	Name              string `json:"name"`
	VariantTitle      string `json:"variant_title,omitempty"`
	SKU               string `json:"sku"`
	Quantity          int    `json:"quantity"`
	Price             Money  `json:"price"`
	TotalDiscount     Money  `json:"total_discount"`
	FulfillmentStatus string `json:"fulfillment_status,omitempty"`
}

// DisplayTitle is the title, or the full name when the title is blank
func (li LineItem) DisplayTitle() string {
	if strings.TrimSpace(li.Title) != "" {
		return li.Title
	}
	return li.Name
}

// Order is the normalised union of a regular order and a draft order. Drafts
// never carry an order number; regular orders always do.
type Order struct {
	ID                int64                  `json:"id"`
	OrderNumber       *int64                 `json:"order_number,omitempty"`
	Name              string                 `json:"name"`
	Email             string                 `json:"email"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
	TotalPrice        Money                  `json:"total_price"`
	SubtotalPrice     Money                  `json:"subtotal_price"`
	TotalTax          Money                  `json:"total_tax"`
	Currency          string                 `json:"currency"`
	FinancialStatus   domain.FinancialStatus `json:"financial_status,omitempty"`
	FulfillmentStatus string                 `json:"fulfillment_status,omitempty"`
	Customer          *Customer              `json:"customer"`
	LineItems         []LineItem             `json:"line_items"`
	ShippingAddress   *Address               `json:"shipping_address,omitempty"`
	BillingAddress    *Address               `json:"billing_address,omitempty"`

	// Draft order fields
	Status        domain.DraftStatus `json:"status,omitempty"`
	InvoiceSentAt *time.Time         `json:"invoice_sent_at,omitempty"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty"`
	Note          string             `json:"note,omitempty"`
	Tags          string             `json:"tags,omitempty"`

	OrderType domain.OrderType `json:"order_type"`
}

// asRegular tags an order fetched from orders.json
func (o *Order) asRegular() {
	o.OrderType = domain.OrderTypeRegular
}

// asDraft tags an order fetched from draft_orders.json and maps its status
// onto the financial-status vocabulary.
func (o *Order) asDraft() {
	o.OrderType = domain.OrderTypeDraft
	o.FinancialStatus = o.Status.FinancialStatus()
	o.OrderNumber = nil
}

// OrderPage is one page of a single order source
type OrderPage struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Image is a product image
type Image struct {
	ID       int64  `json:"id"`
	Src      string `json:"src"`
	Alt      string `json:"alt,omitempty"`
	Position int    `json:"position,omitempty"`
}

// Variant is a product variant
type Variant struct {
	ID                int64  `json:"id"`
	ProductID         int64  `json:"product_id,omitempty"`
	Title             string `json:"title"`
	Price             Money  `json:"price"`
	SKU               string `json:"sku"`
	InventoryQuantity int    `json:"inventory_quantity,omitempty"`
}

// Product is a catalog product with its variants and images
type Product struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Handle    string    `json:"handle"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
	Variants  []Variant `json:"variants"`
	Images    []Image   `json:"images,omitempty"`
}

// FirstImageURL returns the src of the first image, or ""
func (p *Product) FirstImageURL() string {
	if p == nil || len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].Src
}

// Variant looks up a variant by id
func (p *Product) Variant(id int64) (Variant, bool) {
	if p == nil {
		return Variant{}, false
	}
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// Shop is the store's own identity from shop.json
type Shop struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Domain          string `json:"domain"`
	MyshopifyDomain string `json:"myshopify_domain"`
	Address1        string `json:"address1"`
	Address2        string `json:"address2"`
	City            string `json:"city"`
	Province        string `json:"province"`
	Country         string `json:"country"`
	CountryName     string `json:"country_name"`
	Zip             string `json:"zip"`
	Currency        string `json:"currency"`
}
