package invoice

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Field names a line item field editable through UpdateLineItem
type Field string

const (
	FieldTitle    Field = "title"
	FieldSKU      Field = "sku"
	FieldQuantity Field = "quantity"
	FieldPrice    Field = "price"
	FieldDiscount Field = "discount"
)

// NewLineItem returns a blank row: quantity 1, zero price.
func NewLineItem() LineItem {
	return LineItem{
		ID:       uuid.NewString(),
		Quantity: 1,
		Price:    decimal.Zero,
		Discount: decimal.Zero,
		Total:    decimal.Zero,
	}
}

func (d *Document) checkIndex(index int) error {
	if index < 0 || index >= len(d.LineItems) {
		return fmt.Errorf("line item index %d out of range (%d items)", index, len(d.LineItems))
	}
	return nil
}

// UpdateLineItem sets one field of the row at index from its text value and
// recomputes the document.
func (d *Document) UpdateLineItem(index int, field Field, value string) error {
	if err := d.checkIndex(index); err != nil {
		return err
	}
	item := &d.LineItems[index]

	switch field {
	case FieldTitle:
		item.Title = value
	case FieldSKU:
		item.SKU = value
	case FieldQuantity:
		q, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid quantity %q", value)
		}
		item.Quantity = q
	case FieldPrice:
		p, err := parseAmount(value)
		if err != nil {
			return fmt.Errorf("invalid price %q", value)
		}
		item.Price = p
	case FieldDiscount:
		v, err := parseAmount(value)
		if err != nil {
			return fmt.Errorf("invalid discount %q", value)
		}
		item.Discount = v
	default:
		return fmt.Errorf("unknown line item field %q", field)
	}

	d.Recompute()
	return nil
}

// AddLineItem appends a blank row and returns it
func (d *Document) AddLineItem() LineItem {
	item := NewLineItem()
	d.LineItems = append(d.LineItems, item)
	d.Recompute()
	return item
}

// RemoveLineItem removes the row at index. The last remaining row is never
// removed; that case is a silent no-op.
func (d *Document) RemoveLineItem(index int) error {
	if err := d.checkIndex(index); err != nil {
		return err
	}
	if len(d.LineItems) <= 1 {
		return nil
	}
	d.LineItems = append(d.LineItems[:index], d.LineItems[index+1:]...)
	d.Recompute()
	return nil
}

// SetDiscountAmount sets the invoice-level discount, clamped to [0, subtotal]
func (d *Document) SetDiscountAmount(v decimal.Decimal) {
	d.DiscountAmount = v
	d.Recompute()
}

// SetDiscountPercentage sets the discount as a percentage of the subtotal,
// clamped to [0, 100]. The stored amount is rounded to 2 decimals.
func (d *Document) SetDiscountPercentage(pct decimal.Decimal) {
	if pct.IsNegative() {
		pct = decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	d.Recompute()
	d.DiscountAmount = d.Subtotal.Mul(pct).Div(hundred).Round(2)
	d.Recompute()
}

// DiscountPercentage is the discount amount expressed as a percentage of the
// subtotal, rounded to 2 decimals. Zero when the subtotal is zero.
func (d *Document) DiscountPercentage() decimal.Decimal {
	if !d.Subtotal.IsPositive() {
		return decimal.Zero
	}
	return d.DiscountAmount.Mul(hundred).Div(d.Subtotal).Round(2)
}

// SetTaxAmount sets the absolute tax amount. Negative values become zero.
func (d *Document) SetTaxAmount(v decimal.Decimal) {
	if v.IsNegative() {
		v = decimal.Zero
	}
	d.TaxAmount = v
	d.Recompute()
}

// SetTaxRate stores the rate and derives the tax amount from the subtotal
func (d *Document) SetTaxRate(rate decimal.Decimal) {
	if rate.IsNegative() {
		rate = decimal.Zero
	}
	d.Recompute()
	d.TaxRate = rate
	d.TaxAmount = d.Subtotal.Mul(rate).Div(hundred).Round(2)
	d.RecomputeTotal()
}

func (d *Document) SetShippingCost(v decimal.Decimal) {
	if v.IsNegative() {
		v = decimal.Zero
	}
	d.ShippingCost = v
	d.Recompute()
}

// ProductSelection is what a catalog product/variant contributes to a row
type ProductSelection struct {
	ProductID int64
	VariantID *int64
	Title     string
	SKU       string
	Price     decimal.Decimal
	ImageURL  string
	Meta      map[string]string
}

// ApplyProduct replaces the row's product data with sel, splitting any size
// token out of the title. Quantity and discount are kept.
func (d *Document) ApplyProduct(index int, sel ProductSelection) error {
	if err := d.checkIndex(index); err != nil {
		return err
	}
	item := &d.LineItems[index]

	productID := sel.ProductID
	item.ProductID = &productID
	item.VariantID = sel.VariantID
	item.SKU = sel.SKU
	item.Price = sel.Price
	item.ImageURL = sel.ImageURL
	item.Image = nil
	item.Title, item.Meta = SplitDimensions(sel.Title, sel.Meta)

	d.Recompute()
	return nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
