package invoice

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OperationType names an edit applied to a Document
type OperationType string

const (
	OpUpdateLineItem        OperationType = "update_line_item"
	OpAddLineItem           OperationType = "add_line_item"
	OpRemoveLineItem        OperationType = "remove_line_item"
	OpSelectProduct         OperationType = "select_product"
	OpSetDiscountAmount     OperationType = "set_discount_amount"
	OpSetDiscountPercentage OperationType = "set_discount_percentage"
	OpSetTaxAmount          OperationType = "set_tax_amount"
	OpSetTaxRate            OperationType = "set_tax_rate"
	OpSetShippingCost       OperationType = "set_shipping_cost"
	OpRecompute             OperationType = "recompute"
)

// Value is an operation argument. Clients may send it as a JSON string or number.
type Value string

func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Value(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("operation value must be a string or number: %w", err)
	}
	*v = Value(n.String())
	return nil
}

// Operation is one edit request. Index, Field and Value are used depending on Type.
type Operation struct {
	Type      OperationType `json:"type"`
	Index     int           `json:"index"`
	Field     Field         `json:"field,omitempty"`
	Value     Value         `json:"value,omitempty"`
	ProductID int64         `json:"product_id,omitempty"`
	VariantID *int64        `json:"variant_id,omitempty"`
}

// Apply performs op on the document. Product selection needs catalog data and
// is handled by the caller.
func (d *Document) Apply(op Operation) error {
	switch op.Type {
	case OpUpdateLineItem:
		return d.UpdateLineItem(op.Index, op.Field, string(op.Value))
	case OpAddLineItem:
		d.AddLineItem()
		return nil
	case OpRemoveLineItem:
		return d.RemoveLineItem(op.Index)
	case OpRecompute:
		d.Recompute()
		return nil
	case OpSelectProduct:
		return fmt.Errorf("operation %q needs catalog data", op.Type)
	}

	amount, err := parseAmount(string(op.Value))
	if err != nil {
		return fmt.Errorf("invalid value %q for %s", op.Value, op.Type)
	}
	switch op.Type {
	case OpSetDiscountAmount:
		d.SetDiscountAmount(amount)
	case OpSetDiscountPercentage:
		d.SetDiscountPercentage(amount)
	case OpSetTaxAmount:
		d.SetTaxAmount(amount)
	case OpSetTaxRate:
		d.SetTaxRate(amount)
	case OpSetShippingCost:
		d.SetShippingCost(amount)
	default:
		return fmt.Errorf("unknown operation %q", op.Type)
	}
	return nil
}
