package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/signal-over-noise/shopify-invoice-app/internal/config"
	"github.com/signal-over-noise/shopify-invoice-app/internal/domain"
	"github.com/signal-over-noise/shopify-invoice-app/internal/invoice"
	"github.com/signal-over-noise/shopify-invoice-app/internal/shopify"
	apperrors "github.com/signal-over-noise/shopify-invoice-app/pkg/errors"
)

func newTestInvoiceService(f *fakeClient) *InvoiceService {
	return NewInvoiceService(f, config.InvoiceConfig{}, zap.NewNop())
}

func sampleOrder() *shopify.Order {
	return &shopify.Order{
		ID:            450789469,
		OrderNumber:   ptr(int64(1001)),
		Name:          "#1001",
		CreatedAt:     time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		SubtotalPrice: money("205.00"),
		TotalTax:      money("41.00"),
		TotalPrice:    money("246.00"),
		Currency:      "EUR",
		Customer:      &shopify.Customer{ID: 1000004321, Phone: "+44 7000 000001"},
		BillingAddress: &shopify.Address{
			Address1: "1 High St", City: "Bath", Province: "Somerset", Country: "United Kingdom", Zip: "BA1 1AA",
			Phone: "+44 7000 000002",
		},
		LineItems: []shopify.LineItem{
			{ID: 11, ProductID: ptr(int64(9)), VariantID: ptr(int64(90)), Title: `Arc Lamp - 70cm (27.5")`,
				SKU: "ARC-70", Quantity: 2, Price: money("100.00"), TotalDiscount: money("5.00")},
			{ID: 12, ProductID: ptr(int64(8)), Title: "Chair", Quantity: 1, Price: money("10.00")},
			{ID: 13, Name: "Custom work", Quantity: 1, Price: money("0")},
		},
	}
}

func TestFromOrder(t *testing.T) {
	f := newFakeClient()
	f.products[9] = &shopify.Product{ID: 9, Title: "Arc Lamp", Images: []shopify.Image{{Src: "https://cdn/arc.png"}}}
	f.meta[9] = map[string]string{"finish": "Brass"}
	f.productErr[8] = errUpstream
	f.shop = &shopify.Shop{Name: "Atelier 001", Phone: "", City: "Paris", CountryName: "France"}

	doc := newTestInvoiceService(f).FromOrder(context.Background(), sampleOrder())

	assert.Regexp(t, regexp.MustCompile(`^INV-\d+$`), doc.InvoiceNumber)
	assert.Equal(t, time.Now().Format(invoice.DateLayout), doc.InvoiceDate)
	assert.Equal(t, "EXW", doc.DeliveryTerms)
	assert.Equal(t, "Payment due within 30 days", doc.Terms)
	assert.Equal(t, "EUR", doc.Currency)
	assert.Equal(t, "1001", doc.OrderNumber)
	assert.Equal(t, "2024-03-01", doc.OrderDate)
	assert.Equal(t, domain.OrderType(""), doc.OrderType)

	assert.Equal(t, "Customer #4321", doc.Customer.Name)
	assert.Equal(t, NoEmailProvided, doc.Customer.Email)
	assert.Equal(t, "+44 7000 000002", doc.Customer.Mobile)
	assert.Equal(t, "1 High St", doc.Customer.Address.Line1)
	assert.Equal(t, "Somerset", doc.BillingAddress.State)
	assert.True(t, doc.ShippingAddress.IsEmpty())
	assert.True(t, doc.SameAsBilling)

	assert.Equal(t, "Atelier 001", doc.Company.Name)
	assert.Equal(t, DefaultCompany.Phone, doc.Company.Phone)
	assert.Equal(t, "Paris", doc.Company.Address.City)
	assert.Equal(t, "France", doc.Company.Address.Country)
	assert.Equal(t, DefaultCompany.Address.Line1, doc.Company.Address.Line1)

	require.Len(t, doc.LineItems, 3)
	lamp := doc.LineItems[0]
	assert.Equal(t, "11", lamp.ID)
	assert.Equal(t, "Arc Lamp", lamp.Title)
	assert.Equal(t, `70cm (27.5")`, lamp.Meta["dimensions"])
	assert.Equal(t, "Brass", lamp.Meta["finish"])
	assert.Equal(t, "https://cdn/arc.png", lamp.ImageURL)
	assert.Equal(t, "195", lamp.Total.String())

	chair := doc.LineItems[1]
	assert.Equal(t, "Chair", chair.Title)
	assert.Empty(t, chair.ImageURL)
	_, hasDims := chair.Meta["dimensions"]
	assert.False(t, hasDims)

	assert.Equal(t, "Custom work", doc.LineItems[2].Title)

	assert.Equal(t, "205", doc.Subtotal.String())
	assert.Equal(t, "41", doc.TaxAmount.String())
	assert.Equal(t, "5", doc.DiscountAmount.String())
	assert.Equal(t, "241", doc.Total.String())
}

func TestFromOrder_GuestAndShippingAddress(t *testing.T) {
	f := newFakeClient()
	f.shopErr = errUpstream

	order := &shopify.Order{
		ID:              7,
		Name:            "#D7",
		Email:           "guest@example.com",
		OrderType:       domain.OrderTypeDraft,
		ShippingAddress: &shopify.Address{Address1: "9 Quay", City: "Cork", Phone: "+353 1"},
	}
	doc := newTestInvoiceService(f).FromOrder(context.Background(), order)

	assert.Equal(t, "Guest Customer", doc.Customer.Name)
	assert.Equal(t, "guest@example.com", doc.Customer.Email)
	assert.Empty(t, doc.Customer.Mobile)
	assert.Equal(t, "9 Quay", doc.Customer.Address.Line1)
	assert.True(t, doc.BillingAddress.IsEmpty())
	assert.False(t, doc.SameAsBilling)
	assert.Equal(t, "#D7", doc.OrderNumber)
	assert.Equal(t, domain.OrderTypeDraft, doc.OrderType)
	assert.Equal(t, DefaultCompany, doc.Company)
	assert.Equal(t, invoice.DefaultCurrency, doc.Currency)
	assert.NotNil(t, doc.LineItems)
}

func TestFromOrderID(t *testing.T) {
	f := newFakeClient()
	f.drafts = []shopify.Order{draftOrder(5, at(2))}
	svc := newTestInvoiceService(f)

	doc, err := svc.FromOrderID(context.Background(), 5, domain.OrderTypeDraft)
	require.NoError(t, err)
	require.NotNil(t, doc.OrderID)
	assert.EqualValues(t, 5, *doc.OrderID)

	_, err = svc.FromOrderID(context.Background(), 5, domain.OrderTypeRegular)
	var nf *apperrors.ErrNotFound
	require.ErrorAs(t, err, &nf)

	_, err = svc.FromOrderID(context.Background(), 5, domain.OrderType("quote"))
	var verr *apperrors.ErrValidation
	require.ErrorAs(t, err, &verr)
}

func TestEmpty(t *testing.T) {
	f := newFakeClient()
	f.shopErr = errUpstream

	doc := newTestInvoiceService(f).Empty(context.Background())
	require.Len(t, doc.LineItems, 1)
	assert.Equal(t, "1", doc.LineItems[0].ID)
	assert.Equal(t, 1, doc.LineItems[0].Quantity)
	assert.True(t, doc.Total.IsZero())
	assert.Equal(t, "GBP", doc.Currency)
	assert.True(t, doc.SameAsBilling)
	assert.Equal(t, DefaultCompany, doc.Company)
	assert.Empty(t, doc.Customer.Name)
}

func TestInvoiceNumbersAreUnique(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	n := newInvoiceNumbers(func() time.Time { return fixed })

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		num := n.Next()
		assert.False(t, seen[num], "duplicate %s", num)
		seen[num] = true
	}
	assert.True(t, seen["INV-1700000000000"])
}

func TestSelectProduct(t *testing.T) {
	f := newFakeClient()
	f.products[9] = &shopify.Product{
		ID:    9,
		Title: "Arc Lamp",
		Variants: []shopify.Variant{
			{ID: 90, Title: "Small", Price: money("80"), SKU: "ARC-S"},
			{ID: 91, Title: `70cm (27.5")`, Price: money("120"), SKU: "ARC-70"},
		},
		Images: []shopify.Image{{Src: "https://cdn/arc.png"}},
	}
	f.meta[9] = map[string]string{"collection": "Arc"}
	svc := newTestInvoiceService(f)

	doc := &invoice.Document{LineItems: []invoice.LineItem{
		{ID: "1", Title: "Old", Quantity: 3, Discount: money("10").Decimal},
	}}
	doc.Recompute()

	require.NoError(t, svc.SelectProduct(context.Background(), doc, 0, 9, ptr(int64(91))))
	item := doc.LineItems[0]
	assert.Equal(t, "Arc Lamp", item.Title)
	assert.Equal(t, `70cm (27.5")`, item.Meta["dimensions"])
	assert.Equal(t, "Arc", item.Meta["collection"])
	assert.Equal(t, "ARC-70", item.SKU)
	assert.EqualValues(t, 91, *item.VariantID)
	assert.Equal(t, "350", item.Total.String())
	assert.Equal(t, "350", doc.Subtotal.String())

	require.NoError(t, svc.SelectProduct(context.Background(), doc, 0, 9, nil))
	assert.Equal(t, "Arc Lamp - Small", doc.LineItems[0].Title)
	assert.Equal(t, "230", doc.Subtotal.String())

	err := svc.SelectProduct(context.Background(), doc, 0, 404, nil)
	var nf *apperrors.ErrNotFound
	require.ErrorAs(t, err, &nf)

	err = svc.SelectProduct(context.Background(), doc, 0, 9, ptr(int64(1)))
	require.ErrorAs(t, err, &nf)

	err = svc.SelectProduct(context.Background(), doc, 3, 9, nil)
	var verr *apperrors.ErrValidation
	require.ErrorAs(t, err, &verr)
}

func TestPrepareImages(t *testing.T) {
	f := newFakeClient()
	f.images["https://cdn/a.png"] = []byte("png-bytes")
	svc := newTestInvoiceService(f)

	doc := &invoice.Document{LineItems: []invoice.LineItem{
		{ID: "1", ImageURL: "https://cdn/a.png"},
		{ID: "2", ImageURL: "https://cdn/missing.png"},
		{ID: "3"},
	}}
	svc.PrepareImages(context.Background(), doc)

	require.NotNil(t, doc.LineItems[0].Image)
	assert.Equal(t, []byte("png-bytes"), doc.LineItems[0].Image.Data)
	assert.Nil(t, doc.LineItems[1].Image)
	assert.Nil(t, doc.LineItems[2].Image)
}

func TestEdit(t *testing.T) {
	f := newFakeClient()
	f.products[9] = &shopify.Product{ID: 9, Title: "Arc Lamp", Variants: []shopify.Variant{{ID: 90, Title: "Default Title", Price: money("40")}}}
	svc := newTestInvoiceService(f)

	doc := &invoice.Document{LineItems: []invoice.LineItem{{ID: "1", Title: "Old", Quantity: 2, Price: money("5").Decimal}}}
	doc.Recompute()

	require.NoError(t, svc.Edit(context.Background(), doc, invoice.Operation{Type: invoice.OpSelectProduct, ProductID: 9}))
	assert.Equal(t, "Arc Lamp", doc.LineItems[0].Title)
	assert.Equal(t, "80", doc.Total.String())

	require.NoError(t, svc.Edit(context.Background(), doc, invoice.Operation{Type: invoice.OpSetShippingCost, Value: "12.5"}))
	assert.Equal(t, "92.5", doc.Total.String())

	var verr *apperrors.ErrValidation
	err := svc.Edit(context.Background(), doc, invoice.Operation{Type: invoice.OpRemoveLineItem, Index: 7})
	require.ErrorAs(t, err, &verr)

	err = svc.Edit(context.Background(), doc, invoice.Operation{Type: invoice.OpSelectProduct})
	require.ErrorAs(t, err, &verr)

	err = svc.Edit(context.Background(), doc, invoice.Operation{Type: "rename"})
	require.ErrorAs(t, err, &verr)
}

func TestCompanyFromShop(t *testing.T) {
	assert.Equal(t, DefaultCompany, CompanyFromShop(nil))

	c := CompanyFromShop(&shopify.Shop{Name: "Atelier Nord", City: "Leeds", Country: "GB", Zip: " "})
	assert.Equal(t, "Atelier Nord", c.Name)
	assert.Equal(t, "+44 123 456 7890", c.Phone)
	assert.Equal(t, "123 Business Street", c.Address.Line1)
	assert.Equal(t, "Leeds", c.Address.City)
	assert.Equal(t, "England", c.Address.State)
	assert.Equal(t, "GB", c.Address.Country)
	assert.Equal(t, "SW1A 1AA", c.Address.Zip)

	c = CompanyFromShop(&shopify.Shop{Country: "GB", CountryName: "United Kingdom"})
	assert.Equal(t, "Your Company Name", c.Name)
	assert.Equal(t, "United Kingdom", c.Address.Country)
}
