package pdf

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/signal-over-noise/shopify-invoice-app/internal/invoice"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testDocument() *invoice.Document {
	doc := &invoice.Document{
		InvoiceNumber: "INV-1700000000000",
		InvoiceDate:   "2024-03-17",
		DeliveryTerms: invoice.DefaultDeliveryTerms,
		Terms:         invoice.DefaultTerms,
		Currency:      "GBP",
		Customer: invoice.Customer{
			Name:  "Ada Lovelace",
			Email: "ada@example.com",
			Address: invoice.Address{
				Line1: "1 High St", City: "Bath", Zip: "BA1 1AA", Country: "United Kingdom",
			},
		},
		SameAsBilling: true,
		Company: invoice.Company{
			Name:  "Atelier 001",
			Phone: "+44 20 0000 0000",
			Address: invoice.Address{
				Line1: "5 Mews", City: "London", Country: "United Kingdom",
			},
		},
		LineItems: []invoice.LineItem{
			{ID: "1", Title: "Arc Lamp", SKU: "ARC-70", Quantity: 2, Price: decimal.RequireFromString("1250.50"),
				Meta: map[string]string{"dimensions": `70cm (27.5")`, "lamp_finish": "Brass"}},
			{ID: "2", Title: "Chair", Quantity: 1, Price: decimal.RequireFromString("10")},
		},
		DiscountAmount: decimal.RequireFromString("5"),
		ShippingCost:   decimal.RequireFromString("20"),
	}
	doc.Recompute()
	return doc
}

func TestRender(t *testing.T) {
	doc := testDocument()
	doc.LineItems[0].Image = &invoice.Image{Data: pngBytes(t), ContentType: "image/png"}

	out, err := NewRenderer(zap.NewNop()).Render(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 1000)
}

func TestRender_SkipsBrokenImages(t *testing.T) {
	doc := testDocument()
	doc.LineItems[0].Image = &invoice.Image{Data: []byte("not an image"), ContentType: "image/png"}
	doc.LineItems[1].Image = &invoice.Image{Data: []byte{0x89, 'P', 'N', 'G'}, ContentType: "image/png"}

	out, err := NewRenderer(zap.NewNop()).Render(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRender_ManyRowsPaginate(t *testing.T) {
	doc := testDocument()
	for i := 0; i < 40; i++ {
		doc.LineItems = append(doc.LineItems, invoice.LineItem{ID: "x", Title: "Stool", Quantity: 1, Price: decimal.NewFromInt(1)})
	}
	doc.Recompute()

	out, err := NewRenderer(zap.NewNop()).Render(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestImageType(t *testing.T) {
	typ, ok := ImageType(pngBytes(t))
	assert.True(t, ok)
	assert.Equal(t, "PNG", typ)

	_, ok = ImageType([]byte("<svg/>"))
	assert.False(t, ok)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"1234.5", "GBP", "£1,234.50"},
		{"0", "EUR", "€0.00"},
		{"999", "USD", "$999.00"},
		{"1234567.891", "CHF", "CHF 1,234,567.89"},
		{"-5", "GBP", "-£5.00"},
		{"12", "", "12.00"},
	}
	for _, tt := range tests {
		t.Run(tt.amount+tt.currency, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(decimal.RequireFromString(tt.amount), tt.currency))
		})
	}
}

func TestDescribe(t *testing.T) {
	item := invoice.LineItem{
		Title: "Arc Lamp",
		SKU:   "ARC-70",
		Meta:  map[string]string{"dimensions": "70cm", "lamp_finish": "Brass", "colour": "Red"},
	}
	assert.Equal(t, []string{
		"Arc Lamp",
		"SKU: ARC-70",
		"Dimensions: 70cm",
		"Colour: Red",
		"Lamp Finish: Brass",
	}, describe(item))

	assert.Equal(t, []string{"-"}, describe(invoice.LineItem{}))
}
