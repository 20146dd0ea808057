package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/signal-over-noise/shopify-invoice-app/internal/config"
	"github.com/signal-over-noise/shopify-invoice-app/internal/domain"
	"github.com/signal-over-noise/shopify-invoice-app/internal/invoice"
	"github.com/signal-over-noise/shopify-invoice-app/internal/shopify"
	"github.com/signal-over-noise/shopify-invoice-app/pkg/errors"
)

const (
	NoEmailProvided = "No email provided"

	// maxLookups bounds concurrent per-item product lookups
	maxLookups = 8
)

// Company block defaults used when the shop lookup fails or leaves a field blank
var DefaultCompany = invoice.Company{
	Name:  "Your Company Name",
	Phone: "+44 123 456 7890",
	Address: invoice.Address{
		Line1:   "123 Business Street",
		City:    "London",
		State:   "England",
		Country: "United Kingdom",
		Zip:     "SW1A 1AA",
	},
}

type InvoiceService struct {
	client  CommerceClient
	cfg     config.InvoiceConfig
	numbers *invoiceNumbers
	now     func() time.Time
	logger  *zap.Logger
}

// NewInvoiceService creates the invoice derivation service
func NewInvoiceService(client CommerceClient, cfg config.InvoiceConfig, logger *zap.Logger) *InvoiceService {
	if cfg.DeliveryTerms == "" {
		cfg.DeliveryTerms = invoice.DefaultDeliveryTerms
	}
	if cfg.Terms == "" {
		cfg.Terms = invoice.DefaultTerms
	}
	if cfg.Currency == "" {
		cfg.Currency = invoice.DefaultCurrency
	}
	return &InvoiceService{
		client:  client,
		cfg:     cfg,
		numbers: newInvoiceNumbers(time.Now),
		now:     time.Now,
		logger:  logger.Named("invoice"),
	}
}

// FromOrderID fetches a regular or draft order and derives an invoice from it
func (s *InvoiceService) FromOrderID(ctx context.Context, id int64, orderType domain.OrderType) (*invoice.Document, error) {
	var (
		order *shopify.Order
		err   error
	)
	switch orderType {
	case domain.OrderTypeDraft:
		order, err = s.client.FetchDraftOrder(ctx, id)
	case domain.OrderTypeRegular, "":
		order, err = s.client.FetchOrder(ctx, id)
	default:
		return nil, &errors.ErrValidation{Message: "unknown order type", Fields: map[string]string{"order_type": string(orderType)}}
	}
	if err != nil {
		if shopify.IsNotFound(err) {
			return nil, &errors.ErrNotFound{Resource: "order", ID: strconv.FormatInt(id, 10)}
		}
		return nil, fmt.Errorf("fetch order %d: %w", id, err)
	}
	return s.FromOrder(ctx, order), nil
}

// FromOrder derives an editable invoice from an order. Lookups of product data
// and shop details are best-effort; derivation itself never fails.
func (s *InvoiceService) FromOrder(ctx context.Context, order *shopify.Order) *invoice.Document {
	doc := s.newDocument(ctx)

	orderID := order.ID
	doc.OrderID = &orderID
	doc.OrderType = order.OrderType
	doc.OrderNumber = order.Name
	if order.OrderNumber != nil {
		doc.OrderNumber = strconv.FormatInt(*order.OrderNumber, 10)
	}
	if !order.CreatedAt.IsZero() {
		doc.OrderDate = order.CreatedAt.Format(invoice.DateLayout)
	}
	if order.Currency != "" {
		doc.Currency = order.Currency
	}

	doc.Customer = customerBlock(order)
	billing := order.BillingAddress
	if billing == nil && order.Customer != nil {
		billing = order.Customer.DefaultAddress
	}
	doc.BillingAddress = extractAddress(billing)
	doc.ShippingAddress = extractAddress(order.ShippingAddress)
	doc.SameAsBilling = order.ShippingAddress == nil

	doc.LineItems = s.deriveLineItems(ctx, order.LineItems)

	discount := decimal.Zero
	for _, item := range doc.LineItems {
		discount = discount.Add(item.Discount)
	}
	doc.Subtotal = order.SubtotalPrice.Decimal
	doc.TaxAmount = order.TotalTax.Decimal
	doc.DiscountAmount = discount
	doc.RecomputeTotal()

	s.logger.Info("Derived invoice from order",
		zap.Int64("order_id", order.ID),
		zap.String("order_type", string(order.OrderType)),
		zap.String("invoice_number", doc.InvoiceNumber),
		zap.Int("line_items", len(doc.LineItems)),
	)
	return doc
}

// Empty returns a blank invoice with one empty row and the shop's company block
func (s *InvoiceService) Empty(ctx context.Context) *invoice.Document {
	doc := s.newDocument(ctx)
	doc.OrderDate = doc.InvoiceDate
	doc.SameAsBilling = true
	doc.LineItems = []invoice.LineItem{{
		ID:       "1",
		Quantity: 1,
		Price:    decimal.Zero,
		Discount: decimal.Zero,
		Total:    decimal.Zero,
	}}
	doc.Recompute()
	return doc
}

func (s *InvoiceService) newDocument(ctx context.Context) *invoice.Document {
	return &invoice.Document{
		InvoiceNumber: s.numbers.Next(),
		InvoiceDate:   s.now().Format(invoice.DateLayout),
		DeliveryTerms: s.cfg.DeliveryTerms,
		Terms:         s.cfg.Terms,
		Currency:      s.cfg.Currency,
		Company:       s.Company(ctx),
		LineItems:     []invoice.LineItem{},
	}
}

// Company resolves the seller block from the shop details, field by field
// falling back to DefaultCompany.
func (s *InvoiceService) Company(ctx context.Context) invoice.Company {
	shop, err := s.client.FetchShopDetails(ctx)
	if err != nil {
		s.logger.Warn("Shop details unavailable, using default company block", zap.Error(err))
		return DefaultCompany
	}
	return CompanyFromShop(shop)
}

// CompanyFromShop maps shop details onto the company block with per-field fallbacks
func CompanyFromShop(shop *shopify.Shop) invoice.Company {
	if shop == nil {
		return DefaultCompany
	}
	country := shop.CountryName
	if country == "" {
		country = shop.Country
	}
	return invoice.Company{
		Name:  orDefault(shop.Name, DefaultCompany.Name),
		Phone: orDefault(shop.Phone, DefaultCompany.Phone),
		Email: shop.Email,
		Address: invoice.Address{
			Line1:   orDefault(shop.Address1, DefaultCompany.Address.Line1),
			Line2:   shop.Address2,
			City:    orDefault(shop.City, DefaultCompany.Address.City),
			State:   orDefault(shop.Province, DefaultCompany.Address.State),
			Country: orDefault(country, DefaultCompany.Address.Country),
			Zip:     orDefault(shop.Zip, DefaultCompany.Address.Zip),
		},
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func customerBlock(order *shopify.Order) invoice.Customer {
	email := order.Email
	if email == "" && order.Customer != nil {
		email = order.Customer.Email
	}
	if email == "" {
		email = NoEmailProvided
	}

	mobile := ""
	if order.BillingAddress != nil {
		mobile = order.BillingAddress.Phone
	}
	if mobile == "" && order.Customer != nil {
		mobile = order.Customer.Phone
	}

	addr := order.ShippingAddress
	if addr == nil {
		addr = order.BillingAddress
	}

	return invoice.Customer{
		Name:    order.Customer.DisplayName(),
		Email:   email,
		Mobile:  mobile,
		Address: extractAddress(addr),
	}
}

// extractAddress normalises a Shopify address; a missing address yields all
// empty strings.
func extractAddress(a *shopify.Address) invoice.Address {
	if a == nil {
		return invoice.Address{}
	}
	return invoice.Address{
		Line1:   a.Address1,
		Line2:   a.Address2,
		City:    a.City,
		State:   a.Province,
		Country: a.Country,
		Zip:     a.Zip,
	}
}

// deriveLineItems converts order lines into invoice rows, looking up each
// product's first image and attributes concurrently. A failed lookup only
// leaves that row without image or attributes.
func (s *InvoiceService) deriveLineItems(ctx context.Context, lines []shopify.LineItem) []invoice.LineItem {
	items := make([]invoice.LineItem, len(lines))

	var g errgroup.Group
	g.SetLimit(maxLookups)
	for i := range lines {
		i, line := i, lines[i]
		g.Go(func() error {
			items[i] = s.deriveLineItem(ctx, i, line)
			return nil
		})
	}
	_ = g.Wait()

	return items
}

func (s *InvoiceService) deriveLineItem(ctx context.Context, index int, line shopify.LineItem) invoice.LineItem {
	id := strconv.Itoa(index)
	if line.ID != 0 {
		id = strconv.FormatInt(line.ID, 10)
	}

	var (
		meta     map[string]string
		imageURL string
	)
	if line.ProductID != nil {
		meta, imageURL = s.productDetails(ctx, *line.ProductID)
	}

	title, meta := invoice.SplitDimensions(line.DisplayTitle(), meta)
	item := invoice.LineItem{
		ID:        id,
		ProductID: line.ProductID,
		VariantID: line.VariantID,
		Title:     title,
		SKU:       line.SKU,
		Quantity:  line.Quantity,
		Price:     line.Price.Decimal,
		Discount:  line.TotalDiscount.Decimal,
		ImageURL:  imageURL,
		Meta:      meta,
	}
	item.Total = item.LineTotal()
	return item
}

// productDetails fetches a product's attributes and first image URL, logging
// and skipping whatever fails.
func (s *InvoiceService) productDetails(ctx context.Context, productID int64) (map[string]string, string) {
	var (
		meta     map[string]string
		imageURL string
	)

	var g errgroup.Group
	g.Go(func() error {
		m, err := s.client.FetchProductMeta(ctx, productID)
		if err != nil {
			s.logger.Warn("Product attributes unavailable", zap.Int64("product_id", productID), zap.Error(err))
			return nil
		}
		meta = m
		return nil
	})
	g.Go(func() error {
		p, err := s.client.FetchProduct(ctx, productID)
		if err != nil {
			s.logger.Warn("Product unavailable", zap.Int64("product_id", productID), zap.Error(err))
			return nil
		}
		imageURL = p.FirstImageURL()
		return nil
	})
	_ = g.Wait()

	return meta, imageURL
}

// SelectProduct puts a catalog product (and optionally a specific variant)
// into the row at index, exactly as derivation would, then recomputes the
// document. Without a variant id the first variant is used.
func (s *InvoiceService) SelectProduct(ctx context.Context, doc *invoice.Document, index int, productID int64, variantID *int64) error {
	if index < 0 || index >= len(doc.LineItems) {
		return &errors.ErrValidation{Message: fmt.Sprintf("line item index %d out of range", index)}
	}

	product, err := s.client.FetchProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("fetch product %d: %w", productID, err)
	}
	if product == nil {
		return &errors.ErrNotFound{Resource: "product", ID: strconv.FormatInt(productID, 10)}
	}

	var variant shopify.Variant
	switch {
	case variantID != nil:
		v, ok := product.Variant(*variantID)
		if !ok {
			return &errors.ErrNotFound{Resource: "variant", ID: strconv.FormatInt(*variantID, 10)}
		}
		variant = v
	case len(product.Variants) > 0:
		variant = product.Variants[0]
	}

	meta, err := s.client.FetchProductMeta(ctx, productID)
	if err != nil {
		s.logger.Warn("Product attributes unavailable", zap.Int64("product_id", productID), zap.Error(err))
		meta = nil
	}

	sel := invoice.ProductSelection{
		ProductID: product.ID,
		Title:     variantTitle(product.Title, variant.Title),
		SKU:       variant.SKU,
		Price:     variant.Price.Decimal,
		ImageURL:  product.FirstImageURL(),
		Meta:      meta,
	}
	if variant.ID != 0 {
		vid := variant.ID
		sel.VariantID = &vid
	}
	return doc.ApplyProduct(index, sel)
}

// Edit applies one client edit to doc. Every document-level failure is a
// validation error; catalog failures keep their upstream type.
func (s *InvoiceService) Edit(ctx context.Context, doc *invoice.Document, op invoice.Operation) error {
	if op.Type == invoice.OpSelectProduct {
		if op.ProductID <= 0 {
			return &errors.ErrValidation{Message: "product_id is required", Fields: map[string]string{"product_id": "required"}}
		}
		return s.SelectProduct(ctx, doc, op.Index, op.ProductID, op.VariantID)
	}
	if err := doc.Apply(op); err != nil {
		return &errors.ErrValidation{Message: err.Error()}
	}
	return nil
}

// variantTitle joins product and variant titles as "<product> - <variant>".
// Shopify names the only variant of a simple product "Default Title".
func variantTitle(product, variant string) string {
	variant = strings.TrimSpace(variant)
	if variant == "" || variant == "Default Title" {
		return product
	}
	return product + " - " + variant
}

// PrepareImages downloads each row's product image concurrently. Rows whose
// image cannot be fetched are rendered without one.
func (s *InvoiceService) PrepareImages(ctx context.Context, doc *invoice.Document) {
	var g errgroup.Group
	g.SetLimit(maxLookups)
	for i := range doc.LineItems {
		item := &doc.LineItems[i]
		if item.ImageURL == "" || item.Image != nil {
			continue
		}
		g.Go(func() error {
			data, contentType, err := s.client.FetchImage(ctx, item.ImageURL)
			if err != nil {
				s.logger.Warn("Image download failed", zap.String("url", item.ImageURL), zap.Error(err))
				return nil
			}
			item.Image = &invoice.Image{Data: data, ContentType: contentType}
			return nil
		})
	}
	_ = g.Wait()
}

// invoiceNumbers issues INV-<unix millis> numbers that never repeat within
// the process, even for calls in the same millisecond.
type invoiceNumbers struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func newInvoiceNumbers(now func() time.Time) *invoiceNumbers {
	return &invoiceNumbers{now: now}
}

func (n *invoiceNumbers) Next() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	ms := n.now().UnixMilli()
	if ms <= n.last {
		ms = n.last + 1
	}
	n.last = ms
	return fmt.Sprintf("INV-%d", ms)
}
