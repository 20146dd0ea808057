package pdf

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/signal-over-noise/shopify-invoice-app/internal/invoice"
)

const (
	Title = "PRO FORMA INVOICE"

	AdvancePaymentNotice = "A 100% advance payment is required to confirm the order. The lead time is 14-18 weeks " +
		"from receipt of payment. Please review our terms and conditions overleaf."
	BankTransferNotice = "All the aforementioned costs are required to be settled via bank transfer. " +
		"Please find the following bank details for the GBP payment:"
)

// BankDetails is printed at the foot of every invoice
type BankDetails struct {
	BankName    string
	BankAddress string
	IBAN        string
	SWIFT       string
	AccountNo   string
	SortCode    string
}

var DefaultBankDetails = BankDetails{
	BankName:    "HSBC UK BANK PLC",
	BankAddress: "PO Box 1EZ 196 Oxford Street, London W1D 1NT, UK",
	IBAN:        "GB36 HBUK 4005 1662 7431 08",
	SWIFT:       "HBUKGB4B",
	AccountNo:   "Atelier001 Ltd",
	SortCode:    "40-05-16",
}

// A4 portrait, millimetres
const (
	pageWidth    = 210.0
	margin       = 15.0
	contentWidth = pageWidth - 2*margin
	lineHeight   = 5.0
	imageSize    = 16.0
)

// column widths of the line item table
var columns = []struct {
	header string
	width  float64
	align  string
}{
	{"Image", 20, "C"},
	{"Item", 80, "L"},
	{"Qty", 14, "C"},
	{"Price", 22, "R"},
	{"Discount", 22, "R"},
	{"Total", 22, "R"},
}

type Renderer struct {
	bank   BankDetails
	logger *zap.Logger
}

// NewRenderer creates a PDF renderer printing the default bank details
func NewRenderer(logger *zap.Logger) *Renderer {
	return &Renderer{
		bank:   DefaultBankDetails,
		logger: logger.Named("pdf"),
	}
}

// WithBankDetails returns a copy of r printing bank instead
func (r *Renderer) WithBankDetails(bank BankDetails) *Renderer {
	cp := *r
	cp.bank = bank
	return &cp
}

// Render lays out the invoice on A4 pages. Row images that fpdf cannot decode
// are skipped rather than failing the document.
func (r *Renderer) Render(doc *invoice.Document) ([]byte, error) {
	p := fpdf.New("P", "mm", "A4", "")
	p.SetMargins(margin, margin, margin)
	p.SetAutoPageBreak(true, margin+5)
	p.SetTitle(Title+" "+doc.InvoiceNumber, true)
	p.SetCreator("shopify-invoice-app", true)
	p.AliasNbPages("")

	w := &writer{pdf: p, tr: p.UnicodeTranslatorFromDescriptor(""), currency: doc.Currency}
	p.SetFooterFunc(func() {
		p.SetY(-margin)
		w.font("", 8)
		p.SetTextColor(120, 120, 120)
		p.CellFormat(0, lineHeight, w.tr(fmt.Sprintf("%s  |  Page %d/{nb}", doc.InvoiceNumber, p.PageNo())), "", 0, "C", false, 0, "")
	})
	p.AddPage()

	r.header(w, doc)
	r.parties(w, doc)
	r.lineItems(w, doc)
	r.totals(w, doc)
	r.terms(w, doc)
	r.bankDetails(w)

	if err := p.Error(); err != nil {
		return nil, fmt.Errorf("layout invoice: %w", err)
	}

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type writer struct {
	pdf      *fpdf.Fpdf
	tr       func(string) string
	currency string
}

func (w *writer) font(style string, size float64) {
	w.pdf.SetFont("Helvetica", style, size)
}

func (w *writer) text(width float64, s, align string) {
	w.pdf.CellFormat(width, lineHeight, w.tr(s), "", 0, align, false, 0, "")
}

func (w *writer) line(s string) {
	w.pdf.CellFormat(0, lineHeight, w.tr(s), "", 1, "L", false, 0, "")
}

func (w *writer) money(d decimal.Decimal) string {
	return FormatMoney(d, w.currency)
}

func (r *Renderer) header(w *writer, doc *invoice.Document) {
	p := w.pdf
	top := p.GetY()

	w.font("B", 14)
	w.text(contentWidth/2, doc.Company.Name, "L")
	w.font("B", 16)
	w.text(contentWidth/2, Title, "R")
	p.Ln(lineHeight + 3)

	w.font("", 9)
	left := []string{}
	left = append(left, addressLines(doc.Company.Address)...)
	if doc.Company.Phone != "" {
		left = append(left, "Tel: "+doc.Company.Phone)
	}
	if doc.Company.Email != "" {
		left = append(left, doc.Company.Email)
	}

	right := [][2]string{
		{"Invoice No:", doc.InvoiceNumber},
		{"Date:", doc.InvoiceDate},
	}
	if doc.OrderNumber != "" {
		right = append(right, [2]string{"Order No:", doc.OrderNumber})
	}
	if doc.OrderDate != "" {
		right = append(right, [2]string{"Order Date:", doc.OrderDate})
	}
	if doc.ClientReference != "" {
		right = append(right, [2]string{"Reference:", doc.ClientReference})
	}
	right = append(right,
		[2]string{"Delivery Terms:", doc.DeliveryTerms},
		[2]string{"Currency:", doc.Currency},
	)

	rows := len(left)
	if len(right) > rows {
		rows = len(right)
	}
	for i := 0; i < rows; i++ {
		w.font("", 9)
		if i < len(left) {
			w.text(contentWidth/2, left[i], "L")
		} else {
			w.text(contentWidth/2, "", "L")
		}
		if i < len(right) {
			w.font("B", 9)
			w.text(contentWidth/4, right[i][0], "R")
			w.font("", 9)
			w.text(contentWidth/4, right[i][1], "R")
		}
		p.Ln(lineHeight)
	}

	p.SetDrawColor(200, 200, 200)
	y := p.GetY() + 2
	if y < top {
		y = top
	}
	p.Line(margin, y, pageWidth-margin, y)
	p.SetY(y + 4)
}

func (r *Renderer) parties(w *writer, doc *invoice.Document) {
	p := w.pdf
	half := contentWidth / 2

	billTo := []string{doc.Customer.Name}
	billing := doc.BillingAddress
	if billing.IsEmpty() {
		billing = doc.Customer.Address
	}
	billTo = append(billTo, addressLines(billing)...)
	if doc.Customer.Email != "" {
		billTo = append(billTo, doc.Customer.Email)
	}
	if doc.Customer.Mobile != "" {
		billTo = append(billTo, "Mobile: "+doc.Customer.Mobile)
	}
	if doc.Customer.Telephone != "" {
		billTo = append(billTo, "Tel: "+doc.Customer.Telephone)
	}

	shipTo := []string{"Same as billing address"}
	if !doc.SameAsBilling && !doc.ShippingAddress.IsEmpty() {
		shipTo = append([]string{doc.Customer.Name}, addressLines(doc.ShippingAddress)...)
	}

	w.font("B", 10)
	w.text(half, "Bill To", "L")
	w.text(half, "Ship To", "L")
	p.Ln(lineHeight + 1)

	w.font("", 9)
	rows := len(billTo)
	if len(shipTo) > rows {
		rows = len(shipTo)
	}
	for i := 0; i < rows; i++ {
		if i < len(billTo) {
			w.text(half, billTo[i], "L")
		} else {
			w.text(half, "", "L")
		}
		if i < len(shipTo) {
			w.text(half, shipTo[i], "L")
		}
		p.Ln(lineHeight)
	}
	p.Ln(4)
}

func (r *Renderer) tableHeader(w *writer) {
	p := w.pdf
	p.SetFillColor(40, 40, 40)
	p.SetTextColor(255, 255, 255)
	w.font("B", 9)
	for _, c := range columns {
		p.CellFormat(c.width, lineHeight+2, w.tr(c.header), "", 0, c.align, true, 0, "")
	}
	p.Ln(-1)
	p.SetTextColor(0, 0, 0)
}

func (r *Renderer) lineItems(w *writer, doc *invoice.Document) {
	p := w.pdf
	r.tableHeader(w)

	_, pageHeight := p.GetPageSize()
	for i, item := range doc.LineItems {
		desc := describe(item)
		w.font("", 9)
		textLines := 0
		for _, d := range desc {
			textLines += len(p.SplitText(w.tr(d), columns[1].width-2))
		}
		rowHeight := float64(textLines)*lineHeight + 2
		if rowHeight < imageSize+2 {
			rowHeight = imageSize + 2
		}

		if p.GetY()+rowHeight > pageHeight-margin-5 {
			p.AddPage()
			r.tableHeader(w)
		}

		x, y := p.GetX(), p.GetY()
		r.rowImage(w, i, item, x, y, rowHeight)

		// description
		p.SetXY(x+columns[0].width+1, y+1)
		for j, d := range desc {
			if j == 0 {
				w.font("B", 9)
			} else {
				w.font("", 8)
			}
			p.MultiCell(columns[1].width-2, lineHeight, w.tr(d), "", "L", false)
			p.SetX(x + columns[0].width + 1)
		}

		// figures
		w.font("", 9)
		p.SetXY(x+columns[0].width+columns[1].width, y+1)
		p.CellFormat(columns[2].width, lineHeight, fmt.Sprintf("%d", item.Quantity), "", 0, columns[2].align, false, 0, "")
		p.CellFormat(columns[3].width, lineHeight, w.tr(w.money(item.Price)), "", 0, columns[3].align, false, 0, "")
		discount := ""
		if !item.Discount.IsZero() {
			discount = w.money(item.Discount)
		}
		p.CellFormat(columns[4].width, lineHeight, w.tr(discount), "", 0, columns[4].align, false, 0, "")
		p.CellFormat(columns[5].width, lineHeight, w.tr(w.money(item.Total)), "", 0, columns[5].align, false, 0, "")

		p.SetDrawColor(220, 220, 220)
		p.Line(margin, y+rowHeight, pageWidth-margin, y+rowHeight)
		p.SetXY(margin, y+rowHeight)
	}
	p.Ln(4)
}

func (r *Renderer) rowImage(w *writer, index int, item invoice.LineItem, x, y, rowHeight float64) {
	p := w.pdf
	if item.Image == nil || len(item.Image.Data) == 0 {
		w.font("", 7)
		p.SetTextColor(150, 150, 150)
		p.SetXY(x, y+rowHeight/2-lineHeight/2)
		p.CellFormat(columns[0].width, lineHeight, "No image", "", 0, "C", false, 0, "")
		p.SetTextColor(0, 0, 0)
		return
	}

	imageType, ok := ImageType(item.Image.Data)
	if !ok {
		r.logger.Warn("Unsupported image format", zap.String("line_item", item.ID), zap.String("content_type", item.Image.ContentType))
		return
	}
	name := fmt.Sprintf("item-%d-%s", index, item.ID)
	opts := fpdf.ImageOptions{ImageType: imageType}
	p.RegisterImageOptionsReader(name, opts, bytes.NewReader(item.Image.Data))
	if p.Err() {
		r.logger.Warn("Image rejected by pdf writer", zap.String("line_item", item.ID), zap.Error(p.Error()))
		p.ClearError()
		return
	}
	p.ImageOptions(name, x+(columns[0].width-imageSize)/2, y+(rowHeight-imageSize)/2, imageSize, imageSize, false, opts, 0, "")
}

// ImageType sniffs image data and returns the fpdf image type for it
func ImageType(data []byte) (string, bool) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", false
	}
	switch format {
	case "jpeg":
		return "JPG", true
	case "png":
		return "PNG", true
	case "gif":
		return "GIF", true
	}
	return "", false
}

// describe returns the row's title followed by its attribute lines
func describe(item invoice.LineItem) []string {
	title := item.Title
	if strings.TrimSpace(title) == "" {
		title = "-"
	}
	out := []string{title}
	if item.SKU != "" {
		out = append(out, "SKU: "+item.SKU)
	}
	if dims := item.Dimensions(); dims != "" {
		out = append(out, "Dimensions: "+dims)
	}

	keys := make([]string, 0, len(item.Meta))
	for k := range item.Meta {
		if k != "dimensions" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, label(k)+": "+item.Meta[k])
	}
	return out
}

// label turns a metafield key such as "lamp_finish" into "Lamp Finish"
func label(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' })
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func (r *Renderer) totals(w *writer, doc *invoice.Document) {
	p := w.pdf
	labelWidth := 40.0
	valueWidth := 30.0
	x := pageWidth - margin - labelWidth - valueWidth

	row := func(name string, v decimal.Decimal, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		w.font(style, 10)
		p.SetX(x)
		w.text(labelWidth, name, "R")
		w.text(valueWidth, w.money(v), "R")
		p.Ln(lineHeight + 1)
	}

	row("Subtotal:", doc.Subtotal, false)
	if !doc.DiscountAmount.IsZero() {
		row("Discount:", doc.DiscountAmount.Neg(), false)
	}
	if !doc.TaxAmount.IsZero() {
		row("Tax:", doc.TaxAmount, false)
	}
	if !doc.ShippingCost.IsZero() {
		row("Shipping:", doc.ShippingCost, false)
	}
	p.SetDrawColor(40, 40, 40)
	p.Line(x, p.GetY(), pageWidth-margin, p.GetY())
	p.Ln(1)
	row("Total:", doc.Total, true)
	p.Ln(4)
}

func (r *Renderer) terms(w *writer, doc *invoice.Document) {
	p := w.pdf

	w.font("B", 10)
	w.line("Delivery Terms")
	w.font("", 9)
	p.MultiCell(0, lineHeight, w.tr(doc.DeliveryTerms), "", "L", false)
	p.Ln(2)

	w.font("B", 10)
	w.line("Terms & Conditions")
	w.font("", 9)
	p.MultiCell(0, lineHeight, w.tr(doc.Terms), "", "L", false)
	if strings.TrimSpace(doc.Notes) != "" {
		p.Ln(2)
		p.MultiCell(0, lineHeight, w.tr(doc.Notes), "", "L", false)
	}
	p.Ln(3)

	p.MultiCell(0, lineHeight, w.tr(AdvancePaymentNotice), "", "L", false)
	p.Ln(2)
	p.MultiCell(0, lineHeight, w.tr(BankTransferNotice), "", "L", false)
	p.Ln(2)
}

func (r *Renderer) bankDetails(w *writer) {
	p := w.pdf
	rows := [][2]string{
		{"BANK NAME", r.bank.BankName},
		{"BANK ADDRESS", r.bank.BankAddress},
		{"IBAN", r.bank.IBAN},
		{"SWIFT", r.bank.SWIFT},
		{"ACCOUNT NO", r.bank.AccountNo},
		{"SORT CODE", r.bank.SortCode},
	}
	p.SetDrawColor(200, 200, 200)
	for _, row := range rows {
		w.font("B", 9)
		p.CellFormat(40, lineHeight+1, w.tr(row[0]), "1", 0, "L", false, 0, "")
		w.font("", 9)
		p.CellFormat(contentWidth-40, lineHeight+1, w.tr(row[1]), "1", 1, "L", false, 0, "")
	}
}

func addressLines(a invoice.Address) []string {
	var out []string
	for _, s := range []string{a.Line1, a.Line2} {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	cityLine := strings.TrimSpace(strings.Join(nonEmpty(a.City, a.State, a.Zip), ", "))
	if cityLine != "" {
		out = append(out, cityLine)
	}
	if strings.TrimSpace(a.Country) != "" {
		out = append(out, a.Country)
	}
	return out
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

var currencySymbols = map[string]string{
	"GBP": "£",
	"EUR": "€",
	"USD": "$",
}

// FormatMoney renders d with two decimals, thousands separators and the
// currency symbol (or code when no symbol is known).
func FormatMoney(d decimal.Decimal, currency string) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	amount := b.String() + "." + frac

	prefix := currency + " "
	if sym, ok := currencySymbols[strings.ToUpper(currency)]; ok {
		prefix = sym
	} else if currency == "" {
		prefix = ""
	}
	if neg {
		return "-" + prefix + amount
	}
	return prefix + amount
}
