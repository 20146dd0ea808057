package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signal-over-noise/shopify-invoice-app/internal/domain"
)

func TestInsertExportQuery(t *testing.T) {
	orderID := int64(450789469)
	orderType := domain.OrderTypeDraft
	e := &domain.InvoiceExport{
		ID:            uuid.New(),
		InvoiceNumber: "INV-1700000000000",
		OrderID:       &orderID,
		OrderType:     &orderType,
		CustomerName:  "Ada Lovelace",
		LineItemCount: 2,
		Total:         decimal.RequireFromString("225.00"),
		Currency:      "GBP",
		Filename:      "Invoice_INV_1700000000000_2024-03-01.pdf",
		ExportedBy:    "admin",
		CreatedAt:     time.Now(),
	}

	query, args, err := insertExportQuery(e)
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO invoice_exports (id,invoice_number,order_id,order_type,customer_name,customer_email,"+
			"line_item_count,total,currency,filename,exported_by,created_at) "+
			"VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)",
		query)
	require.Len(t, args, 12)
	assert.Equal(t, orderID, args[2])
	assert.Equal(t, "draft", args[3])
}

func TestInsertExportQuery_WithoutOrder(t *testing.T) {
	_, args, err := insertExportQuery(&domain.InvoiceExport{ID: uuid.New(), InvoiceNumber: "INV-1"})
	require.NoError(t, err)
	assert.Nil(t, args[2])
	assert.Nil(t, args[3])
}

func TestSelectExports(t *testing.T) {
	query, args, err := selectExports().Limit(10).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, invoice_number, order_id, order_type, customer_name, customer_email, "+
			"line_item_count, total, currency, filename, exported_by, created_at "+
			"FROM invoice_exports ORDER BY created_at DESC LIMIT 10",
		query)
	assert.Empty(t, args)

	query, args, err = selectExports().Where("order_id = ?", int64(7)).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "WHERE order_id = $1")
	assert.Equal(t, []interface{}{int64(7)}, args)
}
