package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/signal-over-noise/shopify-invoice-app/internal/domain"
	"github.com/signal-over-noise/shopify-invoice-app/internal/shopify"
	apperrors "github.com/signal-over-noise/shopify-invoice-app/pkg/errors"
)

func TestListOrders_AllMergesAndSorts(t *testing.T) {
	f := newFakeClient()
	f.orders = []shopify.Order{regularOrder(1, 1001, at(10)), regularOrder(2, 1002, at(4))}
	f.drafts = []shopify.Order{draftOrder(1, at(7)), draftOrder(2, at(1))}
	f.draftsPage = shopify.Pagination{HasNext: true, NextCursor: "d-next"}

	feed, err := NewOrderAggregator(f, zap.NewNop()).ListOrders(context.Background(), 10, "", domain.ListKindAll)
	require.NoError(t, err)
	require.Len(t, feed.Orders, 4)

	for i := 1; i < len(feed.Orders); i++ {
		assert.False(t, feed.Orders[i].CreatedAt.After(feed.Orders[i-1].CreatedAt), "not sorted at %d", i)
	}
	assert.Equal(t, at(10), feed.Orders[0].CreatedAt)
	assert.Equal(t, at(7), feed.Orders[1].CreatedAt)
	assert.Equal(t, at(4), feed.Orders[2].CreatedAt)

	for _, o := range feed.Orders {
		switch o.OrderType {
		case domain.OrderTypeDraft:
			assert.Nil(t, o.OrderNumber)
		case domain.OrderTypeRegular:
			assert.NotNil(t, o.OrderNumber)
		default:
			t.Fatalf("untagged order %d", o.ID)
		}
	}

	assert.True(t, feed.Pagination.HasNext)
	assert.False(t, feed.Pagination.HasPrevious)
	assert.Empty(t, feed.Pagination.NextCursor)
	assert.Equal(t, domain.ListKindAll, feed.Kind)
}

func TestListOrders_AllSplitsLimitAndTruncates(t *testing.T) {
	f := newFakeClient()
	for i := 0; i < 5; i++ {
		f.orders = append(f.orders, regularOrder(int64(i+1), int64(1000+i), at(20-2*i)))
		f.drafts = append(f.drafts, draftOrder(int64(i+1), at(19-2*i)))
	}

	feed, err := NewOrderAggregator(f, zap.NewNop()).ListOrders(context.Background(), 5, "", domain.ListKindAll)
	require.NoError(t, err)
	assert.Len(t, feed.Orders, 5)
	assert.ElementsMatch(t, []int{3, 3}, f.orderLimits)
	assert.Equal(t, []string{"", ""}, f.cursors)
}

func TestListOrders_AllToleratesSourceFailure(t *testing.T) {
	f := newFakeClient()
	f.orders = []shopify.Order{regularOrder(1, 1001, at(3)), regularOrder(2, 1002, at(2))}
	f.draftsErr = errUpstream

	feed, err := NewOrderAggregator(f, zap.NewNop()).ListOrders(context.Background(), 10, "", domain.ListKindAll)
	require.NoError(t, err)
	require.Len(t, feed.Orders, 2)
	for _, o := range feed.Orders {
		assert.Equal(t, domain.OrderTypeRegular, o.OrderType)
	}

	f.ordersErr = errUpstream
	feed, err = NewOrderAggregator(f, zap.NewNop()).ListOrders(context.Background(), 10, "", domain.ListKindAll)
	require.NoError(t, err)
	assert.Empty(t, feed.Orders)
	assert.NotNil(t, feed.Orders)
}

func TestListOrders_AllIgnoresCursor(t *testing.T) {
	f := newFakeClient()
	_, err := NewOrderAggregator(f, zap.NewNop()).ListOrders(context.Background(), 4, "regular:abc", domain.ListKindAll)
	require.NoError(t, err)
	assert.Equal(t, []string{"", ""}, f.cursors)
}

func TestListOrders_SingleSourcePassesPaginationThrough(t *testing.T) {
	f := newFakeClient()
	f.orders = []shopify.Order{regularOrder(1, 1001, at(3))}
	f.ordersPage = shopify.Pagination{HasNext: true, HasPrevious: true, NextCursor: "n1", PreviousCursor: "p1"}

	agg := NewOrderAggregator(f, zap.NewNop())
	feed, err := agg.ListOrders(context.Background(), 10, "regular:abc", domain.ListKindRegular)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc"}, f.cursors)
	assert.True(t, feed.Pagination.HasNext)
	assert.True(t, feed.Pagination.HasPrevious)
	assert.Equal(t, "regular:n1", feed.Pagination.NextCursor)
	assert.Equal(t, "regular:p1", feed.Pagination.PreviousCursor)
	assert.Equal(t, domain.ListKindRegular, feed.Kind)
}

func TestListOrders_RejectsForeignCursor(t *testing.T) {
	f := newFakeClient()
	_, err := NewOrderAggregator(f, zap.NewNop()).ListOrders(context.Background(), 10, "regular:abc", domain.ListKindDraft)

	var verr *apperrors.ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, f.cursors)

	_, err = NewOrderAggregator(f, zap.NewNop()).ListOrders(context.Background(), 10, "no-source", domain.ListKindDraft)
	require.ErrorAs(t, err, &verr)
}

func TestListOrders_SingleSourcePropagatesErrors(t *testing.T) {
	f := newFakeClient()
	f.draftsErr = errUpstream

	_, err := NewOrderAggregator(f, zap.NewNop()).ListOrders(context.Background(), 10, "", domain.ListKindDraft)
	var apiErr *shopify.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)
}
