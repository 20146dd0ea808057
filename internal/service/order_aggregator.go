package service

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/signal-over-noise/shopify-invoice-app/internal/domain"
	"github.com/signal-over-noise/shopify-invoice-app/internal/shopify"
	apperrors "github.com/signal-over-noise/shopify-invoice-app/pkg/errors"
)

const DefaultOrderLimit = 25

// OrderFeed is one page of the combined order list. In "all" mode the
// pagination flags are advisory and carry no cursors: Shopify cursors belong to
// one resource and cannot page the merged view.
type OrderFeed struct {
	Orders     []shopify.Order    `json:"orders"`
	Pagination shopify.Pagination `json:"pagination"`
	Kind       domain.ListKind    `json:"orderType"`
}

type OrderAggregator struct {
	source OrderSource
	logger *zap.Logger
}

// NewOrderAggregator creates the combined order feed over source
func NewOrderAggregator(source OrderSource, logger *zap.Logger) *OrderAggregator {
	return &OrderAggregator{
		source: source,
		logger: logger.Named("orders"),
	}
}

// ListOrders returns one page of orders of the given kind. Cursors are the
// source-tagged tokens of a previous feed; replaying one against the other
// source is a validation error.
func (a *OrderAggregator) ListOrders(ctx context.Context, limit int, cursor string, kind domain.ListKind) (*OrderFeed, error) {
	if limit <= 0 {
		limit = DefaultOrderLimit
	}
	if limit > shopify.MaxPageSize {
		limit = shopify.MaxPageSize
	}

	c, err := domain.ParseCursor(cursor)
	if err != nil {
		return nil, &apperrors.ErrValidation{Message: err.Error(), Fields: map[string]string{"page_info": "invalid"}}
	}

	switch kind {
	case domain.ListKindRegular:
		return a.listOne(ctx, domain.OrderTypeRegular, limit, c)
	case domain.ListKindDraft:
		return a.listOne(ctx, domain.OrderTypeDraft, limit, c)
	case domain.ListKindAll, "":
		if c.PageInfo != "" {
			a.logger.Warn("Cursor ignored for combined order list", zap.String("cursor", cursor))
		}
		return a.listAll(ctx, limit), nil
	default:
		return nil, &apperrors.ErrValidation{Message: "unknown order type", Fields: map[string]string{"type": string(kind)}}
	}
}

func (a *OrderAggregator) listOne(ctx context.Context, source domain.OrderType, limit int, c domain.Cursor) (*OrderFeed, error) {
	pageInfo, err := c.For(source)
	if err != nil {
		if errors.Is(err, domain.ErrCursorSourceMismatch) {
			return nil, &apperrors.ErrValidation{Message: err.Error(), Fields: map[string]string{"page_info": "wrong source"}}
		}
		return nil, err
	}

	var page *shopify.OrderPage
	if source == domain.OrderTypeDraft {
		page, err = a.source.FetchDraftOrders(ctx, limit, pageInfo)
	} else {
		page, err = a.source.FetchOrders(ctx, limit, "any", pageInfo)
	}
	if err != nil {
		return nil, err
	}

	kind := domain.ListKindRegular
	if source == domain.OrderTypeDraft {
		kind = domain.ListKindDraft
	}
	return &OrderFeed{
		Orders:     page.Orders,
		Pagination: tagPagination(page.Pagination, source),
		Kind:       kind,
	}, nil
}

func tagPagination(p shopify.Pagination, source domain.OrderType) shopify.Pagination {
	p.NextCursor = domain.Cursor{Source: source, PageInfo: p.NextCursor}.String()
	p.PreviousCursor = domain.Cursor{Source: source, PageInfo: p.PreviousCursor}.String()
	return p
}

// listAll reads the first page of both sources concurrently, ceil(limit/2)
// each. A failing source contributes nothing; the call itself never fails.
func (a *OrderAggregator) listAll(ctx context.Context, limit int) *OrderFeed {
	perSource := (limit + 1) / 2
	pages := make([]*shopify.OrderPage, 2)

	var g errgroup.Group
	g.Go(func() error {
		page, err := a.source.FetchOrders(ctx, perSource, "any", "")
		if err != nil {
			a.logger.Warn("Regular orders unavailable, continuing with drafts only", zap.Error(err))
			return nil
		}
		pages[0] = page
		return nil
	})
	g.Go(func() error {
		page, err := a.source.FetchDraftOrders(ctx, perSource, "")
		if err != nil {
			a.logger.Warn("Draft orders unavailable, continuing with regular orders only", zap.Error(err))
			return nil
		}
		pages[1] = page
		return nil
	})
	_ = g.Wait()

	orders := make([]shopify.Order, 0, 2*perSource)
	var pagination shopify.Pagination
	for _, page := range pages {
		if page == nil {
			continue
		}
		orders = append(orders, page.Orders...)
		pagination.HasNext = pagination.HasNext || page.Pagination.HasNext
		pagination.HasPrevious = pagination.HasPrevious || page.Pagination.HasPrevious
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	if len(orders) > limit {
		orders = orders[:limit]
	}

	return &OrderFeed{Orders: orders, Pagination: pagination, Kind: domain.ListKindAll}
}
