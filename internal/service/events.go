package service

import (
	"context"

	"tradebook/internal/model"

	"github.com/rs/zerolog/log"
)

type OrderEventType string

const (
	OrderCommitted OrderEventType = "order.committed"
	OrderRevised   OrderEventType = "order.revised"
	OrderCancelled OrderEventType = "order.cancelled"
)

// OrderEvent tells downstream projections which order changed and which
// products had their quantity moved.
type OrderEvent struct {
	Type       OrderEventType    `json:"type"`
	OrderID    model.OrderID     `json:"order_id"`
	ProductIDs []model.ProductID `json:"product_ids"`
}

// OrderEvents receives notifications after a unit of work has committed.
// Publishing is best effort and never affects the committed data.
type OrderEvents interface {
	Publish(ctx context.Context, ev OrderEvent) error
}

func publish(ctx context.Context, events OrderEvents, ev OrderEvent) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).Str("type", string(ev.Type)).Uint("order_id", uint(ev.OrderID)).Msg("order event not published")
	}
}

func productIDsOf(lines ...[]model.OrderLine) []model.ProductID {
	seen := map[model.ProductID]bool{}
	var ids []model.ProductID
	for _, set := range lines {
		for _, l := range set {
			if !seen[l.ProductID] {
				seen[l.ProductID] = true
				ids = append(ids, l.ProductID)
			}
		}
	}
	return ids
}
