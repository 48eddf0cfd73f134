package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"tradebook/internal/dto"
	"tradebook/internal/model"
	"tradebook/internal/service"

	"github.com/rs/zerolog/log"
)

// LowStockFinder looks up, in one book, which of the given products are at
// or below their reorder threshold. ok is false when the book is not open.
type LowStockFinder interface {
	LowStock(ctx context.Context, book string, ids []model.ProductID) (low []dto.ProductResponse, ok bool, err error)
}

// StockAlertWorker reacts to order events by warning about every product
// the order moved that is now at or below its reorder threshold. Negative
// quantities are backorders and are reported as such.
type StockAlertWorker struct {
	finder LowStockFinder
	mailer AlertMailer
	to     string
}

// AlertMailer delivers one plain-text notice. infra.Mailer satisfies it.
type AlertMailer interface {
	Send(to, subject, body string) error
}

func NewStockAlertWorker(finder LowStockFinder) *StockAlertWorker {
	return &StockAlertWorker{finder: finder}
}

// WithMail also mails every alert to `to`. The log lines are written
// either way, so a failed delivery loses nothing.
func (w *StockAlertWorker) WithMail(m AlertMailer, to string) *StockAlertWorker {
	w.mailer = m
	w.to = to
	return w
}

func (w *StockAlertWorker) Handle(ctx context.Context, job Job) error {
	var ev service.OrderEvent
	if err := json.Unmarshal(job.Payload, &ev); err != nil {
		return fmt.Errorf("decode order event: %w", err)
	}

	low, ok, err := w.finder.LowStock(ctx, job.Book, ev.ProductIDs)
	if err != nil {
		return err
	}
	if !ok {
		// The book was switched before the job ran; it is checked again on
		// its next order.
		log.Debug().Str("book", job.Book).Str("job_id", job.ID).Msg("stock_alert: book not open, skipping")
		return nil
	}

	for _, p := range low {
		entry := log.Warn().
			Str("book", job.Book).
			Uint("order_id", uint(ev.OrderID)).
			Uint("product_id", uint(p.ID)).
			Str("product", p.Name).
			Int("quantity", p.Quantity).
			Int("reorder_threshold", p.ReorderThreshold)
		if p.Quantity < 0 {
			entry.Msg("stock_alert: product backordered")
		} else {
			entry.Msg("stock_alert: product at or below reorder threshold")
		}
	}

	if w.mailer != nil && len(low) > 0 {
		subject, body := alertMail(job.Book, ev, low)
		if err := w.mailer.Send(w.to, subject, body); err != nil {
			log.Error().Err(err).Str("book", job.Book).Str("job_id", job.ID).Msg("stock_alert: mail not sent")
		}
	}
	return nil
}

func alertMail(book string, ev service.OrderEvent, low []dto.ProductResponse) (subject, body string) {
	subject = fmt.Sprintf("[%s] %d product(s) need restocking", book, len(low))

	var b strings.Builder
	fmt.Fprintf(&b, "After order %d (%s) in book %s:\n\n", ev.OrderID, ev.Type, book)
	for _, p := range low {
		state := "low"
		if p.Quantity < 0 {
			state = "BACKORDERED"
		}
		fmt.Fprintf(&b, "  %-11s %s: %d in stock, reorder at %d\n", state, p.Name, p.Quantity, p.ReorderThreshold)
	}
	return subject, b.String()
}
