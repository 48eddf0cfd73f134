package handler

import (
	"context"
	"net/http"
	"time"

	"tradebook/internal/book"
	"tradebook/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Health reports the open book's storage and, when configured, the
// notification queue. rdb may be nil.
func Health(books *book.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		err := books.With(ctx, func(ctx context.Context, s *book.Session) error {
			sqlDB, err := s.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		})
		if err != nil {
			dbStatus = "error"
		}

		body := gin.H{"book": books.Current(), "db": dbStatus}
		status := http.StatusOK
		if dbStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		if rdb == nil {
			body["redis"] = "disabled"
		} else if rdb.Ping(ctx).Err() != nil {
			// Notifications are best effort; a down queue does not make the
			// service unhealthy.
			body["redis"] = "error"
		} else {
			body["redis"] = "connected"
			if n, err := worker.DLQLength(ctx, rdb, worker.QueueOrders); err == nil {
				body["dlq_orders"] = n
			}
		}

		body["ok"] = status == http.StatusOK
		c.JSON(status, body)
	}
}
