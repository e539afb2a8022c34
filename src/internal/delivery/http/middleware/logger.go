package middleware

import (
	"fmt"
	"strconv"
	"time"

	"wallet-service/src/pkg/log"
	"wallet-service/src/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

const slowRequest = 2 * time.Second

// NewLogger logs every request and records the http metrics. The route
// pattern is used as the path label to keep cardinality bounded.
func NewLogger(logger log.Log) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()
		if err != nil {
			if handlerErr := ctx.App().ErrorHandler(ctx, err); handlerErr != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError)
			}
		}

		elapsed := time.Since(start)
		status := ctx.Response().StatusCode()
		path := ctx.Route().Path
		method := ctx.Method()

		metrics.HttpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		metrics.ResponseTimeHistogram.WithLabelValues(method, path).Observe(elapsed.Seconds())

		meta := fmt.Sprintf("%s %s %d %s", method, ctx.OriginalURL(), status, elapsed)
		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error("http", "request failed", path, meta)
		case elapsed > slowRequest:
			logger.Slow("http", "slow request", path, meta)
		default:
			logger.Info("http", "request", path, meta)
		}
		return nil
	}
}
