package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	idempotencyKeyspace  = "idem:v1:"
	pendingSentinel      = "__pending__"
	storeTimeout         = 2 * time.Second
)

type replayRecord struct {
	Status  int               `json:"status"`
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers"`
}

// Idempotency makes unsafe HTTP methods replay-safe: the first request under
// an Idempotency-Key runs and has its response stored in Redis for ttl, later
// requests under the same key get the stored response back. A key whose first
// request is still running answers 409.
func Idempotency(cache *redis.Client, ttl time.Duration, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}

		key := c.Get(idempotencyKeyHeader)
		if key == "" {
			return fiber.NewError(fiber.StatusBadRequest, "missing Idempotency-Key header")
		}
		storeKey := idempotencyKeyspace + key

		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		prior, err := cache.Get(ctx, storeKey).Result()
		switch {
		case err == nil:
			return replay(c, key, prior, logger)
		case !errors.Is(err, redis.Nil):
			logger.Error("idempotency lookup failed", slog.String("key", key), slog.Any("error", err))
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency store failure")
		}

		if err := cache.SetNX(ctx, storeKey, pendingSentinel, ttl).Err(); err != nil {
			logger.Error("idempotency reservation failed", slog.String("key", key), slog.Any("error", err))
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency store failure")
		}

		if err := c.Next(); err != nil {
			release(cache, storeKey)
			return err
		}

		record := replayRecord{
			Status:  c.Response().StatusCode(),
			Body:    string(c.Response().Body()),
			Headers: map[string]string{},
		}
		c.Response().Header.VisitAll(func(k, v []byte) {
			record.Headers[string(k)] = string(v)
		})

		payload, err := json.Marshal(record)
		if err != nil {
			logger.Error("idempotency encode failed", slog.String("key", key), slog.Any("error", err))
			release(cache, storeKey)
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency store failure")
		}

		persistCtx, persistCancel := context.WithTimeout(context.Background(), storeTimeout)
		defer persistCancel()
		if err := cache.Set(persistCtx, storeKey, payload, ttl).Err(); err != nil {
			logger.Error("idempotency persist failed", slog.String("key", key), slog.Any("error", err))
			release(cache, storeKey)
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency store failure")
		}

		return nil
	}
}

func replay(c *fiber.Ctx, key, prior string, logger *slog.Logger) error {
	if prior == pendingSentinel {
		return fiber.NewError(fiber.StatusConflict, "duplicate request currently processing")
	}

	var record replayRecord
	if err := json.Unmarshal([]byte(prior), &record); err != nil {
		logger.Warn("idempotency decode failed", slog.String("key", key), slog.Any("error", err))
		return fiber.NewError(fiber.StatusConflict, "duplicate request")
	}

	for header, value := range record.Headers {
		if strings.EqualFold(header, fiber.HeaderContentLength) {
			continue
		}
		c.Set(header, value)
	}
	return c.Status(record.Status).SendString(record.Body)
}

// release drops the reservation so a retry can run. Best effort.
func release(cache *redis.Client, storeKey string) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	cache.Del(ctx, storeKey)
}
