package handler // handler defines http handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mensajes/internal/queue"
	queue_publisher "github.com/iliyamo/mensajes/internal/service"
)

// getUserID extracts the user_id placed in the context by the session
// middleware and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// publishActivity fires an activity event at the broker without
// blocking the request. Publish failures are logged inside the
// publisher and otherwise ignored; the feed never depends on the
// broker being up.
func publishActivity(ev queue.ActivityEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishActivity(ctx, ev)
	}()
}
