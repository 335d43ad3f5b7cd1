package ctxlog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vk/haspcfg/internal/ctxlog"
)

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := ctxlog.WithLogger(context.Background(), logger)
	assert.Same(t, logger, ctxlog.FromContext(ctx))
	assert.Same(t, slog.Default(), ctxlog.FromContext(context.Background()))
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	ctxlog.FromContext(ctxlog.With(ctx, "device", "plate")).Info("Rendered.")
	assert.Contains(t, buf.String(), "device=plate")
	assert.Contains(t, buf.String(), "msg=Rendered.")
}
