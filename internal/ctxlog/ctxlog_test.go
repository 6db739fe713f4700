// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)

	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))

	FromContext(ctx).Info("rendered", "pages", 3)
	assert.Contains(t, buf.String(), "pages=3")
}

func TestFromContext_Default(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestNew_Verbose(t *testing.T) {
	var quiet, loud bytes.Buffer

	New(&quiet, false).Debug("hidden")
	New(&loud, true).Debug("shown")

	assert.Empty(t, quiet.String())
	assert.Contains(t, loud.String(), "shown")
}
