package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", GetRequestID(ctx))
}

func TestWithTaskID(t *testing.T) {
	ctx := WithTaskID(context.Background(), "task-456")
	assert.Equal(t, "task-456", GetTaskID(ctx))
}

func TestContextIDs_NotPresent(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetTaskID(ctx))
}

func TestContextIDs_Both(t *testing.T) {
	ctx := WithTaskID(WithRequestID(context.Background(), "req-1"), "task-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "task-1", GetTaskID(ctx))
}
