package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStartSpan_NoParentStaysNonRecording(t *testing.T) {
	ctx := context.Background()

	got, span := startSpan(ctx, "LeagueSyncService.SyncLeague")
	defer span.End()

	assert.False(t, span.IsRecording())
	assert.Equal(t, ctx, got)
}

func TestFailSpan_ReturnsSameError(t *testing.T) {
	_, span := startSpan(context.Background(), "TeamIdentityService.Merge")
	want := errors.New("duplicate team still referenced")

	assert.Same(t, want, failSpan(span, want))
	assert.NoError(t, failSpan(span, nil))
}
