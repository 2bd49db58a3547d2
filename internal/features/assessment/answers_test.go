package assessment

import (
	"context"
	"testing"
	"time"

	"career-console/internal/backend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBridgeRoundTrip(t *testing.T) {
	fb := newFakeBackend()
	ctx := context.Background()

	first := NewBridge(fb, testUser(), "ana@example.com", "verbal", zap.NewNop())
	_, found := first.Load(ctx)
	assert.False(t, found)

	first.Save(ctx, backend.Answers{"1": "b", "q2": "d"})

	second := NewBridge(fb, testUser(), "ana@example.com", "verbal", zap.NewNop())
	got, found := second.Load(ctx)
	require.True(t, found)
	assert.Equal(t, backend.Answers{"1": "b", "q2": "d"}, got)

	fb.stored["ana@example.com/verbal"] = backend.Answers{"1": "c"}
	_, found = second.Load(ctx)
	assert.False(t, found, "answers are loaded once per mount")

	second.Clear(ctx)
	req, _ := fb.lastSave()
	assert.Empty(t, req.Answers)
	assert.Equal(t, "verbal", req.TestName)
}

func TestBridgeSwallowsFailures(t *testing.T) {
	fb := newFakeBackend()
	fb.loadErr = errStoreDown
	fb.saveErr = errStoreDown
	b := NewBridge(fb, testUser(), "ana@example.com", "verbal", zap.NewNop())

	_, found := b.Load(context.Background())
	assert.False(t, found)
	b.Save(context.Background(), backend.Answers{"1": "a"})
	<-b.Flush(backend.Answers{"1": "a"})

	assert.Len(t, fb.saves, 2, "each save is attempted once, never retried")
}

func TestBridgeFlushIsDetached(t *testing.T) {
	fb := newFakeBackend()
	b := NewBridge(fb, testUser(), "ana@example.com", "numerical", zap.NewNop())
	answers := backend.Answers{"1": "a"}

	done := b.Flush(answers)
	answers["1"] = "changed"

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("flush did not finish")
	}
	req, ok := fb.lastSave()
	require.True(t, ok)
	assert.Equal(t, "a", req.Answers["1"], "flush sends the answers as they were")
}
