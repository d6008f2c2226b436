package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsHelpers(t *testing.T) {
	// helpers must be callable without any setup
	MessageReceived("text")
	MessageDeduped()
	IntentClassified("update_price")
	ReplySent("ok")
	CommerceOp("update_price", "ok")
	ObserveModelRequest(120 * time.Millisecond)

	assert.NotNil(t, Handler())
}

func TestDisabledTracer(t *testing.T) {
	tracer, err := NewTracer(&TracerConfig{ServiceName: "test", Enabled: false})
	require.NoError(t, err)

	ctx, span := tracer.StartMessageSpan(context.Background(), "wamid.1")
	assert.NotNil(t, ctx)
	assert.NotNil(t, span)
	span.End()

	assert.NoError(t, tracer.Shutdown(context.Background()))
}
