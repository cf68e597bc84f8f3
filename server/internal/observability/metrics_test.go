package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("chat")
	m.RecordRequest("chat")
	m.RecordFailure("chat")
	m.RecordDuration("chat", 100*time.Millisecond)
	m.RecordDuration("chat", 300*time.Millisecond)
	m.RecordRequest("restaurants")

	snapshot := m.Snapshot()
	assert.Equal(t, int64(3), snapshot.RequestTotal)
	assert.Equal(t, int64(1), snapshot.RequestFailed)
	assert.InDelta(t, 66.6, snapshot.SuccessRate(), 0.1)

	chat := snapshot.Components["chat"]
	assert.Equal(t, int64(2), chat.RequestCount)
	assert.Equal(t, int64(1), chat.ErrorCount)
	assert.Equal(t, int64(200), chat.AverageDurationMs)

	m.Reset()
	assert.Equal(t, int64(0), m.Snapshot().RequestTotal)
	assert.Equal(t, 100.0, m.Snapshot().SuccessRate())
}
