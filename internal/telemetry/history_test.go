package telemetry

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedHistory() *History {
	h := NewHistory()
	n := 0
	h.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	h.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return h
}

func TestHistory_Append(t *testing.T) {
	h := fixedHistory()
	tel := &Telemetry{GradingScore: 50}

	e1 := h.Append(LabelOriginal, "a.nef", tel)
	e2 := h.Append("", "a.nef", tel)
	e3 := h.Append(LabelProcessed, "a.jpg", tel)

	assert.Equal(t, Entry{ID: "id-1", Seq: 1, Label: "original", Source: "a.nef", RecordedAt: h.now(), Telemetry: tel}, e1)
	assert.Equal(t, "revision-2", e2.Label)
	assert.Equal(t, 3, e3.Seq)
	assert.Equal(t, 3, h.Len())
}

func TestHistory_EntriesIsSnapshot(t *testing.T) {
	h := fixedHistory()
	h.Append(LabelOriginal, "a", nil)

	entries := h.Entries()
	entries[0].Label = "mutated"
	h.Append(LabelProcessed, "b", nil)

	got := h.Entries()
	require.Len(t, got, 2)
	assert.Equal(t, LabelOriginal, got[0].Label)
	assert.Len(t, entries, 1)
}

func TestHistory_LatestAndGet(t *testing.T) {
	h := fixedHistory()
	h.Append(LabelOriginal, "a", nil)
	h.Append(LabelProcessed, "b", nil)
	h.Append(LabelProcessed, "c", nil)

	e, ok := h.Latest(LabelProcessed)
	require.True(t, ok)
	assert.Equal(t, "c", e.Source)

	e, ok = h.Latest("")
	require.True(t, ok)
	assert.Equal(t, 3, e.Seq)

	_, ok = h.Latest("revision-9")
	assert.False(t, ok)

	e, ok = h.Get("id-2")
	require.True(t, ok)
	assert.Equal(t, "b", e.Source)

	_, ok = h.Get("missing")
	assert.False(t, ok)
}

func TestHistory_UniqueIDs(t *testing.T) {
	h := NewHistory()
	a := h.Append("", "x", nil)
	b := h.Append("", "x", nil)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, a.ID, 36)
}

func TestHistory_ConcurrentAppend(t *testing.T) {
	h := NewHistory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Append("", "x", nil)
		}()
	}
	wg.Wait()

	entries := h.Entries()
	require.Len(t, entries, 50)
	for i, e := range entries {
		assert.Equal(t, i+1, e.Seq)
		got, ok := h.Get(e.ID)
		assert.True(t, ok)
		assert.Equal(t, e.Seq, got.Seq)
	}
}
