package telemetry

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Conventional history labels.
const (
	LabelOriginal  = "original"
	LabelProcessed = "processed"
)

// Entry is one recorded analysis.
type Entry struct {
	// ID identifies the analysis call that produced the entry.
	ID string `json:"id"`

	// Seq is the 1-based position in the history.
	Seq int `json:"seq"`

	// Label names the image state: "original", "processed" or "revision-N".
	Label string `json:"label"`

	// Source is the path or name the image was loaded from.
	Source string `json:"source"`

	RecordedAt time.Time  `json:"recorded_at"`
	Telemetry  *Telemetry `json:"telemetry"`
}

// History is an append-only log of analysis results.
//
// Entries are never modified or removed once appended. History is safe for
// concurrent use by multiple goroutines.
type History struct {
	mu      sync.RWMutex
	entries []Entry
	byID    map[string]int

	now   func() time.Time
	newID func() string
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{
		byID:  make(map[string]int),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Append records t under label and returns the stored entry. An empty label
// becomes "revision-N" where N is the entry's sequence number.
func (h *History) Append(label, source string, t *Telemetry) Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	seq := len(h.entries) + 1
	if label == "" {
		label = fmt.Sprintf("revision-%d", seq)
	}

	e := Entry{
		ID:         h.newID(),
		Seq:        seq,
		Label:      label,
		Source:     source,
		RecordedAt: h.now(),
		Telemetry:  t,
	}
	h.entries = append(h.entries, e)
	h.byID[e.ID] = len(h.entries) - 1
	return e
}

// Entries returns a snapshot of all entries in append order.
func (h *History) Entries() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Latest returns the most recent entry with label. An empty label matches
// any entry.
func (h *History) Latest(label string) (Entry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for i := len(h.entries) - 1; i >= 0; i-- {
		if label == "" || h.entries[i].Label == label {
			return h.entries[i], true
		}
	}
	return Entry{}, false
}

// Get returns the entry with the given ID.
func (h *History) Get(id string) (Entry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	i, ok := h.byID[id]
	if !ok {
		return Entry{}, false
	}
	return h.entries[i], true
}
