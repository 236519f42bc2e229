package analytics

import (
	"testing"
)

func TestTrackDropsWhenBufferFull(t *testing.T) {
	drops := 0
	c := NewCollector(nil, 1, func() { drops++ })
	// The publish loop is not started, so the buffer never drains.
	c.Track(sampleEvent([]string{"budget"}, 1))
	c.Track(sampleEvent([]string{"team"}, 1))
	c.Track(sampleEvent([]string{"roadmap"}, 1))

	if drops != 2 {
		t.Errorf("expected 2 dropped events, got %d", drops)
	}
}

func TestTrackNilOnDrop(t *testing.T) {
	c := NewCollector(nil, 1, nil)
	c.Track(sampleEvent([]string{"budget"}, 1))
	// Must not panic when dropping without a hook.
	c.Track(sampleEvent([]string{"team"}, 1))
}
