package domain

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentValid(t *testing.T) {
	assert.True(t, Segment{From: 1, To: 2}.Valid())
	assert.False(t, Segment{From: 2, To: 2}.Valid())
	assert.False(t, Segment{From: 3, To: 1}.Valid())
}

func TestSegmentOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Segment
		want bool
	}{
		{"identical", Segment{1, 3}, Segment{1, 3}, true},
		{"nested", Segment{1, 5}, Segment{2, 3}, true},
		{"partial", Segment{1, 3}, Segment{2, 5}, true},
		{"adjacent", Segment{1, 3}, Segment{3, 5}, false},
		{"disjoint", Segment{1, 2}, Segment{4, 5}, false},
		{"one hop shared", Segment{1, 4}, Segment{3, 6}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			// overlap is symmetric
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestSegmentHops(t *testing.T) {
	assert.Equal(t, 4, Segment{From: 1, To: 5}.Hops())
	assert.Equal(t, 1, Segment{From: 2, To: 3}.Hops())
}

func TestSeatHoldActiveAt(t *testing.T) {
	now := time.Now()

	h := SeatHold{Status: HoldActive, ExpiresAt: now.Add(time.Minute)}
	assert.True(t, h.ActiveAt(now))
	assert.False(t, h.ActiveAt(now.Add(2*time.Minute)))

	h.Status = HoldExpired
	assert.False(t, h.ActiveAt(now))
}

func TestTicketQR(t *testing.T) {
	id := uuid.New()

	qr := TicketQR(id, 7, "12A", Segment{From: 1, To: 3})

	raw, err := base64.RawURLEncoding.DecodeString(qr)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "BR2|")
	assert.Contains(t, string(raw), id.String())
	assert.Contains(t, string(raw), "12A")
	assert.Contains(t, string(raw), "1-3")
}
