package event

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/hotreload/errors"
)

func TestName_TotalAndInjective(t *testing.T) {
	seen := make(map[string]Event)
	for _, e := range All() {
		name, err := e.Name()
		require.NoError(t, err, "event %d", e)
		require.NotEmpty(t, name)

		prev, dup := seen[name]
		assert.False(t, dup, "events %d and %d share name %q", prev, e, name)
		seen[name] = e
	}
	assert.Len(t, seen, int(Max)+1)
}

func TestName_OutOfRange(t *testing.T) {
	for _, ordinal := range []Event{Max + 1, 42, 255} {
		t.Run(fmt.Sprint(uint8(ordinal)), func(t *testing.T) {
			name, err := ordinal.Name()
			require.Error(t, err)
			assert.Empty(t, name)
			assert.ErrorIs(t, err, errors.ErrInvalidEvent)
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "turn_off", TurnOff.String())
	assert.Equal(t, "event(200)", Event(200).String())
}

func TestParse_RoundTrip(t *testing.T) {
	for _, e := range All() {
		got, err := Parse(e.String())
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}

	_, err := Parse("jump_pressed")
	assert.ErrorIs(t, err, errors.ErrInvalidEvent)
}

func TestFromOrdinal(t *testing.T) {
	e, err := FromOrdinal(10)
	require.NoError(t, err)
	assert.Equal(t, StartPressed, e)

	_, err = FromOrdinal(uint32(Max) + 1)
	assert.ErrorIs(t, err, errors.ErrInvalidEvent)

	_, err = FromOrdinal(1 << 20)
	assert.ErrorIs(t, err, errors.ErrInvalidEvent)
}

func TestPressRelease(t *testing.T) {
	tests := []struct {
		e       Event
		press   bool
		release bool
	}{
		{LeftPressed, true, false},
		{LeftReleased, false, true},
		{Button2Pressed, true, false},
		{Button2Released, false, true},
		{TurnOff, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.e.String(), func(t *testing.T) {
			assert.Equal(t, tt.press, tt.e.IsPress())
			assert.Equal(t, tt.release, tt.e.IsRelease())
		})
	}
}

// TestEventTable pins ordinals to names; ordinals are part of the module ABI.
func TestEventTable(t *testing.T) {
	var b strings.Builder
	for _, e := range All() {
		fmt.Fprintf(&b, "%2d %s\n", uint8(e), e)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "event_table", []byte(b.String()))
}
