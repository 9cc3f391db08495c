package event

import (
	"strconv"

	"github.com/wippyai/hotreload/errors"
)

// Event is an abstract gamepad or console event.
type Event uint8

// Input events come in pressed/released pairs; TurnOff is the only system event.
const (
	LeftPressed Event = iota
	LeftReleased
	RightPressed
	RightReleased
	UpPressed
	UpReleased
	DownPressed
	DownReleased
	SelectPressed
	SelectReleased
	StartPressed
	StartReleased
	Button1Pressed
	Button1Released
	Button2Pressed
	Button2Released
	TurnOff
)

// Max is the largest valid event ordinal.
const Max = TurnOff

var names = [...]string{
	LeftPressed:     "left_pressed",
	LeftReleased:    "left_released",
	RightPressed:    "right_pressed",
	RightReleased:   "right_released",
	UpPressed:       "up_pressed",
	UpReleased:      "up_released",
	DownPressed:     "down_pressed",
	DownReleased:    "down_released",
	SelectPressed:   "select_pressed",
	SelectReleased:  "select_released",
	StartPressed:    "start_pressed",
	StartReleased:   "start_released",
	Button1Pressed:  "button1_pressed",
	Button1Released: "button1_released",
	Button2Pressed:  "button2_pressed",
	Button2Released: "button2_released",
	TurnOff:         "turn_off",
}

var byName = func() map[string]Event {
	m := make(map[string]Event, len(names))
	for i, n := range names {
		m[n] = Event(i)
	}
	return m
}()

// Valid reports whether e is within the known ordinal range.
func (e Event) Valid() bool {
	return e <= Max
}

// Name returns the display name of e, or an invalid_event error when e is
// out of range.
func (e Event) Name() (string, error) {
	if !e.Valid() {
		return "", errors.InvalidEvent(uint32(e), uint32(Max))
	}
	return names[e], nil
}

// String implements fmt.Stringer. Invalid ordinals render as "event(N)" so
// they remain visible in diagnostics; use Name to detect them.
func (e Event) String() string {
	name, err := e.Name()
	if err != nil {
		return "event(" + strconv.Itoa(int(e)) + ")"
	}
	return name
}

// IsPress reports whether e is one of the *_pressed events.
func (e Event) IsPress() bool {
	return e < TurnOff && e%2 == 0
}

// IsRelease reports whether e is one of the *_released events.
func (e Event) IsRelease() bool {
	return e < TurnOff && e%2 == 1
}

// FromOrdinal converts a raw ordinal, for example one received across the
// module boundary, into an Event.
func FromOrdinal(ordinal uint32) (Event, error) {
	if ordinal > uint32(Max) {
		return 0, errors.InvalidEvent(ordinal, uint32(Max))
	}
	return Event(ordinal), nil
}

// Parse maps a display name back to its event.
func Parse(name string) (Event, error) {
	e, ok := byName[name]
	if !ok {
		return 0, errors.UnknownEventName(name)
	}
	return e, nil
}

// All returns every valid event in ordinal order.
func All() []Event {
	all := make([]Event, 0, len(names))
	for i := range names {
		all = append(all, Event(i))
	}
	return all
}
