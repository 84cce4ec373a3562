package microwave

import "time"

// Derived device status values.
const (
	StateOn  = "ON"
	StateOff = "OFF"
)

// Snapshot is the point-in-time view of the oven returned to HTTP callers and
// pushed to WebSocket observers. The JSON shape is the client contract.
type Snapshot struct {
	Power   int    `json:"power"`
	Counter int    `json:"counter"` // remaining countdown, seconds
	State   string `json:"state"`   // ON | OFF
}

// NewSnapshot derives State from the power/counter pair. State is never
// stored; it is recomputed on every read so it cannot desynchronize.
func NewSnapshot(power, counter int) Snapshot {
	state := StateOff
	if power > 0 || counter > 0 {
		state = StateOn
	}
	return Snapshot{Power: power, Counter: counter, State: state}
}

// CounterPair is the persisted countdown: a base value plus the instant it
// was committed. Remaining time is recomputed from the pair at read time;
// nothing ticks it down in the background.
type CounterPair struct {
	Value       int
	CommittedAt time.Time
}

// OvenEvent is one audit log entry for a committed mutation.
type OvenEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // POWER_INCREASE | POWER_DECREASE | COUNTER_INCREASE | COUNTER_DECREASE | CANCEL
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // don't expose hash
}
