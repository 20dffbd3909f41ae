package punch

import "time"

type Kind string

const (
	KindIn  Kind = "IN"
	KindOut Kind = "OUT"
)

var KindValues = []string{
	string(KindIn),
	string(KindOut),
}

// Punch is a single clock event. Punches are append-only: never mutated,
// never deleted in normal operation. The ordering key is
// (timestamp desc, id desc) so simultaneous punches resolve
// deterministically.
type Punch struct {
	ID        string
	UserID    string
	Kind      Kind
	Timestamp time.Time
	CreatedAt time.Time
}
