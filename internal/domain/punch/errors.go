package punch

import "errors"

// Punch ledger errors
var (
	// ErrSamePunchTwice rejects two consecutive punches of the same
	// kind for one user ("cannot punch IN twice in a row").
	ErrSamePunchTwice = errors.New("cannot record the same punch kind twice in a row")

	ErrPunchNotFound = errors.New("punch not found")
)
