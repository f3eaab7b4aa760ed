package points

import "time"

// Config is a points formula parameter set. Exactly one configuration
// is active at a time; completed collections are awarded against the
// snapshot that was active when they were processed.
type Config struct {
	ID               string
	Description      string
	BasePoints       float64
	WeightFactor     float64
	SeparationFactor float64
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Record captures the physical outcome of a completed collection.
type Record struct {
	ID          string
	RequestID   string
	CompanyID   string
	WeightKg    float64
	Separated   bool
	Points      int
	CollectedAt time.Time
}

// LedgerEntry is one points movement for a user. Totals are always the
// sum of a user's entries, never a stored counter.
type LedgerEntry struct {
	ID        string
	UserID    string
	RecordID  string
	Points    int
	Reason    string
	CreatedAt time.Time
}
