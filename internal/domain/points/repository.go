package points

import "context"

// ConfigRepository manages formula parameter sets. ActivateExclusive
// must be atomic: after it returns, the given configuration is the only
// active one regardless of concurrent activations.
type ConfigRepository interface {
	Save(ctx context.Context, cfg Config) error
	ActivateExclusive(ctx context.Context, cfg Config) error
	GetActive(ctx context.Context) (Config, bool, error)
	GetByID(ctx context.Context, configID string) (Config, bool, error)
	List(ctx context.Context) ([]Config, error)
	Delete(ctx context.Context, configID string) error
}

// LedgerRepository persists collection records and points movements.
type LedgerRepository interface {
	CreateRecord(ctx context.Context, rec Record) error
	GetRecord(ctx context.Context, recordID string) (Record, bool, error)
	AppendEntry(ctx context.Context, entry LedgerEntry) error
	ListEntriesByUser(ctx context.Context, userID string, limit int) ([]LedgerEntry, error)
	SumPointsByUser(ctx context.Context, userID string) (int, error)
}
