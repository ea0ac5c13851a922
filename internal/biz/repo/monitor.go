package repo

import (
	"context"

	"github.com/rfrbot/roles-for-reactions/internal/biz/domain"
)

// MonitorRepo is the durable monitor record interface.
// Save is a full serialize-and-overwrite of the backing record, never an
// append; callers pass the complete collection every time.
type MonitorRepo interface {
	// Load reads the full record. A missing backing store yields an empty
	// sequence and no error; an unreadable or unparseable one yields a
	// domain.StorageError.
	Load(ctx context.Context) ([]domain.Monitor, error)

	// Save rewrites the full record
	Save(ctx context.Context, monitors []domain.Monitor) error

	// Close releases the backing store
	Close() error
}
