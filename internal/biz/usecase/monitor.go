package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/rfrbot/roles-for-reactions/internal/biz/domain"
	"github.com/rfrbot/roles-for-reactions/internal/biz/repo"
)

// MonitorUsecase owns the in-memory monitor store. It is loaded once at
// startup and mutated only by interview completion and the admin retire
// operation; every mutation is followed by a synchronous full save.
type MonitorUsecase struct {
	repo repo.MonitorRepo

	mu       sync.Mutex
	monitors []domain.Monitor
}

// NewMonitorUsecase creates a monitor usecase
func NewMonitorUsecase(monitorRepo repo.MonitorRepo) *MonitorUsecase {
	return &MonitorUsecase{repo: monitorRepo}
}

// Load reads the durable record into memory. Called exactly once at startup;
// a load failure is fatal to startup.
func (uc *MonitorUsecase) Load(ctx context.Context) error {
	monitors, err := uc.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load monitors: %w", err)
	}

	uc.mu.Lock()
	uc.monitors = monitors
	uc.mu.Unlock()
	return nil
}

// Append adds a monitor and saves the full store. A failed save rolls the
// append back, so a retried completion cannot leave an orphan record behind.
func (uc *MonitorUsecase) Append(ctx context.Context, m domain.Monitor) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.monitors = append(uc.monitors, m)
	if err := uc.repo.Save(ctx, uc.monitors); err != nil {
		uc.monitors = uc.monitors[:len(uc.monitors)-1]
		return err
	}
	return nil
}

// AppendRetained adds a monitor and saves, keeping the monitor in memory
// even when the save fails. The post-then-persist completion order uses this
// so an already-live post stays resolvable until the next successful save.
func (uc *MonitorUsecase) AppendRetained(ctx context.Context, m domain.Monitor) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.monitors = append(uc.monitors, m)
	return uc.repo.Save(ctx, uc.monitors)
}

// Finalize records the posted message ID and activates a pending monitor
func (uc *MonitorUsecase) Finalize(ctx context.Context, id, messageID string) error {
	return uc.update(ctx, id, func(m *domain.Monitor) {
		m.MessageID = messageID
		m.Status = domain.MonitorActive
	})
}

// Retire takes a monitor out of resolution without deleting its record
func (uc *MonitorUsecase) Retire(ctx context.Context, id string) error {
	return uc.update(ctx, id, func(m *domain.Monitor) {
		m.Status = domain.MonitorRetired
	})
}

func (uc *MonitorUsecase) update(ctx context.Context, id string, mutate func(*domain.Monitor)) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	found := false
	for i := range uc.monitors {
		if uc.monitors[i].ID == id {
			mutate(&uc.monitors[i])
			found = true
			break
		}
	}
	if !found {
		return &domain.LookupError{Kind: "monitor", ID: id}
	}
	return uc.repo.Save(ctx, uc.monitors)
}

// MatchActive returns the active monitors bound to the given message
func (uc *MonitorUsecase) MatchActive(channelID, messageID string) []domain.Monitor {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	var matched []domain.Monitor
	for _, m := range uc.monitors {
		if m.Matches(channelID, messageID) {
			matched = append(matched, m)
		}
	}
	return matched
}

// Snapshot returns a copy of the full store in order
func (uc *MonitorUsecase) Snapshot() []domain.Monitor {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	out := make([]domain.Monitor, len(uc.monitors))
	copy(out, uc.monitors)
	return out
}
