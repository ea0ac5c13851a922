package data

import (
	"fmt"

	"github.com/rfrbot/roles-for-reactions/internal/biz/repo"
)

// Store backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// NewMonitorRepo creates the monitor repository for the configured backend
func NewMonitorRepo(backend, filePath, dbPath string) (repo.MonitorRepo, error) {
	switch backend {
	case BackendFile:
		return NewFileRepo(filePath)
	case BackendSQLite:
		return NewSQLiteRepo(dbPath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
