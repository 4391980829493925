package storage

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/staffbook/backend/internal/config"
	"github.com/zhouzirui/staffbook/backend/internal/model/employee"
	"github.com/zhouzirui/staffbook/backend/internal/storage/bolt"
	"github.com/zhouzirui/staffbook/backend/internal/storage/file"
)

// Adapter is the only component that touches durable storage. Load and Save
// log their failures instead of returning them: a broken data file must not
// block startup, and a failed save must not block shutdown.
type Adapter interface {
	Load() []employee.Employee
	Save(records []employee.Employee)
	Close() error
}

var (
	_ Adapter = (*file.Adapter)(nil)
	_ Adapter = (*bolt.Adapter)(nil)
)

// Open returns the adapter selected by cfg.Driver.
func Open(cfg config.StorageConfig) (Adapter, error) {
	switch strings.ToLower(cfg.Driver) {
	case config.DriverJSON, "":
		return file.New(cfg.Path), nil
	case config.DriverBolt:
		a, err := bolt.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open bolt storage: %w", err)
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
