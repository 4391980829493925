package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zhouzirui/staffbook/backend/internal/logging"
	"github.com/zhouzirui/staffbook/backend/internal/model/employee"
)

// DefaultPath is where the JSON adapter keeps employees unless configured.
const DefaultPath = "data/employees.json"

var logger = logging.For("storage")

// Adapter persists employees as a pretty-printed JSON array in one file.
type Adapter struct {
	path string
}

// New returns an adapter for path, or DefaultPath when path is empty.
func New(path string) *Adapter {
	if path == "" {
		path = DefaultPath
	}
	return &Adapter{path: path}
}

// Path returns the file the adapter reads and writes.
func (a *Adapter) Path() string {
	return a.path
}

// Load reads the file, creating it with an empty array first if needed.
// Any failure is logged and yields an empty slice.
func (a *Adapter) Load() []employee.Employee {
	records, err := a.load()
	if err != nil {
		logger.Error("error loading employees from file", "path", a.path, "err", err)
		return []employee.Employee{}
	}
	logger.Info("loaded employees from file", "path", a.path, "employees", len(records))
	return records
}

func (a *Adapter) load() ([]employee.Employee, error) {
	if err := a.ensureFile(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	var records []employee.Employee
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if records == nil {
		records = []employee.Employee{}
	}
	return records, nil
}

// Save writes records through a temp file renamed over the target, so a
// failed write leaves the previous content in place. Failures are logged.
func (a *Adapter) Save(records []employee.Employee) {
	if err := a.save(records); err != nil {
		logger.Error("error saving employees to file", "path", a.path, "err", err)
		return
	}
	logger.Info("saved employees to file", "path", a.path, "employees", len(records))
}

func (a *Adapter) save(records []employee.Employee) error {
	if records == nil {
		records = []employee.Employee{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	dir := filepath.Dir(a.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".employees-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, a.path); err != nil {
		return fmt.Errorf("replace: %w", err)
	}
	return nil
}

// Close is a no-op; the file is only open during Load and Save.
func (a *Adapter) Close() error {
	return nil
}

func (a *Adapter) ensureFile() error {
	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	_, err := os.Stat(a.path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat: %w", err)
	}
	if err := os.WriteFile(a.path, []byte("[]"), 0o644); err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	return nil
}
