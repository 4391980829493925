package bolt

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/zhouzirui/staffbook/backend/internal/logging"
	"github.com/zhouzirui/staffbook/backend/internal/model/employee"
)

// DefaultPath is where the bolt adapter keeps its database unless configured.
const DefaultPath = "data/employees.db"

var (
	logger         = logging.For("storage")
	employeeBucket = []byte("employees")
)

// Adapter persists employees in a bbolt database. Keys are big-endian
// sequence numbers so a cursor walk returns insertion order.
type Adapter struct {
	db   *bolt.DB
	path string
}

// Open creates or opens the database at path, creating parent directories.
func Open(path string) (*Adapter, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}
	return &Adapter{db: db, path: path}, nil
}

// Load returns every stored employee. Corrupt values are skipped; a failed
// transaction is logged and yields an empty slice.
func (a *Adapter) Load() []employee.Employee {
	records := []employee.Employee{}
	err := a.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(employeeBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var e employee.Employee
			if err := json.Unmarshal(v, &e); err != nil {
				logger.Warn("skipping corrupt employee entry", "key", binary.BigEndian.Uint64(k), "err", err)
				return nil
			}
			records = append(records, e)
			return nil
		})
	})
	if err != nil {
		logger.Error("error loading employees from bolt", "path", a.path, "err", err)
		return []employee.Employee{}
	}
	logger.Info("loaded employees from bolt", "path", a.path, "employees", len(records))
	return records
}

// Save replaces the bucket content with records in a single transaction.
func (a *Adapter) Save(records []employee.Employee) {
	err := a.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(employeeBucket) != nil {
			if err := tx.DeleteBucket(employeeBucket); err != nil {
				return fmt.Errorf("dropping bucket: %w", err)
			}
		}
		b, err := tx.CreateBucket(employeeBucket)
		if err != nil {
			return fmt.Errorf("creating bucket: %w", err)
		}
		for i, e := range records {
			v, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("encoding %s: %w", e.ID, err)
			}
			if err := b.Put(seqKey(uint64(i)), v); err != nil {
				return fmt.Errorf("storing %s: %w", e.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("error saving employees to bolt", "path", a.path, "err", err)
		return
	}
	logger.Info("saved employees to bolt", "path", a.path, "employees", len(records))
}

// Close releases the database file lock.
func (a *Adapter) Close() error {
	return a.db.Close()
}

func seqKey(n uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, n)
	return k
}
