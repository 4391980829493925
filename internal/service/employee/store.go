package employee

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhouzirui/staffbook/backend/internal/logging"
	model "github.com/zhouzirui/staffbook/backend/internal/model/employee"
)

var logger = logging.For("store")

// Store is the record store consumed by the HTTP layer and the shutdown hook.
type Store interface {
	List(department string) []model.Employee
	Add(e model.Employee) (model.Employee, error)
	Update(id string, p model.Patch) (model.Employee, error)
	Delete(id string) (model.Employee, error)
	Snapshot() []model.Employee
	Len() int
}

// Notifier receives change events. Publish must not block.
type Notifier interface {
	Publish(model.Event)
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithIDGenerator overrides uuid.NewString for identifier assignment.
func WithIDGenerator(fn func() string) Option {
	return func(s *MemoryStore) { s.newID = fn }
}

// WithNotifier attaches a change event sink.
func WithNotifier(n Notifier) Option {
	return func(s *MemoryStore) { s.notifier = n }
}

// MemoryStore keeps employees in a map keyed by ID, with a side slice that
// preserves insertion order for listing and snapshots.
type MemoryStore struct {
	mu       sync.RWMutex
	items    map[string]model.Employee
	order    []string
	newID    func() string
	notifier Notifier
	now      func() time.Time
}

// Compile-time check to ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns a store seeded with initial, typically the output
// of a persistence adapter's Load. Records without an ID get one; duplicate
// IDs keep the first occurrence.
func NewMemoryStore(initial []model.Employee, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		items: make(map[string]model.Employee, len(initial)),
		order: make([]string, 0, len(initial)),
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, e := range initial {
		if e.ID == "" {
			e.ID = s.newID()
		}
		if _, exists := s.items[e.ID]; exists {
			logger.Warn("skipping duplicate employee in initial set", "id", e.ID)
			continue
		}
		s.items[e.ID] = e
		s.order = append(s.order, e.ID)
	}
	return s
}

// List returns all employees, or those whose department equals department
// exactly when it is non-empty.
func (s *MemoryStore) List(department string) []model.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Employee, 0, len(s.order))
	for _, id := range s.order {
		e := s.items[id]
		if department != "" && e.Department != department {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Add stores e, generating an ID when it has none.
func (s *MemoryStore) Add(e model.Employee) (model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = s.newID()
	}
	if _, exists := s.items[e.ID]; exists {
		return model.Employee{}, alreadyExists(e.ID)
	}

	s.items[e.ID] = e
	s.order = append(s.order, e.ID)
	s.publish(model.EventCreated, e)
	return e, nil
}

// Update merges p onto the employee stored under id.
func (s *MemoryStore) Update(id string, p model.Patch) (model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.items[id]
	if !ok {
		return model.Employee{}, notFound(id)
	}

	if p.IsEmpty() {
		return existing, nil
	}

	updated := p.Apply(existing)
	updated.ID = id
	s.items[id] = updated
	s.publish(model.EventUpdated, updated)
	return updated, nil
}

// Delete removes the employee stored under id and returns its prior value.
func (s *MemoryStore) Delete(id string) (model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.items[id]
	if !ok {
		return model.Employee{}, notFound(id)
	}

	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.publish(model.EventDeleted, existing)
	return existing, nil
}

// Snapshot returns a copy of every employee in insertion order.
func (s *MemoryStore) Snapshot() []model.Employee {
	return s.List("")
}

// Len returns the number of stored employees.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// publish runs under the write lock so events leave in mutation order.
func (s *MemoryStore) publish(t model.EventType, e model.Employee) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(model.Event{Type: t, Employee: e, At: s.now().UTC()})
}
