package employee

import (
	"time"

	"github.com/zhouzirui/staffbook/backend/internal/metrics"
	model "github.com/zhouzirui/staffbook/backend/internal/model/employee"
)

// InstrumentedStore wraps any Store with Prometheus operation metrics.
type InstrumentedStore struct {
	store   Store
	metrics *metrics.Collection
}

// Compile-time check to ensure InstrumentedStore implements Store.
var _ Store = (*InstrumentedStore)(nil)

// NewInstrumentedStore wraps store and registers the record count gauge.
func NewInstrumentedStore(store Store, m *metrics.Collection) *InstrumentedStore {
	m.WithRecordsGauge(func() float64 { return float64(store.Len()) })
	return &InstrumentedStore{store: store, metrics: m}
}

func (s *InstrumentedStore) List(department string) []model.Employee {
	start := time.Now()
	out := s.store.List(department)
	s.metrics.ObserveStore("list", "ok", time.Since(start))
	return out
}

func (s *InstrumentedStore) Add(e model.Employee) (model.Employee, error) {
	start := time.Now()
	out, err := s.store.Add(e)
	s.metrics.ObserveStore("add", outcome(err), time.Since(start))
	return out, err
}

func (s *InstrumentedStore) Update(id string, p model.Patch) (model.Employee, error) {
	start := time.Now()
	out, err := s.store.Update(id, p)
	s.metrics.ObserveStore("update", outcome(err), time.Since(start))
	return out, err
}

func (s *InstrumentedStore) Delete(id string) (model.Employee, error) {
	start := time.Now()
	out, err := s.store.Delete(id)
	s.metrics.ObserveStore("delete", outcome(err), time.Since(start))
	return out, err
}

func (s *InstrumentedStore) Snapshot() []model.Employee {
	start := time.Now()
	out := s.store.Snapshot()
	s.metrics.ObserveStore("snapshot", "ok", time.Since(start))
	return out
}

func (s *InstrumentedStore) Len() int {
	return s.store.Len()
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if k := KindOf(err); k != 0 {
		return k.String()
	}
	return "error"
}
