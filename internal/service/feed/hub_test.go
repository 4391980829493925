package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/zhouzirui/staffbook/backend/internal/model/employee"
)

func event(t model.EventType, id string) model.Event {
	return model.Event{Type: t, Employee: model.Employee{ID: id}}
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	h := NewHub()
	a, cancelA := h.Subscribe()
	defer cancelA()
	b, cancelB := h.Subscribe()
	defer cancelB()

	h.Publish(event(model.EventCreated, "1"))
	h.Publish(event(model.EventDeleted, "1"))

	for _, ch := range []<-chan model.Event{a, b} {
		first := <-ch
		second := <-ch
		assert.Equal(t, model.EventCreated, first.Type)
		assert.Equal(t, model.EventDeleted, second.Type)
	}
	assert.Equal(t, 2, h.Subscribers())
}

func TestPublishDropsForSlowSubscriber(t *testing.T) {
	drops := 0
	h := NewHub(WithBuffer(1), WithDropHook(func() { drops++ }))
	ch, cancel := h.Subscribe()
	defer cancel()

	h.Publish(event(model.EventCreated, "1"))
	h.Publish(event(model.EventCreated, "2"))

	assert.Equal(t, 1, drops)
	got := <-ch
	assert.Equal(t, "1", got.Employee.ID)
}

func TestCancelClosesChannelOnce(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe()
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, h.Subscribers())

	h.Publish(event(model.EventCreated, "1"))
}

func TestCloseEndsSubscriptions(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe()
	h.Close()
	cancel()

	_, ok := <-ch
	require.False(t, ok)

	late, _ := h.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
}
