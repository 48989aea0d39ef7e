package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (r *recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func TestMultiPublishesToAll(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := Multi{a, nil, b}

	require.NoError(t, m.Publish(context.Background(), New(OrderAdded, "o1")))

	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
	assert.Equal(t, OrderAdded, b.events[0].Type)
}

func TestMultiKeepsGoingAfterError(t *testing.T) {
	boom := errors.New("boom")
	a, b := &recorder{err: boom}, &recorder{}

	err := Multi{a, b}.Publish(context.Background(), New(OrderDeleted, nil))

	assert.ErrorIs(t, err, boom)
	assert.Len(t, b.events, 1)
}

func TestEventJSON(t *testing.T) {
	e := New(MenuItemAdded, map[string]string{"id": "m1"})
	data, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "menu.item_added", decoded["type"])
	assert.Equal(t, map[string]interface{}{"id": "m1"}, decoded["payload"])
	assert.NotEmpty(t, decoded["at"])
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), New(DraftChanged, nil)))
}
