package core

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The event system is a process-wide singleton, so its whole lifecycle is
// exercised from a single test.
func TestEventSystemLifecycle(t *testing.T) {
	require.True(t, EventSystemInitialize())
	// A second initialize while running is rejected.
	assert.False(t, EventSystemInitialize())

	received := make(chan EventContext, 8)
	require.True(t, EventRegister(EVENT_CODE_MORPH_TOGGLED, func(context EventContext) {
		received <- context
	}))
	assert.False(t, EventRegister(EVENT_CODE_MORPH_TOGGLED, nil))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ProcessEvents()
	}()

	require.True(t, EventFire(EventContext{Type: EVENT_CODE_MORPH_TOGGLED, Data: true}))

	select {
	case ctx := <-received:
		assert.Equal(t, EVENT_CODE_MORPH_TOGGLED, ctx.Type)
		assert.Equal(t, true, ctx.Data)
	case <-time.After(2 * time.Second):
		t.Fatal("event never dispatched")
	}

	// Unregistered codes are queued and dropped without a handler.
	require.True(t, EventFire(EventContext{Type: EVENT_CODE_CONFIG_RELOADED}))

	require.NoError(t, EventSystemShutdown())
	wg.Wait()

	// After shutdown nothing fires or registers.
	assert.False(t, EventFire(EventContext{Type: EVENT_CODE_MORPH_TOGGLED}))
	assert.False(t, EventRegister(EVENT_CODE_MORPH_TOGGLED, func(EventContext) {}))

	// The system can be brought back up.
	require.True(t, EventSystemInitialize())
	require.NoError(t, EventSystemShutdown())
}
