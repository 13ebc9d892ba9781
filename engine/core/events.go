package core

import (
	"sync"

	"github.com/spaghettifunk/conifer/engine/containers"
)

type EventCode uint16

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = 0x01

	// Keyboard key pressed. Data is a *KeyEvent.
	EVENT_CODE_KEY_PRESSED EventCode = 0x02

	// Keyboard key released. Data is a *KeyEvent.
	EVENT_CODE_KEY_RELEASED EventCode = 0x03

	// Mouse button pressed. Data is a *MouseEvent.
	EVENT_CODE_BUTTON_PRESSED EventCode = 0x04

	// Mouse button released. Data is a *MouseEvent.
	EVENT_CODE_BUTTON_RELEASED EventCode = 0x05

	// Mouse moved. Data is a *MouseEvent.
	EVENT_CODE_MOUSE_MOVED EventCode = 0x06

	// Resized/resolution changed from the OS. Data is a *SystemEvent.
	EVENT_CODE_RESIZED EventCode = 0x08

	// Manual formation toggle requested (key press or external control surface).
	EVENT_CODE_MORPH_TOGGLED EventCode = 0x10

	// The morph target changed (gesture or toggle). Data is a bool: true = assembled.
	EVENT_CODE_MORPH_TARGET_CHANGED EventCode = 0x11

	// Hand presence flipped on the gesture bridge. Data is a bool.
	EVENT_CODE_HAND_PRESENCE_CHANGED EventCode = 0x12

	// Tuning configuration reloaded from disk.
	EVENT_CODE_CONFIG_RELOADED EventCode = 0x13

	MAX_EVENT_CODE EventCode = 0xFF
)

// Capacity of the pending event queue. Producers dropping on overflow is
// preferable to blocking the frame loop.
const maxPendingEvents = 512

type EventContext struct {
	Type EventCode
	Data interface{}
}

type KeyEvent struct {
	KeyCode KeyCode
}

type MouseEvent struct {
	Button Button
	PosX   uint16
	PosY   uint16
	Scroll int8
}

type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

type FnOnEvent func(context EventContext)

type eventSystemState struct {
	mu       sync.Mutex
	cond     *sync.Cond
	pending  *containers.RingQueue[EventContext]
	handlers map[EventCode][]FnOnEvent
	running  bool
}

var onceEvent sync.Once
var eventState *eventSystemState

func EventSystemInitialize() bool {
	onceEvent.Do(func() {
		eventState = &eventSystemState{
			pending:  containers.NewRingQueue[EventContext](maxPendingEvents),
			handlers: make(map[EventCode][]FnOnEvent),
		}
		eventState.cond = sync.NewCond(&eventState.mu)
	})
	eventState.mu.Lock()
	defer eventState.mu.Unlock()
	if eventState.running {
		return false
	}
	eventState.running = true
	return true
}

func EventSystemShutdown() error {
	if eventState == nil {
		return ErrEventSystemNotRunning
	}
	eventState.mu.Lock()
	eventState.running = false
	eventState.handlers = make(map[EventCode][]FnOnEvent)
	eventState.cond.Broadcast()
	eventState.mu.Unlock()
	return nil
}

// Register to listen for when events are fired with the provided code.
func EventRegister(code EventCode, onEvent FnOnEvent) bool {
	if eventState == nil || onEvent == nil {
		return false
	}
	eventState.mu.Lock()
	defer eventState.mu.Unlock()
	if !eventState.running {
		return false
	}
	eventState.handlers[code] = append(eventState.handlers[code], onEvent)
	return true
}

// Fires an event to listeners of the given code. The event is queued and
// dispatched by the ProcessEvents goroutine; firing never blocks the caller.
// Returns false if the system is down or the queue is full.
func EventFire(context EventContext) bool {
	if eventState == nil {
		return false
	}
	eventState.mu.Lock()
	defer eventState.mu.Unlock()
	if !eventState.running {
		return false
	}
	if err := eventState.pending.Enqueue(context); err != nil {
		LogWarn("event queue full, dropping event code %d", context.Type)
		return false
	}
	eventState.cond.Signal()
	return true
}

// ProcessEvents drains the pending queue and invokes registered handlers.
// Run it on its own goroutine; it returns after EventSystemShutdown.
func ProcessEvents() {
	if eventState == nil {
		return
	}
	for {
		eventState.mu.Lock()
		for eventState.pending.IsEmpty() && eventState.running {
			eventState.cond.Wait()
		}
		if !eventState.running && eventState.pending.IsEmpty() {
			eventState.mu.Unlock()
			return
		}
		context, err := eventState.pending.Dequeue()
		if err != nil {
			eventState.mu.Unlock()
			continue
		}
		handlers := make([]FnOnEvent, len(eventState.handlers[context.Type]))
		copy(handlers, eventState.handlers[context.Type])
		eventState.mu.Unlock()

		for _, handler := range handlers {
			handler(context)
		}
	}
}
