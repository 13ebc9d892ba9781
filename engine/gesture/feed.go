package gesture

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/spaghettifunk/conifer/engine/core"
)

var ErrFeedClosed = errors.New("gesture feed is closed")

// Feed consumes detection results from the external recognizer over a
// websocket and pushes them into a Bridge. It owns its read goroutine; the
// frame loop never touches the connection. A failed dial is a setup failure
// the caller recovers from by running without gesture input.
type Feed struct {
	conn      *websocket.Conn
	bridge    *Bridge
	done      chan struct{}
	closeOnce sync.Once
}

// Connect dials the recognizer endpoint and starts consuming results.
func Connect(url string, bridge *Bridge) (*Feed, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("gesture feed dial %s: %w", url, err)
	}

	f := &Feed{
		conn:   conn,
		bridge: bridge,
		done:   make(chan struct{}),
	}
	go f.run()
	return f, nil
}

func (f *Feed) run() {
	for {
		select {
		case <-f.done:
			return
		default:
		}

		_, message, err := f.conn.ReadMessage()
		if err != nil {
			select {
			case <-f.done:
				// Expected during teardown.
			default:
				core.LogWarn("gesture feed read failed, stopping: %s", err)
			}
			return
		}

		result, err := parseResult(message)
		if err != nil {
			// A malformed frame is transient; keep consuming.
			core.LogDebug("dropping malformed detection result: %s", err)
			continue
		}
		f.bridge.Ingest(result)
	}
}

func parseResult(message []byte) (*DetectionResult, error) {
	result := &DetectionResult{}
	if err := json.Unmarshal(message, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Close stops the read loop and tears the connection down. Must be called
// before the bridge is released so no write lands on a destroyed target.
func (f *Feed) Close() error {
	var err error
	f.closeOnce.Do(func() {
		close(f.done)
		// Best effort: tell the peer we are going away.
		_ = f.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		err = f.conn.Close()
	})
	return err
}
