package gesture

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResult(t *testing.T) {
	payload := `{
		"gestures": [[{"categoryName": "Closed_Fist", "score": 0.93}]],
		"landmarks": [[
			{"x": 0.1, "y": 0.2}, {"x": 0.1, "y": 0.2}, {"x": 0.1, "y": 0.2},
			{"x": 0.1, "y": 0.2}, {"x": 0.1, "y": 0.2}, {"x": 0.1, "y": 0.2},
			{"x": 0.1, "y": 0.2}, {"x": 0.1, "y": 0.2}, {"x": 0.1, "y": 0.2},
			{"x": 0.3, "y": 0.6}
		]]
	}`

	result, err := parseResult([]byte(payload))
	require.NoError(t, err)
	require.Len(t, result.Gestures, 1)
	assert.Equal(t, "Closed_Fist", result.Gestures[0][0].CategoryName)
	require.Len(t, result.Landmarks, 1)
	assert.Equal(t, 0.3, result.Landmarks[0][9].X)
	assert.Equal(t, 0.6, result.Landmarks[0][9].Y)
}

func TestParseResultEmptyFrame(t *testing.T) {
	result, err := parseResult([]byte(`{"gestures": [], "landmarks": []}`))
	require.NoError(t, err)
	assert.Empty(t, result.Gestures)
	assert.Empty(t, result.Landmarks)
}

func TestParseResultMalformed(t *testing.T) {
	_, err := parseResult([]byte(`{"landmarks": "nope"`))
	assert.Error(t, err)
}

func TestFeedDeliversResultsToBridge(t *testing.T) {
	upgrader := websocket.Upgrader{}
	payload := `{
		"gestures": [[{"categoryName": "Open_Palm"}]],
		"landmarks": [[{"x": 0.25, "y": 0.4}]]
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
			return
		}
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")

	bridge := NewBridge(0.1)
	feed, err := Connect(url, bridge)
	require.NoError(t, err)
	defer feed.Close()

	require.Eventually(t, func() bool {
		sample, _ := bridge.Next()
		return sample.HasHand
	}, 2*time.Second, 10*time.Millisecond)

	sample, _ := bridge.Next()
	assert.Equal(t, LabelOpen, sample.Label)
	assert.InDelta(t, 0.75, sample.HandX, 1e-9)
	assert.InDelta(t, 0.4, sample.HandY, 1e-9)
}

func TestFeedConnectFailure(t *testing.T) {
	_, err := Connect("ws://127.0.0.1:1/detections", NewBridge(0.1))
	assert.Error(t, err)
}

func TestFeedCloseIsIdempotent(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	feed, err := Connect(url, NewBridge(0.1))
	require.NoError(t, err)

	assert.NoError(t, feed.Close())
	assert.NoError(t, feed.Close())
}
