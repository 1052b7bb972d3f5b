package server

import (
	"context"
	"duel/wire"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"nhooyr.io/websocket"
)

func dial(ctx context.Context, t *testing.T, ts *httptest.Server, room, peer string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/" + room
	c, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	send(ctx, t, c, &wire.Message{Hello: &wire.Hello{Peer: peer}})
	return c
}

func send(ctx context.Context, t *testing.T, c *websocket.Conn, m *wire.Message) {
	t.Helper()
	require.NoError(t, c.Write(ctx, websocket.MessageBinary, m.Marshal()))
}

func receive(ctx context.Context, t *testing.T, c *websocket.Conn) *wire.Message {
	t.Helper()
	_, data, err := c.Read(ctx)
	require.NoError(t, err)
	m, err := wire.Unmarshal(data)
	require.NoError(t, err)
	return m
}

func TestRelayPairsAndForwards(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ts := httptest.NewServer(NewServer(nil))
	defer ts.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a := dial(ctx, t, ts, "duel", "peer-a")
	defer a.Close(websocket.StatusInternalError, "")
	b := dial(ctx, t, ts, "duel", "peer-b")
	defer b.Close(websocket.StatusInternalError, "")

	startA := receive(ctx, t, a).Start
	startB := receive(ctx, t, b).Start
	require.NotNil(t, startA)
	require.NotNil(t, startB)

	assert.Equal(t, startA.Match, startB.Match)
	_, err := uuid.Parse(startA.Match)
	assert.NoError(t, err)
	assert.Equal(t, startA.Peers, startB.Peers)
	assert.ElementsMatch(t, []string{"peer-a", "peer-b"}, startA.Peers)
	assert.NotEqual(t, startA.Handle, startB.Handle)
	assert.Equal(t, "peer-a", startA.Peers[startA.Handle])
	assert.Equal(t, "peer-b", startB.Peers[startB.Handle])

	frame := &wire.Message{Frame: &wire.Frame{Number: 3, Handle: startA.Handle, Input: 9}}
	send(ctx, t, a, frame)
	assert.Equal(t, frame, receive(ctx, t, b))

	report := &wire.Message{Report: &wire.Report{Frame: 3, Checksum: 42}}
	send(ctx, t, b, report)
	assert.Equal(t, report, receive(ctx, t, a))

	// A third peer is turned away while the match runs.
	c := dial(ctx, t, ts, "duel", "peer-c")
	defer c.Close(websocket.StatusInternalError, "")
	_, _, err = c.Read(ctx)
	assert.Equal(t, websocket.StatusTryAgainLater, websocket.CloseStatus(err))

	// One peer leaving hangs up on the other.
	a.Close(websocket.StatusNormalClosure, "")
	_, _, err = b.Read(ctx)
	assert.Equal(t, websocket.StatusNormalClosure, websocket.CloseStatus(err))
}

func TestRelayNeedsRoom(t *testing.T) {
	ts := httptest.NewServer(NewServer(nil))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRelayRejectsMissingHello(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ts := httptest.NewServer(NewServer(nil))
	defer ts.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/lobby"
	c, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer c.Close(websocket.StatusInternalError, "")
	send(ctx, t, c, &wire.Message{Frame: &wire.Frame{Number: 1}})

	_, _, err = c.Read(ctx)
	assert.Error(t, err)
}
