package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soar/analogdpad/internal/dpad"
	"github.com/soar/analogdpad/internal/hub"
)

type fakeSource struct {
	cfg dpad.Config
}

func (f *fakeSource) SetActiveByPlayerIndex(i int) bool { return i == 1 }
func (f *fakeSource) ClassifierConfig() dpad.Config    { return f.cfg }

var frontend = fstest.MapFS{
	"index.html": {Data: []byte("<!doctype html>\n<html>\n  <body>\n    <p>  hello  </p>\n  </body>\n</html>\n")},
	"style.css":  {Data: []byte("body {\n  color: red;\n}\n")},
	"notes.txt":  {Data: []byte("plain\n")},
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeSource) {
	t.Helper()
	h := hub.NewHub()
	go h.Run()
	b := hub.NewBroadcaster(h, nil)
	src := &fakeSource{cfg: dpad.Config{
		Enabled:  true,
		Mode:     dpad.ModeFourWay,
		FourWay:  dpad.Params{Deadzone: 0.3, Offset: 0.4},
		EightWay: dpad.Params{Deadzone: 0.3, Offset: 0.4, Slope: 0.2},
	}}
	handler, err := New(h, b, src, frontend, "").Handler()
	require.NoError(t, err)
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts, src
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestMinifiedAssets(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, body, "hello")
	assert.NotContains(t, body, "\n  ")

	resp, body = get(t, ts.URL+"/style.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "body{color:red}", body)

	// files the minifier does not handle are served as they are
	resp, body = get(t, ts.URL+"/notes.txt")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "plain\n", body)

	resp, _ = get(t, ts.URL+"/missing.js")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestConfigEndpoint(t *testing.T) {
	ts, src := newTestServer(t)

	resp, body := get(t, ts.URL+"/api/config")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var cfg dpad.Config
	require.NoError(t, json.Unmarshal([]byte(body), &cfg))
	assert.Equal(t, src.cfg, cfg)

	resp, err := http.Post(ts.URL+"/api/config", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestWebSocketGreeting(t *testing.T) {
	ts, src := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var msg hub.WSMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, hub.TypeConfig, msg.Type)
	require.NotNil(t, msg.Config)
	assert.Equal(t, src.cfg.Mode, msg.Config.Mode)

	msg = hub.WSMessage{}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, hub.TypeFull, msg.Type)
	require.NotNil(t, msg.Data)
	assert.False(t, msg.Data.Connected)

	require.NoError(t, conn.WriteJSON(hub.ClientMessage{Type: "select_player", PlayerIndex: 1}))
	msg = hub.WSMessage{}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, hub.TypePlayerSelected, msg.Type)
	assert.Equal(t, 1, msg.PlayerIndex)
}
