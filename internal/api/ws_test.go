package api_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedrohwah/shadowsofavernus/internal/testutil"
)

func TestSessionFeed_StreamsRolls(t *testing.T) {
	env := setupAPI(t)
	sess := env.createSession(t, map[string]any{"name": "Friday", "gm_name": "Marta"})

	client := testutil.NewWSClient(t, env.srv.URL, "/ws/sessions/"+sess.Session.ID)
	defer client.Close()

	resp := env.post(t, "/api/v1/sessions/"+sess.Session.ID+"/rolls", map[string]any{
		"player_name": "Alice",
		"expression":  "2d6+1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	discard(t, resp)

	payload := client.ReadUntil(`"type":"roll"`, 2*time.Second)

	var event struct {
		Type string `json:"type"`
		Data struct {
			PlayerName string `json:"player_name"`
			Result     struct {
				Expression string `json:"expression"`
				Total      int    `json:"total"`
			} `json:"result"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, "roll", event.Type)
	assert.Equal(t, "Alice", event.Data.PlayerName)
	assert.Equal(t, "2d6+1", event.Data.Result.Expression)
	assert.GreaterOrEqual(t, event.Data.Result.Total, 3)
}

func TestSessionFeed_PlayerEvents(t *testing.T) {
	env := setupAPI(t)
	sess := env.createSession(t, map[string]any{"name": "Friday", "gm_name": "Marta"})

	client := testutil.NewWSClient(t, env.srv.URL, "/ws/sessions/"+sess.Session.ID)
	defer client.Close()

	resp := env.post(t, "/api/v1/sessions/"+sess.Session.ID+"/join", map[string]any{
		"player_name": "Alice",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	discard(t, resp)

	payload := client.ReadUntil(`"type":"player_joined"`, 2*time.Second)
	assert.Contains(t, string(payload), `"Alice"`)

	resp = env.post(t, "/api/v1/sessions/"+sess.Session.ID+"/leave", map[string]any{
		"player_name": "Alice",
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	discard(t, resp)

	payload = client.ReadUntil(`"type":"player_left"`, 2*time.Second)
	assert.Contains(t, string(payload), `"Alice"`)
}

func TestSessionFeed_TwoSubscribers(t *testing.T) {
	env := setupAPI(t)
	sess := env.createSession(t, map[string]any{"name": "Friday", "gm_name": "Marta"})

	first := testutil.NewWSClient(t, env.srv.URL, "/ws/sessions/"+sess.Session.ID)
	defer first.Close()
	second := testutil.NewWSClient(t, env.srv.URL, "/ws/sessions/"+sess.Session.ID)
	defer second.Close()

	resp := env.post(t, "/api/v1/sessions/"+sess.Session.ID+"/rolls", map[string]any{
		"player_name": "Alice",
		"expression":  "1d4",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	discard(t, resp)

	assert.Contains(t, string(first.ReadUntil(`"type":"roll"`, 2*time.Second)), `"1d4"`)
	assert.Contains(t, string(second.ReadUntil(`"type":"roll"`, 2*time.Second)), `"1d4"`)
}

func TestSessionFeed_UnknownSession(t *testing.T) {
	env := setupAPI(t)

	wsURL := strings.Replace(env.srv.URL, "http", "ws", 1) + "/ws/sessions/unknown"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	if conn != nil {
		conn.Close()
	}
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionFeed_ScopedToSession(t *testing.T) {
	env := setupAPI(t)
	first := env.createSession(t, map[string]any{"name": "Table One", "gm_name": "Marta"})
	second := env.createSession(t, map[string]any{"name": "Table Two", "gm_name": "Rolf"})

	client := testutil.NewWSClient(t, env.srv.URL, "/ws/sessions/"+first.Session.ID)
	defer client.Close()

	// A roll on the other table must not reach this subscriber; the
	// next event it sees is the roll on its own table.
	resp := env.post(t, "/api/v1/sessions/"+second.Session.ID+"/rolls", map[string]any{
		"player_name": "Brom", "expression": "1d12",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	discard(t, resp)

	resp = env.post(t, "/api/v1/sessions/"+first.Session.ID+"/rolls", map[string]any{
		"player_name": "Alice", "expression": "1d8",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	discard(t, resp)

	payload := client.ReadUntil(`"type":"roll"`, 2*time.Second)
	assert.Contains(t, string(payload), `"1d8"`)
	assert.NotContains(t, string(payload), `"1d12"`)
}
