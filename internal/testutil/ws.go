package testutil

import (
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// WSClient is a simple websocket test client for integration testing.
type WSClient struct {
	conn *websocket.Conn
	t    *testing.T
}

// NewWSClient dials the websocket endpoint at the given HTTP base URL and
// path and returns a test client.
//
// Precondition: baseURL must be an http:// or https:// URL with a listening server.
// Postcondition: Returns a connected WSClient or fails the test.
func NewWSClient(t *testing.T, baseURL, path string) *WSClient {
	t.Helper()
	start := time.Now()

	wsURL := strings.Replace(baseURL, "http", "ws", 1) + path
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		status := "no response"
		if resp != nil {
			status = resp.Status
		}
		t.Fatalf("dialing %s: %v (%s) [%s]", wsURL, err, status, time.Since(start))
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	t.Cleanup(func() {
		conn.Close()
	})

	client := &WSClient{conn: conn, t: t}
	t.Logf("websocket client connected to %s [%s]", wsURL, time.Since(start))
	return client
}

// ReadMessage reads a single message or fails the test on timeout.
//
// Postcondition: Returns the message payload.
func (c *WSClient) ReadMessage(timeout time.Duration) []byte {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))

	_, data, err := c.conn.ReadMessage()
	if err != nil {
		c.t.Fatalf("reading websocket message: %v", err)
	}
	return data
}

// ReadUntil reads messages until one contains the specified substring or
// the timeout elapses. It returns the matching message.
//
// Precondition: substr must be non-empty.
// Postcondition: Returns the message containing substr, or fails on timeout.
func (c *WSClient) ReadUntil(substr string, timeout time.Duration) []byte {
	c.t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		_ = c.conn.SetReadDeadline(deadline)
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.t.Fatalf("reading until %q: %v", substr, err)
		}
		if strings.Contains(string(data), substr) {
			return data
		}
	}
}

// Close closes the underlying connection.
func (c *WSClient) Close() {
	c.conn.Close()
}
