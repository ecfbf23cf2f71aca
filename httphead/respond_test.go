package httphead

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keel-web/keel/conn"
	"github.com/keel-web/keel/transport/dummy"
)

func TestRespond(t *testing.T) {
	client := dummy.NewClient()
	c, _ := newConn(client, New(nil))

	require.NoError(t, Respond(c, "200 OK", "text/plain", []byte("hello")))
	require.Equal(t,
		"HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 5\r\n\r\nhello",
		string(client.Written()),
	)
}

func TestRespondEmptyBody(t *testing.T) {
	client := dummy.NewClient()
	c, _ := newConn(client, New(nil))

	require.NoError(t, Respond(c, "404 Not Found", "text/plain", nil))
	require.Equal(t,
		"HTTP/1.1 404 Not Found\r\nContent-Type: text/plain\r\nContent-Length: 0\r\n\r\n",
		string(client.Written()),
	)
}

func TestRespondJSON(t *testing.T) {
	client := dummy.NewClient()
	c, _ := newConn(client, New(nil))

	require.NoError(t, RespondJSON(c, "200 OK", map[string]string{"hello": "world"}))

	raw := string(client.Written())
	require.Contains(t, raw, "HTTP/1.1 200 OK\r\n")
	require.Contains(t, raw, "Content-Type: application/json\r\n")
	require.Contains(t, raw, "Content-Length: 17\r\n")
	require.Contains(t, raw, `{"hello":"world"}`)
}

func TestRespondOnDeadConn(t *testing.T) {
	client := dummy.NewClient()
	c, _ := newConn(client, New(nil))

	c.EndResponse()

	require.ErrorIs(t, Respond(c, "200 OK", "text/plain", nil), conn.ErrClosed)
	require.Empty(t, client.Written())
}
