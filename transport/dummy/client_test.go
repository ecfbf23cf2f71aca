package dummy

import (
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	t.Run("replays script then EOF", func(t *testing.T) {
		client := NewClient([]byte("Hello"), []byte(""), []byte("world"))
		buf := make([]byte, 16)

		n, err := client.Read(buf)
		require.NoError(t, err)
		require.Equal(t, "Hello", string(buf[:n]))

		n, err = client.Read(buf)
		require.NoError(t, err)
		require.Zero(t, n)

		n, err = client.Read(buf)
		require.NoError(t, err)
		require.Equal(t, "world", string(buf[:n]))

		_, err = client.Read(buf)
		require.ErrorIs(t, err, io.EOF)
	})

	t.Run("oversized chunk is split", func(t *testing.T) {
		client := NewClient([]byte("overflow"))
		buf := make([]byte, 4)

		n, err := client.Read(buf)
		require.NoError(t, err)
		require.Equal(t, "over", string(buf[:n]))

		n, err = client.Read(buf)
		require.NoError(t, err)
		require.Equal(t, "flow", string(buf[:n]))
	})

	t.Run("custom finishing error", func(t *testing.T) {
		boom := errors.New("connection reset")
		client := NewClient().FinishWith(boom)

		_, err := client.Read(make([]byte, 4))
		require.ErrorIs(t, err, boom)
	})

	t.Run("hang blocks until close", func(t *testing.T) {
		client := NewClient().Hang()
		done := make(chan error, 1)

		go func() {
			_, err := client.Read(make([]byte, 4))
			done <- err
		}()

		select {
		case <-done:
			require.Fail(t, "read returned before close")
		case <-time.After(10 * time.Millisecond):
		}

		require.NoError(t, client.Close())
		require.ErrorIs(t, <-done, net.ErrClosed)
	})

	t.Run("records writes", func(t *testing.T) {
		client := NewClient()
		_, err := client.Write([]byte("Hello, "))
		require.NoError(t, err)
		_, err = client.Write([]byte("world!"))
		require.NoError(t, err)

		require.Equal(t, "Hello, world!", string(client.Written()))
		require.Len(t, client.Writes(), 2)
	})

	t.Run("failed writes", func(t *testing.T) {
		broken := errors.New("broken pipe")
		client := NewClient().FailWrites(broken)

		_, err := client.Write([]byte("anything"))
		require.ErrorIs(t, err, broken)
		require.Empty(t, client.Written())
	})

	t.Run("close calls are counted", func(t *testing.T) {
		client := NewClient()
		require.NoError(t, client.Close())
		require.NoError(t, client.Close())
		require.Equal(t, 2, client.CloseCalls())
	})
}
