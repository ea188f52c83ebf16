package ws

import (
	"encoding/binary"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type fakeSocket struct {
	mu     sync.Mutex
	texts  [][]byte
	close  []byte
	closed bool
	block  chan struct{} // when set, WriteMessage waits on it
}

func (s *fakeSocket) SetWriteDeadline(t time.Time) error { return nil }

func (s *fakeSocket) WriteMessage(messageType int, data []byte) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch messageType {
	case websocket.TextMessage:
		s.texts = append(s.texts, append([]byte(nil), data...))
	case websocket.CloseMessage:
		s.close = append([]byte(nil), data...)
	}
	return nil
}

func (s *fakeSocket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSocket) written() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.texts...)
}

func TestBufferedConn_DeliversInOrder(t *testing.T) {
	sock := &fakeSocket{}
	conn := newBufferedConn(sock)

	require.NoError(t, conn.Send([]byte("one")))
	require.NoError(t, conn.Send([]byte("two")))
	require.NoError(t, conn.Send([]byte("three")))

	require.Eventually(t, func() bool {
		return len(sock.written()) == 3
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, [][]byte{[]byte("one"), []byte("two"), []byte("three")}, sock.written())
}

func TestBufferedConn_SlowPeerNeverBlocksSend(t *testing.T) {
	release := make(chan struct{})
	sock := &fakeSocket{block: release}
	conn := newBufferedConn(sock)

	// The writer goroutine is stuck on the first frame; every Send must
	// still return immediately until the outbox fills.
	done := make(chan struct{})
	errs := make(chan error, sendBuffer+10)
	go func() {
		defer close(done)
		for i := 0; i < sendBuffer+10; i++ {
			if err := conn.Send([]byte("x")); err != nil {
				errs <- err
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Send blocked on a slow peer")
	}
	close(errs)
	var full int
	for err := range errs {
		require.ErrorIs(t, err, ErrSlowConsumer)
		full++
	}
	require.Greater(t, full, 0)

	close(release)
}

func TestBufferedConn_CloseWritesCodeAndReason(t *testing.T) {
	sock := &fakeSocket{}
	conn := newBufferedConn(sock)

	require.NoError(t, conn.CloseWithCode(CloseReplaced, ReasonReplaced))
	require.True(t, sock.closed)
	require.GreaterOrEqual(t, len(sock.close), 2)
	require.Equal(t, uint16(CloseReplaced), binary.BigEndian.Uint16(sock.close[:2]))
	require.Equal(t, ReasonReplaced, string(sock.close[2:]))

	require.Error(t, conn.Send([]byte("late")))
}
