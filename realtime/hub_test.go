package realtime

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"learnhub/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvMessage(t *testing.T, ch <-chan Message, timeout time.Duration) Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for realtime message")
	}
	return Message{}
}

func TestHubBroadcastByRoom(t *testing.T) {
	hub := NewHub(logger.Nop())
	a := hub.NewClient(1)
	b := hub.NewClient(2)
	hub.Join(a, CourseRoom(10))
	hub.Join(b, CourseRoom(11))

	hub.Broadcast(Message{Room: CourseRoom(10), Event: EventModuleAdded, Data: map[string]any{"id": 1}})

	got := recvMessage(t, a.Outbound, time.Second)
	assert.Equal(t, EventModuleAdded, got.Event)
	select {
	case m := <-b.Outbound:
		t.Fatalf("client in another room received %v", m)
	default:
	}
}

func TestHubRoomSize(t *testing.T) {
	hub := NewHub(logger.Nop())
	room := CourseRoom(3)
	assert.Equal(t, 0, hub.RoomSize(room))

	a := hub.NewClient(1)
	b := hub.NewClient(2)
	hub.Join(a, room)
	hub.Join(b, room)
	hub.Join(b, " ")
	assert.Equal(t, 2, hub.RoomSize(room))

	hub.Leave(a, room)
	assert.Equal(t, 1, hub.RoomSize(room))

	hub.CloseClient(b)
	hub.CloseClient(b)
	assert.Equal(t, 0, hub.RoomSize(room))
	_, ok := <-b.Outbound
	assert.False(t, ok)
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(logger.Nop())
	c := hub.NewClient(1)
	hub.Join(c, UserRoom(1))

	for i := 0; i < clientBuffer+5; i++ {
		hub.Broadcast(Message{Room: UserRoom(1), Event: EventNotification})
	}
	assert.Len(t, c.Outbound, clientBuffer)
}

type fakeBus struct {
	mu        sync.Mutex
	published []Message
	onMsg     func(Message)
}

func (f *fakeBus) Publish(_ context.Context, msg Message) error {
	f.mu.Lock()
	f.published = append(f.published, msg)
	f.mu.Unlock()
	f.onMsg(msg)
	return nil
}

func (f *fakeBus) StartForwarder(_ context.Context, onMsg func(Message)) error {
	f.onMsg = onMsg
	return nil
}

func (f *fakeBus) Close() error { return nil }

func TestHubPublishThroughBus(t *testing.T) {
	hub := NewHub(logger.Nop())
	bus := &fakeBus{}
	require.NoError(t, hub.UseBus(context.Background(), bus))

	c := hub.NewClient(5)
	hub.Join(c, RoleRoom("student"))
	require.NoError(t, hub.Publish(context.Background(), Message{Room: "role:STUDENT", Event: EventCoursePublished}))

	assert.Len(t, bus.published, 1)
	assert.Equal(t, EventCoursePublished, recvMessage(t, c.Outbound, time.Second).Event)
}

func TestHubJoinUserAddsOpenStreams(t *testing.T) {
	hub := NewHub(logger.Nop())
	phone := hub.NewClient(7)
	laptop := hub.NewClient(7)
	other := hub.NewClient(8)
	for _, c := range []*Client{phone, laptop, other} {
		hub.Join(c, UserRoom(c.UserID))
	}

	room := CourseRoom(3)
	require.NoError(t, hub.JoinUser(context.Background(), 7, room))
	require.NoError(t, hub.JoinUser(context.Background(), 7, " "))
	assert.Equal(t, 2, hub.RoomSize(room))
	assert.True(t, phone.Rooms[room])
	assert.Empty(t, phone.Outbound)

	hub.Broadcast(Message{Room: room, Event: EventModuleAdded})
	assert.Equal(t, EventModuleAdded, recvMessage(t, phone.Outbound, time.Second).Event)
	assert.Equal(t, EventModuleAdded, recvMessage(t, laptop.Outbound, time.Second).Event)
	assert.Empty(t, other.Outbound)

	hub.CloseClient(phone)
	assert.Equal(t, 1, hub.RoomSize(room))
}

func TestHubJoinUserThroughBus(t *testing.T) {
	hub := NewHub(logger.Nop())
	bus := &fakeBus{}
	require.NoError(t, hub.UseBus(context.Background(), bus))

	c := hub.NewClient(4)
	hub.Join(c, UserRoom(4))
	require.NoError(t, hub.JoinUser(context.Background(), 4, CourseRoom(9)))

	require.Len(t, bus.published, 1)
	assert.Equal(t, EventRoomJoin, bus.published[0].Event)
	assert.Equal(t, UserRoom(4), bus.published[0].Room)
	assert.Equal(t, 1, hub.RoomSize(CourseRoom(9)))
}

type failingWriter struct{ after int }

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.after <= 0 {
		return 0, errors.New("broken pipe")
	}
	f.after--
	return len(p), nil
}

func TestStreamWritesEventsAndStopsOnClose(t *testing.T) {
	hub := NewHub(logger.Nop())
	c := hub.NewClient(1)
	hub.Join(c, UserRoom(1))

	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		hub.Stream(bufio.NewWriter(&buf), c, time.Hour)
		close(done)
	}()

	hub.Broadcast(Message{Room: UserRoom(1), Event: EventNotification, Data: "hi"})
	time.Sleep(50 * time.Millisecond)
	hub.CloseClient(c)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream did not stop")
	}
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "retry: 3000"))
	assert.Contains(t, out, `data: {"room":"user:1","event":"notification","data":"hi"}`)
}

func TestStreamStopsOnWriteFailure(t *testing.T) {
	hub := NewHub(logger.Nop())
	c := hub.NewClient(1)
	hub.Join(c, UserRoom(1))

	done := make(chan struct{})
	go func() {
		hub.Stream(bufio.NewWriterSize(&failingWriter{after: 1}, 16), c, 10*time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream did not stop after write failure")
	}
	assert.Equal(t, 0, hub.RoomSize(UserRoom(1)))
}
