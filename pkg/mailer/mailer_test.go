package mailer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type chanSender struct {
	got chan Message
	err error
}

func (s *chanSender) Send(_ context.Context, msg Message) error {
	s.got <- msg
	return s.err
}

type blockingSender struct{ done chan error }

func (s *blockingSender) Send(ctx context.Context, _ Message) error {
	<-ctx.Done()
	s.done <- ctx.Err()
	return ctx.Err()
}

func TestNotifier_DeliversAsync(t *testing.T) {
	s := &chanSender{got: make(chan Message, 1)}
	n := NewNotifier(s, time.Second, zap.NewNop())

	n.Notify(Message{To: "a@eastdelta.edu.bd", Subject: "hi", Body: "body"})

	select {
	case msg := <-s.got:
		assert.Equal(t, "a@eastdelta.edu.bd", msg.To)
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}
}

func TestNotifier_FailureIsSwallowed(t *testing.T) {
	s := &chanSender{got: make(chan Message, 1), err: errors.New("smtp down")}
	n := NewNotifier(s, time.Second, zap.NewNop())

	n.Notify(Message{To: "a@eastdelta.edu.bd"})
	<-s.got
}

func TestNotifier_TimeoutBoundsSend(t *testing.T) {
	s := &blockingSender{done: make(chan error, 1)}
	n := NewNotifier(s, 20*time.Millisecond, zap.NewNop())

	n.Notify(Message{To: "a@eastdelta.edu.bd"})

	select {
	case err := <-s.done:
		require.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(2 * time.Second):
		t.Fatal("send was not cancelled")
	}
}

func TestNotifier_NilAndEmptyRecipient(t *testing.T) {
	var n *Notifier
	n.Notify(Message{To: "x@y"})

	s := &chanSender{got: make(chan Message, 1)}
	NewNotifier(s, time.Second, zap.NewNop()).Notify(Message{})
	select {
	case <-s.got:
		t.Fatal("empty recipient must not be sent")
	case <-time.After(50 * time.Millisecond):
	}
}
