package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"skillsync/internal/ai"
	"skillsync/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatOpenSeedsGreetingOnce(t *testing.T) {
	p := &fakeProvider{}
	s := New(p)

	st := s.Chat.Open(context.Background())
	assert.True(t, st.Open)
	assert.True(t, st.Connected)
	s.Chat.Close()
	s.Chat.Open(context.Background())

	assert.Equal(t, []types.ChatMessage{{Sender: types.SenderAI, Text: ChatGreeting}}, s.Chat.Transcript())
	_, _, chats := p.calls()
	assert.Equal(t, 1, chats, "an existing chat is never recreated")
}

func TestChatInitFailure(t *testing.T) {
	p := &fakeProvider{newChat: func(context.Context) (ai.ChatSession, error) {
		return nil, fmt.Errorf("missing api key")
	}}
	s := New(p)

	st := s.Chat.Open(context.Background())
	assert.False(t, st.Connected)
	assert.Equal(t, []types.ChatMessage{
		{Sender: types.SenderAI, Text: ChatGreeting},
		{Sender: types.SenderAI, Text: ChatInitFailedMsg},
	}, s.Chat.Transcript())

	_, err := s.Chat.Send(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrChatRejected)
	assert.Len(t, s.Chat.Transcript(), 2, "a rejected send leaves the transcript unchanged")

	// The next open tries again
	p.newChat = nil
	st = s.Chat.Open(context.Background())
	assert.True(t, st.Connected)
}

func TestChatOpenDoesNotHoldSessionWhileConnecting(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	p := &fakeProvider{newChat: func(context.Context) (ai.ChatSession, error) {
		close(entered)
		<-release
		return &fakeChat{}, nil
	}}
	s := New(p)

	opened := make(chan ChatState, 1)
	go func() { opened <- s.Chat.Open(context.Background()) }()
	<-entered

	done := make(chan struct{})
	go func() {
		defer close(done)
		snap := s.Snapshot()
		assert.True(t, snap.Chat.Connecting)
		page, err := s.Navigate(context.Background(), "Calendar")
		assert.NoError(t, err)
		assert.Equal(t, types.PageCalendar, page)

		st := s.Chat.Open(context.Background())
		assert.True(t, st.Connecting)
		assert.False(t, st.Connected)
		_, err = s.Chat.Send(context.Background(), "hello")
		assert.ErrorIs(t, err, ErrChatRejected)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session calls waited on chat initialization")
	}

	close(release)
	st := <-opened
	assert.True(t, st.Connected)
	assert.False(t, st.Connecting)
	_, _, chats := p.calls()
	assert.Equal(t, 1, chats, "a second open while connecting does not create another chat")
	assert.Len(t, s.Chat.Transcript(), 1)
}

func TestChatSend(t *testing.T) {
	chat := &fakeChat{}
	s := New(&fakeProvider{newChat: func(context.Context) (ai.ChatSession, error) { return chat, nil }})
	s.Chat.Open(context.Background())

	msg, err := s.Chat.Send(context.Background(), "How do I prepare for interviews?")
	require.NoError(t, err)
	assert.Equal(t, types.ChatMessage{Sender: types.SenderAI, Text: "reply to How do I prepare for interviews?"}, msg)

	_, err = s.Chat.Send(context.Background(), "And salary talks?")
	require.NoError(t, err)

	assert.Equal(t, []string{"How do I prepare for interviews?", "And salary talks?"}, chat.sent)
	transcript := s.Chat.Transcript()
	require.Len(t, transcript, 5)
	assert.Equal(t, types.SenderUser, transcript[1].Sender)
	assert.Equal(t, types.SenderAI, transcript[2].Sender)
	assert.Equal(t, "And salary talks?", transcript[3].Text)
}

func TestChatSendRejections(t *testing.T) {
	t.Run("no session", func(t *testing.T) {
		s := New(&fakeProvider{})
		_, err := s.Chat.Send(context.Background(), "hi")
		assert.ErrorIs(t, err, ErrChatRejected)
		assert.Empty(t, s.Chat.Transcript())
	})

	t.Run("blank text", func(t *testing.T) {
		s := New(&fakeProvider{})
		s.Chat.Open(context.Background())
		_, err := s.Chat.Send(context.Background(), "   ")
		assert.ErrorIs(t, err, ErrChatRejected)
		assert.Len(t, s.Chat.Transcript(), 1)
	})

	t.Run("send outstanding", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		chat := &fakeChat{send: func(context.Context, string) (string, error) {
			close(started)
			<-release
			return "done", nil
		}}
		s := New(&fakeProvider{newChat: func(context.Context) (ai.ChatSession, error) { return chat, nil }})
		s.Chat.Open(context.Background())

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = s.Chat.Send(context.Background(), "first")
		}()
		<-started

		assert.True(t, s.Chat.State().Sending)
		_, err := s.Chat.Send(context.Background(), "second")
		assert.ErrorIs(t, err, ErrChatRejected)

		close(release)
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("send did not finish")
		}
		assert.Equal(t, []string{"first"}, chat.sent)
		assert.Len(t, s.Chat.Transcript(), 3)
	})
}

func TestChatSendFailureIsInBand(t *testing.T) {
	chat := &fakeChat{send: func(context.Context, string) (string, error) {
		return "", fmt.Errorf("503 unavailable")
	}}
	s := New(&fakeProvider{newChat: func(context.Context) (ai.ChatSession, error) { return chat, nil }})
	s.Chat.Open(context.Background())

	msg, err := s.Chat.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, ChatSendFailedMsg, msg.Text)

	transcript := s.Chat.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, types.ChatMessage{Sender: types.SenderUser, Text: "hi"}, transcript[1])
	assert.Equal(t, types.ChatMessage{Sender: types.SenderAI, Text: ChatSendFailedMsg}, transcript[2])
	assert.False(t, s.Chat.State().Sending)
}

func TestChatIsIndependentOfGapAnalysis(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	p := &fakeProvider{analyze: func(context.Context, types.AnalyzeGapInput) (types.AnalysisResult, error) {
		close(started)
		<-release
		return sampleResult(), nil
	}}
	s := New(p)
	s.Chat.Open(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Gap.Submit(context.Background())
	}()
	<-started

	_, err := s.Chat.Send(context.Background(), "hi while analyzing")
	require.NoError(t, err)

	close(release)
	<-done
}
