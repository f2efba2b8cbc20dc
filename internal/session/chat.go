package session

import (
	"context"
	"strings"

	"skillsync/internal/ai"
	"skillsync/internal/errors"
	"skillsync/internal/types"
)

// Assistant messages
const (
	ChatGreeting      = "Hi there! I'm your AI Career Assistant. How can I help you with your career goals today?"
	ChatInitFailedMsg = "Sorry, I am having trouble connecting right now. Please try again later."
	ChatSendFailedMsg = "Oops! Something went wrong. Please try again."
)

// ErrChatRejected is returned when a message cannot be sent: blank text, a
// send still outstanding, or no chat session. The transcript is unchanged.
var ErrChatRejected = errors.NewConflictError(errors.ErrCodeChatRejected,
	"The message was not sent. Wait for the previous reply or reopen the assistant.")

// ChatState summarizes the assistant for snapshots
type ChatState struct {
	Open       bool `json:"open"`
	Connected  bool `json:"connected"`
	Connecting bool `json:"connecting"`
	Sending    bool `json:"sending"`
	Messages   int  `json:"messages"`
}

// ChatAssistant is the floating career assistant. The model-side chat is
// created on first open and kept for the life of the session.
type ChatAssistant struct {
	s *Session

	chat       ai.ChatSession
	connecting bool
	open       bool
	greeted    bool
	sending    bool
	transcript []types.ChatMessage
}

// Open shows the assistant, creating the chat on first use. A creation
// failure is reported in the transcript, not as an error; the next Open tries
// again. The model call runs without the session lock, and an Open that
// arrives while another is connecting returns the current state.
func (c *ChatAssistant) Open(ctx context.Context) ChatState {
	c.s.mu.Lock()
	c.s.touchLocked()
	c.open = true
	if !c.greeted {
		c.greeted = true
		c.transcript = append(c.transcript, types.ChatMessage{Sender: types.SenderAI, Text: ChatGreeting})
	}
	if c.chat != nil || c.connecting {
		defer c.s.mu.Unlock()
		return c.stateLocked()
	}
	c.connecting = true
	c.s.mu.Unlock()

	chat, err := c.s.provider.NewChatSession(ctx)

	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.connecting = false
	if err != nil {
		c.s.logger.LogError(err, "Failed to initialize chat assistant")
		c.transcript = append(c.transcript, types.ChatMessage{Sender: types.SenderAI, Text: ChatInitFailedMsg})
	} else {
		c.chat = chat
	}
	return c.stateLocked()
}

// Close hides the assistant; the conversation is kept
func (c *ChatAssistant) Close() ChatState {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.open = false
	return c.stateLocked()
}

// Send posts a user message and appends the reply. Send failures are
// appended as an assistant message and the returned message is that reply.
func (c *ChatAssistant) Send(ctx context.Context, text string) (types.ChatMessage, error) {
	c.s.mu.Lock()
	if strings.TrimSpace(text) == "" || c.sending || c.chat == nil {
		c.s.mu.Unlock()
		return types.ChatMessage{}, ErrChatRejected
	}
	c.sending = true
	c.transcript = append(c.transcript, types.ChatMessage{Sender: types.SenderUser, Text: text})
	chat := c.chat
	c.s.touchLocked()
	c.s.mu.Unlock()

	reply, _, err := chat.Send(ctx, text)

	msg := types.ChatMessage{Sender: types.SenderAI, Text: reply}
	if err != nil {
		c.s.logger.LogError(err, "Chat message failed")
		msg.Text = ChatSendFailedMsg
	}

	c.s.mu.Lock()
	c.sending = false
	c.transcript = append(c.transcript, msg)
	c.s.mu.Unlock()

	c.s.recorder.ChatMessageSent(ctx, err)
	return msg, nil
}

// Transcript returns a copy of the conversation
func (c *ChatAssistant) Transcript() []types.ChatMessage {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return append([]types.ChatMessage(nil), c.transcript...)
}

// State returns the assistant summary
func (c *ChatAssistant) State() ChatState {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return c.stateLocked()
}

func (c *ChatAssistant) stateLocked() ChatState {
	return ChatState{
		Open:       c.open,
		Connected:  c.chat != nil,
		Connecting: c.connecting,
		Sending:    c.sending,
		Messages:   len(c.transcript),
	}
}
