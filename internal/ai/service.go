// Package ai implements the chat brain: it keeps conversations, builds bounded
// model context, and degrades to canned replies when the model call fails.
package ai

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rizecleaning/clara/internal/conversation"
	"github.com/rizecleaning/clara/internal/llm"
)

const (
	maxReplyTokens = 500
	temperature    = 0.7

	// anonymousUser labels conversations started without an identified user.
	anonymousUser = "anonymous"
)

// ErrEmptyMessage rejects blank input before any conversation state is touched.
var ErrEmptyMessage = errors.New("message is empty")

// Reply is the outcome of one respond cycle.
type Reply struct {
	Text           string
	ConversationID string
}

// Service drives the respond cycle: record the user turn, call the model with
// bounded context, and answer from the rule table when the call fails. A model
// failure is never surfaced to the caller.
type Service struct {
	client   llm.Client
	convs    *conversation.Store
	fallback *Responder
	logger   *slog.Logger
}

func NewService(client llm.Client, convs *conversation.Store, logger *slog.Logger) (*Service, error) {
	fallback, err := NewResponder()
	if err != nil {
		return nil, err
	}
	return &Service{client: client, convs: convs, fallback: fallback, logger: logger}, nil
}

// Respond processes one user message and returns the assistant reply. An empty
// conversationID starts a new conversation; an empty userID is recorded as
// anonymous. The whole cycle runs under the conversation's lock, so a reader
// never observes a user turn without its assistant turn.
func (s *Service) Respond(ctx context.Context, conversationID, userID, message string) (Reply, error) {
	if strings.TrimSpace(message) == "" {
		return Reply{}, ErrEmptyMessage
	}
	if userID == "" {
		userID = anonymousUser
	}
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	var text string
	err := s.convs.With(conversationID, userID, func(c *conversation.Conversation) error {
		c.Append(conversation.RoleUser, message)

		start := time.Now()
		reply, err := s.client.Complete(ctx, BuildContext(c), llm.Params{
			MaxTokens:   maxReplyTokens,
			Temperature: temperature,
		})
		switch {
		case err == nil:
			s.logger.Debug("completion ok",
				"conversation_id", conversationID,
				"duration_ms", time.Since(start).Milliseconds())
		default:
			var infErr *llm.InferenceError
			if !errors.As(err, &infErr) {
				// Cancellation and other non-inference errors propagate.
				return err
			}
			s.logger.Warn("completion failed, using fallback",
				"conversation_id", conversationID,
				"kind", string(infErr.Kind),
				"duration_ms", time.Since(start).Milliseconds(),
				"error", infErr.Err.Error())
			reply = s.fallback.Reply(message)
		}

		c.Append(conversation.RoleAssistant, reply)
		text = reply
		return nil
	})
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: text, ConversationID: conversationID}, nil
}
