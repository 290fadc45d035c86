// Package engine owns the in-memory message list of one open conversation
// view and keeps it consistent across optimistic local sends, server
// round-trips and out-of-band push events.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"conversync/api"
	"conversync/internal/observability"
	"conversync/models"
	"conversync/push"
	"conversync/quote"
)

var (
	// ErrSendFailed marks a create request that was rolled back.
	ErrSendFailed = errors.New("send failed")
	// ErrFetchFailed marks a history load that produced no list.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrClosed marks operations against a torn-down reconciler.
	ErrClosed = errors.New("reconciler closed")
	// ErrUnknownMessage marks references to a message not in the list.
	ErrUnknownMessage = errors.New("message not in list")
)

// Reconciler is the per-conversation state machine. Each open conversation
// view owns an independent instance; two views of the same conversation
// reconcile only through the push stream and refetches, never shared memory.
type Reconciler struct {
	mu sync.Mutex

	backend        api.ConversationAPI
	conversationID int64
	userID         int64

	conversation models.Conversation
	list         []models.Message
	mine         *ReactionSet
	dedup        *DedupWindow
	gen          placeholderGen
	closed       bool
}

// NewReconciler builds a reconciler for one conversation, owned by userID.
func NewReconciler(backend api.ConversationAPI, conversationID, userID int64) *Reconciler {
	return &Reconciler{
		backend:        backend,
		conversationID: conversationID,
		userID:         userID,
		conversation:   models.Conversation{ID: conversationID},
		mine:           NewReactionSet(),
		dedup:          NewDedupWindow(DefaultDedupCapacity),
	}
}

// Load fetches the initial history. On failure the list stays empty; the view
// shows an error state rather than a partial list.
func (r *Reconciler) Load(ctx context.Context) error {
	msgs, err := r.backend.ListMessages(ctx, r.conversationID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.replaceLocked(msgs)
	return nil
}

// RefreshParticipants re-resolves the participant list, independent of
// messages.
func (r *Reconciler) RefreshParticipants(ctx context.Context) error {
	conversations, err := r.backend.ListConversations(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	for _, conv := range conversations {
		if conv.ID == r.conversationID {
			r.conversation = conv
			break
		}
	}
	return nil
}

// Messages returns a snapshot copy of the current list, insertion-ordered.
func (r *Reconciler) Messages() []models.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Message, len(r.list))
	copy(out, r.list)
	return out
}

// MyReactions returns the viewer's own reactions on a message.
func (r *Reconciler) MyReactions(messageID int64) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mine.For(messageID)
}

// OptimisticSend appends a pending placeholder immediately, then confirms or
// rolls it back once the create request resolves. The placeholder is replaced
// in place by position so confirmation never reorders the list. No automatic
// retry on failure.
func (r *Reconciler) OptimisticSend(ctx context.Context, content string) (models.Message, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return models.Message{}, ErrClosed
	}
	placeholder := models.Message{
		ID:             r.gen.Next(),
		ConversationID: r.conversationID,
		SenderID:       r.userID,
		Content:        content,
		SentAt:         time.Now(),
		Reactions:      map[string]int{},
	}
	r.list = append(r.list, placeholder)
	r.mu.Unlock()

	created, err := r.backend.CreateMessage(ctx, r.conversationID, content)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return models.Message{}, ErrClosed
	}

	idx := r.indexOfLocked(placeholder.ID)
	if err != nil {
		if idx >= 0 {
			r.list = append(r.list[:idx], r.list[idx+1:]...)
		}
		observability.IncSend("failure")
		return models.Message{}, fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	confirmed := placeholder
	confirmed.ID = created.ID
	confirmed.SenderID = created.SenderID
	confirmed.SentAt = created.SentAt
	if idx >= 0 {
		r.list[idx] = confirmed
	}
	// The push echo for this id must not trigger another refetch.
	r.dedup.Record(created.ID)
	observability.IncSend("success")
	return confirmed, nil
}

// QuoteReply encodes a reply quoting the given message, resolving the author
// label from the participant list. Feed the result to OptimisticSend.
func (r *Reconciler) QuoteReply(messageID int64, reply string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexOfLocked(messageID)
	if idx < 0 {
		return "", ErrUnknownMessage
	}
	original := r.list[idx]
	label := r.conversation.LabelFor(original.SenderID)
	return quote.Encode(label, original.SentAt, original.Content, reply), nil
}

// DeleteMessage removes a message on the backend and, on success, from the
// list. On failure the list is left unchanged; deletion is owner-only and
// idempotent, so there is nothing to roll back.
func (r *Reconciler) DeleteMessage(ctx context.Context, messageID int64) error {
	if err := r.backend.DeleteMessage(ctx, r.conversationID, messageID); err != nil {
		log.Printf("conversync: delete message %d failed: %v", messageID, err)
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if idx := r.indexOfLocked(messageID); idx >= 0 {
		r.list = append(r.list[:idx], r.list[idx+1:]...)
	}
	return nil
}

// ToggleReaction flips the viewer's reaction on a message. The personal state
// always settles on the toggled value regardless of the network outcome;
// aggregate counts are never touched here and converge via reaction:update
// refetch.
func (r *Reconciler) ToggleReaction(ctx context.Context, messageID int64, emoji string) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	removing := r.mine.Has(messageID, emoji)
	r.mu.Unlock()

	var err error
	if removing {
		err = r.backend.RemoveReaction(ctx, r.conversationID, messageID, emoji)
	} else {
		err = r.backend.AddReaction(ctx, r.conversationID, messageID, emoji)
	}
	if err != nil {
		log.Printf("conversync: reaction toggle on message %d failed: %v", messageID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if removing {
		r.mine.Remove(messageID, emoji)
		observability.IncReactionToggle("remove")
	} else {
		r.mine.Add(messageID, emoji)
		observability.IncReactionToggle("add")
	}
}

// ApplyPushEvent reconciles one push event. Events for other conversations
// are ignored. message:new events for ids already materialized locally are
// dropped; everything else triggers a wholesale refetch, which imposes the
// server's ordering.
func (r *Reconciler) ApplyPushEvent(ctx context.Context, ev models.PushEvent) {
	if ev.ConversationID != r.conversationID {
		return
	}
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return
	}

	var reason string
	switch ev.Type {
	case models.EventMessageNew:
		if ev.MessageID != 0 {
			if r.dedup.Has(ev.MessageID) {
				observability.IncDedupHit()
				return
			}
			r.dedup.Record(ev.MessageID)
		}
		reason = "message_new"
	case models.EventMessageDeleted:
		reason = "message_deleted"
	case models.EventReactionUpdate:
		reason = "reaction_update"
	default:
		return
	}

	r.refetch(ctx, reason)
}

// Subscribe attaches the reconciler to a push listener. Conversation
// filtering happens here, on the subscriber side.
func (r *Reconciler) Subscribe(listener *push.Listener) *push.Subscription {
	return listener.Subscribe(func(ev models.PushEvent) {
		r.ApplyPushEvent(context.Background(), ev)
	})
}

// Close marks the reconciler torn down. Late completions of in-flight
// requests and push dispatches become no-ops.
func (r *Reconciler) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

func (r *Reconciler) refetch(ctx context.Context, reason string) {
	msgs, err := r.backend.ListMessages(ctx, r.conversationID)
	if err != nil {
		// Self-corrects on the next event; never surfaces to the view.
		log.Printf("conversync: refetch after %s failed: %v", reason, err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.replaceLocked(msgs)
	observability.IncRefetch(reason)
}

func (r *Reconciler) replaceLocked(msgs []models.Message) {
	r.list = msgs
	for _, m := range msgs {
		r.dedup.Record(m.ID)
	}
}

func (r *Reconciler) indexOfLocked(messageID int64) int {
	for i, m := range r.list {
		if m.ID == messageID {
			return i
		}
	}
	return -1
}
