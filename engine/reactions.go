package engine

import "sort"

// ReactionSet tracks the emoji the current viewer has applied per message.
// It only drives toggle-button state; aggregate counts live on the messages
// themselves and converge via push-triggered refetch. Not safe for concurrent
// use on its own; the owning Reconciler guards it.
type ReactionSet struct {
	byMessage map[int64]map[string]struct{}
}

// NewReactionSet builds an empty set.
func NewReactionSet() *ReactionSet {
	return &ReactionSet{byMessage: make(map[int64]map[string]struct{})}
}

// Has reports whether the viewer reacted to the message with emoji.
func (s *ReactionSet) Has(messageID int64, emoji string) bool {
	_, ok := s.byMessage[messageID][emoji]
	return ok
}

// Add records the viewer's reaction.
func (s *ReactionSet) Add(messageID int64, emoji string) {
	set, ok := s.byMessage[messageID]
	if !ok {
		set = make(map[string]struct{})
		s.byMessage[messageID] = set
	}
	set[emoji] = struct{}{}
}

// Remove withdraws the viewer's reaction.
func (s *ReactionSet) Remove(messageID int64, emoji string) {
	set, ok := s.byMessage[messageID]
	if !ok {
		return
	}
	delete(set, emoji)
	if len(set) == 0 {
		delete(s.byMessage, messageID)
	}
}

// For returns the viewer's reactions on a message, sorted for stable output.
func (s *ReactionSet) For(messageID int64) []string {
	set := s.byMessage[messageID]
	if len(set) == 0 {
		return nil
	}
	emoji := make([]string, 0, len(set))
	for e := range set {
		emoji = append(emoji, e)
	}
	sort.Strings(emoji)
	return emoji
}
