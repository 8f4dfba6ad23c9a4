package storage

import (
	"context"
	"errors"
	"fmt"

	"smartbar/contextset"
	"smartbar/model"
)

// ChatStore maps context sets to saved transcripts. A transcript is
// associated with every member of the set it was saved under.
type ChatStore struct {
	backend Backend
}

func NewChatStore(backend Backend) *ChatStore {
	return &ChatStore{backend: backend}
}

// Save writes transcript under each member id. An empty transcript clears
// those ids instead of writing an empty entry.
func (s *ChatStore) Save(ctx context.Context, set contextset.Set, transcript model.Transcript) error {
	for _, id := range set.IDs() {
		var err error
		if transcript.Empty() {
			err = s.backend.Delete(ctx, id)
		} else {
			err = s.backend.Put(ctx, id, transcript)
		}
		if err != nil {
			return fmt.Errorf("document %s: %w", id, err)
		}
	}
	return nil
}

// Load returns the transcript for set. The primary document wins when it
// is a member and has a saved transcript; otherwise members are scanned in
// order for the first non-empty one. The presentation always matches the
// returned transcript.
func (s *ChatStore) Load(ctx context.Context, set contextset.Set, primaryID string) (model.Transcript, model.Presentation, error) {
	if primaryID != "" && set.Contains(primaryID) {
		t, err := s.get(ctx, primaryID)
		if err != nil {
			return nil, model.PresentationResults, err
		}
		if !t.Empty() {
			return t, model.PresentationConversation, nil
		}
	}

	for _, id := range set.IDs() {
		if id == primaryID {
			continue
		}
		t, err := s.get(ctx, id)
		if err != nil {
			return nil, model.PresentationResults, err
		}
		if !t.Empty() {
			return t, model.PresentationConversation, nil
		}
	}

	return nil, model.PresentationResults, nil
}

func (s *ChatStore) get(ctx context.Context, id string) (model.Transcript, error) {
	t, err := s.backend.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", id, err)
	}
	return t, nil
}

// Clear drops every saved transcript.
func (s *ChatStore) Clear(ctx context.Context) error {
	return s.backend.Clear(ctx)
}
