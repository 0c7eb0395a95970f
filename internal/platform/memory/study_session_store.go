package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/store"
)

// StudySessionStore implements store.StudySessionStore in memory.
type StudySessionStore struct {
	view view
}

// Ensure StudySessionStore implements store.StudySessionStore interface
var _ store.StudySessionStore = (*StudySessionStore)(nil)

// Create implements store.StudySessionStore.Create
func (s *StudySessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	if err := session.Validate(); err != nil {
		return err
	}
	return s.view.write(func(st *state) error {
		if _, ok := st.decks[session.DeckID]; !ok {
			return fmt.Errorf("%w: deck with ID %s not found", store.ErrInvalidEntity, session.DeckID)
		}
		if _, ok := st.tokens[session.Token]; ok {
			return store.ErrSessionTokenExists
		}
		if _, ok := st.sessions[session.ID]; ok {
			return store.ErrDuplicate
		}
		st.sessions[session.ID] = copySession(*session)
		st.tokens[session.Token] = session.ID
		return nil
	})
}

// GetByToken implements store.StudySessionStore.GetByToken
func (s *StudySessionStore) GetByToken(ctx context.Context, token string) (*domain.StudySession, error) {
	var out domain.StudySession
	err := s.view.read(func(st *state) error {
		id, ok := st.tokens[token]
		if !ok {
			return store.ErrStudySessionNotFound
		}
		out = copySession(st.sessions[id])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByTokenForUpdate implements store.StudySessionStore.GetByTokenForUpdate
func (s *StudySessionStore) GetByTokenForUpdate(
	ctx context.Context,
	token string,
) (*domain.StudySession, error) {
	return s.GetByToken(ctx, token)
}

// UpdateCompletion implements store.StudySessionStore.UpdateCompletion
func (s *StudySessionStore) UpdateCompletion(ctx context.Context, session *domain.StudySession) error {
	return s.view.write(func(st *state) error {
		existing, ok := st.sessions[session.ID]
		if !ok {
			return store.ErrStudySessionNotFound
		}
		existing.SessionCounters = session.SessionCounters
		existing.CompletedAt = copyTime(session.CompletedAt)
		st.sessions[session.ID] = existing
		return nil
	})
}

// Delete implements store.StudySessionStore.Delete.
// Like the ON DELETE CASCADE in the schema, it also drops the session's reviews.
func (s *StudySessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.view.write(func(st *state) error {
		session, ok := st.sessions[id]
		if !ok {
			return store.ErrStudySessionNotFound
		}
		delete(st.sessions, id)
		delete(st.tokens, session.Token)
		st.reviews = removeSessionReviews(st.reviews, id)
		return nil
	})
}

// CountCompletedSince implements store.StudySessionStore.CountCompletedSince
func (s *StudySessionStore) CountCompletedSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) (int, error) {
	var n int
	err := s.view.read(func(st *state) error {
		for _, session := range st.sessions {
			if session.UserID != userID || session.CompletedAt == nil {
				continue
			}
			if !session.CompletedAt.Before(since) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func copySession(s domain.StudySession) domain.StudySession {
	s.CompletedAt = copyTime(s.CompletedAt)
	return s
}
