package dashboard

import (
	"context"

	"github.com/google/uuid"
)

// SelectionChange is a partial update from a viewer. Nil fields keep the
// current value.
type SelectionChange struct {
	Disease  *string `json:"disease,omitempty"`
	Location *string `json:"location,omitempty"`
}

// Session holds one viewer's selection across interactions. It is not safe
// for concurrent use; each connection drives its own session.
type Session struct {
	id        string
	service   *Service
	selection Selection
}

// NewSession starts a session on the default selection.
func (s *Service) NewSession() *Session {
	return &Session{
		id:        uuid.NewString(),
		service:   s,
		selection: s.DefaultSelection(),
	}
}

// ID returns the session identifier.
func (ss *Session) ID() string { return ss.id }

// Selection returns the current selection.
func (ss *Session) Selection() Selection { return ss.selection }

// Render recomputes the view-model for the current selection.
func (ss *Session) Render(ctx context.Context) (ViewModel, error) {
	return ss.service.render(ctx, ss.id, ss.selection)
}

// Apply merges a change into the selection and re-renders.
func (ss *Session) Apply(ctx context.Context, change SelectionChange) (ViewModel, error) {
	if change.Disease != nil {
		ss.selection.Disease = *change.Disease
	}
	if change.Location != nil {
		ss.selection.Location = *change.Location
	}
	return ss.Render(ctx)
}
