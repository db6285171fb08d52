package watch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/clipstream/clipstream/internal/api"
	"github.com/clipstream/clipstream/internal/session"
)

// VideoService is the slice of the API client used for view counting.
type VideoService interface {
	GetVideo(ctx context.Context, id int64) (*api.Video, error)
	RegisterView(ctx context.Context, id int64) error
}

// LikeService is the slice of the API client used for like state.
type LikeService interface {
	ToggleLike(ctx context.Context, id int64) (*api.LikeState, error)
	LikeStatus(ctx context.Context, id int64) (bool, error)
}

// Engagement reconciles the view and like counters with the service. The
// remote response is the sole source of truth for counts; nothing is
// incremented or decremented locally.
type Engagement struct {
	videos VideoService
	likes  LikeService

	mu    sync.Mutex
	state api.LikeState
}

func NewEngagement(videos VideoService, likes LikeService) *Engagement {
	return &Engagement{videos: videos, likes: likes}
}

// RegisterView counts the visit and then fetches the video detail. The
// increment is fire-and-forget: its failure is logged and never blocks the
// detail fetch. Callers run this exactly once per view entry.
func (e *Engagement) RegisterView(ctx context.Context, id int64) (*api.Video, error) {
	video, err := fetchAfter(ctx,
		func(ctx context.Context) error {
			return e.videos.RegisterView(ctx, id)
		},
		func(ctx context.Context) (*api.Video, error) {
			return e.videos.GetVideo(ctx, id)
		},
	)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.state.LikeCount = video.LikeCount
	e.mu.Unlock()
	return video, nil
}

// fetchAfter runs op, discards its outcome, then unconditionally runs fetch.
func fetchAfter[T any](ctx context.Context, op func(context.Context) error, fetch func(context.Context) (T, error)) (T, error) {
	if err := op(ctx); err != nil {
		slog.Warn("ignored operation failed", "error", err)
	}
	return fetch(ctx)
}

// LoadStatus refreshes whether the current user has liked the video. For an
// unauthenticated session the answer is deterministically "not liked" and no
// request is made.
func (e *Engagement) LoadStatus(ctx context.Context, id int64, sess session.Session) error {
	if !sess.Authenticated {
		e.mu.Lock()
		e.state.Liked = false
		e.mu.Unlock()
		return nil
	}

	liked, err := e.likes.LikeStatus(ctx, id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.state.Liked = liked
	e.mu.Unlock()
	return nil
}

// Toggle flips the like and adopts the returned state wholesale, so counts
// stay correct under concurrent likes from other sessions.
func (e *Engagement) Toggle(ctx context.Context, id int64) (api.LikeState, error) {
	state, err := e.likes.ToggleLike(ctx, id)
	if err != nil {
		return e.State(), err
	}
	e.mu.Lock()
	e.state = *state
	e.mu.Unlock()
	return *state, nil
}

// State is a copy of the current like state.
func (e *Engagement) State() api.LikeState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}
