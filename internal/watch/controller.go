package watch

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/clipstream/clipstream/internal/api"
	"github.com/clipstream/clipstream/internal/credstore"
	"github.com/clipstream/clipstream/internal/session"
)

// Service is the full API surface one video view consumes.
type Service interface {
	VideoService
	CommentService
	LikeService
}

// LoginRequiredError signals that a gated action needs authentication first.
// ReturnPath is where the login flow should navigate back to.
type LoginRequiredError struct {
	ActionName string
	ReturnPath string
}

func (e *LoginRequiredError) Error() string {
	return fmt.Sprintf("login required to %s (return to %s)", e.ActionName, e.ReturnPath)
}

// Snapshot is a copy of the view state, safe to hand to a renderer.
type Snapshot struct {
	Session     session.Session
	Video       *api.Video
	NotFound    bool
	VideoErr    error
	Comments    *api.CommentPage
	CommentsErr error
	PageIndex   int
	Like        api.LikeState
	LikeErr     error
}

// Controller sequences a single video view: one session derivation on entry,
// the three independent section fetches issued concurrently, and gated user
// actions afterwards. Section failures degrade locally; no single failure
// aborts the whole view.
type Controller struct {
	svc        Service
	creds      *credstore.Store
	videoID    int64
	returnPath string

	pager      *Pager
	engagement *Engagement

	mu       sync.Mutex
	sess     session.Session
	video    *api.Video
	notFound bool
	videoErr error
	likeErr  error
}

func NewController(svc Service, creds *credstore.Store, videoID int64, pageSize int) *Controller {
	c := &Controller{
		svc:        svc,
		creds:      creds,
		videoID:    videoID,
		returnPath: fmt.Sprintf("/video/%d", videoID),
		pager:      NewPager(svc, videoID, pageSize),
		engagement: NewEngagement(svc, svc),
	}

	// credential transitions (login, logout, forced expiry on a 401) flow in
	// through the store's subscription rather than polling
	creds.Subscribe(func(credstore.Change) {
		sess, _ := session.Derive(creds.Token())
		c.mu.Lock()
		c.sess = sess
		c.mu.Unlock()
	})

	return c
}

// Enter loads the view for the first time. The view-register+detail fetch,
// the first comment page, and the like status (authenticated sessions only)
// are independent, so they are issued concurrently.
func (c *Controller) Enter(ctx context.Context) error {
	sess := session.DeriveFromStore(c.creds)
	c.mu.Lock()
	c.sess = sess
	c.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		video, err := c.engagement.RegisterView(gctx, c.videoID)
		c.mu.Lock()
		defer c.mu.Unlock()
		switch {
		case errors.Is(err, api.ErrNotFound):
			c.notFound = true
			c.videoErr = err
		case err != nil:
			c.videoErr = err
		default:
			c.video = video
			c.videoErr = nil
		}
		return nil
	})

	g.Go(func() error {
		// the pager records its own section error
		_ = c.pager.Load(gctx, 0)
		return nil
	})

	if sess.Authenticated {
		g.Go(func() error {
			if err := c.engagement.LoadStatus(gctx, c.videoID, sess); err != nil {
				c.mu.Lock()
				c.likeErr = err
				c.mu.Unlock()
			}
			return nil
		})
	}

	return g.Wait()
}

// AddComment submits a comment through the gate.
func (c *Controller) AddComment(ctx context.Context, content string) error {
	if err := c.requireAuth(session.ActionComment); err != nil {
		return err
	}
	return c.pager.Submit(ctx, content)
}

// DeleteComment deletes a comment through the gate, after confirmation.
func (c *Controller) DeleteComment(ctx context.Context, commentID int64, confirm ConfirmFunc) error {
	if err := c.requireAuth(session.ActionDeleteComment); err != nil {
		return err
	}
	return c.pager.Delete(ctx, commentID, confirm)
}

// ToggleLike toggles the like through the gate.
func (c *Controller) ToggleLike(ctx context.Context) (api.LikeState, error) {
	if err := c.requireAuth(session.ActionLike); err != nil {
		return c.engagement.State(), err
	}
	return c.engagement.Toggle(ctx, c.videoID)
}

// NextPage and PrevPage are public reads and bypass the gate.
func (c *Controller) NextPage(ctx context.Context) error { return c.pager.NextPage(ctx) }
func (c *Controller) PrevPage(ctx context.Context) error { return c.pager.PrevPage(ctx) }

// CanDelete reports whether the delete affordance should be shown for a
// comment. Advisory only; the service enforces ownership.
func (c *Controller) CanDelete(cm api.Comment) bool {
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()

	authorID := ""
	if cm.AuthorID != 0 {
		authorID = strconv.FormatInt(cm.AuthorID, 10)
	}
	return session.CanDelete(sess, authorID, cm.AuthorUsername)
}

// Snapshot copies the current view state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	snap := Snapshot{
		Session:  c.sess,
		Video:    c.video,
		NotFound: c.notFound,
		VideoErr: c.videoErr,
		LikeErr:  c.likeErr,
	}
	c.mu.Unlock()

	snap.Comments = c.pager.Page()
	snap.CommentsErr = c.pager.Err()
	snap.PageIndex = c.pager.PageIndex()
	snap.Like = c.engagement.State()
	return snap
}

func (c *Controller) requireAuth(action session.Action) error {
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()

	decision := session.Authorize(sess, action, c.returnPath)
	if !decision.Allowed {
		return &LoginRequiredError{ActionName: action.String(), ReturnPath: decision.ReturnPath}
	}
	return nil
}
