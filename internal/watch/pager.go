package watch

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/clipstream/clipstream/internal/api"
)

// DefaultPageSize matches the service's default comment page size.
const DefaultPageSize = 10

// A short pause before reloading after a submit tolerates read-after-write
// lag on the service side.
const defaultReloadDelay = 100 * time.Millisecond

// ErrEmptyComment is returned for empty or whitespace-only submissions,
// before any request is made.
var ErrEmptyComment = errors.New("comment content is empty")

// CommentService is the slice of the API client the pager consumes.
type CommentService interface {
	ListComments(ctx context.Context, videoID int64, page, size int) (*api.CommentPage, error)
	AddComment(ctx context.Context, videoID int64, content string) (*api.Comment, error)
	DeleteComment(ctx context.Context, videoID, commentID int64) error
}

// ConfirmFunc asks the user to confirm a destructive action.
type ConfirmFunc func(prompt string) bool

// Pager owns paginated retrieval and mutation of one video's comments. Pages
// replace each other wholesale; items are re-sorted by creation time
// descending because the service's ordering is not trusted. Loads are keyed
// by the page index they target, and a completion whose target has been
// superseded is discarded.
type Pager struct {
	svc         CommentService
	videoID     int64
	size        int
	reloadDelay time.Duration

	mu     sync.Mutex
	target int
	page   *api.CommentPage
	err    error
}

func NewPager(svc CommentService, videoID int64, size int) *Pager {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Pager{
		svc:         svc,
		videoID:     videoID,
		size:        size,
		reloadDelay: defaultReloadDelay,
	}
}

// Load fetches the given page. A stale completion (the target moved while the
// request was in flight) is dropped without touching state.
func (p *Pager) Load(ctx context.Context, pageIndex int) error {
	if pageIndex < 0 {
		pageIndex = 0
	}

	p.mu.Lock()
	p.target = pageIndex
	p.mu.Unlock()

	page, err := p.svc.ListComments(ctx, p.videoID, pageIndex, p.size)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.target != pageIndex {
		return nil
	}
	if err != nil {
		p.err = err
		return err
	}
	sortCommentsDesc(page.Content)
	p.page = page
	p.err = nil
	return nil
}

// NextPage advances one page; a no-op at the last page.
func (p *Pager) NextPage(ctx context.Context) error {
	p.mu.Lock()
	next := p.target + 1
	total := 0
	if p.page != nil {
		total = p.page.TotalPages
	}
	p.mu.Unlock()

	if next >= total {
		return nil
	}
	return p.Load(ctx, next)
}

// PrevPage goes back one page; a no-op at page zero.
func (p *Pager) PrevPage(ctx context.Context) error {
	p.mu.Lock()
	current := p.target
	p.mu.Unlock()

	if current == 0 {
		return nil
	}
	return p.Load(ctx, current-1)
}

// Submit posts a new comment and, on success, resets pagination to the first
// page and reloads. Rate-limit and session failures pass through untouched so
// callers can surface them distinctly.
func (p *Pager) Submit(ctx context.Context, content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyComment
	}
	if _, err := p.svc.AddComment(ctx, p.videoID, content); err != nil {
		return err
	}
	if p.reloadDelay > 0 {
		select {
		case <-time.After(p.reloadDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return p.Load(ctx, 0)
}

// Delete removes a comment after confirmation and reloads the current page.
// If the deletion emptied the last page, the index is re-clamped onto the new
// final page.
func (p *Pager) Delete(ctx context.Context, commentID int64, confirm ConfirmFunc) error {
	if confirm != nil && !confirm("Delete this comment?") {
		return nil
	}
	if err := p.svc.DeleteComment(ctx, p.videoID, commentID); err != nil {
		return err
	}

	p.mu.Lock()
	current := p.target
	p.mu.Unlock()

	if err := p.Load(ctx, current); err != nil {
		return err
	}

	p.mu.Lock()
	last := -1
	if p.page != nil && p.page.TotalPages > 0 {
		last = p.page.TotalPages - 1
	}
	reclamp := last >= 0 && p.target > last
	p.mu.Unlock()

	if reclamp {
		return p.Load(ctx, last)
	}
	return nil
}

// Page returns a copy of the most recently applied page, or nil before the
// first successful load.
func (p *Pager) Page() *api.CommentPage {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.page == nil {
		return nil
	}
	copied := *p.page
	copied.Content = append([]api.Comment{}, p.page.Content...)
	return &copied
}

// PageIndex is the index of the page the pager currently targets.
func (p *Pager) PageIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.target
}

// Err is the failure of the last applied load, if any.
func (p *Pager) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func sortCommentsDesc(comments []api.Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedTime().After(comments[j].CreatedTime())
	})
}
