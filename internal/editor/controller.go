package editor

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/arvidhall/wellnessflow/internal/domain"
	apperrors "github.com/arvidhall/wellnessflow/internal/platform/errors"
)

// SyncStatus is the controller's view of buffer-vs-store consistency. It is
// derived state for display, never persisted.
type SyncStatus string

const (
	SyncIdle    SyncStatus = "idle"
	SyncPending SyncStatus = "pending"
	SyncSaved   SyncStatus = "saved"
	SyncFailed  SyncStatus = "failed"
)

const (
	debounceDelay     = 5 * time.Second
	periodicInterval  = 30 * time.Second
	statusDisplayTime = 2 * time.Second
	persistTimeout    = 10 * time.Second
)

// Persister issues the actual persist calls. *Client implements it.
type Persister interface {
	CreateSession(ctx context.Context, draft SessionDraft) (*SessionDocument, error)
	UpdateSession(ctx context.Context, sessionID string, draft SessionDraft) (*SessionDocument, error)
}

// Controller owns one edit buffer and decides when to persist it: a
// trailing-edge debounce fires 5s after the last edit, a periodic check runs
// every 30s while dirty, and Save/Publish persist immediately. At most one
// persist is in flight; triggers that arrive meanwhile coalesce into the next
// dirtiness check rather than queueing a second call.
type Controller struct {
	persister Persister
	clock     clockwork.Clock
	listener  func(SyncStatus)

	mu         sync.Mutex
	buffer     *Buffer
	lastSynced string
	status     SyncStatus

	debounce clockwork.Timer
	display  clockwork.Timer
	inFlight bool
	settled  chan struct{}
}

type ControllerOption func(*Controller)

func WithClock(clock clockwork.Clock) ControllerOption {
	return func(c *Controller) {
		c.clock = clock
	}
}

// WithStatusListener registers a callback invoked on every status transition.
// The callback runs with the controller lock held and must not call back in.
func WithStatusListener(listener func(SyncStatus)) ControllerOption {
	return func(c *Controller) {
		c.listener = listener
	}
}

// NewController wraps a buffer. A hydrated buffer (non-empty SessionID)
// starts clean; a new buffer has no snapshot and is dirty as soon as it has
// a title.
func NewController(buffer *Buffer, persister Persister, opts ...ControllerOption) *Controller {
	c := &Controller{
		persister: persister,
		clock:     clockwork.NewRealClock(),
		buffer:    buffer,
		status:    SyncIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	if buffer.SessionID != "" {
		c.lastSynced = buffer.Snapshot()
	}
	return c
}

// Run drives the periodic trigger until ctx is canceled. The debounce and
// manual triggers work without it.
func (c *Controller) Run(ctx context.Context) {
	ticker := c.clock.NewTicker(periodicInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			c.persistIfDirty()
		}
	}
}

// --- Edits ---

func (c *Controller) SetTitle(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buffer.Title == title {
		return
	}
	c.buffer.Title = title
	c.noteEditLocked()
}

func (c *Controller) SetContent(content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buffer.Content == content {
		return
	}
	c.buffer.Content = content
	c.noteEditLocked()
}

func (c *Controller) AddTag(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buffer.AddTag(tag) {
		c.noteEditLocked()
	}
}

func (c *Controller) RemoveTag(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buffer.RemoveTag(tag) {
		c.noteEditLocked()
	}
}

// noteEditLocked moves to pending and restarts the debounce window, so only
// the last edit of a burst fires a debounce persist.
func (c *Controller) noteEditLocked() {
	c.setStatusLocked(SyncPending)
	if c.debounce != nil {
		c.debounce.Stop()
	}
	c.debounce = c.clock.AfterFunc(debounceDelay, c.persistIfDirty)
}

// --- Accessors ---

func (c *Controller) Status() SyncStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// SessionID returns the assigned identity, empty while unsaved.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer.SessionID
}

func (c *Controller) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer.Snapshot() != c.lastSynced
}

// Document returns a copy of the buffer's current persistable fields.
func (c *Controller) Document() SessionDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer.draft()
}

// --- Persisting ---

// persistIfDirty is the timer path: it skips silently when a persist is
// already in flight, the title is blank, or the buffer matches the last
// synced snapshot.
func (c *Controller) persistIfDirty() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		// Coalesced: the next cycle re-evaluates against the newer buffer.
		return
	}
	if strings.TrimSpace(c.buffer.Title) == "" {
		return
	}
	snapshot := c.buffer.Snapshot()
	if snapshot == c.lastSynced {
		return
	}

	sessionID, draft := c.beginPersistLocked()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		_ = c.persist(ctx, sessionID, draft, snapshot)
	}()
}

// Save persists immediately, bypassing the dirtiness skip. It refuses a
// blank title with a validation error and no network call.
func (c *Controller) Save(ctx context.Context) error {
	return c.manualPersist(ctx, false)
}

// Publish sets the buffer's status to published and persists immediately.
// A nil return tells the caller the publish landed and it can navigate away.
func (c *Controller) Publish(ctx context.Context) error {
	return c.manualPersist(ctx, true)
}

func (c *Controller) manualPersist(ctx context.Context, publish bool) error {
	c.mu.Lock()

	if strings.TrimSpace(c.buffer.Title) == "" {
		c.mu.Unlock()
		return apperrors.ValidationError("title is required")
	}

	// A manual action supersedes a scheduled debounce attempt.
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}

	// An in-flight persist cannot be aborted, only followed up after it
	// settles.
	for c.inFlight {
		settled := c.settled
		c.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-settled:
		}
		c.mu.Lock()
	}

	if publish {
		c.buffer.Status = domain.StatusPublished
	}
	c.setStatusLocked(SyncPending)
	snapshot := c.buffer.Snapshot()
	sessionID, draft := c.beginPersistLocked()
	c.mu.Unlock()

	return c.persist(ctx, sessionID, draft, snapshot)
}

func (c *Controller) beginPersistLocked() (string, SessionDraft) {
	c.inFlight = true
	c.settled = make(chan struct{})
	return c.buffer.SessionID, c.buffer.draft()
}

func (c *Controller) persist(ctx context.Context, sessionID string, draft SessionDraft, snapshot string) error {
	var doc *SessionDocument
	var err error
	if sessionID == "" {
		doc, err = c.persister.CreateSession(ctx, draft)
	} else {
		doc, err = c.persister.UpdateSession(ctx, sessionID, draft)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	close(c.settled)

	if err != nil {
		c.setStatusLocked(SyncFailed)
		c.scheduleDisplayResetLocked()
		return err
	}

	if c.buffer.SessionID == "" {
		c.buffer.SessionID = doc.ID
	}
	// The snapshot of what was sent, not the buffer now: edits made while
	// the request was in flight stay dirty.
	c.lastSynced = snapshot
	c.setStatusLocked(SyncSaved)
	c.scheduleDisplayResetLocked()
	return nil
}

func (c *Controller) setStatusLocked(status SyncStatus) {
	if c.status == status {
		return
	}
	c.status = status
	if c.listener != nil {
		c.listener(status)
	}
}

// scheduleDisplayResetLocked fades saved/failed back to idle after the
// display timeout unless an edit has already moved the status on.
func (c *Controller) scheduleDisplayResetLocked() {
	if c.display != nil {
		c.display.Stop()
	}
	c.display = c.clock.AfterFunc(statusDisplayTime, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.status == SyncSaved || c.status == SyncFailed {
			c.setStatusLocked(SyncIdle)
		}
	})
}
