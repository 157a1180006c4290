// Package resource holds the view state behind every dashboard tab: the
// fetched list, a loading flag, an error banner, and the form fields.
//
// A Controller is parametrised by entity type and by the calls that read
// and write it. Every write is followed by a full re-fetch; the controller
// never edits its items in place.
//
// Fetches are sequenced: each one takes the next number from a per-
// controller counter, and a response whose number is not the latest issued
// is dropped. Responses that land after Unmount are dropped as well.
package resource

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

var (
	// ErrStale is returned by a fetch whose response was superseded by a
	// newer fetch of the same controller.
	ErrStale = errors.New("resource: response superseded by a newer request")

	// ErrUnmounted is returned when the controller was unmounted before
	// the response landed, or when it is used after Unmount.
	ErrUnmounted = errors.New("resource: controller unmounted")

	// ErrCancelled is returned by Delete when the user declines.
	ErrCancelled = errors.New("resource: cancelled by user")

	// ErrUnsupported is returned when the controller was built without
	// the requested write call.
	ErrUnsupported = errors.New("resource: operation not supported")
)

// Discarded reports whether err means the response was dropped rather than
// failed.
func Discarded(err error) bool {
	return errors.Is(err, ErrStale) || errors.Is(err, ErrUnmounted)
}

// Form holds the raw text of a form's fields, keyed by field name.
type Form map[string]string

func (f Form) clone() Form {
	out := make(Form, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Confirm asks the user to approve prompt.
type Confirm func(prompt string) bool

// Messages are the fixed user-facing strings of one controller.
type Messages struct {
	Load          string
	Create        string
	Delete        string
	ConfirmDelete string
}

// Config wires a Controller to its endpoint calls.
type Config[T any] struct {
	// Name identifies the controller in logs.
	Name string

	Fetch func(ctx context.Context) ([]T, error)

	// Normalize sorts or rewrites a fetched list before it is stored.
	Normalize func([]T) []T

	// Create submits a validated form. Nil disables Submit.
	Create func(ctx context.Context, form Form) error

	// Remove deletes one entity by id. Nil disables Delete.
	Remove func(ctx context.Context, id string) error

	// Required lists the form fields that must be non-empty.
	Required []string

	// Check runs after the required-field check and may reject the form
	// with a *ValidationError.
	Check func(form Form) error

	Messages Messages
}

// State is a point-in-time copy of a controller's view state.
type State[T any] struct {
	Items   []T
	Loading bool
	Error   string
	Notice  string
	Form    Form
}

// Controller is the view state of one list-backed tab. It is safe for use
// by multiple goroutines.
type Controller[T any] struct {
	cfg Config[T]

	mu       sync.Mutex
	items    []T
	inflight int
	err      string
	notice   string
	form     Form
	seq      uint64
	mounted  bool
	dead     bool
}

// New returns an unmounted controller.
func New[T any](cfg Config[T]) *Controller[T] {
	return &Controller[T]{cfg: cfg, form: Form{}}
}

// Snapshot returns a copy of the current state.
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]T, len(c.items))
	copy(items, c.items)
	return State[T]{
		Items:   items,
		Loading: c.inflight > 0,
		Error:   c.err,
		Notice:  c.notice,
		Form:    c.form.clone(),
	}
}

// Mount runs the first fetch. Later calls are no-ops.
func (c *Controller[T]) Mount(ctx context.Context) error {
	c.mu.Lock()
	if c.dead {
		c.mu.Unlock()
		return ErrUnmounted
	}
	if c.mounted {
		c.mu.Unlock()
		return nil
	}
	c.mounted = true
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// Unmount detaches the controller from its view. In-flight responses are
// dropped when they land.
func (c *Controller[T]) Unmount() {
	c.mu.Lock()
	c.dead = true
	c.mu.Unlock()
}

// begin marks a call in flight. It returns the fetch sequence number when
// fetch is set.
func (c *Controller[T]) begin(fetch bool) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dead {
		return 0, ErrUnmounted
	}
	c.inflight++
	if fetch {
		c.seq++
	}
	return c.seq, nil
}

// Refresh re-reads the list. On failure the previous items stay visible
// under the load error message.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	seq, err := c.begin(true)
	if err != nil {
		return err
	}

	items, fetchErr := c.cfg.Fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dead {
		return ErrUnmounted
	}
	c.inflight--
	if seq != c.seq {
		return ErrStale
	}
	if fetchErr != nil {
		slog.Debug("fetch failed",
			slog.String("resource", c.cfg.Name),
			slog.String("error", fetchErr.Error()))
		c.err = c.cfg.Messages.Load
		return fetchErr
	}

	if c.cfg.Normalize != nil {
		items = c.cfg.Normalize(items)
	}
	c.items = items
	c.err = ""
	return nil
}

// Submit validates form and, if it passes, creates the entity. A
// validation failure issues no request. A write failure keeps the form.
func (c *Controller[T]) Submit(ctx context.Context, form Form) error {
	if c.cfg.Create == nil {
		return ErrUnsupported
	}

	form = form.clone()
	if err := c.validate(form); err != nil {
		c.mu.Lock()
		c.form = form
		c.err = err.Error()
		c.notice = ""
		c.mu.Unlock()
		return err
	}

	if _, err := c.begin(false); err != nil {
		return err
	}
	c.mu.Lock()
	c.form = form
	c.mu.Unlock()

	writeErr := c.cfg.Create(ctx, form)

	c.mu.Lock()
	if c.dead {
		c.mu.Unlock()
		return ErrUnmounted
	}
	c.inflight--
	if writeErr != nil {
		slog.Debug("create failed",
			slog.String("resource", c.cfg.Name),
			slog.String("error", writeErr.Error()))
		c.err = c.cfg.Messages.Create
		c.mu.Unlock()
		return writeErr
	}
	c.form = Form{}
	c.err = ""
	c.notice = ""
	c.mu.Unlock()

	return c.refreshAfterWrite(ctx)
}

// Delete removes the entity with id after the user confirms. A declined
// (or missing) confirmation changes nothing.
func (c *Controller[T]) Delete(ctx context.Context, id string, confirm Confirm) error {
	if c.cfg.Remove == nil {
		return ErrUnsupported
	}
	if confirm == nil || !confirm(c.cfg.Messages.ConfirmDelete) {
		return ErrCancelled
	}

	return c.Do(ctx, Action{
		Name:    "delete",
		Fail:    c.cfg.Messages.Delete,
		Refresh: true,
		Run: func(ctx context.Context) error {
			return c.cfg.Remove(ctx, id)
		},
	})
}

// Action is a row-level write that is not a form submit, such as marking
// attendance or resetting a password.
type Action struct {
	Name string
	Run  func(ctx context.Context) error

	// Fail is shown when Run fails.
	Fail string

	// Notice is shown when Run succeeds.
	Notice string

	// Refresh re-fetches the list after a successful Run.
	Refresh bool
}

// Do runs a with the controller's loading and error discipline.
func (c *Controller[T]) Do(ctx context.Context, a Action) error {
	if _, err := c.begin(false); err != nil {
		return err
	}

	runErr := a.Run(ctx)

	c.mu.Lock()
	if c.dead {
		c.mu.Unlock()
		return ErrUnmounted
	}
	c.inflight--
	if runErr != nil {
		slog.Debug("action failed",
			slog.String("resource", c.cfg.Name),
			slog.String("action", a.Name),
			slog.String("error", runErr.Error()))
		c.err = a.Fail
		c.notice = ""
		c.mu.Unlock()
		return runErr
	}
	c.err = ""
	c.notice = a.Notice
	c.mu.Unlock()

	if !a.Refresh {
		return nil
	}
	return c.refreshAfterWrite(ctx)
}

// Fail shows msg in the error slot without issuing a request.
func (c *Controller[T]) Fail(msg string) {
	c.mu.Lock()
	c.err = msg
	c.notice = ""
	c.mu.Unlock()
}

func (c *Controller[T]) refreshAfterWrite(ctx context.Context) error {
	if err := c.Refresh(ctx); err != nil && !Discarded(err) {
		return err
	}
	return nil
}
