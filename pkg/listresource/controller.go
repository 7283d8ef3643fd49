// Package listresource implements the server-paginated list controller shared
// by every back-office page: fetch, search, paginate, mutate, refetch.
//
// One Controller owns the state of one resource list. Fetches are numbered;
// starting a new one cancels the previous request and a response that
// arrives after a newer fetch was issued is dropped, so the state always
// reflects the last request made rather than the last response received.
package listresource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/api"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/datatables"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/logging"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/transport"
)

const (
	DefaultPerPage      = 10
	DefaultSearchDelay  = 300 * time.Millisecond
	DefaultRefocusAfter = 30 * time.Second
)

// Options tune a Controller. Zero values pick the defaults above.
type Options struct {
	PerPage      int
	SearchDelay  time.Duration
	RefocusAfter time.Duration
	Filters      map[string]string
	OrderColumn  int
	OrderDir     string
	Clock        Clock
	Logger       logging.Logger
}

type Controller[T any] struct {
	src     Source[T]
	clock   Clock
	log     logging.Logger
	search  *Debouncer
	refocus time.Duration
	order   struct {
		column int
		dir    string
	}

	// baseCtx bounds fetches started from debounce timers.
	baseCtx context.Context

	mu        sync.Mutex
	state     ListState[T]
	seq       uint64
	cancel    context.CancelFunc
	listeners []func(ListState[T])
}

func New[T any](ctx context.Context, src Source[T], opts Options) *Controller[T] {
	if opts.PerPage <= 0 {
		opts.PerPage = DefaultPerPage
	}
	if opts.SearchDelay <= 0 {
		opts.SearchDelay = DefaultSearchDelay
	}
	if opts.RefocusAfter <= 0 {
		opts.RefocusAfter = DefaultRefocusAfter
	}
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	c := &Controller[T]{
		src:     src,
		clock:   opts.Clock,
		log:     opts.Logger.With("resource", src.Name()),
		search:  NewDebouncer(opts.SearchDelay, opts.Clock),
		refocus: opts.RefocusAfter,
		baseCtx: ctx,
	}
	c.order.column = opts.OrderColumn
	c.order.dir = opts.OrderDir
	c.state.Items = []T{}
	c.state.Pagination = Pagination{CurrentPage: 1, PerPage: opts.PerPage}
	c.state.Filters = copyFilters(opts.Filters)
	return c
}

// State returns a snapshot of the current list state.
func (c *Controller[T]) State() ListState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// OnChange registers fn to receive a snapshot after every state change.
func (c *Controller[T]) OnChange(fn func(ListState[T])) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Fetch loads one page. isSearch marks fetches triggered by the search box:
// they drive IsSearching/SearchError instead of Loading/Error so the table is
// not blanked while the user types. The returned error is the failure of
// this request; a request superseded by a newer one returns nil.
func (c *Controller[T]) Fetch(ctx context.Context, page, perPage int, search string, filters map[string]string, isSearch bool) error {
	applied, err := c.fetchOnce(ctx, page, perPage, search, filters, isSearch)
	if err != nil || !applied {
		return err
	}
	// The page we asked for may no longer exist (rows deleted elsewhere);
	// step back to the last one.
	st := c.State()
	if len(st.Items) == 0 && st.Pagination.TotalPages > 0 && page > st.Pagination.TotalPages {
		_, err = c.fetchOnce(ctx, st.Pagination.TotalPages, perPage, search, filters, isSearch)
	}
	return err
}

func (c *Controller[T]) fetchOnce(ctx context.Context, page, perPage int, search string, filters map[string]string, isSearch bool) (bool, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	c.mu.Lock()
	c.seq++
	seq := c.seq
	if c.cancel != nil {
		c.cancel()
	}
	fctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	// Error and SearchError describe the latest fetch only.
	c.state.Error = ""
	c.state.SearchError = ""
	if isSearch {
		c.state.IsSearching = true
	} else {
		c.state.Loading = true
	}
	c.state.SearchTerm = search
	c.state.Filters = copyFilters(filters)
	c.state.Pagination.CurrentPage = page
	c.state.Pagination.PerPage = perPage
	req := datatables.ForPage(page, perPage, search)
	req.Draw = int(seq)
	req.OrderColumn = c.order.column
	if c.order.dir != "" {
		req.OrderDir = c.order.dir
	}
	req.Filters = copyFilters(filters)
	c.mu.Unlock()
	c.notify()

	resp, err := c.src.List(fctx, req)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		cancel()
		c.log.Debug(ctx, "discarding superseded response", "seq", seq, "latest", c.latestSeq())
		return false, nil
	}
	c.cancel = nil
	cancel()
	c.state.Loading = false
	c.state.IsSearching = false
	if err != nil {
		msg := transport.Message(err)
		if isSearch {
			c.state.SearchError = msg
		} else {
			c.state.Error = msg
		}
		c.state.Items = []T{}
		c.state.Pagination.TotalItems = 0
		c.state.Pagination.TotalPages = 0
		c.state.Pagination = c.state.Pagination.Clamp()
		c.mu.Unlock()
		c.log.Warn(ctx, "fetch failed", "page", page, "search", search, "err", err)
		c.notify()
		return true, err
	}
	total := int(resp.RecordsFiltered)
	if total == 0 && resp.RecordsTotal > 0 && search == "" && len(filters) == 0 {
		total = int(resp.RecordsTotal)
	}
	c.state.Items = append([]T{}, resp.Data...)
	c.state.Pagination.TotalItems = total
	c.state.Pagination.TotalPages = TotalPagesFor(total, perPage)
	c.state.Pagination = c.state.Pagination.Clamp()
	c.state.LastFetched = c.clock.Now()
	c.mu.Unlock()
	c.notify()
	return true, nil
}

// Refresh refetches the current page, search term and filters.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	st := c.State()
	return c.Fetch(ctx, st.Pagination.CurrentPage, st.Pagination.PerPage, st.SearchTerm, st.Filters, false)
}

// Search records the term and schedules a debounced fetch of page 1. An
// empty term fetches immediately to restore the unfiltered list.
func (c *Controller[T]) Search(term string) {
	c.mu.Lock()
	c.state.SearchTerm = term
	perPage := c.state.Pagination.PerPage
	filters := copyFilters(c.state.Filters)
	c.mu.Unlock()
	c.notify()

	if term == "" {
		c.search.Cancel()
		_ = c.Fetch(c.baseCtx, 1, perPage, "", filters, true)
		return
	}
	c.search.Trigger(func() {
		_ = c.Fetch(c.baseCtx, 1, perPage, term, filters, true)
	})
}

// ClearSearch resets the term and error and reloads page 1 right away.
func (c *Controller[T]) ClearSearch(ctx context.Context) error {
	c.search.Cancel()
	c.mu.Lock()
	c.state.SearchTerm = ""
	c.state.SearchError = ""
	perPage := c.state.Pagination.PerPage
	filters := copyFilters(c.state.Filters)
	c.mu.Unlock()
	return c.Fetch(ctx, 1, perPage, "", filters, false)
}

// ChangePage fetches page keeping search and filters. Pages outside
// [1, TotalPages] are ignored.
func (c *Controller[T]) ChangePage(ctx context.Context, page int) error {
	st := c.State()
	if page < 1 || (st.Pagination.TotalPages > 0 && page > st.Pagination.TotalPages) {
		return nil
	}
	return c.Fetch(ctx, page, st.Pagination.PerPage, st.SearchTerm, st.Filters, false)
}

// ChangePerPage switches the page size and goes back to page 1.
func (c *Controller[T]) ChangePerPage(ctx context.Context, perPage int) error {
	if perPage <= 0 {
		return nil
	}
	st := c.State()
	return c.Fetch(ctx, 1, perPage, st.SearchTerm, st.Filters, false)
}

// SetFilters replaces the resource filters (date range, tab...) and reloads
// page 1.
func (c *Controller[T]) SetFilters(ctx context.Context, filters map[string]string) error {
	st := c.State()
	return c.Fetch(ctx, 1, st.Pagination.PerPage, st.SearchTerm, filters, false)
}

// Refocus refetches when the list is older than the refocus window.
func (c *Controller[T]) Refocus(ctx context.Context) (bool, error) {
	st := c.State()
	if !st.LastFetched.IsZero() && c.clock.Now().Sub(st.LastFetched) <= c.refocus {
		return false, nil
	}
	return true, c.Refresh(ctx)
}

// Show loads one record by pid.
func (c *Controller[T]) Show(ctx context.Context, pid string) Result[T] {
	rec, env, err := c.src.Show(ctx, pid)
	if err != nil {
		return failed[T](transport.Message(err), err)
	}
	if !env.OK() {
		return rejected[T](env.Message)
	}
	return ok(env.Message, rec)
}

// Create stores a new record and, on success, refetches the current page.
// The data of the result is the pid of the new record.
func (c *Controller[T]) Create(ctx context.Context, p Payload) Result[string] {
	st := c.State()
	env, err := c.src.Create(ctx, p)
	if res, done := envelopeFailure[string](env, err); done {
		return res
	}
	var created api.Created
	var decodeErr error
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &created); err != nil {
			decodeErr = fmt.Errorf("decode created record: %w", err)
			c.log.Warn(ctx, "store response has malformed data", "err", err)
		}
	}
	c.resync(ctx, st, st.Pagination.CurrentPage)
	res := ok(env.Message, created.PID)
	res.Err = decodeErr
	return res
}

// Update changes the record pid and refetches the current page.
func (c *Controller[T]) Update(ctx context.Context, pid string, p Payload) Result[None] {
	st := c.State()
	env, err := c.src.Update(ctx, pid, p)
	if res, done := envelopeFailure[None](env, err); done {
		return res
	}
	c.resync(ctx, st, st.Pagination.CurrentPage)
	return ok(env.Message, None{})
}

// Delete removes the record pid. When it was the only row of a page past
// the first, the refetch moves one page back.
func (c *Controller[T]) Delete(ctx context.Context, pid string) Result[None] {
	st := c.State()
	env, err := c.src.Delete(ctx, pid)
	if res, done := envelopeFailure[None](env, err); done {
		return res
	}
	page := st.Pagination.CurrentPage
	if len(st.Items) == 1 && page > 1 {
		page--
	}
	c.resync(ctx, st, page)
	return ok(env.Message, None{})
}

func (c *Controller[T]) resync(ctx context.Context, before ListState[T], page int) {
	if err := c.Fetch(ctx, page, before.Pagination.PerPage, before.SearchTerm, before.Filters, false); err != nil {
		c.log.Warn(ctx, "refetch after mutation failed", "err", err)
	}
}

func envelopeFailure[D any](env api.Envelope, err error) (Result[D], bool) {
	if err != nil {
		var he *transport.HTTPError
		if errors.As(err, &he) && he.Message != "" && !transport.IsSessionExpired(err) {
			// 4xx with a backend message is a rejection the user can act on.
			return Result[D]{Message: he.Message, Err: err}, true
		}
		return failed[D](transport.Message(err), err), true
	}
	if !env.OK() {
		msg := env.Message
		if msg == "" {
			msg = "Permintaan ditolak oleh server"
		}
		return rejected[D](msg), true
	}
	return Result[D]{}, false
}

func (c *Controller[T]) latestSeq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

func (c *Controller[T]) notify() {
	c.mu.Lock()
	if len(c.listeners) == 0 {
		c.mu.Unlock()
		return
	}
	snap := c.state.clone()
	ls := append([]func(ListState[T]){}, c.listeners...)
	c.mu.Unlock()
	for _, fn := range ls {
		fn(snap)
	}
}

func copyFilters(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		if v != "" {
			out[k] = v
		}
	}
	return out
}
