package listresource

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/api"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/datatables"
)

type row struct {
	PID     string
	Nota    string
	Nominal int64
	Tanggal time.Time
}

// memSource serves rows from memory the way the backend does: substring
// search on Nota, offset pagination, counts before and after search.
type memSource struct {
	mu        sync.Mutex
	rows      []row
	requests  []datatables.Request
	listErr   error
	hold      chan struct{}
	deleteEnv *api.Envelope
	createEnv *api.Envelope
	mutations []string
}

func newMemSource(n int) *memSource {
	s := &memSource{}
	for i := 0; i < n; i++ {
		s.rows = append(s.rows, row{
			PID:     fmt.Sprintf("p%d", i+1),
			Nota:    fmt.Sprintf("INV-%03d", i+1),
			Nominal: int64(i+1) * 1000,
		})
	}
	return s
}

func (s *memSource) Name() string { return "mem" }

func (s *memSource) List(ctx context.Context, req datatables.Request) (datatables.Response[row], error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	hold := s.hold
	s.hold = nil
	err := s.listErr
	var matched []row
	for _, r := range s.rows {
		if req.Search == "" || strings.Contains(r.Nota, req.Search) {
			matched = append(matched, r)
		}
	}
	total := len(s.rows)
	s.mu.Unlock()

	if hold != nil {
		<-hold
	}
	if err != nil {
		return datatables.Response[row]{}, err
	}
	start := min(req.Start, len(matched))
	end := min(start+req.Length, len(matched))
	return datatables.Response[row]{
		Draw:            req.Draw,
		RecordsTotal:    int64(total),
		RecordsFiltered: int64(len(matched)),
		Data:            append([]row{}, matched[start:end]...),
	}, nil
}

func (s *memSource) Show(ctx context.Context, pid string) (row, api.Envelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.PID == pid {
			return r, api.Envelope{Status: api.StatusOK}, nil
		}
	}
	return row{}, api.Envelope{Status: api.StatusNo, Message: "Data tidak ditemukan"}, nil
}

func (s *memSource) Create(ctx context.Context, p Payload) (api.Envelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pid := fmt.Sprintf("p%d", len(s.rows)+1)
	s.rows = append(s.rows, row{PID: pid, Nota: p.Fields.Get("nota")})
	s.mutations = append(s.mutations, "create")
	if s.createEnv != nil {
		return *s.createEnv, nil
	}
	return api.Envelope{Status: api.StatusOK, Message: "Data berhasil disimpan", Data: []byte(`{"pid":"` + pid + `"}`)}, nil
}

func (s *memSource) Update(ctx context.Context, pid string, p Payload) (api.Envelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutations = append(s.mutations, "update:"+pid)
	return api.Envelope{Status: api.StatusOK, Message: "Data berhasil diperbarui"}, nil
}

func (s *memSource) Delete(ctx context.Context, pid string) (api.Envelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mutations = append(s.mutations, "delete:"+pid)
	if s.deleteEnv != nil {
		return *s.deleteEnv, nil
	}
	for i, r := range s.rows {
		if r.PID == pid {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			break
		}
	}
	return api.Envelope{Status: api.StatusOK, Message: "Data berhasil dihapus"}, nil
}

func (s *memSource) listCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *memSource) lastRequest() datatables.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[len(s.requests)-1]
}

// manualClock fires timers only when Advance moves past their deadline.
type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

type manualTimer struct {
	clock *manualClock
	at    time.Time
	f     func()
	done  bool
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.done && !t.at.After(c.now) {
			t.done = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	sort.Slice(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, t := range due {
		t.f()
	}
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}
