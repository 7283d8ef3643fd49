package forms

import (
	"context"
	"sync"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/listresource"
)

type Phase int

const (
	Idle Phase = iota
	Validating
	Submitting
	Closed
)

func (p Phase) String() string {
	switch p {
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Closed:
		return "closed"
	}
	return "idle"
}

// Draft is implemented by every form: it validates itself and builds the
// mutation payload.
type Draft interface {
	Payload() (listresource.Payload, error)
}

// Outcome is what a submit function reports back to the modal.
type Outcome struct {
	OK      bool
	Message string
}

// FromResult adapts a controller mutation result.
func FromResult[D any](r listresource.Result[D]) Outcome {
	return Outcome{OK: r.OK, Message: r.Message}
}

// SubmitFunc sends a valid draft, usually to Controller.Create or Update.
type SubmitFunc func(ctx context.Context, p listresource.Payload) Outcome

// Modal owns the draft of one create/edit dialog.
type Modal[F Draft] struct {
	validator *Validator
	submit    SubmitFunc

	mu          sync.Mutex
	phase       Phase
	draft       F
	errors      FieldErrors
	submitError string
	message     string
}

func NewModal[F Draft](submit SubmitFunc) *Modal[F] {
	return &Modal[F]{validator: defaultValidator, submit: submit, phase: Closed}
}

// Open starts editing draft, clearing previous errors.
func (m *Modal[F]) Open(draft F) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft = draft
	m.errors = nil
	m.submitError = ""
	m.message = ""
	m.phase = Idle
}

// Edit applies fn to the draft. Ignored while submitting.
func (m *Modal[F]) Edit(fn func(*F)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != Idle {
		return
	}
	fn(&m.draft)
}

// Close dismisses the dialog. It is a no-op while a submit is in flight and
// reports whether the modal closed.
func (m *Modal[F]) Close() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase == Submitting {
		return false
	}
	m.phase = Closed
	return true
}

// Submit validates the draft and, when valid, sends it. Invalid drafts go
// back to Idle with field errors and nothing is sent. A failed submit goes
// back to Idle with SubmitError; a successful one closes the modal.
func (m *Modal[F]) Submit(ctx context.Context) Outcome {
	m.mu.Lock()
	if m.phase != Idle {
		m.mu.Unlock()
		return Outcome{Message: "Form sedang diproses"}
	}
	m.phase = Validating
	draft := m.draft
	m.errors = nil
	m.submitError = ""
	errs := m.validator.Validate(draft)
	if len(errs) > 0 {
		m.errors = errs
		m.phase = Idle
		m.mu.Unlock()
		return Outcome{Message: "Periksa kembali isian form"}
	}
	p, err := draft.Payload()
	if err != nil {
		m.submitError = err.Error()
		m.phase = Idle
		m.mu.Unlock()
		return Outcome{Message: err.Error()}
	}
	m.phase = Submitting
	m.mu.Unlock()

	out := m.submit(ctx, p)

	m.mu.Lock()
	defer m.mu.Unlock()
	if out.OK {
		m.phase = Closed
		m.message = out.Message
	} else {
		m.phase = Idle
		m.submitError = out.Message
	}
	return out
}

func (m *Modal[F]) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Errors returns the field errors of the last validation.
func (m *Modal[F]) Errors() FieldErrors {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(FieldErrors, len(m.errors))
	for k, v := range m.errors {
		out[k] = v
	}
	return out
}

func (m *Modal[F]) SubmitError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submitError
}

func (m *Modal[F]) Draft() F {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// Busy is true while controls must stay disabled.
func (m *Modal[F]) Busy() bool { return m.Phase() == Submitting }
