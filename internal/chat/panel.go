package chat

import (
	"strings"

	"github.com/google/uuid"
)

// RequestState is Idle or InFlight.
type RequestState int

const (
	Idle RequestState = iota
	InFlight
)

func (s RequestState) String() string {
	if s == InFlight {
		return "in-flight"
	}
	return "idle"
}

// ConfirmKey submits the draft unless shift is held.
const ConfirmKey = "enter"

// Effect is work a transition asks the caller to perform.
type Effect interface {
	effect()
}

// CallAnswer asks for one answer request. ID correlates the completion.
type CallAnswer struct {
	ID      string
	Message string
}

// ScrollToBottom moves the reply pane to its end.
type ScrollToBottom struct{}

// ResizeInput fits the input height to the draft.
type ResizeInput struct{}

// ReportError sends a failed request to the diagnostic log.
type ReportError struct {
	ID  string
	Err error
}

func (CallAnswer) effect()     {}
func (ScrollToBottom) effect() {}
func (ResizeInput) effect()    {}
func (ReportError) effect()    {}

// Panel is the chat state. Transitions are pure: they return the next
// panel and the effects to run, and never touch the receiver.
type Panel struct {
	Draft     string
	LastReply string
	State     RequestState

	// LastError is the most recent failure, cleared by the next submit.
	// It never changes Draft or LastReply.
	LastError error

	pendingID string
	newID     func() string
}

// NewPanel returns an idle panel with an empty draft.
func NewPanel() Panel {
	return Panel{newID: uuid.NewString}
}

// InFlight reports whether a request is outstanding.
func (p Panel) InFlight() bool {
	return p.State == InFlight
}

// CanSubmit reports whether Submit would start a request.
func (p Panel) CanSubmit() bool {
	return p.State == Idle && strings.TrimSpace(p.Draft) != ""
}

// PendingID is the id of the outstanding request, or "".
func (p Panel) PendingID() string {
	return p.pendingID
}

// DraftChanged replaces the draft verbatim.
func (p Panel) DraftChanged(text string) (Panel, []Effect) {
	p.Draft = text
	return p, []Effect{ResizeInput{}}
}

// Submit starts a request for the draft. It is a no-op while a request is
// outstanding or when the draft is blank.
func (p Panel) Submit() (Panel, []Effect) {
	if !p.CanSubmit() {
		return p, nil
	}

	newID := p.newID
	if newID == nil {
		newID = uuid.NewString
	}

	p.State = InFlight
	p.LastError = nil
	p.pendingID = newID()
	return p, []Effect{CallAnswer{ID: p.pendingID, Message: p.Draft}}
}

// AnswerSucceeded stores the reply and clears the draft.
// Completions for any request other than the pending one are ignored.
func (p Panel) AnswerSucceeded(id, reply string) (Panel, []Effect) {
	if !p.settles(id) {
		return p, nil
	}

	p.LastReply = reply
	p.Draft = ""
	p.State = Idle
	p.pendingID = ""
	return p, []Effect{ScrollToBottom{}, ResizeInput{}}
}

// AnswerFailed returns to Idle leaving the draft and the last reply as they were.
func (p Panel) AnswerFailed(id string, err error) (Panel, []Effect) {
	if !p.settles(id) {
		return p, nil
	}

	p.State = Idle
	p.LastError = err
	p.pendingID = ""
	return p, []Effect{ReportError{ID: id, Err: err}}
}

// KeyPress handles the confirm key. handled is true when the key was
// consumed, in which case the caller must not insert it as text.
func (p Panel) KeyPress(key string, shift bool) (next Panel, effects []Effect, handled bool) {
	if key != ConfirmKey || shift {
		return p, nil, false
	}
	next, effects = p.Submit()
	return next, effects, true
}

func (p Panel) settles(id string) bool {
	return p.State == InFlight && id == p.pendingID
}
