package chatsync

import "github.com/creastat/chatsync/internal/logger"

// ReconcilerState is the phase of the reply currently being reconciled.
type ReconcilerState int

const (
	// StateIdle means no submission is in flight.
	StateIdle ReconcilerState = iota
	// StateAwaiting means a prompt was submitted and no reply text has arrived.
	StateAwaiting
	// StateConsuming means reply snapshots are arriving.
	StateConsuming
)

func (s ReconcilerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaiting:
		return "awaiting"
	case StateConsuming:
		return "consuming"
	default:
		return "unknown"
	}
}

// Reconciler folds cumulative reply snapshots into the in-flight bot turn of
// a transcript. Each snapshot carries the whole reply so far, so it replaces
// the turn's text rather than extending it.
//
// Reconciler is not safe for concurrent use.
type Reconciler struct {
	transcript *Transcript
	sanitizer  Sanitizer
	state      ReconcilerState

	// Evidence that the backend has started on the current submission.
	sawText bool
	sawBusy bool
}

// NewReconciler returns an idle reconciler writing into t.
func NewReconciler(t *Transcript) *Reconciler {
	return &Reconciler{transcript: t}
}

// State returns the current phase.
func (r *Reconciler) State() ReconcilerState {
	return r.state
}

// Busy reports whether a reply is in flight.
func (r *Reconciler) Busy() bool {
	return r.state != StateIdle
}

// Submit appends a user turn and an unsettled placeholder bot turn.
// It returns ErrReplyInFlight unless the reconciler is idle.
func (r *Reconciler) Submit(text string) error {
	if r.state != StateIdle {
		return ErrReplyInFlight
	}
	r.transcript.Append(UserTurn(text))
	r.transcript.Append(BotTurn("", false))
	r.state = StateAwaiting
	r.sawText = false
	r.sawBusy = false
	return nil
}

// OnBusy records that the backend reported it is generating.
func (r *Reconciler) OnBusy() {
	if r.state == StateIdle {
		return
	}
	r.sawBusy = true
}

// OnSnapshot applies a cumulative reply snapshot and reports whether the
// transcript changed. Empty snapshots and snapshots arriving while idle are
// dropped; a settled turn is never modified.
func (r *Reconciler) OnSnapshot(raw string) bool {
	if raw == "" {
		return false
	}
	if r.state == StateIdle {
		logger.Debug("dropping stale snapshot", "length", len(raw))
		return false
	}
	r.state = StateConsuming
	r.sawText = true
	r.transcript.ReplaceLastUnsettledBotTurn(r.sanitizer.Clean(raw))
	return true
}

// OnBackendIdle settles the in-flight bot turn and returns to idle, provided
// the backend was seen working on this submission. It reports whether the
// turn was settled.
func (r *Reconciler) OnBackendIdle() bool {
	if r.state == StateIdle {
		return false
	}
	if !r.sawText && !r.sawBusy {
		logger.Debug("ignoring idle flag before the reply started", "state", r.state)
		return false
	}
	r.transcript.SettleLastBotTurn()
	r.state = StateIdle
	return true
}
