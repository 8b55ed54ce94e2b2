package timeline

import "coto-cli/internal/model"

// Event is the closed set of inputs the timeline controller reacts to. UI
// events and async transport results are delivered through the same funnel so
// every state change happens inside Transition.
type Event interface{ timelineEvent() }

// CotosFetched delivers the result of a full timeline fetch.
type CotosFetched struct {
	Cotos []model.Coto
	Err   error
}

// CotoPosted delivers the result of one submit, correlated back to its
// originating row by post id (never by call order).
type CotoPosted struct {
	Coto model.Coto
	Err  error
}

// ImageLoaded fires when an embedded image finishes loading and the timeline
// height may have changed.
type ImageLoaded struct{}

// CotoOpened is a reserved navigation hook. It must stay a strict no-op.
type CotoOpened struct{ ID int64 }

type EditorFocused struct{}

type EditorBlurred struct{}

// DraftChanged carries the full editor text, stored verbatim (no trimming).
type DraftChanged struct{ Text string }

// EditorKeyPressed carries a key event from the editor while it has focus.
type EditorKeyPressed struct{ Key Key }

// SubmitRequested is the explicit post-button path. It is not re-validated
// here; disabling the button on blank drafts is the presentation layer's job.
type SubmitRequested struct{}

func (CotosFetched) timelineEvent()     {}
func (CotoPosted) timelineEvent()       {}
func (ImageLoaded) timelineEvent()      {}
func (CotoOpened) timelineEvent()       {}
func (EditorFocused) timelineEvent()    {}
func (EditorBlurred) timelineEvent()    {}
func (DraftChanged) timelineEvent()     {}
func (EditorKeyPressed) timelineEvent() {}
func (SubmitRequested) timelineEvent()  {}

// Key identifies editor keys the controller cares about. Values follow
// bubbletea's KeyMsg.String() so the TUI can pass keys through unchanged.
type Key string

const KeyEnter Key = "enter"

// Effect is a follow-up action requested by a transition. The controller never
// performs I/O itself; the host executes effects asynchronously and feeds
// results back in as events.
type Effect interface{ timelineEffect() }

// ScrollToBottom asks the host to scroll the timeline to its newest row after
// the next paint settles.
type ScrollToBottom struct{}

// SubmitCoto asks the host to transmit the given coto. The eventual result
// must come back as a CotoPosted event.
type SubmitCoto struct{ Coto model.Coto }

func (ScrollToBottom) timelineEffect() {}
func (SubmitCoto) timelineEffect()     {}
