// Package timeline holds the posting state machine behind every timeline
// surface (TUI, web, CLI): an immutable store of cotos plus a pure transition
// function. Optimistic local posts, reconciliation of server confirmations and
// scroll effects are all decided here; hosts only execute the returned effects.
package timeline

import (
	"strings"

	"coto-cli/internal/model"
)

// Store is the complete timeline state. Cotos are kept newest-first (submits
// prepend; fetches arrive newest-first from the server); display surfaces
// reverse the slice so the newest row ends up at the bottom.
type Store struct {
	Cotos      []model.Coto
	EditorOpen bool
	Draft      string
	NextPostID int64
}

// NewStore returns an empty store. Post ids start at 1 and are never reused
// within a session, even when a submit fails.
func NewStore() Store {
	return Store{NextPostID: 1}
}

// Transition applies one event to the store and returns the next store plus
// any follow-up effects. It is the only place timeline state changes; it never
// blocks, never performs I/O, and silently drops fetch/post failures (the
// failed row simply keeps its posting marker).
func Transition(ev Event, s Store, ctrlHeld bool) (Store, []Effect) {
	switch ev := ev.(type) {
	case CotosFetched:
		if ev.Err != nil {
			return s, nil
		}
		s.Cotos = ev.Cotos
		return s, []Effect{ScrollToBottom{}}

	case ImageLoaded:
		// Late image layout shifted the bottom; re-scroll, no state change.
		return s, []Effect{ScrollToBottom{}}

	case CotoOpened:
		return s, nil

	case EditorFocused:
		s.EditorOpen = true
		return s, nil

	case EditorBlurred:
		s.EditorOpen = false
		return s, nil

	case DraftChanged:
		s.Draft = ev.Text
		return s, nil

	case EditorKeyPressed:
		if ev.Key == KeyEnter && ctrlHeld && !BlankDraft(s.Draft) {
			return submit(s)
		}
		return s, nil

	case SubmitRequested:
		return submit(s)

	case CotoPosted:
		if ev.Err != nil {
			return s, nil
		}
		s.Cotos = replaceByPostID(s.Cotos, ev.Coto)
		return s, nil
	}

	return s, nil
}

// BlankDraft reports whether a draft is empty or whitespace-only. The
// ctrl+enter path refuses to submit blanks; the explicit submit path does not
// re-check.
func BlankDraft(draft string) bool {
	return strings.TrimSpace(draft) == ""
}

func submit(s Store) (Store, []Effect) {
	postID := s.NextPostID
	c := model.Coto{PostID: &postID, Content: s.Draft}

	cotos := make([]model.Coto, 0, len(s.Cotos)+1)
	cotos = append(cotos, c)
	cotos = append(cotos, s.Cotos...)

	s.Cotos = cotos
	s.Draft = ""
	s.NextPostID++
	return s, []Effect{ScrollToBottom{}, SubmitCoto{Coto: c}}
}

// replaceByPostID swaps the confirmed coto into the slot whose post id
// matches, preserving order and count. No match means the confirmation is for
// a row we no longer hold (e.g. a wholesale refetch replaced it): drop it.
func replaceByPostID(cotos []model.Coto, confirmed model.Coto) []model.Coto {
	if confirmed.PostID == nil {
		return cotos
	}
	for i, c := range cotos {
		if c.PostID != nil && *c.PostID == *confirmed.PostID {
			out := make([]model.Coto, len(cotos))
			copy(out, cotos)
			out[i] = confirmed
			return out
		}
	}
	return cotos
}

// DisplayOrder returns the cotos oldest-first for rendering, so the newest row
// sits at the bottom where scroll-to-bottom lands.
func DisplayOrder(s Store) []model.Coto {
	out := make([]model.Coto, len(s.Cotos))
	for i, c := range s.Cotos {
		out[len(s.Cotos)-1-i] = c
	}
	return out
}
