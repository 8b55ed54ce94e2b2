package model

import (
	"strconv"
	"time"
)

// Coto is a single posted note. Identity is two-phase: a client-assigned
// PostID exists from the moment of submit, and the server-assigned ID appears
// once the post is confirmed. Both are kept nullable on the wire (explicit
// null, never omitted) so unconfirmed and confirmed cotos round-trip byte-equal.
type Coto struct {
	ID      *int64 `json:"id"`
	PostID  *int64 `json:"postId"`
	Content string `json:"content"`
}

// Confirmed reports whether the server has acknowledged this coto.
func (c Coto) Confirmed() bool { return c.ID != nil }

// RenderKey is the stable row key for display lists: the server id when
// present, else the client post id, else empty. Collisions are only possible
// when both are absent, which does not happen after submit assignment.
func (c Coto) RenderKey() string {
	if c.ID != nil {
		return strconv.FormatInt(*c.ID, 10)
	}
	if c.PostID != nil {
		return strconv.FormatInt(*c.PostID, 10)
	}
	return ""
}

// Posting reports whether the row should carry the "posting" marker: the coto
// has no confirmed id while an identity context exists. Signed-out timelines
// never show the marker.
func (c Coto) Posting(signedIn bool) bool {
	return signedIn && c.ID == nil
}

// Active reports whether the row is the externally-selected one. Unconfirmed
// cotos are never active.
func (c Coto) Active(selectedID *int64) bool {
	return c.ID != nil && selectedID != nil && *c.ID == *selectedID
}

// Cotonoma is a named room. A cotonoma is itself backed by a coto on the
// server; at this boundary we only carry the room metadata and its stats.
type Cotonoma struct {
	ID           int64      `json:"id"`
	Key          string     `json:"key"`
	Name         string     `json:"name"`
	CotoCount    int64      `json:"cotoCount"`
	LastPostedAt *time.Time `json:"lastPostedAt,omitempty"`
}

// Amishi is a signed-in member.
type Amishi struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

type Session struct {
	Token  string  `json:"token"`
	Amishi *Amishi `json:"amishi,omitempty"`
}

// SignedIn reports whether a usable identity context exists.
func (s *Session) SignedIn() bool {
	return s != nil && s.Amishi != nil
}

func Int64Ptr(n int64) *int64 { return &n }
