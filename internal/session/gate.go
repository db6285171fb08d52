package session

import "strings"

// Action is a user interaction gated on authentication state.
type Action int

const (
	ActionComment Action = iota
	ActionDeleteComment
	ActionLike
)

// String is the human-readable action name used in login prompts.
func (a Action) String() string {
	switch a {
	case ActionComment:
		return "comment"
	case ActionDeleteComment:
		return "delete a comment"
	case ActionLike:
		return "like"
	default:
		return "continue"
	}
}

// Decision is the gate's answer for a requested action. When not allowed, it
// carries the action name and the return path for the login prompt. The gate
// is advisory only; the service re-validates every mutating request.
type Decision struct {
	Allowed    bool
	Action     Action
	ReturnPath string
}

// Authorize decides whether a gated action may proceed for the given session.
func Authorize(sess Session, action Action, returnPath string) Decision {
	return Decision{
		Allowed:    sess.Authenticated,
		Action:     action,
		ReturnPath: returnPath,
	}
}

// CanDelete reports whether the session's identity matches a comment's
// author, by id when both sides have one, otherwise by case-insensitive
// identity label. This only controls whether a delete affordance is shown;
// the service enforces ownership.
func CanDelete(sess Session, authorID, authorLabel string) bool {
	if !sess.Authenticated {
		return false
	}
	if sess.UserID != "" && authorID != "" {
		return sess.UserID == authorID
	}
	if sess.IdentityLabel != "" && authorLabel != "" {
		return strings.EqualFold(sess.IdentityLabel, authorLabel)
	}
	return false
}
