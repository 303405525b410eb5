package auth

import (
	"potato-chat/internal/user"
)

// Session is the authenticated identity a request acts under.
type Session struct {
	Username string
	Role     user.Role
}

type Action int

const (
	ActionChannelCreate Action = iota
	ActionChannelRename
	ActionChannelDelete
	ActionChannelLock
	ActionMessageAppend
	ActionMessageDelete
	ActionMemberRename
	ActionMemberRemove
)

// Resource carries the facts about the target the policy needs. Only the
// fields relevant to the action are consulted.
type Resource struct {
	ChannelLocked  bool   // message append
	MessageAuthor  string // message delete
	TargetUsername string // member rename/remove
}

// Policy decides every mutating operation. It is a pure function: no I/O,
// safe to consult on every request.
type Policy struct {
	ReservedAdmin string
}

func (p Policy) Authorize(s Session, action Action, res Resource) bool {
	isAdmin := s.Role == user.RoleAdmin
	switch action {
	case ActionChannelCreate, ActionChannelRename, ActionChannelDelete, ActionChannelLock:
		return isAdmin
	case ActionMessageAppend:
		return !res.ChannelLocked || isAdmin
	case ActionMessageDelete:
		return s.Username == res.MessageAuthor || isAdmin
	case ActionMemberRename:
		return isAdmin && res.TargetUsername != p.ReservedAdmin
	case ActionMemberRemove:
		return isAdmin && res.TargetUsername != p.ReservedAdmin && res.TargetUsername != s.Username
	default:
		return false
	}
}
