package store

import (
	"errors"

	"potato-chat/internal/channel"
	"potato-chat/internal/user"
)

// Sentinel errors matched with errors.Is at the handler boundary.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type UserStore interface {
	CreateUser(u *user.User) error
	GetUserByID(id uint) (*user.User, error)
	GetUserByUsername(username string) (*user.User, error)
	ListUsers() ([]user.User, error)
	// RenameUser changes a username and rewrites message authorship in the
	// same transaction.
	RenameUser(oldName, newName string) error
	// RemoveUser deletes a user and all of their messages in the same
	// transaction.
	RemoveUser(username string) error
}

type ChannelStore interface {
	ListChannels() ([]channel.Channel, error)
	GetChannel(id uint) (*channel.Channel, error)
	CreateChannel(name string, locked bool) (*channel.Channel, error)
	RenameChannel(id uint, newName string) (*channel.Channel, error)
	SetChannelLocked(id uint, locked bool) (*channel.Channel, error)
	// DeleteChannel removes a channel and all of its messages in the same
	// transaction.
	DeleteChannel(id uint) error
}

type MessageStore interface {
	AppendMessage(m *channel.Message) error
	GetMessage(id uint) (*channel.Message, error)
	// ListMessages returns a channel's messages ordered by creation time
	// ascending, ties broken by insertion id.
	ListMessages(channelID uint) ([]channel.Message, error)
	DeleteMessage(id uint) error
}

// Store is the single persistence surface injected into request handlers.
type Store interface {
	UserStore
	ChannelStore
	MessageStore
}
