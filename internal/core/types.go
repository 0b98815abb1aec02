package core

import (
	"context"

	"efb/internal/storage"
	"efb/pkg/logx"
	"efb/pkg/paths"
)

// ChatType classifies the remote end of a conversation.
type ChatType string

const (
	ChatUser   ChatType = "User"
	ChatGroup  ChatType = "Group"
	ChatSystem ChatType = "System"
)

// Symbols shown next to chats and links in master-channel UIs.
const (
	EmojiUser    = "👤"
	EmojiGroup   = "👥"
	EmojiSystem  = "💻"
	EmojiUnknown = "❓"
	EmojiLink    = "🔗"
)

// SourceEmoji maps a chat type to its display symbol. Any value outside the
// known set (including the zero value) maps to EmojiUnknown; it never fails.
func SourceEmoji(t ChatType) string {
	switch t {
	case ChatUser:
		return EmojiUser
	case ChatGroup:
		return EmojiGroup
	case ChatSystem:
		return EmojiSystem
	default:
		return EmojiUnknown
	}
}

// Status is a framework-level notice delivered to the master channel, e.g. a
// forwarded log record or a channel lifecycle event.
type Status struct {
	// Source names the emitting channel or subsystem.
	Source string
	Text   string
}

// ChannelDeps carries the shared facilities handed to every channel at Init.
type ChannelDeps struct {
	Logger logx.Logger
	Paths  *paths.Resolver
	// Store is nil when storage is disabled.
	Store storage.Store
}

// Channel is the minimal lifecycle contract shared by master and slave
// channels. ChannelID must be unique per instance and is used as the path
// segment for the channel's data, config and cache directories.
type Channel interface {
	ChannelID() string
	ChannelName() string
	Init(ctx context.Context, deps ChannelDeps) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// MasterChannel is the user-facing side of the forwarder.
type MasterChannel interface {
	Channel
	SendStatus(ctx context.Context, st Status) error
}

// SlaveChannel is a remote-IM side of the forwarder. Its extra functions are
// published through the registry returned by Extras.
type SlaveChannel interface {
	Channel
	Extras() *ExtraRegistry
}
