// Package telegram bridges Telegram's native event/API model to the host
// core's canonical message model: inbound native messages become event
// envelopes, canonical send-requests become native API calls.
package telegram

// InterfaceName is the handler name reported to the host core.
const InterfaceName = "Telegram"

// Attachment is one canonical attachment reference: a filename plus a
// URL the core (or the dispatcher) can fetch later.
type Attachment struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// MentionSpan locates one mention inside envelope content. Offsets are
// in Telegram's native text units (UTF-16 code units), matching the
// entity offsets on the wire.
type MentionSpan struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// ExtraData carries platform-specific envelope fields the core passes
// through untouched.
type ExtraData struct {
	IsReply        bool   `json:"isReply"`
	ReplyMessageID string `json:"replyMessageID,omitempty"`
}

// Envelope is the canonical representation of one inbound message.
// Field names are the host core's wire format.
type Envelope struct {
	InterfaceID          int64                  `json:"interfaceID"`
	InterfaceHandlerName string                 `json:"interfaceHandlerName"`
	Content              string                 `json:"content"`
	Attachments          []Attachment           `json:"attachments"`
	Mentions             map[string]MentionSpan `json:"mentions"`
	MessageID            string                 `json:"messageID"`
	FormattedMessageID   string                 `json:"formattedMessageID"`
	ChannelID            string                 `json:"channelID"`
	FormattedChannelID   string                 `json:"formattedChannelID"`
	GuildID              string                 `json:"guildID"`
	FormattedGuildID     string                 `json:"formattedGuildID"`
	SenderID             string                 `json:"senderID"`
	FormattedSenderID    string                 `json:"formattedSenderID"`
	IsDM                 bool                   `json:"isDM"`
	ExtraData            ExtraData              `json:"additionalInterfaceData"`
}

// SendRequest is a canonical outbound message from the host core.
type SendRequest struct {
	InterfaceID    int64          `json:"interfaceID"`
	Content        string         `json:"content"`
	Attachments    []Attachment   `json:"attachments"`
	ChannelID      string         `json:"channelID"`
	ReplyMessageID string         `json:"replyMessageID,omitempty"`
	ExtraData      map[string]any `json:"additionalInterfaceData,omitempty"`
}

// SendResult acknowledges a delivered message.
type SendResult struct {
	MessageID          string `json:"messageID"`
	FormattedMessageID string `json:"formattedMessageID"`
}

// UserInfo is the get_userinfo response.
type UserInfo struct {
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ChannelInfo is the get_channelinfo response.
type ChannelInfo struct {
	Name string `json:"name"`
}
