// Package identity formats and parses the canonical cross-platform
// identifiers the host core uses to address Telegram entities.
package identity

import (
	"strconv"
	"strings"
)

// Platform is the fixed platform segment embedded in every canonical ID
// produced by this adapter.
const Platform = "Telegram"

// EntityType is the middle segment of a canonical identifier.
type EntityType string

const (
	EntityMessage EntityType = "Message"
	EntityChannel EntityType = "Channel"
	EntityUser    EntityType = "User"
)

// NoReply is the native sentinel for "not replying to anything".
const NoReply = 0

// Format builds `<nativeID>@<EntityType>@Telegram` from a native numeric ID.
// It is pure concatenation; the native ID is not validated beyond
// stringification.
func Format(nativeID int64, entity EntityType) string {
	return FormatString(strconv.FormatInt(nativeID, 10), entity)
}

// FormatString is Format for native IDs that are already strings.
func FormatString(nativeID string, entity EntityType) string {
	return nativeID + "@" + string(entity) + "@" + Platform
}

// FormatSent builds the composite message ID for a message sent through a
// specific interface: `<interfaceID>_<nativeMessageID>@Message@Telegram`.
// The interface prefix lets ParseReply tell apart messages produced by the
// current login from everything else.
func FormatSent(interfaceID int64, nativeMessageID int) string {
	return strconv.FormatInt(interfaceID, 10) + "_" + strconv.Itoa(nativeMessageID) +
		"@" + string(EntityMessage) + "@" + Platform
}

// ParseChannel extracts the native ID segment of a canonical channel ID.
// IDs without an "@" separator are returned unchanged so already-native
// IDs pass through.
func ParseChannel(canonical string) string {
	if idx := strings.Index(canonical, "@"); idx >= 0 {
		return canonical[:idx]
	}
	return canonical
}

// ParseReply resolves a reply target for the given interface. Only the
// composite form produced by FormatSent with a matching interface segment
// resolves to a native message ID; every other shape (plain message IDs,
// other interfaces' composites, empty input) yields NoReply. Replying is
// best-effort, so no shape is ever an error.
func ParseReply(canonical string, interfaceID int64) int {
	native := ParseChannel(canonical)
	prefix, rest, ok := strings.Cut(native, "_")
	if !ok {
		return NoReply
	}
	if prefix != strconv.FormatInt(interfaceID, 10) {
		return NoReply
	}
	messageID, err := strconv.Atoi(rest)
	if err != nil {
		return NoReply
	}
	return messageID
}
