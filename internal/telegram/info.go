package telegram

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/polychat/telegram-bridge/internal/identity"
)

// UserInfo looks up display names for a canonical user ID.
func (s *Service) UserInfo(_ context.Context, interfaceID int64, userID string) (UserInfo, error) {
	session, ok := s.registry.Get(interfaceID)
	if !ok {
		return UserInfo{}, ErrNotLoggedIn
	}
	nativeID, err := strconv.ParseInt(identity.ParseChannel(userID), 10, 64)
	if err != nil {
		return UserInfo{}, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	// A user's private chat shares the user's ID, so the member lookup
	// targets the user's own chat.
	member, err := session.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: nativeID, UserID: nativeID},
	})
	if err != nil || member.User == nil {
		return UserInfo{}, fmt.Errorf("%w: %v", ErrUserNotFound, err)
	}
	return UserInfo{
		Name:      joinName(member.User.FirstName, member.User.LastName),
		FirstName: member.User.FirstName,
		LastName:  member.User.LastName,
	}, nil
}

// ChannelInfo looks up the display name for a canonical channel ID.
// Private chats have no title; the peer's name stands in.
func (s *Service) ChannelInfo(_ context.Context, interfaceID int64, channelID string) (ChannelInfo, error) {
	session, ok := s.registry.Get(interfaceID)
	if !ok {
		return ChannelInfo{}, ErrNotLoggedIn
	}
	chatCfg, err := chatInfoConfig(identity.ParseChannel(channelID))
	if err != nil {
		return ChannelInfo{}, fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
	}
	chat, err := session.bot.GetChat(chatCfg)
	if err != nil {
		return ChannelInfo{}, fmt.Errorf("%w: %v", ErrChannelNotFound, err)
	}
	if chat.Type == "private" {
		return ChannelInfo{Name: joinName(chat.FirstName, chat.LastName)}, nil
	}
	return ChannelInfo{Name: chat.Title}, nil
}

func joinName(first, last string) string {
	if last == "" {
		return first
	}
	return first + " " + last
}
