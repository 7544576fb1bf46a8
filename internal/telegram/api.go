package telegram

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// botAPI is the subset of the native client a session uses. Narrowing to
// an interface keeps the normalizer and dispatcher testable without a
// live bot.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	SendMediaGroup(config tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error)
	GetChat(config tgbotapi.ChatInfoConfig) (tgbotapi.Chat, error)
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
	GetFileDirectURL(fileID string) (string, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

var _ botAPI = (*tgbotapi.BotAPI)(nil)

// chatInfoConfig builds a chat lookup for a native channel reference:
// either a numeric chat ID or an @username.
func chatInfoConfig(native string) (tgbotapi.ChatInfoConfig, error) {
	if strings.HasPrefix(native, "@") {
		return tgbotapi.ChatInfoConfig{
			ChatConfig: tgbotapi.ChatConfig{SuperGroupUsername: native},
		}, nil
	}
	chatID, err := strconv.ParseInt(native, 10, 64)
	if err != nil {
		return tgbotapi.ChatInfoConfig{}, err
	}
	return tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	}, nil
}
