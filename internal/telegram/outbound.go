package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/polychat/telegram-bridge/internal/attachment"
	"github.com/polychat/telegram-bridge/internal/identity"
)

// Send delivers one canonical send-request, choosing between plain-text,
// single-attachment, and batched delivery. Attachment delivery is
// best-effort: a source that fails to resolve degrades the call (plain
// text for a single attachment, a smaller batch otherwise) instead of
// failing it.
func (s *Service) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	session, ok := s.registry.Get(req.InterfaceID)
	if !ok {
		return SendResult{}, ErrNotLoggedIn
	}

	chatCfg, err := chatInfoConfig(identity.ParseChannel(req.ChannelID))
	if err != nil {
		return SendResult{}, fmt.Errorf("%w: %s", ErrChannelNotFound, req.ChannelID)
	}
	chat, err := session.bot.GetChat(chatCfg)
	if err != nil {
		return SendResult{}, fmt.Errorf("%w: %v", ErrChannelNotFound, err)
	}

	replyTo := identity.ParseReply(req.ReplyMessageID, req.InterfaceID)

	var sent tgbotapi.Message
	switch len(req.Attachments) {
	case 0:
		sent, err = s.sendText(session.bot, chat.ID, req.Content, replyTo)
	case 1:
		sent, err = s.sendSingle(session.bot, chat.ID, req, replyTo)
	default:
		sent, err = s.sendBatch(session.bot, chat.ID, req, replyTo)
	}
	if err != nil {
		return SendResult{}, err
	}

	messageID := strconv.Itoa(sent.MessageID)
	return SendResult{
		MessageID:          messageID,
		FormattedMessageID: identity.FormatString(messageID, identity.EntityMessage),
	}, nil
}

func (s *Service) sendText(bot botAPI, chatID int64, content string, replyTo int) (tgbotapi.Message, error) {
	cfg := tgbotapi.NewMessage(chatID, content)
	applyReply(&cfg.BaseChat, replyTo)
	return bot.Send(cfg)
}

// sendSingle sends one attachment as a document with the content as its
// caption. When the source does not resolve, the text still goes out as
// a plain message; media fetch failures must not block delivery.
func (s *Service) sendSingle(bot botAPI, chatID int64, req SendRequest, replyTo int) (tgbotapi.Message, error) {
	att := req.Attachments[0]
	stream, err := s.resolver.Resolve(att.URL, att.Filename)
	if err != nil {
		s.logger.Warn("attachment resolution failed, sending text only",
			slog.String("filename", att.Filename), slog.Any("error", err))
		return s.sendText(bot, chatID, req.Content, replyTo)
	}
	defer func() {
		_ = stream.Reader.Close()
	}()

	cfg := tgbotapi.NewDocument(chatID, tgbotapi.FileReader{Name: stream.Name, Reader: stream.Reader})
	cfg.Caption = req.Content
	applyReply(&cfg.BaseChat, replyTo)
	return bot.Send(cfg)
}

// sendBatch groups all resolvable attachments into one media-group call.
// Sources that fail to resolve are dropped; when nothing resolves the
// call degrades all the way to plain text.
func (s *Service) sendBatch(bot botAPI, chatID int64, req SendRequest, replyTo int) (tgbotapi.Message, error) {
	streams := make([]attachment.Stream, 0, len(req.Attachments))
	for _, att := range req.Attachments {
		stream, err := s.resolver.Resolve(att.URL, att.Filename)
		if err != nil {
			s.logger.Warn("attachment dropped from batch",
				slog.String("filename", att.Filename), slog.Any("error", err))
			continue
		}
		streams = append(streams, stream)
	}
	if len(streams) == 0 {
		return s.sendText(bot, chatID, req.Content, replyTo)
	}
	defer func() {
		for _, stream := range streams {
			_ = stream.Reader.Close()
		}
	}()

	media := make([]interface{}, 0, len(streams))
	for _, stream := range streams {
		doc := tgbotapi.NewInputMediaDocument(tgbotapi.FileReader{Name: stream.Name, Reader: stream.Reader})
		doc.Caption = req.Content
		media = append(media, doc)
	}
	group := tgbotapi.NewMediaGroup(chatID, media)
	if replyTo != identity.NoReply {
		group.ReplyToMessageID = replyTo
	}
	messages, err := bot.SendMediaGroup(group)
	if err != nil {
		return tgbotapi.Message{}, err
	}
	if len(messages) == 0 {
		return tgbotapi.Message{}, fmt.Errorf("media group returned no messages")
	}
	return messages[0], nil
}

func applyReply(base *tgbotapi.BaseChat, replyTo int) {
	if replyTo != identity.NoReply {
		base.ReplyToMessageID = replyTo
	}
	base.AllowSendingWithoutReply = true
}
