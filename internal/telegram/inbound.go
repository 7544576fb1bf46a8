package telegram

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/polychat/telegram-bridge/internal/identity"
)

// normalize builds one canonical envelope from one native message. Every
// applicable payload branch runs; their attachment contributions are
// concatenated, never replaced.
func (s *Service) normalize(session *Session, msg *tgbotapi.Message) Envelope {
	content := msg.Text

	envelope := Envelope{
		InterfaceID:          session.interfaceID,
		InterfaceHandlerName: InterfaceName,
		Content:              content,
		Attachments:          s.collectAttachments(session.bot, msg),
		Mentions:             s.resolveMentions(session.bot, content, msg.Entities),
		MessageID:            strconv.Itoa(msg.MessageID),
		FormattedMessageID:   identity.FormatSent(session.interfaceID, msg.MessageID),
	}

	if msg.Chat != nil {
		chatID := strconv.FormatInt(msg.Chat.ID, 10)
		envelope.ChannelID = chatID
		envelope.FormattedChannelID = identity.Format(msg.Chat.ID, identity.EntityChannel)
		// Telegram has no guild tier; the chat stands in for both.
		envelope.GuildID = chatID
		envelope.FormattedGuildID = envelope.FormattedChannelID
		envelope.IsDM = msg.Chat.Type == "private"
	}
	if msg.From != nil {
		envelope.SenderID = strconv.FormatInt(msg.From.ID, 10)
		envelope.FormattedSenderID = identity.Format(msg.From.ID, identity.EntityUser)
	}
	if msg.ReplyToMessage != nil {
		envelope.ExtraData = ExtraData{
			IsReply:        true,
			ReplyMessageID: strconv.Itoa(msg.ReplyToMessage.MessageID),
		}
	}
	return envelope
}

// collectAttachments visits every media kind the message may carry.
// Kinds are not mutually exclusive with text; all matches contribute.
// Each entry needs one native lookup for a temporary direct link;
// entries whose lookup fails are dropped rather than aborting the
// envelope.
func (s *Service) collectAttachments(bot botAPI, msg *tgbotapi.Message) []Attachment {
	attachments := []Attachment{}

	if len(msg.Photo) > 0 {
		if att, ok := s.pickPhoto(bot, msg.Photo); ok {
			attachments = append(attachments, att)
		}
	}
	if msg.Document != nil {
		name := msg.Document.FileName
		if name == "" {
			name = "unknown"
		}
		attachments = s.appendFile(attachments, bot, msg.Document.FileID, name)
	}
	if msg.Sticker != nil {
		attachments = s.appendFile(attachments, bot, msg.Sticker.FileID, msg.Sticker.FileID+".webp")
	}
	if msg.Video != nil {
		name := msg.Video.FileName
		if name == "" {
			name = "unknown.mp4"
		}
		attachments = s.appendFile(attachments, bot, msg.Video.FileID, name)
	}
	if msg.Voice != nil {
		attachments = s.appendFile(attachments, bot, msg.Voice.FileID, msg.Voice.FileID+".ogg")
	}
	if msg.Audio != nil {
		name := msg.Audio.FileName
		if name == "" {
			name = "unknown.mp3"
		}
		attachments = s.appendFile(attachments, bot, msg.Audio.FileID, name)
	}
	if msg.Animation != nil {
		name := msg.Animation.FileName
		if name == "" {
			name = "unknown.mp4"
		}
		attachments = s.appendFile(attachments, bot, msg.Animation.FileID, name)
	}
	if msg.VideoNote != nil {
		attachments = s.appendFile(attachments, bot, msg.VideoNote.FileID, msg.VideoNote.FileID+".mp4")
	}
	return attachments
}

// pickPhoto reduces a multi-resolution photo set to one attachment.
// Telegram only transmits compressed variants, so the widest one is the
// best available. Variants are deduplicated by file ID first (first
// occurrence wins).
func (s *Service) pickPhoto(bot botAPI, photos []tgbotapi.PhotoSize) (Attachment, bool) {
	seen := map[string]struct{}{}
	var best tgbotapi.PhotoSize
	for _, photo := range photos {
		if _, dup := seen[photo.FileID]; dup {
			continue
		}
		seen[photo.FileID] = struct{}{}
		if photo.Width > best.Width {
			best = photo
		}
	}
	if best.FileID == "" {
		return Attachment{}, false
	}
	url, err := bot.GetFileDirectURL(best.FileID)
	if err != nil {
		s.logger.Warn("resolve photo link failed", slog.Any("error", err))
		return Attachment{}, false
	}
	return Attachment{Filename: best.FileID + ".jpg", URL: url}, true
}

func (s *Service) appendFile(attachments []Attachment, bot botAPI, fileID, filename string) []Attachment {
	url, err := bot.GetFileDirectURL(fileID)
	if err != nil {
		s.logger.Warn("resolve file link failed", slog.String("file_id", fileID), slog.Any("error", err))
		return attachments
	}
	return append(attachments, Attachment{Filename: filename, URL: url})
}

// resolveMentions maps mention entities to canonical user IDs. Entity
// offsets are UTF-16 code units and are carried through unchanged so the
// spans stay valid against the native text. Entities that fail to
// resolve are dropped; the envelope is never aborted.
func (s *Service) resolveMentions(bot botAPI, content string, entities []tgbotapi.MessageEntity) map[string]MentionSpan {
	mentions := map[string]MentionSpan{}
	for _, entity := range entities {
		span := MentionSpan{Start: entity.Offset, Length: entity.Length}
		switch entity.Type {
		case "mention":
			// "@username" — strip the @ and resolve the username to an ID.
			username := utf16Slice(content, entity.Offset+1, entity.Length-1)
			if username == "" {
				continue
			}
			chat, err := bot.GetChat(tgbotapi.ChatInfoConfig{
				ChatConfig: tgbotapi.ChatConfig{SuperGroupUsername: "@" + username},
			})
			if err != nil {
				s.logger.Warn("resolve mention failed", slog.String("username", username), slog.Any("error", err))
				continue
			}
			mentions[identity.Format(chat.ID, identity.EntityUser)] = span
		case "text_mention":
			// Entity already carries the user object.
			if entity.User == nil {
				continue
			}
			mentions[identity.Format(entity.User.ID, identity.EntityUser)] = span
		}
	}
	return mentions
}

// utf16Slice extracts content[start:start+length] measured in UTF-16
// code units, the unit Telegram entity offsets use.
func utf16Slice(content string, start, length int) string {
	if start < 0 || length <= 0 {
		return ""
	}
	units := utf16.Encode([]rune(content))
	if start+length > len(units) {
		return ""
	}
	return strings.TrimSpace(string(utf16.Decode(units[start : start+length])))
}
