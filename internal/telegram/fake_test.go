package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// fakeBot implements botAPI in-memory for normalizer and dispatcher tests.
type fakeBot struct {
	mu sync.Mutex

	sent        []tgbotapi.Chattable
	mediaGroups []tgbotapi.MediaGroupConfig

	chatsByUsername map[string]tgbotapi.Chat
	chatsByID       map[int64]tgbotapi.Chat
	chatErr         error

	members   map[int64]tgbotapi.ChatMember
	memberErr error

	fileURLs map[string]string
	fileErr  map[string]error

	updates    chan tgbotapi.Update
	stopped    bool
	nextSentID int
}

func newFakeBot() *fakeBot {
	return &fakeBot{
		chatsByUsername: map[string]tgbotapi.Chat{},
		chatsByID:       map[int64]tgbotapi.Chat{},
		members:         map[int64]tgbotapi.ChatMember{},
		fileURLs:        map[string]string{},
		fileErr:         map[string]error{},
		nextSentID:      100,
	}
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, c)
	b.nextSentID++
	return tgbotapi.Message{MessageID: b.nextSentID}, nil
}

func (b *fakeBot) SendMediaGroup(config tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mediaGroups = append(b.mediaGroups, config)
	messages := make([]tgbotapi.Message, len(config.Media))
	for i := range messages {
		b.nextSentID++
		messages[i] = tgbotapi.Message{MessageID: b.nextSentID}
	}
	return messages, nil
}

func (b *fakeBot) GetChat(config tgbotapi.ChatInfoConfig) (tgbotapi.Chat, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.chatErr != nil {
		return tgbotapi.Chat{}, b.chatErr
	}
	if config.SuperGroupUsername != "" {
		if chat, ok := b.chatsByUsername[config.SuperGroupUsername]; ok {
			return chat, nil
		}
		return tgbotapi.Chat{}, tgbotapi.Error{Code: 400, Message: "Bad Request: chat not found"}
	}
	if chat, ok := b.chatsByID[config.ChatID]; ok {
		return chat, nil
	}
	return tgbotapi.Chat{}, tgbotapi.Error{Code: 400, Message: "Bad Request: chat not found"}
}

func (b *fakeBot) GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.memberErr != nil {
		return tgbotapi.ChatMember{}, b.memberErr
	}
	if member, ok := b.members[config.UserID]; ok {
		return member, nil
	}
	return tgbotapi.ChatMember{}, tgbotapi.Error{Code: 400, Message: "Bad Request: user not found"}
}

func (b *fakeBot) GetFileDirectURL(fileID string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err, ok := b.fileErr[fileID]; ok {
		return "", err
	}
	if url, ok := b.fileURLs[fileID]; ok {
		return url, nil
	}
	return "https://files.example/" + fileID, nil
}

func (b *fakeBot) GetUpdatesChan(_ tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.updates == nil {
		b.updates = make(chan tgbotapi.Update, 8)
	}
	return b.updates
}

func (b *fakeBot) StopReceivingUpdates() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.stopped {
		b.stopped = true
		if b.updates != nil {
			close(b.updates)
		}
	}
}

func (b *fakeBot) sentMessages() []tgbotapi.Chattable {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]tgbotapi.Chattable{}, b.sent...)
}

func (b *fakeBot) sentMediaGroups() []tgbotapi.MediaGroupConfig {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]tgbotapi.MediaGroupConfig{}, b.mediaGroups...)
}

// capturingPublisher records interface_message events.
type capturingPublisher struct {
	mu     sync.Mutex
	events []capturedEvent
	notify chan struct{}
}

type capturedEvent struct {
	name string
	data any
}

func newCapturingPublisher() *capturingPublisher {
	return &capturingPublisher{notify: make(chan struct{}, 8)}
}

func (p *capturingPublisher) SendEvent(_ context.Context, event string, data any) error {
	p.mu.Lock()
	p.events = append(p.events, capturedEvent{name: event, data: data})
	p.mu.Unlock()
	p.notify <- struct{}{}
	return nil
}

func (p *capturingPublisher) captured() []capturedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]capturedEvent{}, p.events...)
}

// newTestService wires a Service whose sessions use the given fake bot.
func newTestService(publisher EventPublisher) (*Service, *fakeBot) {
	bot := newFakeBot()
	service := NewService(nil, NewRegistry(), nil, publisher)
	service.newBot = func(string) (botAPI, error) { return bot, nil }
	return service, bot
}

// registerSession installs a session directly, bypassing Login, for
// tests that only exercise dispatch.
func registerSession(service *Service, interfaceID int64, bot botAPI) *Session {
	session := &Session{interfaceID: interfaceID, bot: bot}
	if err := service.registry.Register(session); err != nil {
		panic(err)
	}
	return session
}
