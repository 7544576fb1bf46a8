package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/polychat/telegram-bridge/internal/attachment"
)

// DefaultUpdateTimeoutSeconds is the long-poll timeout used when no
// override is configured.
const DefaultUpdateTimeoutSeconds = 30

// EventPublisher publishes canonical events to the host core.
// core.Client satisfies it.
type EventPublisher interface {
	SendEvent(ctx context.Context, event string, data any) error
}

// Session is one authenticated login: a native client plus its update
// polling loop.
type Session struct {
	interfaceID int64
	bot         botAPI
	cancel      context.CancelFunc
	updates     tgbotapi.UpdatesChannel
}

// InterfaceID returns the host-core interface ID this session serves.
func (s *Session) InterfaceID() int64 {
	return s.interfaceID
}

// Stop halts update polling and drains the channel so the library's
// polling goroutine can exit. Reused tokens otherwise collide on the
// next getUpdates session.
func (s *Session) Stop(_ context.Context) {
	s.bot.StopReceivingUpdates()
	if s.cancel != nil {
		s.cancel()
	}
	if s.updates != nil {
		for range s.updates {
		}
	}
}

// Service implements the adapter operations the host core calls:
// login/logout, outbound dispatch, and info lookups. Inbound updates are
// normalized and published through the EventPublisher.
type Service struct {
	logger   *slog.Logger
	registry *Registry
	resolver *attachment.Resolver
	events   EventPublisher

	// UpdateTimeoutSeconds is the getUpdates long-poll timeout.
	UpdateTimeoutSeconds int

	// newBot is a seam for tests; production uses tgbotapi.NewBotAPI.
	newBot func(token string) (botAPI, error)
}

// NewService creates a Service with the given collaborators.
func NewService(log *slog.Logger, registry *Registry, resolver *attachment.Resolver, events EventPublisher) *Service {
	if log == nil {
		log = slog.Default()
	}
	if registry == nil {
		registry = NewRegistry()
	}
	if resolver == nil {
		resolver = attachment.NewResolver(nil)
	}
	return &Service{
		logger:               log.With(slog.String("adapter", "telegram")),
		registry:             registry,
		resolver:             resolver,
		events:               events,
		UpdateTimeoutSeconds: DefaultUpdateTimeoutSeconds,
		newBot: func(token string) (botAPI, error) {
			bot, err := tgbotapi.NewBotAPI(token)
			if err != nil {
				return nil, err
			}
			return bot, nil
		},
	}
}

// Registry exposes the session registry, mainly for shutdown wiring.
func (s *Service) Registry() *Registry {
	return s.registry
}

// Login authenticates a bot token, registers the session under the
// interface ID, and starts consuming updates.
func (s *Service) Login(ctx context.Context, interfaceID int64, botToken string) error {
	if s.registry.Has(interfaceID) {
		return ErrAlreadyRegistered
	}
	bot, err := s.newBot(botToken)
	if err != nil {
		s.logger.Error("login failed", slog.Int64("interface_id", interfaceID), slog.Any("error", err))
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = s.UpdateTimeoutSeconds
	updates := bot.GetUpdatesChan(updateConfig)

	sessionCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	session := &Session{interfaceID: interfaceID, bot: bot, cancel: cancel, updates: updates}
	if err := s.registry.Register(session); err != nil {
		cancel()
		bot.StopReceivingUpdates()
		return err
	}

	go s.consumeUpdates(sessionCtx, session)

	s.logger.Info("interface logged in", slog.Int64("interface_id", interfaceID))
	return nil
}

// Logout stops the session's native client and removes it from the
// registry. Unknown interface IDs are a no-op.
func (s *Service) Logout(ctx context.Context, interfaceID int64) {
	session := s.registry.Remove(interfaceID)
	if session == nil {
		return
	}
	session.Stop(ctx)
	s.logger.Info("interface logged out", slog.Int64("interface_id", interfaceID))
}

// Shutdown stops every live session.
func (s *Service) Shutdown(ctx context.Context) {
	s.registry.Shutdown(ctx)
}

// consumeUpdates runs one session's inbound loop. Handlers run to
// completion in arrival order for this session; other sessions are
// unaffected.
func (s *Service) consumeUpdates(ctx context.Context, session *Session) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-session.updates:
			if !ok {
				s.logger.Info("updates channel closed", slog.Int64("interface_id", session.interfaceID))
				return
			}
			if update.Message == nil {
				continue
			}
			s.publishInbound(ctx, session, update.Message)
		}
	}
}

// publishInbound normalizes one native message and publishes the
// envelope as a single interface_message event. Partial envelopes are
// never published.
func (s *Service) publishInbound(ctx context.Context, session *Session, msg *tgbotapi.Message) {
	envelope := s.normalize(session, msg)
	if err := s.events.SendEvent(ctx, "interface_message", envelope); err != nil {
		s.logger.Error("publish inbound failed",
			slog.Int64("interface_id", session.interfaceID),
			slog.String("message_id", envelope.MessageID),
			slog.Any("error", err),
		)
	}
}
