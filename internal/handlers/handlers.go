// Package handlers binds the host core's API actions to the Telegram
// adapter service.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/polychat/telegram-bridge/internal/core"
	"github.com/polychat/telegram-bridge/internal/telegram"
)

// Adapter is the slice of the Telegram service the handlers drive.
type Adapter interface {
	Login(ctx context.Context, interfaceID int64, botToken string) error
	Logout(ctx context.Context, interfaceID int64)
	Send(ctx context.Context, req telegram.SendRequest) (telegram.SendResult, error)
	UserInfo(ctx context.Context, interfaceID int64, userID string) (telegram.UserInfo, error)
	ChannelInfo(ctx context.Context, interfaceID int64, channelID string) (telegram.ChannelInfo, error)
}

// Handlers decodes call payloads and maps results back to the wire
// shapes the core expects.
type Handlers struct {
	logger  *slog.Logger
	service Adapter
}

// New creates Handlers over the given adapter service.
func New(log *slog.Logger, service Adapter) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	return &Handlers{
		logger:  log.With(slog.String("component", "handlers")),
		service: service,
	}
}

// Register installs every adapter action on the core client.
func (h *Handlers) Register(client *core.Client) {
	client.Handle("login", h.login)
	client.Handle("logout", h.logout)
	client.Handle("send_message", h.sendMessage)
	client.Handle("get_userinfo", h.userInfo)
	client.Handle("get_channelinfo", h.channelInfo)
}

type loginParams struct {
	InterfaceID int64 `json:"interfaceID"`
	LoginData   struct {
		BotToken string `json:"botToken"`
	} `json:"loginData"`
}

type loginResult struct {
	Success bool `json:"success"`
}

func (h *Handlers) login(ctx context.Context, _ string, data json.RawMessage) (any, error) {
	var params loginParams
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("decode login params: %w", err)
	}
	if err := h.service.Login(ctx, params.InterfaceID, params.LoginData.BotToken); err != nil {
		return nil, err
	}
	return loginResult{Success: true}, nil
}

type logoutParams struct {
	InterfaceID int64 `json:"interfaceID"`
}

func (h *Handlers) logout(ctx context.Context, _ string, data json.RawMessage) (any, error) {
	var params logoutParams
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("decode logout params: %w", err)
	}
	h.service.Logout(ctx, params.InterfaceID)
	return nil, nil
}

func (h *Handlers) sendMessage(ctx context.Context, _ string, data json.RawMessage) (any, error) {
	var req telegram.SendRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("decode send_message params: %w", err)
	}
	return h.service.Send(ctx, req)
}

type userInfoParams struct {
	InterfaceID int64  `json:"interfaceID"`
	UserID      string `json:"userID"`
}

func (h *Handlers) userInfo(ctx context.Context, _ string, data json.RawMessage) (any, error) {
	var params userInfoParams
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("decode get_userinfo params: %w", err)
	}
	return h.service.UserInfo(ctx, params.InterfaceID, params.UserID)
}

type channelInfoParams struct {
	InterfaceID int64  `json:"interfaceID"`
	ChannelID   string `json:"channelID"`
}

func (h *Handlers) channelInfo(ctx context.Context, _ string, data json.RawMessage) (any, error) {
	var params channelInfoParams
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("decode get_channelinfo params: %w", err)
	}
	return h.service.ChannelInfo(ctx, params.InterfaceID, params.ChannelID)
}
