package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

const (
	DefaultConfigPath     = "config.toml"
	DefaultCoreURL        = "ws://127.0.0.1:8080/api/ws"
	DefaultClientName     = "telegram"
	DefaultFetchTimeoutS  = 30
	DefaultUpdateTimeoutS = 30
)

type Config struct {
	Log        LogConfig        `toml:"log"`
	Core       CoreConfig       `toml:"core"`
	Attachment AttachmentConfig `toml:"attachment"`
	Telegram   TelegramConfig   `toml:"telegram"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// CoreConfig locates the host core's websocket endpoint and names this
// bridge on it.
type CoreConfig struct {
	URL  string `toml:"url"`
	Name string `toml:"name"`
}

type AttachmentConfig struct {
	FetchTimeoutSeconds int `toml:"fetch_timeout_seconds"`
}

type TelegramConfig struct {
	UpdateTimeoutSeconds int `toml:"update_timeout_seconds"`
}

func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Core: CoreConfig{
			URL:  DefaultCoreURL,
			Name: DefaultClientName,
		},
		Attachment: AttachmentConfig{
			FetchTimeoutSeconds: DefaultFetchTimeoutS,
		},
		Telegram: TelegramConfig{
			UpdateTimeoutSeconds: DefaultUpdateTimeoutS,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
