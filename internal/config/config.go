package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Storage StorageConfig `toml:"storage"`
	Board   BoardConfig   `toml:"board"`
	Logging LoggingConfig `toml:"logging"`
}

type StorageConfig struct {
	Dir string `toml:"dir"`
}

type BoardConfig struct {
	DefaultName string   `toml:"default_name"`
	Columns     []string `toml:"columns"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

func Default(storageDir string) Config {
	return Config{
		Storage: StorageConfig{
			Dir: storageDir,
		},
		Board: BoardConfig{
			DefaultName: "default",
			Columns:     []string{"To Do", "In Progress", "Done"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Storage.Dir) == "" {
		return errors.New("storage dir is required")
	}

	if strings.TrimSpace(c.Board.DefaultName) == "" {
		return errors.New("board.default_name is required")
	}
	if len(c.Board.Columns) == 0 {
		return errors.New("board.columns must include at least one column")
	}
	for idx, column := range c.Board.Columns {
		if strings.TrimSpace(column) == "" {
			return fmt.Errorf("board.columns[%d] is empty", idx)
		}
	}

	switch strings.TrimSpace(strings.ToLower(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
