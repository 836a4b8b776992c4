package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Transport struct {
	Network  string        `yaml:"network"`             // "rfcomm" | "serial" | "tcp"
	Address  string        `yaml:"address,omitempty"`   // bluetooth address, tty or host:port
	Channel  int           `yaml:"channel,omitempty"`   // rfcomm channel, usually 1
	BaudRate int           `yaml:"baud_rate,omitempty"` // serial only
	Timeout  time.Duration `yaml:"timeout,omitempty"`
}

type Pacing struct {
	FrameDelay  time.Duration `yaml:"frame_delay"`  // pause after each frame
	SettleDelay time.Duration `yaml:"settle_delay"` // pause after connecting
}

type Encoder struct {
	ResizeFilter string `yaml:"resize_filter"` // nearest | box | linear | cubic | lanczos
}

type Gallery struct {
	// ChunkHeader selects the gallery chunk header: "total" (default) or
	// "continuation" for older firmware.
	ChunkHeader string `yaml:"chunk_header,omitempty"`
}

type Config struct {
	Transport Transport `yaml:"transport"`
	Pacing    Pacing    `yaml:"pacing"`
	Encoder   Encoder   `yaml:"encoder"`
	Gallery   Gallery   `yaml:"gallery,omitempty"`
	LogLevel  string    `yaml:"log_level,omitempty"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		Transport: Transport{Network: "rfcomm", Channel: 1, BaudRate: 115200, Timeout: 10 * time.Second},
		Pacing:    Pacing{FrameDelay: 10 * time.Millisecond, SettleDelay: 40 * time.Millisecond},
		Encoder:   Encoder{ResizeFilter: "nearest"},
		Gallery:   Gallery{ChunkHeader: "total"},
		LogLevel:  "info",
	}
}

// Load reads path on top of Default, so a partial file keeps the defaults
// for everything it leaves out.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
