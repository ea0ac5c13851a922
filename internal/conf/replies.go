package conf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rfrbot/roles-for-reactions/internal/biz/usecase"

	"gopkg.in/yaml.v3"
)

// RepliesConfig contains the interview reply texts loaded from YAML
type RepliesConfig struct {
	SetupAck       string `yaml:"setup_ack"`
	DMOpener       string `yaml:"dm_opener"`
	ContentAck     string `yaml:"content_ack"`
	FormatError    string `yaml:"format_error"`
	UnknownRole    string `yaml:"unknown_role"`
	GuildFailure   string `yaml:"guild_failure"`
	PairAck        string `yaml:"pair_ack"`
	Done           string `yaml:"done"`
	Quit           string `yaml:"quit"`
	ChannelFailure string `yaml:"channel_failure"`
	ReactFailure   string `yaml:"react_failure"`
	SaveFailure    string `yaml:"save_failure"`
}

// LoadRepliesConfig loads reply texts from a YAML file
func LoadRepliesConfig(configPath string) (*RepliesConfig, error) {
	// Try multiple paths
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{
			"configs/replies.yaml",
			"./configs/replies.yaml",
			"/etc/roles-for-reactions/replies.yaml",
		}
		if wd, err := os.Getwd(); err == nil {
			paths = append(paths, filepath.Join(wd, "configs", "replies.yaml"))
		}
	}

	var data []byte
	var loadedPath string
	var err error

	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			loadedPath = p
			break
		}
	}

	if data == nil {
		// Return default config if no file found
		return DefaultRepliesConfig(), nil
	}

	fmt.Printf("[Config] Loading replies from: %s\n", loadedPath)

	var config RepliesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse replies.yaml: %w", err)
	}

	config.fillDefaults()
	return &config, nil
}

// DefaultRepliesConfig returns the built-in reply wordings
func DefaultRepliesConfig() *RepliesConfig {
	d := usecase.DefaultReplyTexts
	return &RepliesConfig{
		SetupAck:       d.SetupAck,
		DMOpener:       d.DMOpener,
		ContentAck:     d.ContentAck,
		FormatError:    d.FormatError,
		UnknownRole:    d.UnknownRole,
		GuildFailure:   d.GuildFailure,
		PairAck:        d.PairAck,
		Done:           d.Done,
		Quit:           d.Quit,
		ChannelFailure: d.ChannelFailure,
		ReactFailure:   d.ReactFailure,
		SaveFailure:    d.SaveFailure,
	}
}

// fillDefaults fills in default values for empty fields
func (c *RepliesConfig) fillDefaults() {
	defaults := DefaultRepliesConfig()

	if c.SetupAck == "" {
		c.SetupAck = defaults.SetupAck
	}
	if c.DMOpener == "" {
		c.DMOpener = defaults.DMOpener
	}
	if c.ContentAck == "" {
		c.ContentAck = defaults.ContentAck
	}
	if c.FormatError == "" {
		c.FormatError = defaults.FormatError
	}
	if c.UnknownRole == "" {
		c.UnknownRole = defaults.UnknownRole
	}
	if c.GuildFailure == "" {
		c.GuildFailure = defaults.GuildFailure
	}
	if c.PairAck == "" {
		c.PairAck = defaults.PairAck
	}
	if c.Done == "" {
		c.Done = defaults.Done
	}
	if c.Quit == "" {
		c.Quit = defaults.Quit
	}
	if c.ChannelFailure == "" {
		c.ChannelFailure = defaults.ChannelFailure
	}
	if c.ReactFailure == "" {
		c.ReactFailure = defaults.ReactFailure
	}
	if c.SaveFailure == "" {
		c.SaveFailure = defaults.SaveFailure
	}
}

// ToReplyTexts converts to the usecase reply texts
func (c *RepliesConfig) ToReplyTexts() usecase.ReplyTexts {
	if c == nil {
		return usecase.DefaultReplyTexts
	}
	return usecase.ReplyTexts{
		SetupAck:       c.SetupAck,
		DMOpener:       c.DMOpener,
		ContentAck:     c.ContentAck,
		FormatError:    c.FormatError,
		UnknownRole:    c.UnknownRole,
		GuildFailure:   c.GuildFailure,
		PairAck:        c.PairAck,
		Done:           c.Done,
		Quit:           c.Quit,
		ChannelFailure: c.ChannelFailure,
		ReactFailure:   c.ReactFailure,
		SaveFailure:    c.SaveFailure,
	}
}
