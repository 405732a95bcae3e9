// engine/internal/config/config.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Source describes one configured career page. Name selects the extraction
// strategy in the registry; Location is the default location an extractor
// stamps on candidates when the page itself carries none.
type Source struct {
	Name     string `yaml:"name"`
	Company  string `yaml:"company"`
	URL      string `yaml:"url"`
	Location string `yaml:"location"`
	Render   string `yaml:"render"` // "" (plain http) or "browser"
}

type Email struct {
	Enabled        bool     `yaml:"enabled"`
	IMAPHost       string   `yaml:"imap_host"`
	IMAPPort       int      `yaml:"imap_port"`
	Username       string   `yaml:"username"`
	Mailbox        string   `yaml:"mailbox"`
	SubjectAny     []string `yaml:"subject_any"`
	MaxMessages    int      `yaml:"max_messages"`
	KeyringAccount string   `yaml:"keyring_account"`
}

type Fetch struct {
	ReqPerSec      float64 `yaml:"req_per_sec"`
	Burst          int     `yaml:"burst"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	UserAgent      string  `yaml:"user_agent"`
}

type Config struct {
	Sources []Source `yaml:"sources"`
	Email   Email    `yaml:"email"`
	Fetch   Fetch    `yaml:"fetch"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
