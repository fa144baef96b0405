package auth

import (
	goerrors "github.com/goliatone/go-errors"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileConfig is the concrete Config used by applications embedding this
// package. Zero values fall back to the defaults from DefaultConfig.
type FileConfig struct {
	SessionCookieName      string `koanf:"session_cookie_name" json:"session_cookie_name"`
	ContextKey             string `koanf:"context_key" json:"context_key"`
	TokenLookup            string `koanf:"token_lookup" json:"token_lookup"`
	AuthScheme             string `koanf:"auth_scheme" json:"auth_scheme"`
	CookieDuration         int    `koanf:"cookie_duration" json:"cookie_duration"`
	ExtendedCookieDuration int    `koanf:"extended_cookie_duration" json:"extended_cookie_duration"`
}

var _ Config = (*FileConfig)(nil)

// DefaultConfig returns a Config with working defaults: the session token is
// read from the session_id cookie first, then from the Authorization header.
func DefaultConfig() *FileConfig {
	return &FileConfig{
		SessionCookieName:      "session_id",
		ContextKey:             "user",
		TokenLookup:            "cookie:session_id,header:Authorization",
		AuthScheme:             "Bearer",
		CookieDuration:         24,
		ExtendedCookieDuration: 24 * 7,
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (*FileConfig, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to load config file").
			WithMetadata(map[string]any{"path": path})
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse config file")
	}

	return cfg, nil
}

func (c *FileConfig) GetSessionCookieName() string {
	if c.SessionCookieName == "" {
		return "session_id"
	}
	return c.SessionCookieName
}

func (c *FileConfig) GetContextKey() string {
	if c.ContextKey == "" {
		return "user"
	}
	return c.ContextKey
}

func (c *FileConfig) GetTokenLookup() string {
	if c.TokenLookup == "" {
		return "cookie:" + c.GetSessionCookieName()
	}
	return c.TokenLookup
}

func (c *FileConfig) GetAuthScheme() string {
	return c.AuthScheme
}

func (c *FileConfig) GetCookieDuration() int {
	return c.CookieDuration
}

func (c *FileConfig) GetExtendedCookieDuration() int {
	return c.ExtendedCookieDuration
}
