package accounts

import "time"

// DefaultTokenTTL is the fallback expiry for verification tokens.
var DefaultTokenTTL = 24 * time.Hour

// DefaultSessionTTL is the fallback duration for session cookies.
var DefaultSessionTTL = 24 * time.Hour

// ConfigObject is a plain struct implementation of Config, built once at
// process start and handed to the constructors that need it.
type ConfigObject struct {
	SigningKey   string        `json:"signing_key"`
	TokenTTL     time.Duration `json:"token_ttl"`
	SessionTTL   time.Duration `json:"session_ttl"`
	ContextKey   string        `json:"context_key"`
	SiteURL      string        `json:"site_url"`
	EmailFrom    string        `json:"email_from"`
	SMTPHost     string        `json:"smtp_host"`
	SMTPPort     int           `json:"smtp_port"`
	SMTPUsername string        `json:"smtp_username"`
	SMTPPassword string        `json:"smtp_password"`
}

var _ Config = (*ConfigObject)(nil)

func (c *ConfigObject) GetSigningKey() string { return c.SigningKey }

func (c *ConfigObject) GetTokenTTL() time.Duration {
	if c.TokenTTL <= 0 {
		return DefaultTokenTTL
	}
	return c.TokenTTL
}

func (c *ConfigObject) GetSessionTTL() time.Duration {
	if c.SessionTTL <= 0 {
		return DefaultSessionTTL
	}
	return c.SessionTTL
}

func (c *ConfigObject) GetContextKey() string {
	if c.ContextKey == "" {
		return "accounts_session"
	}
	return c.ContextKey
}

func (c *ConfigObject) GetSiteURL() string      { return c.SiteURL }
func (c *ConfigObject) GetEmailFrom() string    { return c.EmailFrom }
func (c *ConfigObject) GetSMTPHost() string     { return c.SMTPHost }
func (c *ConfigObject) GetSMTPPort() int        { return c.SMTPPort }
func (c *ConfigObject) GetSMTPUsername() string { return c.SMTPUsername }
func (c *ConfigObject) GetSMTPPassword() string { return c.SMTPPassword }
