package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "weatherscraper"

	// DefaultTimeout bounds each page fetch. Station pages are small and
	// served from ordinary web hosts, so a slow response is treated as a failure.
	DefaultTimeout = 30 * time.Second

	// DefaultRetryAttempts is the number of retries after a transient fetch failure.
	DefaultRetryAttempts = 2

	// DefaultUserAgent identifies weatherscraper in HTTP requests.
	DefaultUserAgent = "weatherscraper/1.0 (+https://github.com/nao1215/weatherscraper)"

	// DefaultMaxBodySize limits the page body that is read. Bulletin pages are
	// a few kilobytes; 2MB leaves room for heavy page templates.
	DefaultMaxBodySize = 2 * 1024 * 1024

	// DefaultMailProvider is used when mail notification is configured without a provider.
	DefaultMailProvider = MailProviderSMTP
)

// Mail providers.
const (
	// MailProviderSMTP sends notifications through a plain SMTP relay.
	MailProviderSMTP = "smtp"

	// MailProviderSendGrid sends notifications through the SendGrid API.
	MailProviderSendGrid = "sendgrid"
)

// MailConfig holds the optional failure-notification settings.
// Notification is disabled unless From, To and Server (or the SendGrid API key)
// are all set; a partially configured MailConfig is not an error.
type MailConfig struct {
	// From is the sender address.
	From string

	// To is the recipient address.
	To string

	// Server is the SMTP relay as "host" or "host:port". Port 25 is used when omitted.
	Server string

	// Provider is MailProviderSMTP or MailProviderSendGrid.
	Provider string

	// Username and Password enable SMTP PLAIN authentication when both are set.
	Username string
	Password string

	// SendGridAPIKey authenticates against the SendGrid API.
	SendGridAPIKey string
}

// Enabled reports whether enough settings are present to send mail.
func (m MailConfig) Enabled() bool {
	if m.From == "" || m.To == "" {
		return false
	}
	if m.Provider == MailProviderSendGrid {
		return m.SendGridAPIKey != ""
	}
	return m.Server != ""
}

// Config holds all configuration for one weatherscraper invocation.
// It is populated from CLI flags and passed explicitly into the pipeline.
type Config struct {
	// ConfigFilePath is the station file path as given by the user.
	ConfigFilePath string

	// DataPath is the archive directory. It must already exist.
	DataPath string

	// Stations is the ordered station list loaded from ConfigFilePath.
	Stations []StationSource

	// Mail holds the optional failure-notification settings.
	Mail MailConfig

	// Timeout bounds each page fetch, including retries of that fetch.
	Timeout time.Duration

	// RetryAttempts is the number of retries after a transient fetch failure.
	RetryAttempts int

	// UserAgent is sent with every page request.
	UserAgent string

	// MaxBodySize is the maximum number of page bytes read.
	MaxBodySize int64

	// Verbose enables debug logging.
	Verbose bool

	// JSONReport prints the run summary as JSON.
	JSONReport bool

	// MarkdownReport prints the run summary as Markdown.
	MarkdownReport bool

	// ReportFile writes the run summary to a file instead of stdout.
	ReportFile string

	// MetricsFile writes Prometheus textfile metrics after each run when set.
	MetricsFile string

	// SaveToDB records each run in the history database under DBDir.
	SaveToDB bool

	// DBDir is the history database directory.
	DBDir string

	// UTC makes the archive's day boundary UTC midnight instead of local midnight.
	UTC bool
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Timeout:       DefaultTimeout,
		RetryAttempts: DefaultRetryAttempts,
		UserAgent:     DefaultUserAgent,
		MaxBodySize:   DefaultMaxBodySize,
		Mail:          MailConfig{Provider: DefaultMailProvider},
		SaveToDB:      true,
		DBDir:         XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for weatherscraper.
// On Linux: ~/.local/share/weatherscraper
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for weatherscraper.
// On Linux: ~/.config/weatherscraper
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// Every returned error matches ErrConfiguration.
func (c *Config) Validate() error {
	if len(c.Stations) == 0 {
		if strings.TrimSpace(c.ConfigFilePath) == "" {
			return ErrNoConfigFile
		}
		return fmt.Errorf("%w: %s", ErrNoStations, c.ConfigFilePath)
	}

	if err := ValidateDataPath(c.DataPath); err != nil {
		return err
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.RetryAttempts < 0 {
		return ErrInvalidRetryAttempts
	}

	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	switch c.Mail.Provider {
	case "", MailProviderSMTP, MailProviderSendGrid:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMailProvider, c.Mail.Provider)
	}

	return nil
}

// ValidateDataPath checks that path names an existing directory.
func ValidateDataPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w. Specified path was: %q", ErrInvalidDataPath, path)
	}

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w. Specified path was: %s", ErrInvalidDataPath, path)
	}

	return nil
}

// Location returns the time zone that defines the archive's calendar day.
func (c *Config) Location() *time.Location {
	if c.UTC {
		return time.UTC
	}
	return time.Local
}
