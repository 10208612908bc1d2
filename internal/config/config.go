package config // package config loads application configuration from environment variables

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; Load fills defaults and Validate reports every
// problem at once.
type Config struct {
	Env         string // application environment (dev, test, prod)
	Port        string // HTTP port to listen on
	DataBackend string // "mysql" or "memory"

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	SessionSecret string        // signs session tokens and derives the sealing key
	SessionTTL    time.Duration // session token lifetime
	CookieSecure  bool          // set Secure on the session cookie

	KakaoClientID     string
	KakaoClientSecret string
	KakaoCallbackURL  string
	KakaoLogoutURL    string // provider revoke endpoint
	LoginRedirectURL  string // where the browser lands after login/logout

	CalendarTZ string // default viewer timezone for calendar views

	LogLevel  string
	LogFormat string // "text" or "json"

	AMQPURL        string // empty disables event publishing
	EventsQueue    string
	EventsConsumer bool   // run the audit consumer in-process
	AuditLogPath   string // where the consumer appends event lines
}

const (
	BackendMySQL  = "mysql"
	BackendMemory = "memory"

	DefaultKakaoLogoutURL = "https://kapi.kakao.com/v1/user/logout"
)

// Load reads configuration values from environment variables.
func Load() Config {
	return Config{
		Env:         envStr("APP_ENV", "dev"),
		Port:        envStr("APP_PORT", "8080"),
		DataBackend: strings.ToLower(envStr("DATA_BACKEND", BackendMySQL)),

		DBUser: envStr("DB_USER", "root"),
		DBPass: envStr("DB_PASS", ""),
		DBHost: envStr("DB_HOST", "127.0.0.1"),
		DBPort: envStr("DB_PORT", "3306"),
		DBName: envStr("DB_NAME", "ledger"),

		SessionSecret: envStr("SESSION_SECRET", ""),
		SessionTTL:    time.Duration(envInt("SESSION_TTL_HOURS", 24*30)) * time.Hour,
		CookieSecure:  envBool("COOKIE_SECURE", false),

		KakaoClientID:     envStr("KAKAO_CLIENT_ID", ""),
		KakaoClientSecret: envStr("KAKAO_CLIENT_SECRET", ""),
		KakaoCallbackURL:  envStr("KAKAO_CALLBACK_URL", "http://localhost:8080/auth/kakao/callback"),
		KakaoLogoutURL:    envStr("KAKAO_LOGOUT_URL", DefaultKakaoLogoutURL),
		LoginRedirectURL:  envStr("LOGIN_REDIRECT_URL", "/"),

		CalendarTZ: envStr("CALENDAR_TZ", "Asia/Seoul"),

		LogLevel:  envStr("LOG_LEVEL", "info"),
		LogFormat: strings.ToLower(envStr("LOG_FORMAT", "text")),

		AMQPURL:        envStr("AMQP_URL", ""),
		EventsQueue:    envStr("EVENTS_QUEUE", "ledger_events"),
		EventsConsumer: envBool("EVENTS_CONSUMER", false),
		AuditLogPath:   envStr("AUDIT_LOG_PATH", "logs/ledger_events.log"),
	}
}

// IsProd reports whether internal error details must be hidden.
func (c Config) IsProd() bool {
	return strings.EqualFold(c.Env, "prod") || strings.EqualFold(c.Env, "production")
}

// Validate returns an error listing every invalid setting.
func (c Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case BackendMySQL:
		if c.DBUser == "" || c.DBHost == "" || c.DBPort == "" || c.DBName == "" {
			errs = append(errs, "DB_USER, DB_HOST, DB_PORT and DB_NAME are required for the mysql backend")
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [mysql memory]", c.DataBackend))
	}

	if len(c.SessionSecret) < 16 {
		errs = append(errs, "SESSION_SECRET must be at least 16 characters")
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Sprintf("invalid session ttl %v: must be positive", c.SessionTTL))
	}

	if c.IsProd() {
		if c.KakaoClientID == "" {
			errs = append(errs, "KAKAO_CLIENT_ID is required in prod")
		}
		if c.KakaoCallbackURL == "" {
			errs = append(errs, "KAKAO_CALLBACK_URL is required in prod")
		}
	}
	if c.KakaoLogoutURL != "" {
		if u, err := url.Parse(c.KakaoLogoutURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("invalid KAKAO_LOGOUT_URL '%s'", c.KakaoLogoutURL))
		}
	}

	if _, err := time.LoadLocation(c.CalendarTZ); err != nil {
		errs = append(errs, fmt.Sprintf("invalid CALENDAR_TZ '%s': %v", c.CalendarTZ, err))
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.EventsQueue == "" {
			errs = append(errs, "EVENTS_QUEUE cannot be empty when AMQP_URL is set")
		}
	}
	if c.EventsConsumer && c.AMQPURL == "" {
		errs = append(errs, "EVENTS_CONSUMER requires AMQP_URL")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
