package config

import "time"

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// GetDatabaseURL builds a libpq connection string.
func (c DatabaseConfig) GetDatabaseURL() string {
	return "host=" + c.Host + " port=" + c.Port + " user=" + c.User +
		" password=" + c.Password + " dbname=" + c.Name + " sslmode=" + c.SSLMode
}

// ServerConfig holds HTTP/gRPC timeout settings.
type ServerConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// RedisConfig holds optional Redis cache settings (spec.md §6 EXPANSION).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Enabled  bool
}

// TwitchConfig holds Twitch IRC/Helix/EventSub settings.
type TwitchConfig struct {
	Channel      string
	ClientID     string
	ClientSecret string
	AccessToken  string
	BotUsername  string
	IRCServer    string
	IRCPort      string
	IRCDebug     bool
	EventSubURL  string
}

// DiscordConfig holds Discord bot credentials.
type DiscordConfig struct {
	BotToken      string
	GatewayURL    string
	DefaultGuild  string
}

// VRChatConfig holds VRChat OSC listener/sender settings.
type VRChatConfig struct {
	ListenPort int
	SendPort   int
	SendHost   string
}

// BackgroundJobsConfig holds maintenance task schedules (spec.md §2).
type BackgroundJobsConfig struct {
	TokenRefreshInterval     time.Duration
	TokenRefreshMargin       time.Duration
	PartitionRotationEnabled bool
	PartitionRotationCron    time.Duration
	AutostartRestoreOnBoot   bool
}

// Config is the top-level maowbotd process configuration.
type Config struct {
	Port         string
	GRPCPort     string
	Environment  string
	LogLevel     string
	AuthEnabled  bool
	GRPCPassphrase string

	Database       DatabaseConfig
	Server         ServerConfig
	Redis          RedisConfig
	Twitch         TwitchConfig
	Discord        DiscordConfig
	VRChat         VRChatConfig
	BackgroundJobs BackgroundJobsConfig

	ShutdownGraceSeconds int
	CredentialKeySource  string
}

// Load reads the full maowbotd configuration from the environment.
func Load() *Config {
	LoadEnvFile()

	return &Config{
		Port:           GetEnv("PORT", "8080"),
		GRPCPort:       GetEnv("GRPC_PORT", "9090"),
		Environment:    GetEnv("ENVIRONMENT", "development"),
		LogLevel:       GetEnv("LOG_LEVEL", "info"),
		AuthEnabled:    GetEnvAsBool("AUTH_ENABLED", false),
		GRPCPassphrase: GetEnv("MAOWBOT_GRPC_PASSPHRASE", ""),

		Database: DatabaseConfig{
			Host:         GetEnv("DB_HOST", "localhost"),
			Port:         GetEnv("DB_PORT", "5432"),
			User:         GetEnv("DB_USER", "postgres"),
			Password:     GetEnv("DB_PASSWORD", ""),
			Name:         GetEnv("DB_NAME", "maowbot"),
			SSLMode:      GetEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: GetEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: GetEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  GetEnvAsDuration("DB_MAX_LIFETIME", "5m"),
		},
		Server: ServerConfig{
			ReadTimeout:  GetEnvAsDuration("SERVER_READ_TIMEOUT", "10s"),
			WriteTimeout: GetEnvAsDuration("SERVER_WRITE_TIMEOUT", "10s"),
			IdleTimeout:  GetEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s"),
		},
		Redis: RedisConfig{
			Addr:     GetEnv("REDIS_ADDR", "localhost:6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetEnvAsInt("REDIS_DB", 0),
			Enabled:  GetEnvAsBool("REDIS_ENABLED", false),
		},
		Twitch: TwitchConfig{
			Channel:      GetEnv("TWITCH_CHANNEL", ""),
			ClientID:     GetEnv("TWITCH_CLIENT_ID", ""),
			ClientSecret: GetEnv("TWITCH_CLIENT_SECRET", ""),
			AccessToken:  GetEnv("TWITCH_ACCESS_TOKEN", ""),
			BotUsername:  GetEnv("TWITCH_BOT_USERNAME", ""),
			IRCServer:    GetEnv("TWITCH_IRC_SERVER", "irc.chat.twitch.tv"),
			IRCPort:      GetEnv("TWITCH_IRC_PORT", "6667"),
			IRCDebug:     GetEnvAsBool("TWITCH_IRC_DEBUG", false),
			EventSubURL:  GetEnv("TWITCH_EVENTSUB_WS_URL", "wss://eventsub.wss.twitch.tv/ws"),
		},
		Discord: DiscordConfig{
			BotToken:     GetEnv("DISCORD_BOT_TOKEN", ""),
			GatewayURL:   GetEnv("DISCORD_GATEWAY_URL", "wss://gateway.discord.gg/?v=10&encoding=json"),
			DefaultGuild: GetEnv("DISCORD_DEFAULT_GUILD", ""),
		},
		VRChat: VRChatConfig{
			ListenPort: GetEnvAsInt("VRCHAT_OSC_LISTEN_PORT", 9001),
			SendPort:   GetEnvAsInt("VRCHAT_OSC_SEND_PORT", 9000),
			SendHost:   GetEnv("VRCHAT_OSC_SEND_HOST", "127.0.0.1"),
		},
		BackgroundJobs: BackgroundJobsConfig{
			TokenRefreshInterval:     GetEnvAsDuration("TOKEN_REFRESH_INTERVAL", "5m"),
			TokenRefreshMargin:       GetEnvAsDuration("TOKEN_REFRESH_MARGIN", "5m"),
			PartitionRotationEnabled: GetEnvAsBool("PARTITION_ROTATION_ENABLED", true),
			PartitionRotationCron:    GetEnvAsDuration("PARTITION_ROTATION_INTERVAL", "24h"),
			AutostartRestoreOnBoot:   GetEnvAsBool("AUTOSTART_RESTORE_ON_BOOT", true),
		},

		ShutdownGraceSeconds: GetEnvAsInt("SHUTDOWN_GRACE_SECONDS", 5),
		CredentialKeySource:  GetEnv("MAOWBOT_CRED_KEY", ""),
	}
}
