package config

import "os"

// Discord holds the bot and channel configuration for the chat adapter and
// the notification sink. Token empty means Discord features are disabled.
type Discord struct {
	BotToken             string
	GuildID              string
	ApplicationChannelID string
	LogChannelID         string
	AdminRoleID          string
}

// Config captures everything the server reads from the environment.
type Config struct {
	Addr          string
	JWTSigningKey string
	DatabaseURL   string
	RedisURL      string
	Discord       Discord
}

// FromEnv builds the config from environment variables so main stays lean.
func FromEnv() Config {
	addr := os.Getenv("WHITELIST_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Config{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		Discord: Discord{
			BotToken:             os.Getenv("DISCORD_BOT_TOKEN"),
			GuildID:              os.Getenv("DISCORD_GUILD_ID"),
			ApplicationChannelID: os.Getenv("DISCORD_APPLICATION_CHANNEL_ID"),
			LogChannelID:         os.Getenv("DISCORD_LOG_CHANNEL_ID"),
			AdminRoleID:          os.Getenv("DISCORD_ADMIN_ROLE_ID"),
		},
	}
}
