package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// NewViper reads config.json from the working directory (or its parent)
// and lets environment variables override any key, with dots replaced by
// underscores: DATABASE_HOST overrides database.host.
func NewViper() *viper.Viper {
	config := viper.New()
	config.SetConfigName("config")
	config.SetConfigType("json")
	config.AddConfigPath("./")
	config.AddConfigPath("./../")
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()
	SetDefaults(config)

	if err := config.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(err)
		}
	}
	return config
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "WALLET_SERVICE")
	v.SetDefault("log.level", "info")
	v.SetDefault("web.port", 8080)
	v.SetDefault("web.prefork", false)

	v.SetDefault("database.port", 3306)
	v.SetDefault("database.pool.max", 20)
	v.SetDefault("database.pool.idle", 5)
	v.SetDefault("database.pool.lifetime", 300)
	v.SetDefault("database.migrate", true)

	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.lock.ttl", "10s")
	v.SetDefault("redis.lock.wait", "3s")

	v.SetDefault("kafka.producer.enabled", false)

	v.SetDefault("jwt.issuer", "wallet-service")
	v.SetDefault("jwt.ttl", "24h")

	v.SetDefault("account.welcome_bonus", 2000)
	v.SetDefault("vip.timezone", "UTC")
	v.SetDefault("vip.sweep.enabled", true)
	v.SetDefault("vip.sweep.cron", "5 0 * * *")
	v.SetDefault("worker.concurrency", 5)
}
