package redis

import (
	"strings"
	"time"
	"wallet-service/src/pkg/utils"
)

type CfgRedis struct {
	Enabled              bool
	UseCluster           bool
	EnableTLS            bool
	RedisHost            string
	RedisPort            string
	RedisPassword        string
	RedisDB              interface{}
	RedisClusterNode     string
	RedisClusterPassword string
	LockTTL              time.Duration
	LockWait             time.Duration
}

type AppConfig struct {
	Enabled    bool
	UseCluster bool
	LockTTL    time.Duration
	LockWait   time.Duration
}

type RedisConfig struct {
	Host      string
	Port      string
	Password  string
	DB        int
	EnableTLS bool
}

type RedisClusterConfig struct {
	Hosts     []string
	Username  string
	Password  string
	EnableTLS bool
}

var (
	AppConfigData          AppConfig
	RedisConfigData        RedisConfig
	RedisClusterConfigData RedisClusterConfig
)

func LoadConfig(config *CfgRedis) {
	lockTTL := config.LockTTL
	if lockTTL <= 0 {
		lockTTL = 10 * time.Second
	}
	lockWait := config.LockWait
	if lockWait <= 0 {
		lockWait = 3 * time.Second
	}

	AppConfigData = AppConfig{
		Enabled:    config.Enabled,
		UseCluster: config.UseCluster,
		LockTTL:    lockTTL,
		LockWait:   lockWait,
	}

	RedisConfigData = RedisConfig{
		Host:      config.RedisHost,
		Port:      config.RedisPort,
		Password:  config.RedisPassword,
		DB:        utils.ConvertInt(config.RedisDB),
		EnableTLS: config.EnableTLS,
	}

	var hosts []string
	for _, h := range strings.Split(config.RedisClusterNode, ";") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	RedisClusterConfigData = RedisClusterConfig{
		Hosts:     hosts,
		Password:  config.RedisClusterPassword,
		EnableTLS: config.EnableTLS,
	}
}
