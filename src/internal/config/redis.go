package config

import (
	"wallet-service/src/pkg/log"
	redisModule "wallet-service/src/pkg/redis"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

func LoadRedisConfig(viper *viper.Viper) error {
	CfgRedis := &redisModule.CfgRedis{
		Enabled:              viper.GetBool("redis.enabled"),
		UseCluster:           viper.GetString("redis.use_cluster") == "true",
		EnableTLS:            viper.GetBool("redis.tls"),
		RedisHost:            viper.GetString("redis.host"),
		RedisPort:            viper.GetString("redis.port"),
		RedisPassword:        viper.GetString("redis.password"),
		RedisDB:              viper.GetInt("redis.db"),
		RedisClusterNode:     viper.GetString("redis.cluster.node"),
		RedisClusterPassword: viper.GetString("redis.cluster.password"),
		LockTTL:              viper.GetDuration("redis.lock.ttl"),
		LockWait:             viper.GetDuration("redis.lock.wait"),
	}
	redisModule.LoadConfig(CfgRedis)
	return redisModule.InitConnection()
}

func NewRedis() redis.UniversalClient {
	return redisModule.GetClient()
}

// NewLocker serialises work per account. Without Redis the lock is local to
// this process, which is only safe for a single replica.
func NewLocker(client redis.UniversalClient, log log.Log) redisModule.Locker {
	if client == nil {
		log.Warn("redis-config", "redis disabled, using in-process account locks", "locker", "")
		return redisModule.NewLocalLocker()
	}
	return redisModule.NewRedisLocker(client, "wallet:lock:")
}
