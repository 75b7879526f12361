package config

import "time"

type DatabaseConfig struct {
	URI             string        `yaml:"uri"`
	Database        string        `yaml:"database"`
	MaxPoolSize     uint64        `yaml:"max_pool_size"`
	MinPoolSize     uint64        `yaml:"min_pool_size"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
	SocketTimeout   time.Duration `yaml:"socket_timeout"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URI:             getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		Database:        getEnv("MONGODB_DATABASE", "descuentia"),
		MaxPoolSize:     uint64(getEnvAsInt("MONGODB_MAX_POOL_SIZE", 100)),
		MinPoolSize:     uint64(getEnvAsInt("MONGODB_MIN_POOL_SIZE", 5)),
		ConnectTimeout:  getEnvAsDuration("MONGODB_CONNECT_TIMEOUT", 10*time.Second),
		SocketTimeout:   getEnvAsDuration("MONGODB_SOCKET_TIMEOUT", 30*time.Second),
		MaxConnIdleTime: getEnvAsDuration("MONGODB_MAX_CONN_IDLE_TIME", 5*time.Minute),
	}
}
