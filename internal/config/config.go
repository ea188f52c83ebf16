package config

import "os"

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	ServerPort string

	// Heartbeat settings in seconds. A connection silent for longer than
	// HeartbeatTimeout is force-closed by the sweep that runs every
	// HeartbeatSweep seconds.
	HeartbeatSweep   string
	HeartbeatTimeout string
}

func Load() *Config {
	return &Config{
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", "postgres"),
		DBName:           getEnv("DB_NAME", "genderparty"),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		HeartbeatSweep:   getEnv("HEARTBEAT_SWEEP", "15"),
		HeartbeatTimeout: getEnv("HEARTBEAT_TIMEOUT", "45"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
