package config

type PushConfig struct {
	Enabled bool        `yaml:"enabled"`
	FCM     *FCMConfig  `yaml:"fcm"`
	APNS    *APNSConfig `yaml:"apns"`
}

type FCMConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	ProjectID       string `yaml:"project_id"`
}

type APNSConfig struct {
	KeyFile    string `yaml:"key_file"`
	KeyID      string `yaml:"key_id"`
	TeamID     string `yaml:"team_id"`
	BundleID   string `yaml:"bundle_id"`
	Production bool   `yaml:"production"`
}

func loadPushConfig() *PushConfig {
	return &PushConfig{
		Enabled: getEnvAsBool("PUSH_ENABLED", false),
		FCM: &FCMConfig{
			CredentialsFile: getEnv("FCM_CREDENTIALS_FILE", ""),
			ProjectID:       getEnv("FCM_PROJECT_ID", ""),
		},
		APNS: &APNSConfig{
			KeyFile:    getEnv("APNS_KEY_FILE", ""),
			KeyID:      getEnv("APNS_KEY_ID", ""),
			TeamID:     getEnv("APNS_TEAM_ID", ""),
			BundleID:   getEnv("APNS_BUNDLE_ID", "com.descuentia.app"),
			Production: getEnvAsBool("APNS_PRODUCTION", false),
		},
	}
}
