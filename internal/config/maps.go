package config

type MapsConfig struct {
	GoogleAPIKey string `yaml:"google_api_key"`
	Language     string `yaml:"language"`
	Region       string `yaml:"region"`
}

func loadMapsConfig() *MapsConfig {
	return &MapsConfig{
		GoogleAPIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),
		Language:     getEnv("GOOGLE_MAPS_LANGUAGE", "es"),
		Region:       getEnv("GOOGLE_MAPS_REGION", "es"),
	}
}
