package config

type StorageConfig struct {
	Provider       string       `yaml:"provider"`
	MaxUploadSize  int64        `yaml:"max_upload_size"`
	AllowedFormats []string     `yaml:"allowed_formats"`
	Local          *LocalConfig `yaml:"local"`
	S3             *S3Config    `yaml:"s3"`
	GCS            *GCSConfig   `yaml:"gcs"`
}

type LocalConfig struct {
	BasePath string `yaml:"base_path"`
	BaseURL  string `yaml:"base_url"`
}

type S3Config struct {
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	BaseURL   string `yaml:"base_url"`
}

type GCSConfig struct {
	Bucket          string `yaml:"bucket"`
	CredentialsFile string `yaml:"credentials_file"`
	BaseURL         string `yaml:"base_url"`
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		Provider:       getEnv("STORAGE_PROVIDER", "local"),
		MaxUploadSize:  int64(getEnvAsInt("STORAGE_MAX_UPLOAD_SIZE", 5*1024*1024)),
		AllowedFormats: getEnvAsSlice("STORAGE_ALLOWED_FORMATS", []string{"jpeg", "jpg", "png", "webp"}),
		Local: &LocalConfig{
			BasePath: getEnv("STORAGE_LOCAL_PATH", "./uploads"),
			BaseURL:  getEnv("STORAGE_LOCAL_BASE_URL", "http://localhost:8080/uploads"),
		},
		S3: &S3Config{
			Region:    getEnv("AWS_REGION", "eu-west-1"),
			Bucket:    getEnv("AWS_S3_BUCKET", ""),
			AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:   getEnv("AWS_S3_BASE_URL", ""),
		},
		GCS: &GCSConfig{
			Bucket:          getEnv("GCS_BUCKET", ""),
			CredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
			BaseURL:         getEnv("GCS_BASE_URL", ""),
		},
	}
}
