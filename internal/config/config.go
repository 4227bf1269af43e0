package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config представляет структуру конфигурации для приложения.
type Config struct {
	App struct {
		Port string `mapstructure:"port"`
		Env  string `mapstructure:"env"`
	} `mapstructure:"app"`
	Server struct {
		ReadTimeout  int `mapstructure:"readTimeout"`
		WriteTimeout int `mapstructure:"writeTimeout"`
	} `mapstructure:"server"`
	Database struct {
		DSN            string `mapstructure:"dsn"`
		MigrationsPath string `mapstructure:"migrationsPath"`
	} `mapstructure:"database"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret string `mapstructure:"jwtSecret"`
	} `mapstructure:"auth"`
	Notifier struct {
		// ExpiringSoonDays горизонт (в днях) для правила expiring_soon
		ExpiringSoonDays int `mapstructure:"expiringSoonDays"`
		// ExpiredWindowDays окно (в днях) для правила expired; 0 = без ограничения
		ExpiredWindowDays int `mapstructure:"expiredWindowDays"`
		// Schedule cron-выражение для фонового запуска генерации уведомлений
		Schedule string `mapstructure:"schedule"`
	} `mapstructure:"notifier"`
}

// LoadConfig загружает конфигурацию из файла или переменных окружения.
func LoadConfig(path string) (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		// .env опционален в dev-окружении
		_ = godotenv.Load(path)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.AutomaticEnv() // Чтение переменных окружения

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Конфиг-файл опционален: достаточно дефолтов и переменных окружения
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("server.readTimeout", 10)
	viper.SetDefault("server.writeTimeout", 10)
	viper.SetDefault("database.migrationsPath", "migrations")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("notifier.expiringSoonDays", 7)
	viper.SetDefault("notifier.expiredWindowDays", 0)
	viper.SetDefault("notifier.schedule", "0 * * * *")
}
