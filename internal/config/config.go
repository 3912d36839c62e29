package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds the deployment-level settings read from the environment.
// Engine tuning values live in engine.go as constants; these three are the
// only knobs that differ between environments.
type Config struct {
	Port     string `mapstructure:"PORT"`
	DBUrl    string `mapstructure:"DB_URL"`
	RedisUrl string `mapstructure:"REDIS_URL"`
}

// LoadConfig reads .env.{APP_ENV} from the working directory and lets real
// environment variables override it. A missing env file is fine: DB_URL and
// REDIS_URL then default to empty, which disables scan persistence and the
// second-level raster cache respectively.
func LoadConfig() (c Config, err error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	viper.SetDefault("PORT", ":8080")
	viper.SetDefault("DB_URL", "")
	viper.SetDefault("REDIS_URL", "")

	viper.SetConfigName(fmt.Sprintf(".env.%s", env))
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	err = viper.Unmarshal(&c)
	return
}
