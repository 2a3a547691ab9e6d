package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`

	Data struct {
		SQLitePath  string `mapstructure:"sqlite_path"`
		PlacesCSV   string `mapstructure:"places_csv"`
		ProfilesCSV string `mapstructure:"profiles_csv"`
		WeatherFile string `mapstructure:"weather_file"`
		WeightsFile string `mapstructure:"weights_file"`
	} `mapstructure:"data"`

	Weather struct {
		Latitude  float64 `mapstructure:"latitude"`
		Longitude float64 `mapstructure:"longitude"`
		Timezone  string  `mapstructure:"timezone"`
	} `mapstructure:"weather"`

	Digest struct {
		UserID     string `mapstructure:"user_id"`
		TopN       int    `mapstructure:"top_n"`
		OutputPath string `mapstructure:"output_path"`
	} `mapstructure:"digest"`
}

// Load reads config.yaml (working dir or ./configs) and applies
// DATEREC_* environment overrides. Missing file falls back to defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.SetEnvPrefix("daterec")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", "8080")
	v.SetDefault("data.sqlite_path", "data/places.db")
	v.SetDefault("data.places_csv", "data/places.csv")
	v.SetDefault("data.profiles_csv", "data/profiles.csv")
	v.SetDefault("data.weather_file", "data/raw/weather_today.json")
	v.SetDefault("data.weights_file", "")
	v.SetDefault("weather.latitude", 37.5665)
	v.SetDefault("weather.longitude", 126.9780)
	v.SetDefault("weather.timezone", "Asia/Seoul")
	v.SetDefault("digest.user_id", "u001")
	v.SetDefault("digest.top_n", 3)
	v.SetDefault("digest.output_path", "data/tmp_top3.json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
