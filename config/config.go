package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type JWTConfig struct {
	SecretKey       string        `mapstructure:"secretKey"`
	Issuer          string        `mapstructure:"issuer"`
	Audience        string        `mapstructure:"audience"`
	AccessTokenTTL  time.Duration `mapstructure:"accessTokenTTL"`
	RefreshTokenTTL time.Duration `mapstructure:"refreshTokenTTL"`
}

// PlannerConfig carries the itinerary generation tunables. The defaults in
// config.yml match the documented behaviour: 3-5 locations per day, 15 km
// proximity clusters, activities walked forward from 09:00 until 19:00.
type PlannerConfig struct {
	MinPerDay          int           `mapstructure:"minPerDay"`
	MaxPerDay          int           `mapstructure:"maxPerDay"`
	ClusterThresholdKm float64       `mapstructure:"clusterThresholdKm"`
	DayStart           string        `mapstructure:"dayStart"`
	DayEnd             string        `mapstructure:"dayEnd"`
	CostMin            int           `mapstructure:"costMin"`
	CostMax            int           `mapstructure:"costMax"`
	ProximityBias      bool          `mapstructure:"proximityBias"`
	LocationCacheTTL   time.Duration `mapstructure:"locationCacheTTL"`
}

type GenerativeConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

type Config struct {
	Mode         string `mapstructure:"mode"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		MetricsPort string        `mapstructure:"metricsPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Planner    PlannerConfig    `mapstructure:"planner"`
	Generative GenerativeConfig `mapstructure:"generative"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Try to load file-based config, fall back to the embedded copy.
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	return config, nil
}
