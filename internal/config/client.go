package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Client configures the stride command-line client. Values come from
// STRIDE_* environment variables unless a flag is bound over them.
type Client struct {
	APIURL    string `mapstructure:"api_url"`
	TokenFile string `mapstructure:"token_file"`
	LogLevel  string `mapstructure:"log_level"`
}

// NewClientViper returns a viper instance with the client defaults and the
// STRIDE_ env prefix. Callers bind flags onto it before LoadClient.
func NewClientViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("stride")
	v.AutomaticEnv()
	v.SetDefault("api_url", "http://localhost:3001")
	v.SetDefault("token_file", defaultTokenFile())
	v.SetDefault("log_level", "warn")
	return v
}

func LoadClient(v *viper.Viper) (Client, error) {
	var cfg Client
	if err := v.Unmarshal(&cfg); err != nil {
		return Client{}, err
	}
	return cfg, nil
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".stride", "token")
	}
	return filepath.Join(dir, "stride", "token")
}
