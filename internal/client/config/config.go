package config

import (
	"errors"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"server"`
	Auth struct {
		Email    string `mapstructure:"email"`
		Password string `mapstructure:"password"`
		Token    string `mapstructure:"token"`
	} `mapstructure:"auth"`
}

var Cfg *Config

// LoadConfig loads ./configs/config.yaml and CHATOBI_* environment variables
// into Cfg. A missing config file is not an error.
func LoadConfig() {
	cfg, err := Load("./configs")
	if err != nil {
		log.Fatalf("Error reading config file: %s", err)
	}
	Cfg = cfg
}

// Load reads config.yaml from the given directories, environment variables
// (CHATOBI_SERVER_URL, CHATOBI_AUTH_EMAIL, ...) taking precedence.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	for _, p := range paths {
		v.AddConfigPath(p) // 설정 파일 경로
	}
	v.SetConfigName("config") // 설정 파일 이름
	v.SetConfigType("yaml")   // 설정 파일 타입

	v.SetDefault("server.url", "ws://localhost:8080/ws")
	v.SetDefault("auth.email", "")
	v.SetDefault("auth.password", "")
	v.SetDefault("auth.token", "")

	v.SetEnvPrefix("chatobi")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv() // 환경 변수도 읽기

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
