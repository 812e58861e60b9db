// internal/application/submit-application/config.go
package submitapplication

type Config struct{}

func LoadConfig() *Config {
	return &Config{}
}
