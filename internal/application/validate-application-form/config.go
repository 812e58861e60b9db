// internal/application/validate-application-form/config.go
package validateapplicationform

// Config is empty; the rules are fixed. Kept so every stage is built the same way.
type Config struct{}

func LoadConfig() *Config {
	return &Config{}
}
