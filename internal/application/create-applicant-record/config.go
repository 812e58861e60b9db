// internal/application/create-applicant-record/config.go
package createapplicantrecord

import "time"

// Config bounds a single save. A zero Timeout leaves the bound to the
// connection's own timeouts.
type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{}
}
