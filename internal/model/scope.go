package model

// Scope identifies the caller of a use case for logging and auditing.
type Scope struct {
	UserID   string
	Username string
}

// Environment names accepted in config.environment.name.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"
)
