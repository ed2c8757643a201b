package app

// Config holds the command-line inputs of an App. Non-zero fields override
// the values loaded from the configuration files.
type Config struct {
	ConfigPaths []string

	LogFormat       string
	LogLevel        string
	WorkerCount     int
	HealthcheckPort int
}
