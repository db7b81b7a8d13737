package config

// Config is everything the composition root needs to wire the client.
type Config interface {
	EnvConfig
}

// EnvConfig exposes the environment-level settings.
type EnvConfig interface {
	GetAppName() string
	GetBaseURL() string
	GetDataFolder() string
	GetLogLevel() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
}

func New() Config {
	return mainConfig{}
}

// NewWithFile layers a YAML config file over the environment variables.
// File values win over env values; env values win over defaults.
func NewWithFile(path string) (Config, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return fileConfig{file: f}, nil
}

type fileConfig struct {
	EnvVars
	file File
}

func (c fileConfig) GetBaseURL() string {
	if c.file.BaseURL != "" {
		return c.file.BaseURL
	}
	return c.EnvVars.GetBaseURL()
}

func (c fileConfig) GetDataFolder() string {
	if c.file.DataFolder != "" {
		return c.file.DataFolder
	}
	return c.EnvVars.GetDataFolder()
}

func (c fileConfig) GetLogLevel() string {
	if c.file.LogLevel != "" {
		return c.file.LogLevel
	}
	return c.EnvVars.GetLogLevel()
}
