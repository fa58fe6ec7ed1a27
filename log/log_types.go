package log

import "errors"

var errInvalidOutput = errors.New("log output must be stdout, stderr or file")

// Config controls the global logger. A file output rotates through
// lumberjack using the size and retention settings
type Config struct {
	Level      string `json:"level" mapstructure:"level"`
	Format     string `json:"format" mapstructure:"format"`
	Output     string `json:"output" mapstructure:"output"`
	Filename   string `json:"filename" mapstructure:"filename"`
	MaxSize    int    `json:"max-size" mapstructure:"max-size"`
	MaxAge     int    `json:"max-age" mapstructure:"max-age"`
	MaxBackups int    `json:"max-backups" mapstructure:"max-backups"`
	Compress   bool   `json:"compress" mapstructure:"compress"`
}

// DefaultConfig is used when no logging section is supplied
var DefaultConfig = Config{
	Level:      "info",
	Format:     "text",
	Output:     "stdout",
	MaxSize:    100,
	MaxAge:     30,
	MaxBackups: 5,
}

// Subsystem names used to tag log lines
const (
	BackTester = "backtester"
	Statistics = "statistics"
	Data       = "data"
	Strategy   = "strategy"
)
