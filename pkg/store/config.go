package store

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/focusflow/pkg/domain"
)

// Config carries everything the CLI needs to wire a session.
type Config interface {
	BasePath() string
	Backend() string
	APIBase() string
	Timeout() time.Duration
	Debounce() time.Duration
	UndoWindow() time.Duration
	Goals() domain.Goals
	WaterMax() int
	StreakPolicy() string
}

const (
	DefaultPath     = "~/.focusflow"
	DefaultAPI      = "http://localhost:8081/api"
	DefaultTimeout  = 30 * time.Second
	DefaultDebounce = time.Second
	DefaultUndo     = 5 * time.Second
)

// LoadConfig reads .focusflow.yaml from $FOCUSFLOW_CONFIG_PATH or the
// working directory, then FOCUSFLOW_* environment variables. A .env file in
// the working directory is loaded first if present.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("store: read .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("path", DefaultPath)
	v.SetDefault("backend", BackendDiskv)
	v.SetDefault("api", DefaultAPI)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("debounce", DefaultDebounce)
	v.SetDefault("undo", DefaultUndo)
	v.SetDefault("goals.tasks", domain.DefaultGoals.Tasks)
	v.SetDefault("goals.water", domain.DefaultGoals.Water)
	v.SetDefault("goals.focus", domain.DefaultGoals.FocusMinutes)
	v.SetDefault("water.max", domain.DefaultWaterMax)
	v.SetDefault("streak.policy", "keep")
	v.SetConfigName(".focusflow") // .yaml is implicit
	v.SetEnvPrefix("FOCUSFLOW")
	v.AutomaticEnv()

	if override := os.Getenv("FOCUSFLOW_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	return &FileConfig{
		Path:      path,
		Kind:      v.GetString("backend"),
		API:       v.GetString("api"),
		Wait:      v.GetDuration("timeout"),
		Delay:     v.GetDuration("debounce"),
		Undo:      v.GetDuration("undo"),
		Targets:   domain.Goals{Tasks: v.GetInt("goals.tasks"), Water: v.GetInt("goals.water"), FocusMinutes: v.GetInt("goals.focus")},
		MaxWater:  v.GetInt("water.max"),
		Policy:    v.GetString("streak.policy"),
		SourceCfg: v.ConfigFileUsed(),
	}, nil
}

// FileConfig is the resolved configuration. Tests build it directly.
type FileConfig struct {
	Path      string        `json:"path" yaml:"path"`
	Kind      string        `json:"backend" yaml:"backend"`
	API       string        `json:"api" yaml:"api"`
	Wait      time.Duration `json:"timeout" yaml:"timeout"`
	Delay     time.Duration `json:"debounce" yaml:"debounce"`
	Undo      time.Duration `json:"undo" yaml:"undo"`
	Targets   domain.Goals  `json:"goals" yaml:"goals"`
	MaxWater  int           `json:"waterMax" yaml:"waterMax"`
	Policy    string        `json:"streakPolicy" yaml:"streakPolicy"`
	SourceCfg string        `json:"configFile,omitempty" yaml:"configFile,omitempty"`
}

func (f *FileConfig) BasePath() string { return f.Path }
func (f *FileConfig) Backend() string  { return f.Kind }
func (f *FileConfig) APIBase() string  { return f.API }

func (f *FileConfig) Timeout() time.Duration {
	if f.Wait <= 0 {
		return DefaultTimeout
	}
	return f.Wait
}

func (f *FileConfig) Debounce() time.Duration {
	if f.Delay <= 0 {
		return DefaultDebounce
	}
	return f.Delay
}

func (f *FileConfig) UndoWindow() time.Duration {
	if f.Undo <= 0 {
		return DefaultUndo
	}
	return f.Undo
}

func (f *FileConfig) Goals() domain.Goals {
	if f.Targets == (domain.Goals{}) {
		return domain.DefaultGoals
	}
	return f.Targets
}

func (f *FileConfig) WaterMax() int {
	if f.MaxWater <= 0 {
		return domain.DefaultWaterMax
	}
	return f.MaxWater
}

func (f *FileConfig) StreakPolicy() string { return f.Policy }

// ConfigFile is the config file that was read, if any.
func (f *FileConfig) ConfigFile() string { return f.SourceCfg }
