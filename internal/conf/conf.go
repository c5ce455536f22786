// Package conf loads the settings of the ndsp-play command.
package conf

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Lundis/go-ndsp/dsp"
	"github.com/Lundis/go-ndsp/ndsp"
)

// EnvPrefix prefixes environment overrides, e.g. NDSP_SAMPLE_RATE.
const EnvPrefix = "NDSP"

type Settings struct {
	SampleRate    int           `mapstructure:"sample_rate"`
	BufferSize    time.Duration `mapstructure:"buffer_size"`
	Driver        string        `mapstructure:"driver"`
	OutputMode    string        `mapstructure:"output_mode"`
	MasterVolume  float32       `mapstructure:"master_volume"`
	Channel       int           `mapstructure:"channel"`
	Interpolation string        `mapstructure:"interpolation"`
	Loop          bool          `mapstructure:"loop"`
	LogLevel      string        `mapstructure:"log_level"`
	LogFile       string        `mapstructure:"log_file"`
	MetricsAddr   string        `mapstructure:"metrics_addr"`
}

// SetDefaults registers every setting with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("sample_rate", dsp.DefaultSampleRate)
	v.SetDefault("buffer_size", 50*time.Millisecond)
	v.SetDefault("driver", "auto")
	v.SetDefault("output_mode", "stereo")
	v.SetDefault("master_volume", 1.0)
	v.SetDefault("channel", 0)
	v.SetDefault("interpolation", "polyphase")
	v.SetDefault("loop", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("metrics_addr", "")
}

// Load reads the settings from configFile, the environment and any flags
// already bound to v. Without configFile an optional ndsp.yaml in the
// working directory is used.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("ndsp")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("conf: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("conf: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) Validate() error {
	var errs []error
	if s.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample_rate must be positive, got %d", s.SampleRate))
	}
	if s.BufferSize < 0 {
		errs = append(errs, fmt.Errorf("buffer_size must not be negative, got %s", s.BufferSize))
	}
	if s.Channel < 0 || s.Channel >= ndsp.NumChannels {
		errs = append(errs, fmt.Errorf("channel must be between 0 and %d, got %d", ndsp.NumChannels-1, s.Channel))
	}
	if s.MasterVolume < 0 {
		errs = append(errs, fmt.Errorf("master_volume must not be negative, got %g", s.MasterVolume))
	}
	if _, err := s.Mode(); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.Interp(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("conf: invalid settings: %w", err)
	}
	return nil
}

// Mode parses OutputMode.
func (s *Settings) Mode() (dsp.OutputMode, error) {
	switch strings.ToLower(s.OutputMode) {
	case "mono":
		return dsp.OutputMono, nil
	case "stereo":
		return dsp.OutputStereo, nil
	case "surround":
		return dsp.OutputSurround, nil
	}
	return 0, fmt.Errorf("unknown output_mode %q", s.OutputMode)
}

// Interp parses Interpolation.
func (s *Settings) Interp() (dsp.InterpolationType, error) {
	switch strings.ToLower(s.Interpolation) {
	case "polyphase":
		return dsp.InterpPolyphase, nil
	case "linear":
		return dsp.InterpLinear, nil
	case "none":
		return dsp.InterpNone, nil
	}
	return 0, fmt.Errorf("unknown interpolation %q", s.Interpolation)
}
