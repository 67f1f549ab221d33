package aprsrx

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Receiver configuration.
 *
 * Description:	Everything the reference firmware fixed at compile
 *		time is runtime configuration here.  DefaultConfig
 *		gives the Bell 202 values; a YAML file can override any
 *		subset of them.
 *
 *---------------------------------------------------------------*/

// Config carries the tunable receiver parameters.
type Config struct {
	SampleRate int `yaml:"sample_rate"` // Hz, nominal rate of the data line sampler
	BaudRate   int `yaml:"baud_rate"`
	MarkFreq   int `yaml:"mark_freq"`  // Hz, logic 1
	SpaceFreq  int `yaml:"space_freq"` // Hz, logic 0

	// CarrierThreshold is compared against total tone power at each
	// symbol decision.  PllPullRange bounds the clock recovery loop,
	// in Q16 increment units.
	CarrierThreshold int `yaml:"carrier_threshold"`
	PllPullRange     int `yaml:"pll_pull_range"`

	// UsePrefilter selects the FIR-prefiltered tone detector instead
	// of the plain Goertzel.
	UsePrefilter bool `yaml:"use_prefilter"`
}

// DefaultConfig returns the standard Bell 202 configuration.
func DefaultConfig() Config {
	return Config{
		SampleRate:       DefaultSampleRate,
		BaudRate:         DefaultBaudRate,
		MarkFreq:         DefaultMarkFreq,
		SpaceFreq:        DefaultSpaceFreq,
		CarrierThreshold: DefaultCarrierThreshold,
		PllPullRange:     DefaultPllPullRange,
	}
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(path string) (Config, error) {
	var cfg = DefaultConfig()

	var data, err = os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return cfg, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

func (cfg Config) validate() error {
	if cfg.BaudRate <= 0 {
		return errors.New("baud rate must be positive")
	}
	if cfg.SampleRate < 4*cfg.BaudRate {
		return errors.Errorf("sample rate %d too low for %d baud", cfg.SampleRate, cfg.BaudRate)
	}
	if cfg.MarkFreq <= 0 || cfg.SpaceFreq <= 0 || cfg.MarkFreq == cfg.SpaceFreq {
		return errors.Errorf("bad tone pair %d/%d", cfg.MarkFreq, cfg.SpaceFreq)
	}
	if cfg.MarkFreq*2 > cfg.SampleRate || cfg.SpaceFreq*2 > cfg.SampleRate {
		return errors.New("tones must be below the Nyquist frequency")
	}
	if cfg.PllPullRange < 0 {
		return errors.New("pll pull range must not be negative")
	}
	return nil
}
