package main

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// RawConf mirrors the TOML configuration file
type RawConf struct {
	Command string
	// time limit in seconds
	Timeout int
	TempDir string
	Output  string
}

func (rc RawConf) ToConfig() (conf Config, err error) {
	if rc.Command == "" {
		return conf, fmt.Errorf("command must not be empty")
	}
	if rc.Timeout <= 0 {
		return conf, fmt.Errorf("timeout must be positive, got %d",
			rc.Timeout)
	}
	conf.Command = rc.Command
	conf.Timeout = time.Duration(rc.Timeout) * time.Second
	conf.TempDir = rc.TempDir
	conf.Output = rc.Output
	return
}

type Config struct {
	Command string
	Timeout time.Duration
	TempDir string
	// where to write the raw ORCA output
	Output string
}

// DefaultRawConf returns the configuration used when there is no
// configuration file or when it omits a key
func DefaultRawConf() RawConf {
	return RawConf{
		Command: "orca",
		Timeout: int(TIMEOUT / time.Second),
		Output:  "orca_output.out",
	}
}

// LoadConfig reads the TOML configuration in filename on top of the
// defaults. An empty filename yields the defaults.
func LoadConfig(filename string) (Config, error) {
	rc := DefaultRawConf()
	if filename == "" {
		return rc.ToConfig()
	}
	cont, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, err
	}
	md, err := toml.Decode(string(cont), &rc)
	if err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", filename, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Config{}, fmt.Errorf("unknown key %q in %s",
			undec[0].String(), filename)
	}
	return rc.ToConfig()
}

// Runner returns a Runner configured by conf
func (conf Config) Runner() *Runner {
	r := NewRunner(conf.Command)
	r.TempDir = conf.TempDir
	r.Timeout = conf.Timeout
	return r
}
