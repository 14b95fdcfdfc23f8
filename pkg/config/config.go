package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"gopkg.in/yaml.v2"
)

const (
	configDir  string = ".dsviz"
	configFile string = "config.yml"
)

// Color modes accepted by the `colors` option.
const (
	ColorsAuto = "auto"
	ColorsOn   = "on"
	ColorsOff  = "off"
)

// Config defines all configuration options available to be set through
// the config file or the `config` console command. The zero value of a
// field means "use the built-in default"; see the accessors below.
type Config struct {
	// Command aliases.
	Aliases map[string][]string `yaml:"aliases"`

	// SummaryMaxItems is the maximum number of container elements a
	// one-line summary shows before truncating.
	SummaryMaxItems *int `yaml:"summary-max-items,omitempty"`
	// MaxStringLen is the maximum number of characters read from a
	// char* string.
	MaxStringLen *int `yaml:"max-string-len,omitempty"`
	// MaxTraversalDepth bounds tree traversal depth.
	MaxTraversalDepth *int `yaml:"max-traversal-depth,omitempty"`
	// MaxGraphNodes bounds the number of vertices visited when walking
	// an adjacency-list graph.
	MaxGraphNodes *int `yaml:"max-graph-nodes,omitempty"`

	// Colors controls ANSI colors in summaries: auto, on or off.
	Colors string `yaml:"colors"`
	// DotRankDir is the rankdir attribute of exported DOT graphs.
	DotRankDir string `yaml:"dot-rankdir"`
	// ListenAddr is the address the visualization web server binds.
	ListenAddr string `yaml:"listen-addr"`
}

const (
	defaultSummaryMaxItems   = 8
	defaultMaxStringLen      = 64
	defaultMaxTraversalDepth = 32
	defaultMaxGraphNodes     = 256
	defaultListenAddr        = "127.0.0.1:8790"
	defaultDotRankDir        = "LR"
)

// SummaryMaxItemsOrDefault resolves the summary-max-items option.
func (c *Config) SummaryMaxItemsOrDefault() int {
	if c == nil || c.SummaryMaxItems == nil || *c.SummaryMaxItems <= 0 {
		return defaultSummaryMaxItems
	}
	return *c.SummaryMaxItems
}

// MaxStringLenOrDefault resolves the max-string-len option.
func (c *Config) MaxStringLenOrDefault() int {
	if c == nil || c.MaxStringLen == nil || *c.MaxStringLen <= 0 {
		return defaultMaxStringLen
	}
	return *c.MaxStringLen
}

// MaxTraversalDepthOrDefault resolves the max-traversal-depth option.
func (c *Config) MaxTraversalDepthOrDefault() int {
	if c == nil || c.MaxTraversalDepth == nil || *c.MaxTraversalDepth <= 0 {
		return defaultMaxTraversalDepth
	}
	return *c.MaxTraversalDepth
}

// MaxGraphNodesOrDefault resolves the max-graph-nodes option.
func (c *Config) MaxGraphNodesOrDefault() int {
	if c == nil || c.MaxGraphNodes == nil || *c.MaxGraphNodes <= 0 {
		return defaultMaxGraphNodes
	}
	return *c.MaxGraphNodes
}

// ListenAddrOrDefault resolves the listen-addr option.
func (c *Config) ListenAddrOrDefault() string {
	if c == nil || c.ListenAddr == "" {
		return defaultListenAddr
	}
	return c.ListenAddr
}

// DotRankDirOrDefault resolves the dot-rankdir option.
func (c *Config) DotRankDirOrDefault() string {
	if c == nil || c.DotRankDir == "" {
		return defaultDotRankDir
	}
	return c.DotRankDir
}

// LoadConfig attempts to populate a Config object from the config.yml file.
func LoadConfig() (*Config, error) {
	err := createConfigPath()
	if err != nil {
		return &Config{}, fmt.Errorf("could not create config directory: %v", err)
	}
	fullConfigFile, err := GetConfigFilePath(configFile)
	if err != nil {
		return &Config{}, fmt.Errorf("unable to get config file path: %v", err)
	}

	hasOldConfig, _ := hasOldConfig()
	if hasOldConfig {
		return &Config{}, fmt.Errorf("legacy config file found in %s, move it to %s", configDir, fullConfigFile)
	}

	f, err := os.Open(fullConfigFile)
	if err != nil {
		f, err = createDefaultConfig(fullConfigFile)
		if err != nil {
			return &Config{}, fmt.Errorf("error creating default config file: %v", err)
		}
	}
	defer func() {
		_ = f.Close()
	}()

	var c Config
	err = yaml.NewDecoder(f).Decode(&c)
	if err != nil && !errors.Is(err, io.EOF) {
		return &Config{}, fmt.Errorf("unable to decode config file: %v", err)
	}
	return &c, nil
}

// SaveConfig will marshal and save the config struct to disk.
func SaveConfig(conf *Config) error {
	fullConfigFile, err := GetConfigFilePath(configFile)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(*conf)
	if err != nil {
		return err
	}

	f, err := os.Create(fullConfigFile)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(out)
	return err
}

func createDefaultConfig(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("unable to create config file: %v", err)
	}
	err = writeDefaultConfig(f)
	if err != nil {
		return nil, fmt.Errorf("unable to write default configuration: %v", err)
	}
	_, err = f.Seek(0, 0)
	return f, err
}

func writeDefaultConfig(f *os.File) error {
	_, err := f.WriteString(
		`# Configuration file for dsviz.

# This is the default configuration file. Available options are provided,
# but are commented out. Uncomment them when you wish to change their value.

# Uncomment the following line and set your preferred ANSI color mode
# (auto, on, off).
# colors: auto

# Number of container elements shown in a one-line summary.
# summary-max-items: 8

# Maximum number of characters read from a char* string.
# max-string-len: 64

# Maximum depth used when walking node-based trees.
# max-traversal-depth: 32

# Maximum number of vertices visited when walking a graph.
# max-graph-nodes: 256

# Rank direction of exported Graphviz graphs (LR or TB).
# dot-rankdir: LR

# Listen address of the web visualizer.
# listen-addr: 127.0.0.1:8790

# Provide an array of aliases for console commands.
# aliases:
#   summary: ["s"]
`)
	return err
}

// createConfigPath creates the directory structure at which all config files are saved.
func createConfigPath() error {
	path, err := GetConfigFilePath("")
	if err != nil {
		return err
	}
	return os.MkdirAll(path, 0700)
}

// GetConfigFilePath gets the full path of the given config file name.
func GetConfigFilePath(filename string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return path.Join(home, configDir, filename), nil
}

// hasOldConfig returns true if the old location (which used to hold a
// differently named file) is still populated.
func hasOldConfig() (bool, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path.Join(home, configDir, "dsviz.yml"))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
