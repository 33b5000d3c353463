package main

import (
	"fmt"
	"os"

	"github.com/hnthap/kb-mcp/kb"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogFile      string   `yaml:"log"`
	DataFile     string   `yaml:"data_file"`
	Transport    string   `yaml:"transport"`
	ServerAddr   string   `yaml:"server_addr"`
	Threshold    float64  `yaml:"threshold"`
	StopWords    []string `yaml:"stop_words"`
	OptionalData bool     `yaml:"optional_data"`
	Relay        *struct {
		URL         string `yaml:"url"`
		ReconnectMs int    `yaml:"reconnect_ms"`
	} `yaml:"relay"`
}

func readConfig(cfgPath string) (*Config, error) {
	cfgFile, err := os.Open(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("unable to open config file: %w", err)
	}
	defer cfgFile.Close()

	cfg := &Config{}
	dec := yaml.NewDecoder(cfgFile)
	err = dec.Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	if cfg.Transport == "" {
		cfg.Transport = "http"
	}
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = "localhost:3000"
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = kb.DefaultThreshold
	}
	if cfg.Relay != nil && cfg.Relay.ReconnectMs <= 0 {
		cfg.Relay.ReconnectMs = 5000
	}

	return cfg, nil
}
