// Package config loads YAML configuration for the gateway and client
// binaries, grounded in alibo-simple-mqtt-network-lab/go-backend/main.go's
// loadConfig pattern: a single tagged struct, defaults applied in code.
// The file path is supplied by the caller; no environment variable
// overrides it.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mqttsn-go/gateway"
)

// Gateway is the configuration for cmd/mqttsn-gateway.
type Gateway struct {
	GwID      byte   `yaml:"gw_id"`
	Bind      string `yaml:"bind"`
	Broadcast string `yaml:"broadcast"`

	Broker struct {
		URL      string `yaml:"url"`
		ClientID string `yaml:"client_id"`
	} `yaml:"broker"`

	Debug struct {
		Addr string `yaml:"addr"`
	} `yaml:"debug"`

	Timers struct {
		RetrySecs     int `yaml:"retry_secs"`
		MaxRetries    int `yaml:"max_retries"`
		KeepAliveSecs int `yaml:"keepalive_secs"`
	} `yaml:"timers"`
}

// RetryInterval returns the configured retry interval, or §6's default
// when unset.
func (c *Gateway) RetryInterval() time.Duration {
	if c.Timers.RetrySecs <= 0 {
		return mqttsn.TRetry
	}
	return time.Duration(c.Timers.RetrySecs) * time.Second
}

// DefaultKeepAlive returns the configured default keepalive, or §6's
// default when unset.
func (c *Gateway) DefaultKeepAlive() time.Duration {
	if c.Timers.KeepAliveSecs <= 0 {
		return mqttsn.DefaultKeepAlive
	}
	return time.Duration(c.Timers.KeepAliveSecs) * time.Second
}

// LoadGateway reads and parses a Gateway config from path, applying
// defaults for anything the file leaves zero.
func LoadGateway(path string) (Gateway, error) {
	var c Gateway
	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, err
	}
	if c.Bind == "" {
		c.Bind = ":1883"
	}
	if c.Broadcast == "" {
		c.Broadcast = "255.255.255.255:1883"
	}
	if c.Debug.Addr == "" {
		c.Debug.Addr = ":8080"
	}
	if c.Timers.MaxRetries <= 0 {
		c.Timers.MaxRetries = mqttsn.NRetry
	}
	return c, nil
}

// Client is the configuration for cmd/mqttsn-client.
type Client struct {
	ClientID  string   `yaml:"client_id"`
	Bind      string   `yaml:"bind"`
	Gateway   string   `yaml:"gateway"`
	Broadcast string   `yaml:"broadcast"`
	Topics    []string `yaml:"topics"`
	Keepalive int      `yaml:"keepalive_secs"`
}

// LoadClient reads and parses a Client config from path.
func LoadClient(path string) (Client, error) {
	var c Client
	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, err
	}
	if c.Bind == "" {
		c.Bind = ":0"
	}
	if c.Broadcast == "" {
		c.Broadcast = "255.255.255.255:1883"
	}
	if c.Keepalive <= 0 {
		c.Keepalive = int(mqttsn.DefaultKeepAlive / time.Second)
	}
	return c, nil
}
