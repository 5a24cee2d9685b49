package engine

import (
	ms "github.com/mitchellh/mapstructure"
)

// Config holds the engine's recognized options (spec §6 Configuration),
// decoded the way the teacher decodes ModelSetting/NodeType: an explicit
// SetDefault() rather than implicit zero-value inference, and
// mapstructure for building it from a generic map when it arrives over a
// config file or flag set.
type Config struct {
	// FrequencyHz is the transmit carrier frequency forwarded to the
	// base-LOS collaborator. Default 2.16e9.
	FrequencyHz float64
	// TxGainDBm is used only by the reflection model. Default 20.
	TxGainDBm float64
	// NoiseEnabled toggles the bounded noise term of spec §4.6.6.
	// Default true.
	NoiseEnabled bool
	// StreamIndex is the RNG stream index assigned by AssignStreams.
	StreamIndex int64
}

// SetDefault resets c to the engine's documented defaults.
func (c *Config) SetDefault() {
	c.FrequencyHz = 2.160e9
	c.TxGainDBm = 20
	c.NoiseEnabled = true
	c.StreamIndex = 0
}

// NewConfig returns a Config initialized to defaults.
func NewConfig() *Config {
	c := new(Config)
	c.SetDefault()
	return c
}

// DecodeConfig decodes a generic map (e.g. parsed JSON/YAML) into a
// Config seeded with defaults, mirroring ModelSetting.Set's use of a
// generic decoder over hand-rolled field assignment.
func DecodeConfig(raw map[string]interface{}) (*Config, error) {
	c := NewConfig()
	if err := ms.Decode(raw, c); err != nil {
		return nil, err
	}
	return c, nil
}
