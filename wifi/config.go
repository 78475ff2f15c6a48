package wifi

import (
	"fmt"
	"time"
)

// maxChunkSize is the largest chunk the module accepts per send prepare or
// receive data command.
const maxChunkSize = 8192

type Config struct {
	Dialer Dialer
	// ATTimeout bounds a single command/response exchange.
	ATTimeout time.Duration
	// SendTimeout bounds the wait for a transmission confirmation.
	SendTimeout time.Duration
	// TxChunkSize is the block size outgoing data is split into.
	TxChunkSize int
	// RxChunkSize is the block size used when pulling buffered data.
	RxChunkSize int
}

func (c *Config) validate() error {
	if c.Dialer == nil {
		return ErrNoDialer
	}
	if c.TxChunkSize < 0 || c.TxChunkSize > maxChunkSize {
		return fmt.Errorf("tx chunk size %d out of range (max %d)", c.TxChunkSize, maxChunkSize)
	}
	if c.RxChunkSize < 0 || c.RxChunkSize > maxChunkSize {
		return fmt.Errorf("rx chunk size %d out of range (max %d)", c.RxChunkSize, maxChunkSize)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.ATTimeout == 0 {
		c.ATTimeout = 5 * time.Second
	}
	if c.SendTimeout == 0 {
		c.SendTimeout = 5 * time.Second
	}
	if c.TxChunkSize == 0 {
		c.TxChunkSize = 256
	}
	if c.RxChunkSize == 0 {
		c.RxChunkSize = 256
	}
}

// ConfigBuilder assembles a Config.
type ConfigBuilder struct {
	config Config
}

func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

func (b *ConfigBuilder) WithDialer(dialer Dialer) *ConfigBuilder {
	b.config.Dialer = dialer
	return b
}

func (b *ConfigBuilder) WithATTimeout(timeout time.Duration) *ConfigBuilder {
	b.config.ATTimeout = timeout
	return b
}

func (b *ConfigBuilder) WithSendTimeout(timeout time.Duration) *ConfigBuilder {
	b.config.SendTimeout = timeout
	return b
}

func (b *ConfigBuilder) WithTxChunkSize(size int) *ConfigBuilder {
	b.config.TxChunkSize = size
	return b
}

func (b *ConfigBuilder) WithRxChunkSize(size int) *ConfigBuilder {
	b.config.RxChunkSize = size
	return b
}

// Build validates the configuration and applies defaults for unset values.
func (b *ConfigBuilder) Build() (Config, error) {
	if err := b.config.validate(); err != nil {
		return Config{}, err
	}
	config := b.config
	config.setDefaults()
	return config, nil
}
