package modem

import "time"

// Config holds the tunables that govern modem initialization, per-command
// timeouts, and the internal queues of the engine.
type Config struct {
	Dialer          Dialer
	SimPIN          string
	MinSendInterval time.Duration
	MaxRetries      int
	EchoOn          bool
	ATTimeout       time.Duration
	InitTimeout     time.Duration

	// QueueDepth bounds the number of caller commands the engine will admit
	// before reporting Busy. It does not bound the small internal queue the
	// engine uses for its own follow-up commands (e.g. an operator query
	// triggered by a +CREG registration transition).
	QueueDepth int

	// ScanTimeout bounds an AT+COPS=? operator scan, which can take tens of
	// seconds on some networks. Falls back to ATTimeout*6 if zero.
	ScanTimeout time.Duration
}

func (c *Config) setDefaults() {
	if c.MinSendInterval == 0 {
		c.MinSendInterval = time.Minute / 30
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.ATTimeout == 0 {
		c.ATTimeout = 5 * time.Second
	}
	if c.InitTimeout == 0 {
		c.InitTimeout = 30 * time.Second
	}
	if c.QueueDepth == 0 {
		c.QueueDepth = 16
	}
	if c.ScanTimeout == 0 {
		c.ScanTimeout = 6 * c.ATTimeout
	}
}

func (c *Config) validate() error {
	if c.Dialer == nil {
		return ErrNoDialer
	}
	return nil
}

// ConfigBuilder assembles a Config fluently. The zero value is ready to use
// via NewConfigBuilder.
type ConfigBuilder struct {
	cfg Config
}

// NewConfigBuilder returns a builder seeded with no dialer; Build fails with
// ErrNoDialer until WithDialer is called.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

func (b *ConfigBuilder) WithDialer(d Dialer) *ConfigBuilder {
	b.cfg.Dialer = d
	return b
}

func (b *ConfigBuilder) WithSimPIN(pin string) *ConfigBuilder {
	b.cfg.SimPIN = pin
	return b
}

func (b *ConfigBuilder) WithMinSendInterval(d time.Duration) *ConfigBuilder {
	b.cfg.MinSendInterval = d
	return b
}

func (b *ConfigBuilder) WithMaxRetries(n int) *ConfigBuilder {
	b.cfg.MaxRetries = n
	return b
}

func (b *ConfigBuilder) WithEchoOn(on bool) *ConfigBuilder {
	b.cfg.EchoOn = on
	return b
}

func (b *ConfigBuilder) WithATTimeout(d time.Duration) *ConfigBuilder {
	b.cfg.ATTimeout = d
	return b
}

func (b *ConfigBuilder) WithInitTimeout(d time.Duration) *ConfigBuilder {
	b.cfg.InitTimeout = d
	return b
}

func (b *ConfigBuilder) WithQueueDepth(n int) *ConfigBuilder {
	b.cfg.QueueDepth = n
	return b
}

func (b *ConfigBuilder) WithScanTimeout(d time.Duration) *ConfigBuilder {
	b.cfg.ScanTimeout = d
	return b
}

// Build validates and returns the assembled Config, applying defaults for
// any timeout or queue field left at zero.
func (b *ConfigBuilder) Build() (Config, error) {
	cfg := b.cfg
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	cfg.setDefaults()
	return cfg, nil
}
