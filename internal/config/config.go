package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/limetred/limetred/internal/market"
)

const (
	DefaultFPS        = 30
	DefaultTheme      = "lime"
	DefaultLogFile    = "limetred.log"
	DefaultModel      = "gemini-2.5-flash"
	DefaultTimeout    = 30 * time.Second
	DefaultMockDelay  = 1500 * time.Millisecond
	DefaultKeyBatch   = 3
	DefaultSwapNative = 1.0
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Seed      uint64          `yaml:"seed"`
	Market    MarketConfig    `yaml:"market"`
	Scene     SceneConfig     `yaml:"scene"`
	Generator GeneratorConfig `yaml:"generator"`
	UI        UIConfig        `yaml:"ui"`
}

type MarketConfig struct {
	InitialMarketCap    float64       `yaml:"initial_market_cap"`
	GraduationThreshold float64       `yaml:"graduation_threshold"`
	WindowSize          int           `yaml:"window_size"`
	MaxIncrement        float64       `yaml:"max_increment"`
	SellTaxMinutes      int           `yaml:"sell_tax_minutes"`
	KeysSold            int           `yaml:"keys_sold"`
	KeyPrice            float64       `yaml:"key_price"`
	KeySaleProbability  float64       `yaml:"key_sale_probability"`
	NativeBalance       float64       `yaml:"native_balance"`
	NativeUSD           float64       `yaml:"native_usd"`
	TokenUSD            float64       `yaml:"token_usd"`
	DeployFee           float64       `yaml:"deploy_fee"`
	ConnectAirdrop      float64       `yaml:"connect_airdrop"`
	MarketCapInterval   time.Duration `yaml:"market_cap_interval"`
	SellTaxInterval     time.Duration `yaml:"sell_tax_interval"`
	KeySaleInterval     time.Duration `yaml:"key_sale_interval"`
}

type SceneConfig struct {
	FPS        int     `yaml:"fps"`
	PixelRatio float64 `yaml:"pixel_ratio"`
}

type GeneratorConfig struct {
	Model     string        `yaml:"model"`
	Timeout   time.Duration `yaml:"timeout"`
	MockDelay time.Duration `yaml:"mock_delay"`
	// APIKey is never written to disk; see LoadAPIKey.
	APIKey string `yaml:"-"`
}

type UIConfig struct {
	Theme      string  `yaml:"theme"`
	Sound      bool    `yaml:"sound"`
	KeyBatch   int     `yaml:"key_batch"`
	SwapNative float64 `yaml:"swap_native"`
}

func DefaultConfig() *Config {
	p := market.DefaultParams()
	return &Config{
		Market: MarketConfig{
			InitialMarketCap:    p.InitialMarketCap,
			GraduationThreshold: p.GraduationThreshold,
			WindowSize:          p.WindowSize,
			MaxIncrement:        p.MaxIncrement,
			SellTaxMinutes:      p.SellTaxMinutes,
			KeysSold:            p.KeysSold,
			KeyPrice:            p.KeyPrice,
			KeySaleProbability:  p.KeySale.Probability,
			NativeBalance:       p.NativeBalance,
			NativeUSD:           p.NativeUSD,
			TokenUSD:            p.TokenUSD,
			DeployFee:           p.DeployFee,
			ConnectAirdrop:      p.ConnectAirdrop,
			MarketCapInterval:   p.MarketCapInterval,
			SellTaxInterval:     p.SellTaxInterval,
			KeySaleInterval:     p.KeySaleInterval,
		},
		Scene: SceneConfig{
			FPS:        DefaultFPS,
			PixelRatio: 1,
		},
		Generator: GeneratorConfig{
			Model:     DefaultModel,
			Timeout:   DefaultTimeout,
			MockDelay: DefaultMockDelay,
		},
		UI: UIConfig{
			Theme:      DefaultTheme,
			Sound:      true,
			KeyBatch:   DefaultKeyBatch,
			SwapNative: DefaultSwapNative,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	m := c.Market
	switch {
	case m.WindowSize < 1:
		return fmt.Errorf("%w: market.window_size must be positive, got %d", ErrInvalidConfig, m.WindowSize)
	case m.MarketCapInterval <= 0 || m.SellTaxInterval <= 0 || m.KeySaleInterval <= 0:
		return fmt.Errorf("%w: market intervals must be positive", ErrInvalidConfig)
	case m.GraduationThreshold <= 0:
		return fmt.Errorf("%w: market.graduation_threshold must be positive", ErrInvalidConfig)
	case c.Scene.FPS < 1:
		return fmt.Errorf("%w: scene.fps must be positive, got %d", ErrInvalidConfig, c.Scene.FPS)
	case c.UI.KeyBatch < 1:
		return fmt.Errorf("%w: ui.key_batch must be positive, got %d", ErrInvalidConfig, c.UI.KeyBatch)
	case c.UI.SwapNative <= 0:
		return fmt.Errorf("%w: ui.swap_native must be positive", ErrInvalidConfig)
	}
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Params converts the market section into engine parameters.
func (c *Config) Params() market.Params {
	p := market.DefaultParams()
	m := c.Market
	p.InitialMarketCap = m.InitialMarketCap
	p.GraduationThreshold = m.GraduationThreshold
	p.WindowSize = m.WindowSize
	p.MaxIncrement = m.MaxIncrement
	p.SellTaxMinutes = m.SellTaxMinutes
	p.KeysSold = m.KeysSold
	p.KeyPrice = m.KeyPrice
	p.KeySale.Probability = m.KeySaleProbability
	p.NativeBalance = m.NativeBalance
	p.NativeUSD = m.NativeUSD
	p.TokenUSD = m.TokenUSD
	p.DeployFee = m.DeployFee
	p.ConnectAirdrop = m.ConnectAirdrop
	p.MarketCapInterval = m.MarketCapInterval
	p.SellTaxInterval = m.SellTaxInterval
	p.KeySaleInterval = m.KeySaleInterval
	return p
}
