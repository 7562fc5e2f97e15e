package config

import (
	"sort"
	"time"
)

// Presets are market scenarios layered over DefaultConfig.
var Presets = map[string]func(*Config){
	"launch": func(c *Config) {
		c.Market.InitialMarketCap = 5000
		c.Market.KeysSold = 0
		c.Market.KeyPrice = 0.1
		c.Market.SellTaxMinutes = 60
	},
	"hype": func(c *Config) {
		c.Market.MaxIncrement = 900
		c.Market.KeySaleProbability = 0.95
		c.Market.MarketCapInterval = 250 * time.Millisecond
		c.Market.KeySaleInterval = time.Second
	},
	"graduating": func(c *Config) {
		c.Market.InitialMarketCap = 58500
		c.Market.SellTaxMinutes = 2
		c.Market.KeysSold = 1840
		c.Market.KeyPrice = 3.61
	},
}

func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
