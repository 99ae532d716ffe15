package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/keltra/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultInitialUsdc is the simulated wallet's starting balance.
	DefaultInitialUsdc = "100237489652.48"

	defaultPlatform     = "static"
	defaultListenAddr   = ":8088"
	defaultTickInterval = time.Second
	defaultJournalDir   = "claims-journal"
)

// Config holds the runtime parameters of the vault simulator.
type Config struct {
	// Platform selects the price oracle: static, binance, bybit or hyperliquid.
	Platform string
	// ListenAddr is the dashboard listen address.
	ListenAddr string
	// TickInterval is the accrual settlement cadence.
	TickInterval time.Duration
	// JournalDir is where the claim journal keeps its segments.
	JournalDir string
	// TLSDomains enables automatic TLS for the given domains when non-empty.
	TLSDomains []string
	// TLSCacheDir stores obtained certificates.
	TLSCacheDir string
	// InitialUsdc is the simulated wallet's starting balance.
	InitialUsdc decimal.Decimal
	// Prices overrides the static pricer's quotes, keyed by token.
	Prices map[string]float64
	// Vaults overrides the built-in vault catalog when non-empty.
	Vaults []domain.Vault
}

// FileConfig is the yaml representation of Config, shared with the setup
// wizard.
type FileConfig struct {
	Platform     string             `yaml:"platform"`
	ListenAddr   string             `yaml:"listen_addr"`
	TickInterval time.Duration      `yaml:"tick_interval"`
	JournalDir   string             `yaml:"journal_dir"`
	TLSDomains   []string           `yaml:"tls_domains,omitempty"`
	TLSCacheDir  string             `yaml:"tls_cache_dir,omitempty"`
	InitialUsdc  string             `yaml:"initial_usdc"`
	Prices       map[string]float64 `yaml:"prices,omitempty"`
	Vaults       []domain.Vault     `yaml:"vaults,omitempty"`
}

// Get reads configuration from --config yaml when provided, otherwise from
// CLI flags with defaults.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	platform := flag.String("platform", defaultPlatform, "price oracle: static, binance, bybit or hyperliquid")
	listenAddr := flag.String("listen", defaultListenAddr, "dashboard listen address")
	tickInterval := flag.Duration("tick", defaultTickInterval, "accrual settlement interval")
	journalDir := flag.String("journaldir", defaultJournalDir, "claim journal directory")
	initialUsdc := flag.String("usdc", DefaultInitialUsdc, "initial wallet balance in USDC")
	flag.Parse()

	if *configPath != "" {
		return getYaml(*configPath)
	}

	balance, err := decimal.NewFromString(*initialUsdc)
	if err != nil {
		return Config{}, fmt.Errorf("invalid --usdc provided, --usdc=%s: %w", *initialUsdc, err)
	}

	conf := Config{
		Platform:     *platform,
		ListenAddr:   *listenAddr,
		TickInterval: *tickInterval,
		JournalDir:   *journalDir,
		InitialUsdc:  balance,
	}
	return conf, conf.validate()
}

// FromFile reads configuration from a yaml file.
func FromFile(path string) (Config, error) {
	return getYaml(path)
}

func getYaml(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var raw FileConfig
	if err := yaml.Unmarshal(f, &raw); err != nil {
		return Config{}, err
	}

	conf := Config{
		Platform:     raw.Platform,
		ListenAddr:   raw.ListenAddr,
		TickInterval: raw.TickInterval,
		JournalDir:   raw.JournalDir,
		TLSDomains:   raw.TLSDomains,
		TLSCacheDir:  raw.TLSCacheDir,
		Prices:       raw.Prices,
		Vaults:       raw.Vaults,
	}
	if conf.Platform == "" {
		conf.Platform = defaultPlatform
	}
	if conf.ListenAddr == "" {
		conf.ListenAddr = defaultListenAddr
	}
	if conf.TickInterval <= 0 {
		conf.TickInterval = defaultTickInterval
	}
	if conf.JournalDir == "" {
		conf.JournalDir = defaultJournalDir
	}

	balanceStr := raw.InitialUsdc
	if balanceStr == "" {
		balanceStr = DefaultInitialUsdc
	}
	conf.InitialUsdc, err = decimal.NewFromString(balanceStr)
	if err != nil {
		return Config{}, fmt.Errorf("incorrect 'initial_usdc' param in yaml config: %s: %w", raw.InitialUsdc, err)
	}

	return conf, conf.validate()
}

func (c Config) validate() error {
	switch c.Platform {
	case "static", "binance", "bybit", "hyperliquid":
	default:
		return fmt.Errorf("unsupported platform: %s", c.Platform)
	}
	if c.InitialUsdc.IsNegative() {
		return fmt.Errorf("initial_usdc must not be negative: %s", c.InitialUsdc)
	}
	for token := range c.Prices {
		if _, err := domain.ParseRewardToken(token); err != nil {
			return fmt.Errorf("incorrect 'prices' key in yaml config: %w", err)
		}
	}
	return nil
}

// Catalog builds the vault catalog from the config overrides or the built-in
// defaults.
func (c Config) Catalog() (domain.Catalog, error) {
	if len(c.Vaults) == 0 {
		return domain.DefaultCatalog(), nil
	}
	return domain.NewCatalog(c.Vaults)
}

// StaticPrices merges the config price overrides over the built-in defaults.
func (c Config) StaticPrices() map[domain.RewardToken]float64 {
	prices := make(map[domain.RewardToken]float64)
	for token, price := range c.Prices {
		parsed, err := domain.ParseRewardToken(token)
		if err != nil {
			continue
		}
		prices[parsed] = price
	}
	return prices
}
