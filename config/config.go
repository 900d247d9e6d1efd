package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/dskrobo/earmark/internal/entity"
)

// ExchangeConfig names one exchange account the engine reserves funds on.
// API credentials come from environment variables, not from the file.
type ExchangeConfig struct {
	Platform  string
	AccountID string
}

// SymbolConfig carries instrument metadata used for currency conversion.
type SymbolConfig struct {
	Pair           entity.Pair
	AmountTick     decimal.Decimal
	MinAmount      decimal.Decimal
	MinCost        decimal.Decimal
	MarginCurrency string
}

// AllocationConfig seeds one cell of the available-balance ledger: the funds a
// strategy instance may spend on an exchange account.
type AllocationConfig struct {
	Descriptor        entity.ConfigurationDescriptor
	ExchangeAccountID string
	Pair              entity.Pair
	Currency          string
	Amount            decimal.Decimal
}

type Config struct {
	JournalDir    string
	AuditInterval time.Duration
	Exchanges     []ExchangeConfig
	Symbols       []SymbolConfig
	Allocations   []AllocationConfig
}

type exchangeTmp struct {
	Platform  string `yaml:"platform"`
	AccountID string `yaml:"account_id"`
}

type symbolTmp struct {
	Pair           string `yaml:"pair"`
	AmountTick     string `yaml:"amount_tick"`
	MinAmount      string `yaml:"min_amount,omitempty"`
	MinCost        string `yaml:"min_cost,omitempty"`
	MarginCurrency string `yaml:"margin_currency,omitempty"`
}

type allocationTmp struct {
	Service           string `yaml:"service"`
	Key               string `yaml:"key"`
	ExchangeAccountID string `yaml:"exchange_account_id"`
	Pair              string `yaml:"pair"`
	Currency          string `yaml:"currency"`
	Amount            string `yaml:"amount"`
}

type configTmp struct {
	JournalDir    string          `yaml:"journal_dir,omitempty"`
	AuditInterval string          `yaml:"audit_interval,omitempty"`
	Exchanges     []exchangeTmp   `yaml:"exchanges"`
	Symbols       []symbolTmp     `yaml:"symbols"`
	Allocations   []allocationTmp `yaml:"allocations"`
}

// Get reads the configuration from the file given by the --config flag.
func Get() (Config, error) {
	path := flag.String("config", "config.yaml", "path to yaml config")
	flag.Parse()

	f, err := os.ReadFile(*path)
	if err != nil {
		return Config{}, err
	}

	return Parse(f)
}

// Parse decodes and validates the yaml configuration.
func Parse(data []byte) (Config, error) {
	var tmp configTmp
	if err := yaml.Unmarshal(data, &tmp); err != nil {
		return Config{}, err
	}

	cfg := Config{JournalDir: tmp.JournalDir}
	if tmp.AuditInterval != "" {
		interval, err := time.ParseDuration(tmp.AuditInterval)
		if err != nil {
			return Config{}, fmt.Errorf("invalid audit_interval: %w", err)
		}
		cfg.AuditInterval = interval
	}
	if cfg.AuditInterval <= 0 {
		cfg.AuditInterval = 5 * time.Minute
	}

	if len(tmp.Exchanges) == 0 {
		return Config{}, fmt.Errorf("at least one exchange must be configured")
	}

	accounts := make(map[string]struct{}, len(tmp.Exchanges))
	for _, e := range tmp.Exchanges {
		switch e.Platform {
		case "binance", "bybit", "hyperliquid":
		default:
			return Config{}, fmt.Errorf("unsupported platform %q", e.Platform)
		}
		if e.AccountID == "" {
			return Config{}, fmt.Errorf("exchange account id is required for platform %s", e.Platform)
		}
		accounts[e.AccountID] = struct{}{}
		cfg.Exchanges = append(cfg.Exchanges, ExchangeConfig{Platform: e.Platform, AccountID: e.AccountID})
	}

	for _, s := range tmp.Symbols {
		pair, err := pairFromString(s.Pair)
		if err != nil {
			return Config{}, err
		}
		tick, err := decimal.NewFromString(s.AmountTick)
		if err != nil {
			return Config{}, fmt.Errorf("invalid amount_tick for %s: %w", s.Pair, err)
		}
		minAmount, err := optionalDecimal(s.MinAmount)
		if err != nil {
			return Config{}, fmt.Errorf("invalid min_amount for %s: %w", s.Pair, err)
		}
		minCost, err := optionalDecimal(s.MinCost)
		if err != nil {
			return Config{}, fmt.Errorf("invalid min_cost for %s: %w", s.Pair, err)
		}

		cfg.Symbols = append(cfg.Symbols, SymbolConfig{
			Pair:           pair,
			AmountTick:     tick,
			MinAmount:      minAmount,
			MinCost:        minCost,
			MarginCurrency: s.MarginCurrency,
		})
	}

	for _, a := range tmp.Allocations {
		pair, err := pairFromString(a.Pair)
		if err != nil {
			return Config{}, err
		}
		amount, err := decimal.NewFromString(a.Amount)
		if err != nil {
			return Config{}, fmt.Errorf("invalid allocation amount for %s/%s: %w", a.Service, a.Key, err)
		}
		if a.Service == "" || a.Key == "" {
			return Config{}, fmt.Errorf("allocation service and key are required")
		}
		if _, ok := accounts[a.ExchangeAccountID]; !ok {
			return Config{}, fmt.Errorf("allocation references unknown exchange account %q", a.ExchangeAccountID)
		}

		cfg.Allocations = append(cfg.Allocations, AllocationConfig{
			Descriptor: entity.ConfigurationDescriptor{
				ServiceName:             a.Service,
				ServiceConfigurationKey: a.Key,
			},
			ExchangeAccountID: a.ExchangeAccountID,
			Pair:              pair,
			Currency:          a.Currency,
			Amount:            amount,
		})
	}

	return cfg, nil
}

func pairFromString(s string) (entity.Pair, error) {
	parts := strings.Split(s, "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return entity.Pair{}, fmt.Errorf("invalid pair %q, expected BASE_QUOTE", s)
	}
	return entity.Pair{Base: parts[0], Quote: parts[1]}, nil
}

func optionalDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
