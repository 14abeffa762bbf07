package config

import (
	"fmt"
	"os"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"fleet-rental-pricing/internal/pricing"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Pricing   PricingConfig   `yaml:"pricing"`
	Report    ReportConfig    `yaml:"report"`
	Batch     BatchConfig     `yaml:"batch"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// DiscountTierConfig is one length-of-rental discount row. A missing
// to_day leaves the tier open-ended.
type DiscountTierConfig struct {
	FromDay int64  `yaml:"from_day"`
	ToDay   *int64 `yaml:"to_day"`
	Rate    string `yaml:"rate"`
}

// PricingConfig contains the tariff constants. Rates are decimal strings;
// a missing fee takes the default, an explicit 0 disables it.
type PricingConfig struct {
	DiscountTiers             []DiscountTierConfig `yaml:"discount_tiers"`
	CommissionRate            string               `yaml:"commission_rate"`
	InsuranceShare            string               `yaml:"insurance_share"`
	AssistanceFeePerDay       *int64               `yaml:"assistance_fee_per_day"`
	DeductibleReductionPerDay *int64               `yaml:"deductible_reduction_per_day"`
}

// ReportConfig selects the output layout
type ReportConfig struct {
	Style string `yaml:"style"`
}

// BatchConfig contains file locations for the batch runner
type BatchConfig struct {
	InputPath  string `yaml:"input_path"`
	OutputPath string `yaml:"output_path"`
	XLSXPath   string `yaml:"xlsx_path"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	IssuePayments string `yaml:"issue_payments"`
}

// Default returns a configuration that prices with the standard tariff
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// FromEnv builds a configuration from defaults and environment variables only
func FromEnv() (*Config, error) {
	return Parse(nil)
}

// Parse decodes YAML configuration, applies environment overrides and validates it
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Report
	if val := os.Getenv("REPORT_STYLE"); val != "" {
		c.Report.Style = val
	}

	// Batch
	if val := os.Getenv("BATCH_INPUT_PATH"); val != "" {
		c.Batch.InputPath = val
	}
	if val := os.Getenv("BATCH_OUTPUT_PATH"); val != "" {
		c.Batch.OutputPath = val
	}

	// Scheduler
	if val := os.Getenv("SCHEDULE_ISSUE_PAYMENTS"); val != "" {
		c.Scheduler.IssuePayments = val
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Report.Style == "" {
		c.Report.Style = "level6"
	}
	if c.Batch.InputPath == "" {
		c.Batch.InputPath = "data.json"
	}
	if c.Batch.OutputPath == "" {
		c.Batch.OutputPath = "output.json"
	}
	if c.Scheduler.IssuePayments == "" {
		c.Scheduler.IssuePayments = "0 0 1 * * *" // 1 AM UTC
	}

	p := &c.Pricing
	if len(p.DiscountTiers) == 0 {
		for _, t := range pricing.DefaultDiscountTable().Tiers() {
			tier := DiscountTierConfig{FromDay: t.FromDay, Rate: t.Rate.String()}
			if t.ToDay != pricing.Unbounded {
				to := t.ToDay
				tier.ToDay = &to
			}
			p.DiscountTiers = append(p.DiscountTiers, tier)
		}
	}
	def := pricing.DefaultParams()
	if p.CommissionRate == "" {
		p.CommissionRate = def.Commission.Rate.String()
	}
	if p.InsuranceShare == "" {
		p.InsuranceShare = def.Commission.InsuranceShare.String()
	}
	if p.AssistanceFeePerDay == nil {
		fee := def.Commission.AssistanceFeePerDay
		p.AssistanceFeePerDay = &fee
	}
	if p.DeductibleReductionPerDay == nil {
		fee := def.DeductibleReductionPerDay
		p.DeductibleReductionPerDay = &fee
	}
}

// Validate fills defaults and checks if the configuration is valid
func (c *Config) Validate() error {
	c.applyDefaults()

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if *c.Pricing.AssistanceFeePerDay < 0 {
		return fmt.Errorf("assistance fee per day must not be negative")
	}
	if *c.Pricing.DeductibleReductionPerDay < 0 {
		return fmt.Errorf("deductible reduction per day must not be negative")
	}
	if _, err := c.Pricing.Params(); err != nil {
		return err
	}
	if _, err := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow).Parse(c.Scheduler.IssuePayments); err != nil {
		return fmt.Errorf("invalid issue_payments schedule: %w", err)
	}
	return nil
}

// Params converts the tariff section into pricing parameters
func (p PricingConfig) Params() (pricing.Params, error) {
	tiers := make([]pricing.DiscountTier, 0, len(p.DiscountTiers))
	for _, t := range p.DiscountTiers {
		rate, err := decimal.NewFromString(t.Rate)
		if err != nil {
			return pricing.Params{}, fmt.Errorf("invalid discount rate %q: %w", t.Rate, err)
		}
		to := pricing.Unbounded
		if t.ToDay != nil {
			to = *t.ToDay
		}
		tiers = append(tiers, pricing.DiscountTier{FromDay: t.FromDay, ToDay: to, Rate: rate})
	}
	table, err := pricing.NewDiscountTable(tiers)
	if err != nil {
		return pricing.Params{}, err
	}

	def := pricing.DefaultParams()
	rate, err := decimal.NewFromString(p.CommissionRate)
	if err != nil {
		return pricing.Params{}, fmt.Errorf("invalid commission rate %q: %w", p.CommissionRate, err)
	}
	share, err := decimal.NewFromString(p.InsuranceShare)
	if err != nil {
		return pricing.Params{}, fmt.Errorf("invalid insurance share %q: %w", p.InsuranceShare, err)
	}

	return pricing.Params{
		Discounts: table,
		Commission: pricing.CommissionSplitter{
			Rate:                rate,
			InsuranceShare:      share,
			AssistanceFeePerDay: feeOrDefault(p.AssistanceFeePerDay, def.Commission.AssistanceFeePerDay),
		},
		DeductibleReductionPerDay: feeOrDefault(p.DeductibleReductionPerDay, def.DeductibleReductionPerDay),
	}, nil
}

func feeOrDefault(fee *int64, def int64) int64 {
	if fee == nil {
		return def
	}
	return *fee
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
