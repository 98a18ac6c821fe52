package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/Wozniak7/Analisador-Financeiro/internal/classify"
)

// FileName is the default configuration file name.
const FileName = "analisador.yaml"

// Config represents the top-level analisador.yaml configuration.
type Config struct {
	Input   InputConfig         `yaml:"input"`
	Report  ReportConfig        `yaml:"report"`
	Budget  BudgetConfig        `yaml:"budget"`
	Aliases map[string][]string `yaml:"aliases,omitempty"`
	Types   TypesConfig         `yaml:"types"`
	Logging LoggingConfig       `yaml:"logging"`
	Server  ServerConfig        `yaml:"server"`
}

// InputConfig controls how source files are read.
type InputConfig struct {
	Delimiter string `yaml:"delimiter"` // single character; "auto" sniffs it
	Sheet     string `yaml:"sheet,omitempty"`
	ImportDir string `yaml:"import_dir"`
}

// ReportConfig controls report assembly.
type ReportConfig struct {
	DetailLimit    int    `yaml:"detail_limit"` // 0 = all rows
	CurrencySymbol string `yaml:"currency_symbol"`
}

// BudgetConfig locates the blocks of the budget-grid workbook.
type BudgetConfig struct {
	ReferenceYear    int    `yaml:"reference_year"`
	ExpenseHeaderRow int    `yaml:"expense_header_row"` // 1-based sheet row
	IncomeHeaderRow  int    `yaml:"income_header_row"`  // 1-based sheet row
	TotalLabel       string `yaml:"total_label"`
}

// TypesConfig lists declared-type synonyms.
type TypesConfig struct {
	Income  []string `yaml:"income"`
	Expense []string `yaml:"expense"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// ServerConfig controls the HTTP upload endpoint.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	RatePerSecond  float64       `yaml:"rate_per_second"`
	RateBurst      int           `yaml:"rate_burst"`
}

// Environment variables that override file settings.
const (
	EnvLogLevel    = "ANALISADOR_LOG_LEVEL"
	EnvLogFormat   = "ANALISADOR_LOG_FORMAT"
	EnvAddr        = "ANALISADOR_ADDR"
	EnvDetailLimit = "ANALISADOR_DETAIL_LIMIT"
)

// Load reads an analisador.yaml file from disk. Fields absent from the file
// keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	synonyms := classify.DefaultSynonyms()
	return &Config{
		Input: InputConfig{
			Delimiter: ";",
			ImportDir: "import",
		},
		Report: ReportConfig{
			DetailLimit:    10,
			CurrencySymbol: "R$",
		},
		Budget: BudgetConfig{
			ReferenceYear:    2024,
			ExpenseHeaderRow: 3,
			IncomeHeaderRow:  21,
			TotalLabel:       "total",
		},
		Types: TypesConfig{
			Income:  synonyms.Income,
			Expense: synonyms.Expense,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxUploadBytes: 10 << 20,
			CacheTTL:       5 * time.Minute,
			RatePerSecond:  5,
			RateBurst:      10,
		},
	}
}

// ApplyEnv overrides settings from the environment. Unparseable numeric
// values are reported and leave the setting unchanged.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvDetailLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", EnvDetailLimit, v)
		}
		c.Report.DetailLimit = n
	}
	return nil
}

// DelimiterRune returns the configured delimiter, or 0 for "auto".
func (c *Config) DelimiterRune() rune {
	if strings.EqualFold(c.Input.Delimiter, "auto") || c.Input.Delimiter == "" {
		return 0
	}
	if c.Input.Delimiter == `\t` {
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(c.Input.Delimiter)
	return r
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"console", "json"}
)

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	d := c.Input.Delimiter
	if d != "" && !strings.EqualFold(d, "auto") && d != `\t` {
		if utf8.RuneCountInString(d) != 1 || d == "\"" || d == "\n" || d == "\r" {
			problems = append(problems, fmt.Sprintf("invalid delimiter %q: must be a single character other than a quote or newline", d))
		}
	}
	if c.Report.DetailLimit < 0 {
		problems = append(problems, fmt.Sprintf("invalid detail limit %d: must be 0 (all) or positive", c.Report.DetailLimit))
	}
	if c.Budget.ExpenseHeaderRow < 1 {
		problems = append(problems, fmt.Sprintf("invalid expense header row %d: rows start at 1", c.Budget.ExpenseHeaderRow))
	}
	if c.Budget.IncomeHeaderRow <= c.Budget.ExpenseHeaderRow {
		problems = append(problems, fmt.Sprintf("invalid income header row %d: must come after the expense header row %d", c.Budget.IncomeHeaderRow, c.Budget.ExpenseHeaderRow))
	}
	if c.Budget.ReferenceYear < 1900 || c.Budget.ReferenceYear > 9999 {
		problems = append(problems, fmt.Sprintf("invalid reference year %d", c.Budget.ReferenceYear))
	}
	for field := range c.Aliases {
		switch strings.ToLower(field) {
		case "amount", "date", "type", "account", "description":
		default:
			problems = append(problems, fmt.Sprintf("unknown alias field %q: must be one of amount, date, type, account, description", field))
		}
	}
	if !contains(validLevels, strings.ToLower(c.Logging.Level)) {
		problems = append(problems, fmt.Sprintf("invalid log level %q: must be one of %v", c.Logging.Level, validLevels))
	}
	if !contains(validFormats, strings.ToLower(c.Logging.Format)) {
		problems = append(problems, fmt.Sprintf("invalid log format %q: must be one of %v", c.Logging.Format, validFormats))
	}
	if c.Server.MaxUploadBytes <= 0 {
		problems = append(problems, fmt.Sprintf("invalid max upload size %d: must be positive", c.Server.MaxUploadBytes))
	}
	if c.Server.RatePerSecond <= 0 || c.Server.RateBurst < 1 {
		problems = append(problems, fmt.Sprintf("invalid rate limit %.2f/s burst %d: both must be positive", c.Server.RatePerSecond, c.Server.RateBurst))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
