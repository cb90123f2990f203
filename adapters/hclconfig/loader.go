// Package hclconfig reads and writes seed configuration files in HCL.
package hclconfig

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"go.uber.org/zap"

	"pricing-estimator/core/catalog"
	"pricing-estimator/core/types"
	"pricing-estimator/internal/errors"
	"pricing-estimator/internal/logging"
)

type seedFile struct {
	Currency      *string             `hcl:"currency,optional"`
	Salary        *salaryBlock        `hcl:"salary,block"`
	Bookkeeping   *bookkeepingBlock   `hcl:"bookkeeping,block"`
	AnnualReports *annualReportsBlock `hcl:"annual_reports,block"`
	Premium       *premiumBlock       `hcl:"premium,block"`
	Industries    []industryBlock     `hcl:"industry,block"`
	Variables     []variableBlock     `hcl:"variable,block"`
}

type driverBlock struct {
	Label       string `hcl:"label,optional"`
	Description string `hcl:"description,optional"`
}

type salaryBlock struct {
	Label           string       `hcl:"label,optional"`
	Description     string       `hcl:"description,optional"`
	BaseRate        float64      `hcl:"base_rate"`
	PerEmployeeRate float64      `hcl:"per_employee_rate"`
	Driver          *driverBlock `hcl:"driver,block"`
}

type bookkeepingBlock struct {
	Label              string       `hcl:"label,optional"`
	Description        string       `hcl:"description,optional"`
	BaseRate           float64      `hcl:"base_rate"`
	PerTransactionRate float64      `hcl:"per_transaction_rate"`
	Driver             *driverBlock `hcl:"driver,block"`
}

type annualReportsBlock struct {
	Label       string       `hcl:"label,optional"`
	Description string       `hcl:"description,optional"`
	Tiers       []tierBlock  `hcl:"tier,block"`
	Driver      *driverBlock `hcl:"driver,block"`
}

type tierBlock struct {
	MaxRevenue *float64 `hcl:"max_revenue,optional"`
	Price      float64  `hcl:"price"`
}

type premiumBlock struct {
	Label        string   `hcl:"label,optional"`
	Description  string   `hcl:"description,optional"`
	MonthlyPrice float64  `hcl:"monthly_price"`
	Features     []string `hcl:"features,optional"`
}

type industryBlock struct {
	Key            string          `hcl:"key,label"`
	Label          string          `hcl:"label,optional"`
	Description    string          `hcl:"description,optional"`
	BaseMultiplier float64         `hcl:"base_multiplier"`
	MaxMultiplier  float64         `hcl:"max_multiplier"`
	Questions      []questionBlock `hcl:"question,block"`
}

type questionBlock struct {
	ID          string  `hcl:"id,label"`
	Text        string  `hcl:"text"`
	Description string  `hcl:"description,optional"`
	ImpactType  *string `hcl:"impact_type,optional"`
	ImpactValue float64 `hcl:"impact_value"`
}

type variableBlock struct {
	ID          string      `hcl:"id,label"`
	Name        string      `hcl:"name"`
	Type        *string     `hcl:"type,optional"`
	Tag         *string     `hcl:"tag,optional"`
	Description string      `hcl:"description,optional"`
	Rules       []ruleBlock `hcl:"rule,block"`
}

type ruleBlock struct {
	ID         string           `hcl:"id,label"`
	Service    string           `hcl:"service"`
	Formula    string           `hcl:"formula"`
	Amount     float64          `hcl:"amount,optional"`
	MinValue   *float64         `hcl:"min_value,optional"`
	MaxValue   *float64         `hcl:"max_value,optional"`
	Thresholds []thresholdBlock `hcl:"threshold,block"`
}

type thresholdBlock struct {
	Value  *float64 `hcl:"value,optional"`
	Amount float64  `hcl:"amount"`
}

// Loader parses seed files
type Loader struct {
	parser *hclparse.Parser
	logger *zap.Logger
}

// NewLoader creates a new seed loader
func NewLoader() *Loader {
	return &Loader{
		parser: hclparse.NewParser(),
		logger: logging.Named("hclconfig"),
	}
}

// Name returns the loader name
func (l *Loader) Name() string {
	return "seed-hcl"
}

// LoadFile reads a seed file from disk
func (l *Loader) LoadFile(path string) (types.Snapshot, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return types.Snapshot{}, errors.Config("failed to read seed file", err).WithContext("path", path)
	}
	return l.Parse(src, path)
}

// Parse decodes seed source. Syntax and schema problems are parsing
// errors; a file that decodes but breaks a structural rule is a config
// error.
func (l *Loader) Parse(src []byte, filename string) (types.Snapshot, error) {
	file, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return types.Snapshot{}, diagnosticsError(filename, diags)
	}

	var seed seedFile
	if diags := gohcl.DecodeBody(file.Body, nil, &seed); diags.HasErrors() {
		return types.Snapshot{}, diagnosticsError(filename, diags)
	}

	snapshot, err := seed.snapshot()
	if err != nil {
		return types.Snapshot{}, err
	}

	problems := catalog.Validate(snapshot, catalog.DefaultValidationRules())
	if len(problems) > 0 {
		for _, p := range problems {
			l.logger.Warn("invalid seed configuration", zap.String("file", filename), zap.Error(p))
		}
		return types.Snapshot{}, errors.Config("invalid seed configuration", problems[0]).
			WithContext("file", filename).
			WithContext("problems", len(problems))
	}

	l.logger.Debug("loaded seed file",
		zap.String("file", filename),
		zap.Int("industries", len(snapshot.Industries)),
		zap.Int("variables", len(snapshot.Variables)))
	return snapshot, nil
}

func diagnosticsError(filename string, diags hcl.Diagnostics) error {
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		line := 0
		if diag.Subject != nil {
			line = diag.Subject.Start.Line
		}
		return errors.Parsing(diag.Summary+": "+diag.Detail, diags).
			WithContext("file", filename).
			WithContext("line", line)
	}
	return errors.Parsing("invalid seed file", diags).WithContext("file", filename)
}

func (f seedFile) snapshot() (types.Snapshot, error) {
	pricing := &types.PricingConfig{Currency: types.CurrencyNOK}
	if f.Currency != nil {
		pricing.Currency = types.Currency(*f.Currency)
	}

	if b := f.Salary; b != nil {
		pricing.Salary = &types.SalaryPlan{
			Label:           b.Label,
			Description:     b.Description,
			BaseRate:        b.BaseRate,
			PerEmployeeRate: b.PerEmployeeRate,
			Driver:          b.Driver.driver(types.DriverEmployees),
		}
	}
	if b := f.Bookkeeping; b != nil {
		pricing.Bookkeeping = &types.BookkeepingPlan{
			Label:              b.Label,
			Description:        b.Description,
			BaseRate:           b.BaseRate,
			PerTransactionRate: b.PerTransactionRate,
			Driver:             b.Driver.driver(types.DriverTransactions),
		}
	}
	if b := f.AnnualReports; b != nil {
		plan := &types.AnnualReportsPlan{
			Label:       b.Label,
			Description: b.Description,
			Tiers:       make([]types.RevenueTier, 0, len(b.Tiers)),
			Driver:      b.Driver.driver(types.DriverRevenue),
		}
		for _, t := range b.Tiers {
			plan.Tiers = append(plan.Tiers, types.RevenueTier{MaxRevenue: t.MaxRevenue, Price: t.Price})
		}
		pricing.AnnualReports = plan
	}
	if b := f.Premium; b != nil {
		pricing.Premium = &types.PremiumPlan{
			Label:        b.Label,
			Description:  b.Description,
			MonthlyPrice: b.MonthlyPrice,
			Features:     b.Features,
		}
	}

	industries := make(types.IndustryTable, len(f.Industries))
	for _, b := range f.Industries {
		if _, dup := industries[b.Key]; dup {
			return types.Snapshot{}, errors.Newf(errors.TypeConfig, "industry %q is defined twice", b.Key)
		}
		cfg := types.IndustryConfig{
			Label:          b.Label,
			Description:    b.Description,
			BaseMultiplier: b.BaseMultiplier,
			MaxMultiplier:  b.MaxMultiplier,
			Questions:      make([]types.IndustryQuestion, 0, len(b.Questions)),
		}
		for _, q := range b.Questions {
			impact := types.ImpactMultiplier
			if q.ImpactType != nil {
				impact = types.ImpactType(*q.ImpactType)
			}
			if impact != types.ImpactMultiplier && impact != types.ImpactFixed {
				return types.Snapshot{}, errors.Newf(errors.TypeConfig,
					"industry %q question %q: unknown impact type %q", b.Key, q.ID, impact)
			}
			cfg.Questions = append(cfg.Questions, types.IndustryQuestion{
				ID:          q.ID,
				Question:    q.Text,
				Description: q.Description,
				Impact:      types.Impact{Type: impact, Value: q.ImpactValue},
			})
		}
		industries[b.Key] = cfg
	}

	variables := make([]types.PricingVariable, 0, len(f.Variables))
	for _, b := range f.Variables {
		v := types.PricingVariable{
			ID:          b.ID,
			Name:        b.Name,
			Type:        types.VariableNumber,
			Tag:         b.ID,
			Description: b.Description,
		}
		if b.Type != nil {
			v.Type = types.VariableType(*b.Type)
		}
		if b.Tag != nil {
			v.Tag = *b.Tag
		}
		for _, r := range b.Rules {
			rule := types.PricingImpactRule{
				ID:        r.ID,
				ServiceID: types.Service(r.Service),
				Formula:   types.Formula(r.Formula),
				Amount:    r.Amount,
				MinValue:  r.MinValue,
				MaxValue:  r.MaxValue,
			}
			for _, th := range r.Thresholds {
				rule.Thresholds = append(rule.Thresholds, types.Threshold{Value: th.Value, Amount: th.Amount})
			}
			v.ImpactRules = append(v.ImpactRules, rule)
		}
		variables = append(variables, v)
	}

	return types.Snapshot{
		Version:    1,
		Pricing:    pricing,
		Industries: industries,
		Variables:  variables,
	}, nil
}

func (b *driverBlock) driver(t types.DriverType) types.Driver {
	d := types.Driver{Type: t}
	if b != nil {
		d.Label = b.Label
		d.Description = b.Description
	}
	return d
}

// LoadOrDefault loads path, or returns the built-in seed when path is empty
func LoadOrDefault(l *Loader, path string) (types.Snapshot, error) {
	if path == "" {
		return catalog.DefaultSnapshot(), nil
	}
	snapshot, err := l.LoadFile(path)
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("load seed %s: %w", path, err)
	}
	return snapshot, nil
}
