// Package cmd - estimate command
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pricing-estimator/core/debounce"
	"pricing-estimator/core/output"
	"pricing-estimator/core/session"
	"pricing-estimator/core/types"
	"pricing-estimator/internal/config"
	"pricing-estimator/internal/errors"
	"pricing-estimator/internal/logging"
)

// estimateOptions are the form values given on the command line. Unset
// fields keep the session defaults.
type estimateOptions struct {
	employees    *float64
	revenue      *float64
	transactions *float64
	industry     *string
	services     []string
	premium      *bool
	answers      []string
	variables    []string
}

var (
	outputFormat string
	estimateFlags struct {
		employees, revenue, transactions float64
		industry                         string
		services, answers, variables     []string
		premium                          bool
	}
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Price one calculator form",
	Long: `Price a form built from flags and print the breakdown.

Unset flags keep the calculator defaults: 1 employee, revenue 1 (million),
100 transactions, the consulting industry and bookkeeping only.

Examples:
  estimator estimate --employees 5 --service salary
  estimator estimate --industry tech --answer has-investors --premium
  estimator estimate --var office_count=3 --format json`,
	Args: cobra.NoArgs,
	RunE: runEstimate,
}

func init() {
	f := estimateCmd.Flags()
	f.StringVarP(&outputFormat, "format", "f", "", "output format (cli, json)")
	f.Float64Var(&estimateFlags.employees, "employees", 0, "number of employees")
	f.Float64Var(&estimateFlags.revenue, "revenue", 0, "annual revenue in millions")
	f.Float64Var(&estimateFlags.transactions, "transactions", 0, "monthly transactions")
	f.StringVar(&estimateFlags.industry, "industry", "", "industry key")
	f.StringSliceVar(&estimateFlags.services, "service", nil, "service to include (salary, bookkeeping, annual-reports)")
	f.BoolVar(&estimateFlags.premium, "premium", false, "include the premium plan")
	f.StringArrayVar(&estimateFlags.answers, "answer", nil, "industry question answered yes")
	f.StringArrayVar(&estimateFlags.variables, "var", nil, "pricing variable as tag=value")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	opts := estimateOptions{
		services:  estimateFlags.services,
		answers:   estimateFlags.answers,
		variables: estimateFlags.variables,
	}
	flags := cmd.Flags()
	if flags.Changed("employees") {
		opts.employees = &estimateFlags.employees
	}
	if flags.Changed("revenue") {
		opts.revenue = &estimateFlags.revenue
	}
	if flags.Changed("transactions") {
		opts.transactions = &estimateFlags.transactions
	}
	if flags.Changed("industry") {
		opts.industry = &estimateFlags.industry
	}
	if flags.Changed("premium") {
		opts.premium = &estimateFlags.premium
	}

	e, err := newEnv(config.Get())
	if err != nil {
		return err
	}
	formatter, err := e.formatter(outputFormat)
	if err != nil {
		return err
	}

	s := session.New(e.snapshot, session.WithMetrics(e.metrics))
	if err := opts.apply(s); err != nil {
		return err
	}

	result := output.NewEstimateResult(s)
	logging.Named("estimate").Debug("estimated form",
		zap.Int64("total", result.State.Total),
		zap.Bool("valid", result.Valid()))
	return formatter.Render(cmd.OutOrStdout(), result)
}

// apply writes the options into s. The industry goes first because
// changing it resets the answers.
func (o estimateOptions) apply(s *session.Session) error {
	var update session.FormUpdate
	if o.employees != nil {
		update.Employees = session.Set(types.NumberOf(*o.employees))
	}
	if o.revenue != nil {
		update.Revenue = session.Set(types.NumberOf(*o.revenue))
	}
	if o.transactions != nil {
		update.Transactions = session.Set(types.NumberOf(*o.transactions))
	}
	update.Industry = o.industry
	update.IsPremium = o.premium

	if o.services != nil {
		services := make([]types.Service, 0, len(o.services))
		for _, name := range o.services {
			svc := types.Service(strings.TrimSpace(name))
			if !svc.IsValid() {
				return errors.Newf(errors.TypeInput, "unknown service %q", name)
			}
			services = append(services, svc)
		}
		update.SelectedServices = &services
	}

	snapshot := s.Snapshot()
	if len(o.variables) > 0 {
		update.Variables = map[string]types.VariableValue{}
		for _, assignment := range o.variables {
			tag, raw, ok := strings.Cut(assignment, "=")
			if !ok {
				return errors.Newf(errors.TypeInput, "variable %q is not tag=value", assignment)
			}
			v, err := parseVariable(snapshot, strings.TrimSpace(tag), raw)
			if err != nil {
				return err
			}
			update.Variables[strings.TrimSpace(tag)] = v
		}
	}
	s.SetFormData(update)

	if len(o.answers) > 0 {
		industry := snapshot.Industries[s.State().FormData.Industry]
		answers := map[string]bool{}
		for _, id := range o.answers {
			if _, ok := industry.Question(id); !ok {
				return errors.NotFound("question", id)
			}
			answers[id] = true
		}
		s.SetFormData(session.FormUpdate{IndustryOptions: answers})
	}
	return nil
}

func parseVariable(snapshot types.Snapshot, tag, raw string) (types.VariableValue, error) {
	for _, v := range snapshot.Variables {
		if v.Tag != tag {
			continue
		}
		if v.Type == types.VariableText {
			return types.TextValue(raw), nil
		}
		n, err := debounce.ParseNumber(raw)
		if err != nil {
			return types.VariableValue{}, fmt.Errorf("variable %s: %w", tag, err)
		}
		return types.VariableValue{Number: n}, nil
	}
	return types.VariableValue{}, errors.NotFound("variable", tag)
}
