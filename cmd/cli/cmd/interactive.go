// Package cmd - interactive calculator
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"pricing-estimator/core/debounce"
	"pricing-estimator/core/output"
	"pricing-estimator/core/session"
	"pricing-estimator/core/settings"
	"pricing-estimator/core/types"
	"pricing-estimator/core/ui"
	"pricing-estimator/internal/config"
	"pricing-estimator/internal/errors"
	"pricing-estimator/internal/metrics"
)

const interactiveHelp = `Read commands from stdin, one per line. Number and variable fields are
debounced like the web calculator, so the total updates once typing settles.

Commands:
  employees=5  revenue=12  transactions=300   numeric fields
  var.<tag>=3                                 pricing variable
  industry=tech                               select an industry
  answer.<question>=true                      answer an industry question
  service+=salary  service-=bookkeeping       toggle services
  premium=true                                toggle the premium plan
  set.<price>=6000                            edit a price, see "prices"
  show  flush  prices  help  quit`

// interactiveCmd runs a line-oriented calculator on stdin
var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Edit a form line by line and watch the total",
	Long:  interactiveHelp,
	Args:  cobra.NoArgs,
	RunE:  runInteractive,
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	e, err := newEnv(cfg)
	if err != nil {
		return err
	}

	fieldDelay := time.Duration(cfg.Calculator.FieldDebounceMS) * time.Millisecond
	s := session.New(e.snapshot,
		session.WithMetrics(e.metrics),
		session.WithFieldOptions(debounce.WithDelay(fieldDelay)))
	store := settings.NewStore(e.snapshot,
		settings.WithDelay(time.Duration(cfg.Calculator.SettingsDebounceMS)*time.Millisecond),
		settings.WithMetrics(e.metrics))

	c := newConsole(cmd.OutOrStdout(), s, store, e.money, e.metrics, e.noColor)
	return c.Run(cmd.InOrStdin())
}

// priceSetters are the prices the console can edit
var priceSetters = map[string]func(*types.PricingConfig, float64) error{
	"salary.base_rate": func(p *types.PricingConfig, v float64) error {
		if p.Salary == nil {
			return errors.NotFound("plan", "salary")
		}
		p.Salary.BaseRate = v
		return nil
	},
	"salary.per_employee_rate": func(p *types.PricingConfig, v float64) error {
		if p.Salary == nil {
			return errors.NotFound("plan", "salary")
		}
		p.Salary.PerEmployeeRate = v
		return nil
	},
	"bookkeeping.base_rate": func(p *types.PricingConfig, v float64) error {
		if p.Bookkeeping == nil {
			return errors.NotFound("plan", "bookkeeping")
		}
		p.Bookkeeping.BaseRate = v
		return nil
	},
	"bookkeeping.per_transaction_rate": func(p *types.PricingConfig, v float64) error {
		if p.Bookkeeping == nil {
			return errors.NotFound("plan", "bookkeeping")
		}
		p.Bookkeeping.PerTransactionRate = v
		return nil
	},
	"premium.monthly_price": func(p *types.PricingConfig, v float64) error {
		if p.Premium == nil {
			return errors.NotFound("plan", "premium")
		}
		p.Premium.MonthlyPrice = v
		return nil
	},
}

// console drives one session from text commands. Subscribers print from
// timer goroutines, so all output goes through mu.
type console struct {
	mu  sync.Mutex
	out *ui.Writer
	raw io.Writer

	session *session.Session
	store   *settings.Store
	cli     *output.CLIFormatter
	money   *output.CurrencyFormatter
	metrics *metrics.Metrics

	numbers     map[string]*debounce.Field[types.Number]
	variables   map[string]*debounce.Field[types.VariableValue]
	unsubscribe func()
}

func newConsole(w io.Writer, s *session.Session, store *settings.Store, money *output.CurrencyFormatter, m *metrics.Metrics, noColor bool) *console {
	c := &console{
		out:       ui.NewWriter(w, noColor),
		raw:       w,
		session:   s,
		store:     store,
		cli:       output.NewCLIFormatter(money, noColor),
		money:     money,
		metrics:   m,
		numbers:   map[string]*debounce.Field[types.Number]{},
		variables: map[string]*debounce.Field[types.VariableValue]{},
	}
	c.unsubscribe = s.Subscribe(c.printState)
	store.Subscribe(s)
	store.Subscribe(settings.SubscriberFunc(func(snapshot types.Snapshot) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.out.Info("prices updated (version %d)", snapshot.Version)
	}))
	return c
}

// Run executes commands until quit or EOF, then settles pending edits and
// prints the final estimate
func (c *console) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		quit, err := c.exec(strings.TrimSpace(scanner.Text()))
		if err != nil {
			c.mu.Lock()
			c.out.Error("%v", err)
			c.mu.Unlock()
		}
		if quit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return c.close()
}

func (c *console) exec(line string) (bool, error) {
	switch line {
	case "", "#":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "flush":
		c.flush()
		return false, nil
	case "show":
		return false, c.show()
	case "prices":
		c.mu.Lock()
		for _, name := range sortedPrices() {
			c.out.Println("  %s", name)
		}
		c.mu.Unlock()
		return false, nil
	case "help":
		c.mu.Lock()
		c.out.Println("%s", interactiveHelp)
		c.mu.Unlock()
		return false, nil
	}
	if strings.HasPrefix(line, "#") {
		return false, nil
	}

	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return false, errors.Newf(errors.TypeInput, "unknown command %q", line)
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	switch {
	case key == "employees" || key == "revenue" || key == "transactions":
		field, err := c.number(types.DriverType(key))
		if err != nil {
			return false, err
		}
		field.Input(value)
	case strings.HasPrefix(key, "var."):
		field, err := c.variable(strings.TrimPrefix(key, "var."))
		if err != nil {
			return false, err
		}
		field.Input(value)
	case key == "industry":
		if _, ok := c.session.Snapshot().Industries[value]; !ok {
			return false, errors.NotFound("industry", value)
		}
		c.session.SetFormData(session.FormUpdate{Industry: &value})
	case strings.HasPrefix(key, "answer."):
		yes, err := strconv.ParseBool(value)
		if err != nil {
			return false, errors.Parsing("answer must be true or false", err)
		}
		c.session.SetFormData(session.FormUpdate{
			IndustryOptions: map[string]bool{strings.TrimPrefix(key, "answer."): yes},
		})
	case key == "premium":
		yes, err := strconv.ParseBool(value)
		if err != nil {
			return false, errors.Parsing("premium must be true or false", err)
		}
		c.session.SetFormData(session.FormUpdate{IsPremium: &yes})
	case key == "service+" || key == "service-":
		return false, c.toggleService(types.Service(value), key == "service+")
	case strings.HasPrefix(key, "set."):
		return false, c.setPrice(strings.TrimPrefix(key, "set."), value)
	default:
		return false, errors.Newf(errors.TypeInput, "unknown field %q", key)
	}
	return false, nil
}

func (c *console) number(driver types.DriverType) (*debounce.Field[types.Number], error) {
	if f, ok := c.numbers[string(driver)]; ok {
		return f, nil
	}
	f, err := c.session.NumberField(driver)
	if err != nil {
		return nil, err
	}
	c.numbers[string(driver)] = f
	return f, nil
}

func (c *console) variable(tag string) (*debounce.Field[types.VariableValue], error) {
	if f, ok := c.variables[tag]; ok {
		return f, nil
	}
	f, err := c.session.VariableField(tag)
	if err != nil {
		return nil, err
	}
	c.variables[tag] = f
	return f, nil
}

func (c *console) toggleService(svc types.Service, on bool) error {
	if !svc.IsValid() {
		return errors.Newf(errors.TypeInput, "unknown service %q", svc)
	}
	current := c.session.State().FormData.SelectedServices
	next := make([]types.Service, 0, len(current)+1)
	for _, s := range current {
		if s != svc {
			next = append(next, s)
		}
	}
	if on {
		next = append(next, svc)
	}
	c.session.SetFormData(session.FormUpdate{SelectedServices: &next})
	return nil
}

func (c *console) setPrice(name, value string) error {
	set, ok := priceSetters[name]
	if !ok {
		return errors.NotFound("price", name)
	}
	n, err := debounce.ParseNumber(value)
	if err != nil {
		return fmt.Errorf("price %s: %w", name, err)
	}
	v, ok := n.Float64()
	if !ok {
		return errors.New(errors.TypeInput, "price cannot be blank").WithContext("price", name)
	}
	var setErr error
	if err := c.store.UpdatePricing(func(p *types.PricingConfig) { setErr = set(p, v) }); err != nil {
		return err
	}
	return setErr
}

func (c *console) printState(state session.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if state.Error != nil {
		c.out.Warning("%s", *state.Error)
		return
	}
	c.out.Println("total: %s", c.money.Format(state.Total))
}

func (c *console) show() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cli.Render(c.raw, output.NewEstimateResult(c.session))
}

// flush settles every field, then publishes pending price edits
func (c *console) flush() {
	for _, f := range c.numbers {
		f.Flush()
	}
	for _, f := range c.variables {
		f.Flush()
	}
	c.store.Flush()
}

func (c *console) close() error {
	c.flush()
	for _, f := range c.numbers {
		f.Dispose()
	}
	for _, f := range c.variables {
		f.Dispose()
	}
	c.store.Close(nil)
	c.unsubscribe()

	if err := c.show(); err != nil {
		return err
	}
	return c.printMetrics()
}

func (c *console) printMetrics() error {
	samples, err := c.metrics.Gather()
	if err != nil || len(samples) == 0 {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.out.Println("")
	c.out.SubHeader("Session metrics")
	table := c.out.NewTable("Metric", "Labels", "Count").AlignRight(2)
	for _, s := range samples {
		table.AddRow(s.Name, formatLabels(s.Labels), strconv.FormatFloat(s.Value, 'f', -1, 64))
	}
	table.Render()
	return nil
}

func formatLabels(labels map[string]string) string {
	parts := make([]string, 0, len(labels))
	for k, v := range labels {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func sortedPrices() []string {
	names := make([]string, 0, len(priceSetters))
	for name := range priceSetters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
