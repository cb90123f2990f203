// Package hclconfig - Seed file writer
package hclconfig

import (
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"pricing-estimator/core/determinism"
	"pricing-estimator/core/types"
)

// Encode renders a snapshot as a seed file that Parse reads back.
// Industries are written in key order so output is stable.
func Encode(snapshot types.Snapshot) []byte {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	if p := snapshot.Pricing; p != nil {
		root.SetAttributeValue("currency", cty.StringVal(p.Currency.String()))

		if plan := p.Salary; plan != nil {
			root.AppendNewline()
			b := root.AppendNewBlock("salary", nil).Body()
			setText(b, "label", plan.Label)
			setText(b, "description", plan.Description)
			b.SetAttributeValue("base_rate", cty.NumberFloatVal(plan.BaseRate))
			b.SetAttributeValue("per_employee_rate", cty.NumberFloatVal(plan.PerEmployeeRate))
			writeDriver(b, plan.Driver)
		}
		if plan := p.Bookkeeping; plan != nil {
			root.AppendNewline()
			b := root.AppendNewBlock("bookkeeping", nil).Body()
			setText(b, "label", plan.Label)
			setText(b, "description", plan.Description)
			b.SetAttributeValue("base_rate", cty.NumberFloatVal(plan.BaseRate))
			b.SetAttributeValue("per_transaction_rate", cty.NumberFloatVal(plan.PerTransactionRate))
			writeDriver(b, plan.Driver)
		}
		if plan := p.AnnualReports; plan != nil {
			root.AppendNewline()
			b := root.AppendNewBlock("annual_reports", nil).Body()
			setText(b, "label", plan.Label)
			setText(b, "description", plan.Description)
			for _, tier := range plan.Tiers {
				tb := b.AppendNewBlock("tier", nil).Body()
				if tier.MaxRevenue != nil {
					tb.SetAttributeValue("max_revenue", cty.NumberFloatVal(*tier.MaxRevenue))
				}
				tb.SetAttributeValue("price", cty.NumberFloatVal(tier.Price))
			}
			writeDriver(b, plan.Driver)
		}
		if plan := p.Premium; plan != nil {
			root.AppendNewline()
			b := root.AppendNewBlock("premium", nil).Body()
			setText(b, "label", plan.Label)
			setText(b, "description", plan.Description)
			b.SetAttributeValue("monthly_price", cty.NumberFloatVal(plan.MonthlyPrice))
			b.SetAttributeValue("features", stringList(plan.Features))
		}
	}

	for _, key := range determinism.SortedKeys(snapshot.Industries) {
		industry := snapshot.Industries[key]
		root.AppendNewline()
		b := root.AppendNewBlock("industry", []string{key}).Body()
		setText(b, "label", industry.Label)
		setText(b, "description", industry.Description)
		b.SetAttributeValue("base_multiplier", cty.NumberFloatVal(industry.BaseMultiplier))
		b.SetAttributeValue("max_multiplier", cty.NumberFloatVal(industry.MaxMultiplier))
		for _, q := range industry.Questions {
			qb := b.AppendNewBlock("question", []string{q.ID}).Body()
			qb.SetAttributeValue("text", cty.StringVal(q.Question))
			setText(qb, "description", q.Description)
			qb.SetAttributeValue("impact_type", cty.StringVal(string(q.Impact.Type)))
			qb.SetAttributeValue("impact_value", cty.NumberFloatVal(q.Impact.Value))
		}
	}

	for _, v := range snapshot.Variables {
		root.AppendNewline()
		b := root.AppendNewBlock("variable", []string{v.ID}).Body()
		b.SetAttributeValue("name", cty.StringVal(v.Name))
		b.SetAttributeValue("type", cty.StringVal(string(v.Type)))
		b.SetAttributeValue("tag", cty.StringVal(v.Tag))
		setText(b, "description", v.Description)
		for _, r := range v.ImpactRules {
			rb := b.AppendNewBlock("rule", []string{r.ID}).Body()
			rb.SetAttributeValue("service", cty.StringVal(string(r.ServiceID)))
			rb.SetAttributeValue("formula", cty.StringVal(string(r.Formula)))
			rb.SetAttributeValue("amount", cty.NumberFloatVal(r.Amount))
			if r.MinValue != nil {
				rb.SetAttributeValue("min_value", cty.NumberFloatVal(*r.MinValue))
			}
			if r.MaxValue != nil {
				rb.SetAttributeValue("max_value", cty.NumberFloatVal(*r.MaxValue))
			}
			for _, th := range r.Thresholds {
				tb := rb.AppendNewBlock("threshold", nil).Body()
				if th.Value != nil {
					tb.SetAttributeValue("value", cty.NumberFloatVal(*th.Value))
				}
				tb.SetAttributeValue("amount", cty.NumberFloatVal(th.Amount))
			}
		}
	}

	return f.Bytes()
}

func writeDriver(b *hclwrite.Body, d types.Driver) {
	if d.Label == "" && d.Description == "" {
		return
	}
	db := b.AppendNewBlock("driver", nil).Body()
	setText(db, "label", d.Label)
	setText(db, "description", d.Description)
}

func setText(b *hclwrite.Body, name, value string) {
	if value != "" {
		b.SetAttributeValue(name, cty.StringVal(value))
	}
}

func stringList(items []string) cty.Value {
	if len(items) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(items))
	for i, s := range items {
		vals[i] = cty.StringVal(s)
	}
	return cty.ListVal(vals)
}
