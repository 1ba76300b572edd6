// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package report renders analytics responses for the terminal and as charts
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/etfperf/analytics"
)

// FormatMoney displays amount in the given ISO currency, e.g. $10,450.00.
// Unknown currencies fall back to USD.
func FormatMoney(amount float64, currency string) string {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		cur = money.GetCurrency(money.USD)
	}

	minor := int64(math.Round(amount * math.Pow(10, float64(cur.Fraction))))
	return money.New(minor, cur.Code).Display()
}

func formatPercent(x float64) string {
	return fmt.Sprintf("%.2f%%", x*100)
}

// Summary renders the value summary and risk metrics of an analysis
func Summary(res *analytics.AnalysisResponse, currency string) string {
	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	table.Append([]string{"Period", fmt.Sprintf("%s to %s", res.StartDate, res.EndDate)})
	if res.Summary != nil {
		table.Append([]string{"Initial Value", FormatMoney(res.Summary.InitialValue, currency)})
		table.Append([]string{"Final Value", FormatMoney(res.Summary.FinalValue, currency)})
		table.Append([]string{"Growth", FormatMoney(res.Summary.Growth, currency)})
	}
	if m := res.Metrics; m != nil {
		table.Append([]string{"Total Return", formatPercent(m.TotalReturn)})
		table.Append([]string{"Annualized Return", formatPercent(m.AnnualizedReturn)})
		table.Append([]string{"Volatility", formatPercent(m.Volatility)})
		table.Append([]string{"Max Drawdown", formatPercent(m.MaxDrawdown)})
		table.Append([]string{"Sharpe Ratio", fmt.Sprintf("%.2f", m.SharpeRatio)})
		table.Append([]string{"Risk Level", string(m.RiskLevel)})
	}

	table.Render()

	for _, w := range res.Warnings {
		fmt.Fprintf(s, "warning: %s\n", w.Message)
	}

	return s.String()
}

// YearlyReturns renders one row per calendar year
func YearlyReturns(years []*analytics.YearlyReturn) string {
	if len(years) == 0 {
		return "<NO DATA>"
	}

	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader([]string{"Year", "Return"})
	table.SetBorder(false)

	for _, y := range years {
		table.Append([]string{fmt.Sprintf("%d", y.Year), formatPercent(y.YearlyReturn)})
	}

	table.Render()
	return s.String()
}

// Drawdowns renders the drawdown periods of a portfolio
func Drawdowns(res *analytics.DrawdownResponse) string {
	s := &strings.Builder{}
	fmt.Fprintf(s, "Max Drawdown: %s on %s (%d severe days)\n\n", formatPercent(res.MaxDrawdown), res.MaxDrawdownDate, res.SevereDays)

	if len(res.Periods) == 0 {
		s.WriteString("<NO DRAWDOWN PERIODS>\n")
		return s.String()
	}

	table := tablewriter.NewWriter(s)
	table.SetHeader([]string{"Start", "End", "Max Drawdown", "Days", "Recovered"})
	table.SetBorder(false)

	for _, p := range res.Periods {
		table.Append([]string{p.StartDate, p.EndDate, formatPercent(p.MaxDrawdown), fmt.Sprintf("%d", p.RecoveryDays), fmt.Sprintf("%t", p.Recovered)})
	}

	table.Render()
	return s.String()
}
