package reconcile

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/models"
)

// Report gathers the reconciliation of one sheet: both pipelines, the
// dual-method monthly aggregation and every diagnostic table.
type Report struct {
	TotalRecords       int           `json:"totalRecords"`
	StatusDistribution []StatusCount `json:"statusDistribution"`
	Mismatches         Mismatches    `json:"mismatches"`

	Reconciled *Result `json:"-"`
	AllStatus  *Result `json:"-"`

	ReconciledCount int `json:"reconciledCount"`
	AllStatusCount  int `json:"allStatusCount"`

	Monthly          *Monthly         `json:"monthly"`
	AllStatusMonthly *Monthly         `json:"allStatusMonthly"`
	ByCreation       []CreationBucket `json:"byCreation"`

	PositiveOutflows []CategoryTally  `json:"positiveOutflows"`
	WatchListSum     decimal.Decimal  `json:"watchListSum"`
	Transfers        MonthSeries      `json:"transfers"`
	Reimbursements   MonthSeries      `json:"reimbursements"`
	OutOfScope       MonthSeries      `json:"outOfScope"`
	OutOfScopeTop    []CategoryAmount `json:"outOfScopeTop"`

	FocusMonth     string           `json:"focusMonth"`
	FocusSubgroups []CategoryAmount `json:"focusSubgroups"`
	FocusSamples   []SampleGroup    `json:"focusSamples"`
	FocusRevenue   []CategoryAmount `json:"focusRevenue"`

	Summary DRESummary `json:"summary"`
}

// Analyze runs both pipelines over raws and computes every table.
// A classification error in the reconciled pipeline aborts the analysis.
func (c *Classifier) Analyze(raws []models.RawRecord) (*Report, error) {
	rules := c.Rules

	reconciled, err := c.Run(raws, ModeReconciled)
	if err != nil {
		return nil, err
	}
	all, err := c.Run(raws, ModeAllStatus)
	if err != nil {
		return nil, err
	}

	recs := reconciled.Records
	rep := &Report{
		TotalRecords:       len(raws),
		StatusDistribution: c.StatusDistribution(raws),
		Mismatches:         TypeCategoryMismatches(raws, rules),
		Reconciled:         reconciled,
		AllStatus:          all,
		ReconciledCount:    len(recs),
		AllStatusCount:     len(all.Records),
		Monthly:            Aggregate(recs, rules),
		AllStatusMonthly:   Aggregate(all.Records, rules),
		ByCreation:         AggregateByCreation(recs, rules),
		PositiveOutflows:   PositiveCategories(TallyCategories(recs, rules)),
		WatchListSum:       WatchListSum(recs, rules),
		Transfers:          MonthlyPrefixBalance(recs, rules, rules.TransferPrefixes...),
		Reimbursements:     MonthlyPrefixBalance(recs, rules, rules.ReimbursementPrefix),
		FocusMonth:         rules.FocusMonth,
		Summary:            Summarize(recs, rules),
	}
	rep.OutOfScope, rep.OutOfScopeTop = OutOfScopeBalance(recs, rules)

	if rules.FocusMonth != "" {
		rep.FocusSubgroups = RevenueBySubgroup(recs, rules, rules.FocusMonth)
		rep.FocusRevenue = RevenueByCategory(recs, rules, rules.FocusMonth)
		for _, prefix := range rules.SamplePrefixes {
			rep.FocusSamples = append(rep.FocusSamples, c.RawCategorySample(raws, prefix, rules.FocusMonth))
		}
	}

	c.logger().Debug("analysis finished",
		zap.Int("raw_records", rep.TotalRecords),
		zap.Int("reconciled", rep.ReconciledCount),
		zap.Int("all_status", rep.AllStatusCount),
	)
	return rep, nil
}
