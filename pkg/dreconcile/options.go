// Package dreconcile reads ledger exports from xlsx workbooks and reconciles
// them into monthly income statements.
package dreconcile

import (
	"time"

	"go.uber.org/zap"

	dlog "github.com/ukaji3/dreconcile-go/internal/log"
	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/reconcile"
)

// Pipeline selects which records classification keeps.
type Pipeline = reconcile.Mode

const (
	// PipelineReconciled keeps only entries with the reconciled status.
	PipelineReconciled = reconcile.ModeReconciled
	// PipelineAllStatus keeps entries regardless of status.
	PipelineAllStatus = reconcile.ModeAllStatus
)

// Options configures loading and classification.
type Options struct {
	// Sheet names the worksheet to read. Empty selects the first declared sheet.
	Sheet string
	// Rules is the taxonomy. A zero value means reconcile.DefaultRules().
	Rules reconcile.Rules
	// Pipeline is used by Records. Empty means PipelineReconciled.
	Pipeline Pipeline
	// Logger receives stage counts. Nil disables logging.
	Logger *zap.Logger
	// Now is the clock used when a date cannot be parsed. Nil means time.Now.
	Now func() time.Time
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		Rules:    reconcile.DefaultRules(),
		Pipeline: PipelineReconciled,
	}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) rules() reconcile.Rules {
	if len(o.Rules.Months) == 0 {
		return reconcile.DefaultRules()
	}
	return o.Rules
}

func (o Options) pipeline() Pipeline {
	if o.Pipeline == "" {
		return PipelineReconciled
	}
	return o.Pipeline
}

func (o Options) classifier() *reconcile.Classifier {
	logger := o.logger().With(zap.String(dlog.FieldComponent, dlog.ComponentReconcile))
	c := reconcile.NewClassifier(o.rules(), logger)
	c.Normalizer.Now = o.Now
	return c
}
