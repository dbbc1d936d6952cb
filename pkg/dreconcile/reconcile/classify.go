package reconcile

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	dlog "github.com/ukaji3/dreconcile-go/internal/log"
	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/models"
)

// ValidateType maps a raw type label to an entry type. "receita" wins over
// "despesa" and "custo"; anything else is ErrInvalidType.
func ValidateType(tipo string) (models.EntryType, error) {
	t := fold(tipo)
	switch {
	case strings.Contains(t, "receita"):
		return models.EntryReceita, nil
	case strings.Contains(t, "despesa"), strings.Contains(t, "custo"):
		return models.EntryDespesa, nil
	}
	return "", ErrInvalidType
}

// IsArtifact reports whether any label marks the record as a summary or
// pivot-table row rather than a ledger entry.
func IsArtifact(labels, stoplist []string) bool {
	for _, label := range labels {
		if containsAny(label, stoplist) {
			return true
		}
	}
	return false
}

// Verdict is the kind of a classification outcome.
type Verdict int

const (
	// VerdictRecord carries a financial record.
	VerdictRecord Verdict = iota
	// VerdictSkip drops the row for a benign reason.
	VerdictSkip
	// VerdictInvalid carries a classification error.
	VerdictInvalid
)

// SkipReason says why a row produced no record.
type SkipReason string

const (
	// SkipArtifact marks rows whose labels name a summary artifact.
	SkipArtifact SkipReason = "artifact"
	// SkipStatus marks rows without the reconciled status.
	SkipStatus SkipReason = "status"
	// SkipInvalidType marks rows dropped for an invalid type (all-status only).
	SkipInvalidType SkipReason = "invalid_type"
	// SkipZeroValue marks rows whose value is zero or empty.
	SkipZeroValue SkipReason = "zero_value"
	// SkipUnparsableValue marks rows whose value text could not be parsed.
	SkipUnparsableValue SkipReason = "unparsable_value"
)

// Outcome is the result of classifying one raw record.
type Outcome struct {
	Verdict Verdict
	Record  models.FinancialRecord
	Reason  SkipReason
	Err     error
	// DateDegraded and ValueDegraded report lossy scalar parses.
	DateDegraded  bool
	ValueDegraded bool
}

// Mode selects a classification pipeline.
type Mode string

const (
	// ModeReconciled keeps only rows carrying the status marker and aborts
	// on the first invalid type.
	ModeReconciled Mode = "reconciled"
	// ModeAllStatus keeps every status and skips rows with an invalid type.
	ModeAllStatus Mode = "all_status"
)

// ParseMode converts a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeReconciled, ModeAllStatus:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown pipeline %q (expected %s or %s)", s, ModeReconciled, ModeAllStatus)
}

// Classifier turns raw records into financial records.
type Classifier struct {
	Rules      Rules
	Fields     FieldTable
	Normalizer Normalizer
	Logger     *zap.Logger
}

// NewClassifier returns a classifier with the default field table.
func NewClassifier(rules Rules, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{Rules: rules, Fields: DefaultFields(), Logger: logger}
}

func (c *Classifier) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Status returns the trimmed status of a raw record.
func (c *Classifier) Status(raw models.RawRecord) string {
	return strings.TrimSpace(c.Fields.Status.Lookup(raw).String())
}

// Classify evaluates one raw record. Checks run in a fixed order:
// artifact labels, status (when filterStatus is set), type, then value and
// date normalization, and finally the zero-value drop.
func (c *Classifier) Classify(raw models.RawRecord, filterStatus bool) Outcome {
	if IsArtifact(raw.Labels(), c.Rules.Stoplist) {
		return Outcome{Verdict: VerdictSkip, Reason: SkipArtifact}
	}

	status := c.Status(raw)
	if filterStatus && status != c.Rules.StatusMarker {
		return Outcome{Verdict: VerdictSkip, Reason: SkipStatus}
	}

	rawType := c.Fields.Tipo.Lookup(raw).String()
	tipo, err := ValidateType(rawType)
	if err != nil {
		return Outcome{
			Verdict: VerdictInvalid,
			Reason:  SkipInvalidType,
			Err:     &ClassificationError{Row: raw.Row, Value: rawType, Err: err},
		}
	}

	amount := ParseCurrency(c.Fields.Valor.Lookup(raw))
	date := c.Normalizer.ParseDate(c.Fields.Data.Lookup(raw))

	rec := models.FinancialRecord{
		Row:          raw.Row,
		Tipo:         tipo,
		DataEfetiva:  date.Time,
		ValorEfetivo: amount.Value,
		Categoria:    c.Fields.Categoria.Lookup(raw).String(),
		Descricao:    c.Fields.Descricao.Lookup(raw).String(),
		Status:       status,
		Conta:        c.Fields.Conta.Lookup(raw).String(),
		Contato:      c.Fields.Contato.Lookup(raw).String(),
		CPFCNPJ:      c.Fields.CPFCNPJ.Lookup(raw).String(),
		RazaoSocial:  c.Fields.RazaoSocial.Lookup(raw).String(),
		Forma:        c.Fields.Forma.Lookup(raw).String(),
		Observacoes:  c.Fields.Observacoes.Lookup(raw).String(),
		DateDegraded: date.Degraded,
	}
	if created := c.Fields.DataCriacao.Lookup(raw); !created.IsBlank() {
		if ts := c.Normalizer.ParseDate(created); !ts.Degraded {
			rec.DataCriacao = &ts.Time
		}
	}

	out := Outcome{DateDegraded: date.Degraded, ValueDegraded: amount.Degraded}
	if amount.Value.IsZero() {
		out.Verdict = VerdictSkip
		out.Reason = SkipZeroValue
		if amount.Degraded {
			out.Reason = SkipUnparsableValue
		}
		return out
	}
	out.Verdict = VerdictRecord
	out.Record = rec
	return out
}

// Result is the output of a pipeline run.
type Result struct {
	Mode    Mode
	Records []models.FinancialRecord
	// Skipped counts dropped rows per reason.
	Skipped map[SkipReason]int
	// DegradedDates counts kept records whose date fell back to now.
	DegradedDates int
}

// SkippedTotal returns the number of dropped rows.
func (r *Result) SkippedTotal() int {
	n := 0
	for _, v := range r.Skipped {
		n += v
	}
	return n
}

// Run classifies raws in order. In ModeReconciled the first invalid type
// aborts the run with a *ClassificationError; in ModeAllStatus such rows
// are counted as skipped. Rules that fail validation return ErrInvalidRules.
func (c *Classifier) Run(raws []models.RawRecord, mode Mode) (*Result, error) {
	if err := c.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRules, err)
	}

	log := c.logger().With(zap.String(dlog.FieldPipeline, string(mode)))
	res := &Result{Mode: mode, Skipped: make(map[SkipReason]int)}
	filterStatus := mode == ModeReconciled

	for _, raw := range raws {
		out := c.Classify(raw, filterStatus)
		switch out.Verdict {
		case VerdictInvalid:
			if mode == ModeReconciled {
				log.Warn("classification aborted", zap.Int(dlog.FieldRow, raw.Row), zap.Error(out.Err))
				return nil, out.Err
			}
			res.Skipped[SkipInvalidType]++
		case VerdictSkip:
			res.Skipped[out.Reason]++
			if out.Reason == SkipUnparsableValue {
				log.Debug("unparsable value", zap.Int(dlog.FieldRow, raw.Row))
			}
		case VerdictRecord:
			if out.DateDegraded {
				res.DegradedDates++
				log.Debug("unparsable date, using current time", zap.Int(dlog.FieldRow, raw.Row))
			}
			res.Records = append(res.Records, out.Record)
		}
	}

	log.Debug("classification finished",
		zap.Int("input", len(raws)),
		zap.Int(dlog.FieldRecords, len(res.Records)),
		zap.Int("skipped", res.SkippedTotal()),
		zap.Int("degraded_dates", res.DegradedDates),
	)
	return res, nil
}
