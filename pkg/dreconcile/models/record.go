package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ISOLayout is the timestamp layout used for effective and creation dates.
const ISOLayout = "2006-01-02T15:04:05"

// RawRecord maps header labels to the values of one data row.
// Labels keep the order in which the header row declared them; a label
// declared twice keeps its first position and its last value.
type RawRecord struct {
	// Row is the sheet row the values came from (1-based).
	Row    int
	labels []string
	values map[string]Cell
}

// NewRawRecord returns an empty record for the given sheet row.
func NewRawRecord(row int) RawRecord {
	return RawRecord{Row: row, values: make(map[string]Cell)}
}

// Set assigns a value to a label.
func (r *RawRecord) Set(label string, v Cell) {
	if r.values == nil {
		r.values = make(map[string]Cell)
	}
	if _, ok := r.values[label]; !ok {
		r.labels = append(r.labels, label)
	}
	r.values[label] = v
}

// Get returns the value stored under an exact label.
func (r RawRecord) Get(label string) (Cell, bool) {
	v, ok := r.values[label]
	return v, ok
}

// Labels returns the labels in declaration order.
func (r RawRecord) Labels() []string {
	out := make([]string, len(r.labels))
	copy(out, r.labels)
	return out
}

// Len returns the number of labels.
func (r RawRecord) Len() int { return len(r.labels) }

// MarshalJSON encodes the record as a label -> value object.
func (r RawRecord) MarshalJSON() ([]byte, error) {
	return marshalCellMap(r.values)
}

// EntryType is the validated type of a ledger entry.
type EntryType string

const (
	// EntryReceita is a revenue entry.
	EntryReceita EntryType = "Receita"
	// EntryDespesa is a cost or expense entry.
	EntryDespesa EntryType = "Despesa"
)

// FinancialRecord is the canonical ledger entry produced by classification.
// ValorEfetivo is never zero.
type FinancialRecord struct {
	Row          int             `json:"row"`
	Tipo         EntryType       `json:"tipo"`
	DataEfetiva  time.Time       `json:"dataEfetiva"`
	ValorEfetivo decimal.Decimal `json:"valorEfetivo"`
	Categoria    string          `json:"categoria"`
	Descricao    string          `json:"descricao"`

	Status      string     `json:"status,omitempty"`
	Conta       string     `json:"conta,omitempty"`
	Contato     string     `json:"contato,omitempty"`
	CPFCNPJ     string     `json:"cpfCnpj,omitempty"`
	RazaoSocial string     `json:"razaoSocial,omitempty"`
	Forma       string     `json:"forma,omitempty"`
	Observacoes string     `json:"observacoes,omitempty"`
	DataCriacao *time.Time `json:"dataCriacao,omitempty"`

	// DateDegraded is set when the effective date could not be parsed and
	// the wall clock was used instead.
	DateDegraded bool `json:"dateDegraded,omitempty"`
}

// DataEfetivaISO returns the effective date as an ISO-8601 timestamp.
func (r FinancialRecord) DataEfetivaISO() string {
	return r.DataEfetiva.Format(ISOLayout)
}
