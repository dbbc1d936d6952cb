package reconcile

import "github.com/ukaji3/dreconcile-go/pkg/dreconcile/models"

// FieldMatcher locates one logical field among a record's labels.
//
// The first label, in declaration order, that contains every Contains needle
// (case-insensitively) wins and its value is returned as is, even when blank.
// When no label matches, or Contains is empty, the Fallbacks are tried as
// exact labels and the first non-blank value is returned.
type FieldMatcher struct {
	Field     string
	Contains  []string
	Fallbacks []string
}

// Resolve returns the label the matcher selects by substring search.
func (m FieldMatcher) Resolve(labels []string) (string, bool) {
	if len(m.Contains) == 0 {
		return "", false
	}
	for _, label := range labels {
		if containsAll(label, m.Contains) {
			return label, true
		}
	}
	return "", false
}

// Lookup returns the field value of rec, or an empty cell.
func (m FieldMatcher) Lookup(rec models.RawRecord) models.Cell {
	if label, ok := m.Resolve(rec.Labels()); ok {
		v, _ := rec.Get(label)
		return v
	}
	for _, label := range m.Fallbacks {
		if v, ok := rec.Get(label); ok && !v.IsBlank() {
			return v
		}
	}
	return models.EmptyCell()
}

// FieldTable is the resolution table for every field of a FinancialRecord.
type FieldTable struct {
	Tipo        FieldMatcher
	Valor       FieldMatcher
	Data        FieldMatcher
	DataCriacao FieldMatcher
	Status      FieldMatcher
	Categoria   FieldMatcher
	Descricao   FieldMatcher
	Conta       FieldMatcher
	Contato     FieldMatcher
	CPFCNPJ     FieldMatcher
	RazaoSocial FieldMatcher
	Forma       FieldMatcher
	Observacoes FieldMatcher
}

// DefaultFields returns the resolution table for the ledger export layout.
func DefaultFields() FieldTable {
	return FieldTable{
		Tipo: FieldMatcher{
			Field:     "tipo",
			Contains:  []string{"tipo"},
			Fallbacks: []string{"Tipo", "TIPO"},
		},
		Valor: FieldMatcher{
			Field:     "valorEfetivo",
			Contains:  []string{"valor", "efet"},
			Fallbacks: []string{"Valor efetivo", "VALOR EFETIVO", "Valor Efetivo"},
		},
		Data: FieldMatcher{
			Field:     "dataEfetiva",
			Contains:  []string{"data", "efet"},
			Fallbacks: []string{"Data efetiva", "DATA EFETIVA", "Data Efetiva"},
		},
		DataCriacao: FieldMatcher{
			Field:     "dataCriacao",
			Contains:  []string{"data", "cria"},
			Fallbacks: []string{"Data de criação", "dataCriacao", "data_criacao", "Data Criacao"},
		},
		Status:      exact("status", "Status", "status"),
		Categoria:   exact("categoria", "Categoria", "categoria", "Category", "category"),
		Descricao:   exact("descricao", "Descrição", "descricao", "Descricao", "Description", "description"),
		Conta:       exact("conta", "Conta", "conta", "Account", "account"),
		Contato:     exact("contato", "Contato", "contato", "Contact", "contact"),
		CPFCNPJ:     exact("cpfCnpj", "CPF/CNPJ", "cpfCnpj", "cpf_cnpj", "CPF CNPJ"),
		RazaoSocial: exact("razaoSocial", "Razão social", "razaoSocial", "razao_social", "Razao Social"),
		Forma:       exact("forma", "Forma", "forma", "Form", "form"),
		Observacoes: exact("observacoes", "Observações", "observacoes", "Observacoes", "Notes", "notes"),
	}
}

func exact(field string, labels ...string) FieldMatcher {
	return FieldMatcher{Field: field, Fallbacks: labels}
}
