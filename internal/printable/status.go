package printable

import (
	"strings"

	"github.com/pestdocs/pestdocs/internal/platform/textfold"
)

// statusAliases maps folded, uppercased, underscore-joined spellings to canonical codes.
var statusAliases = map[string]Status{
	"OPEN":         StatusOpen,
	"ABERTA":       StatusOpen,
	"ABERTO":       StatusOpen,
	"PENDENTE":     StatusOpen,
	"PENDING":      StatusOpen,
	"NEW":          StatusOpen,
	"NOVA":         StatusOpen,
	"IN_PROGRESS":  StatusInProgress,
	"INPROGRESS":   StatusInProgress,
	"SCHEDULED":    StatusInProgress,
	"AGENDADA":     StatusInProgress,
	"AGENDADO":     StatusInProgress,
	"EM_ANDAMENTO": StatusInProgress,
	"EM_EXECUCAO":  StatusInProgress,
	"COMPLETED":    StatusCompleted,
	"DONE":         StatusCompleted,
	"FINISHED":     StatusCompleted,
	"CONCLUIDA":    StatusCompleted,
	"CONCLUIDO":    StatusCompleted,
	"FINALIZADA":   StatusCompleted,
	"FINALIZADO":   StatusCompleted,
	"REALIZADA":    StatusCompleted,
	"CANCELLED":    StatusCancelled,
	"CANCELED":     StatusCancelled,
	"CANCELADA":    StatusCancelled,
	"CANCELADO":    StatusCancelled,
}

// NormalizeStatus maps any textual status encoding onto one of the four canonical
// values. Unknown input yields StatusOpen. NormalizeStatus(NormalizeStatus(x)) ==
// NormalizeStatus(x) for every x.
func NormalizeStatus(raw string) Status {
	v := strings.TrimSpace(raw)
	if i := strings.LastIndex(v, "."); i >= 0 {
		v = v[i+1:]
	}
	v = textfold.Upper(v)
	v = strings.Join(strings.FieldsFunc(v, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
	if s, ok := statusAliases[v]; ok {
		return s
	}
	return StatusOpen
}
