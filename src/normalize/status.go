// backend/src/normalize/status.go
package normalize

import (
	"strings"

	"github.com/alyal/vendalytics/backend/src/models"
)

// statusAliases maps accent-stripped, lower-cased status spellings to the
// four canonical statuses. Ingestion and metrics share this single table;
// two diverging copies would let a record be imported under one spelling and
// reported under another.
var statusAliases = map[string]string{
	// pago
	"pago":                models.StatusPago,
	"paid":                models.StatusPago,
	"preparando":          models.StatusPago,
	"em preparacao":       models.StatusPago,
	"pagamento aprovado":  models.StatusPago,
	"pronto para envio":   models.StatusPago,
	"aguardando coleta":   models.StatusPago,
	"processando":         models.StatusPago,

	// enviado
	"enviado":      models.StatusEnviado,
	"shipped":      models.StatusEnviado,
	"a caminho":    models.StatusEnviado,
	"em andamento": models.StatusEnviado,
	"em transito":  models.StatusEnviado,

	// entregue
	"entregue":  models.StatusEntregue,
	"delivered": models.StatusEntregue,
	"concluido": models.StatusEntregue,
	"completo":  models.StatusEntregue,

	// cancelado
	"cancelado": models.StatusCancelado,
	"cancelled": models.StatusCancelado,
	"canceled":  models.StatusCancelado,
	"pacote cancelado pelo mercado livre": models.StatusCancelado,
}

// Status normalizes a marketplace status string into the canonical vocabulary.
// An empty status defaults to "pago" (marketplaces omit the status on freshly
// approved orders). A non-empty status that matches no alias passes through in
// its normalized form: novel statuses must show up in breakdowns so an
// operator notices the gap, never crash the import.
func Status(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return models.StatusPago
	}
	s = strings.Join(strings.Fields(StripAccents(s)), " ")
	if canonical, ok := statusAliases[s]; ok {
		return canonical
	}
	return s
}
