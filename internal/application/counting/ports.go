package counting

import (
	"context"

	"github.com/jhoicas/Conteo-api/internal/application/dto"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Serializa las mutaciones por entidad que lo
// exigen: submit de pass vs inserción de líneas.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		passRepo repository.CountPassRepository,
		lineRepo repository.CountLineRepository,
	) error) error
}

// VariancePDFGenerator genera la representación PDF de un reporte de varianza
// (para imprimir o adjuntar al cierre del conteo).
type VariancePDFGenerator interface {
	GenerateVariancePDF(ctx context.Context, report *dto.VarianceReport) ([]byte, error)
}
