package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Conteo-api/internal/application/counting"
	"github.com/jhoicas/Conteo-api/internal/application/upstock"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

var _ counting.TxRunner = (*TxRunner)(nil)
var _ upstock.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con repos de passes y líneas atados a la tx y
// hace Commit o Rollback. Junto con GetForUpdate serializa el submit del pass
// contra la inserción de líneas.
func (r *TxRunner) Run(ctx context.Context, fn func(
	passRepo repository.CountPassRepository,
	lineRepo repository.CountLineRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewCountPassRepository(tx), NewCountLineRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunUpstock inicia una transacción con el repo de runs atado a la tx (para
// serializar la creación de runs por tienda/ubicación).
func (r *TxRunner) RunUpstock(ctx context.Context, fn func(runRepo repository.UpstockRunRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewUpstockRunRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
