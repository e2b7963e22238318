package counting_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Conteo-api/internal/application/dto"
	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
)

func TestCreateSession_CapturaBaselineDesdeSnapshot(t *testing.T) {
	env := newCountingEnv()
	env.snapshotRepo.byStore["store-1"] = map[string]int{"SKU-A": 20, "SKU-B": 5}

	session, err := env.sessions.CreateSession(context.Background(), "user-1", dto.CreateSessionRequest{
		StoreID: "store-1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SessionDraft, session.Status)
	assert.Equal(t, "pos_snapshot", session.BaselineSource)
	assert.False(t, session.BaselineCapturedAt.IsZero())

	baseline, err := env.baselineRepo.GetBySession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"SKU-A": 20, "SKU-B": 5}, baseline)
}

func TestCreateSession_BaselineManual(t *testing.T) {
	env := newCountingEnv()

	session, err := env.sessions.CreateSession(context.Background(), "user-1", dto.CreateSessionRequest{
		StoreID:        "store-1",
		BaselineSource: "manual",
		ManualBaseline: []dto.ManualBaselineEntry{
			{SKU: "SKU-A", Qty: 12},
			{SKU: "SKU-B", Qty: 0},
		},
	})
	require.NoError(t, err)

	baseline, err := env.baselineRepo.GetBySession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"SKU-A": 12, "SKU-B": 0}, baseline)
}

func TestCreateSession_BaselineManualInvalido(t *testing.T) {
	env := newCountingEnv()

	_, err := env.sessions.CreateSession(context.Background(), "user-1", dto.CreateSessionRequest{
		StoreID:        "store-1",
		BaselineSource: "manual",
		ManualBaseline: []dto.ManualBaselineEntry{{SKU: "SKU-A", Qty: -3}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateSession_SinStoreFalla(t *testing.T) {
	env := newCountingEnv()

	_, err := env.sessions.CreateSession(context.Background(), "user-1", dto.CreateSessionRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreatePass_ArrancaSesionDraft(t *testing.T) {
	env := newCountingEnv()
	env.addLocation("loc-1", "store-1", "FOH_DISPLAY")
	session := mustCreateSession(t, env, "store-1")

	pass, err := env.sessions.CreatePass(context.Background(), session.ID, "user-1", dto.CreatePassRequest{
		LocationID: "loc-1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PassInProgress, pass.Status)
	assert.Equal(t, "scanner", pass.ScanMode)

	stored, err := env.sessions.GetSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionInProgress, stored.Status)
}

func TestCreatePass_UbicacionDeOtraTiendaFalla(t *testing.T) {
	env := newCountingEnv()
	env.addLocation("loc-otra", "store-2", "BOH_STORAGE")
	session := mustCreateSession(t, env, "store-1")

	_, err := env.sessions.CreatePass(context.Background(), session.ID, "user-1", dto.CreatePassRequest{
		LocationID: "loc-otra",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddLine_ReescaneoIncrementaLineaExistente(t *testing.T) {
	env := newCountingEnv()
	env.addLocation("loc-1", "store-1", "FOH_DISPLAY")
	env.addProduct("SKU-A", "V-100", "Blue Dream 3.5g", "Flower", "Dried Flower")
	session := mustCreateSession(t, env, "store-1")
	pass := mustCreatePass(t, env, session.ID, "loc-1", "")

	first, err := env.sessions.AddLine(context.Background(), pass.ID, "user-1", dto.AddLineRequest{
		Barcode: "SKU-A",
	})
	require.NoError(t, err)
	assert.False(t, first.Incremented)
	assert.Equal(t, 1, first.Line.CountedQty)
	require.NotNil(t, first.Product)
	assert.Equal(t, "Blue Dream 3.5g", first.Product.Name)

	second, err := env.sessions.AddLine(context.Background(), pass.ID, "user-1", dto.AddLineRequest{
		Barcode:    "SKU-A",
		CountedQty: 4,
	})
	require.NoError(t, err)
	assert.True(t, second.Incremented)
	assert.Equal(t, 1, second.PreviousQty)
	assert.Equal(t, 5, second.Line.CountedQty)

	lines, err := env.sessions.ListLines(pass.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestAddLine_ResuelvePorVendorSKU(t *testing.T) {
	env := newCountingEnv()
	env.addLocation("loc-1", "store-1", "FOH_DISPLAY")
	env.addProduct("SKU-A", "V-100", "Blue Dream 3.5g", "Flower", "Dried Flower")
	session := mustCreateSession(t, env, "store-1")
	pass := mustCreatePass(t, env, session.ID, "loc-1", "")

	resp, err := env.sessions.AddLine(context.Background(), pass.ID, "user-1", dto.AddLineRequest{
		Barcode: "V-100",
	})
	require.NoError(t, err)
	assert.Equal(t, "SKU-A", resp.Line.SKU)
	assert.Equal(t, "V-100", resp.Line.Barcode)
}

func TestAddLine_BarcodeDesconocidoEs404(t *testing.T) {
	env := newCountingEnv()
	env.addLocation("loc-1", "store-1", "FOH_DISPLAY")
	session := mustCreateSession(t, env, "store-1")
	pass := mustCreatePass(t, env, session.ID, "loc-1", "")

	_, err := env.sessions.AddLine(context.Background(), pass.ID, "user-1", dto.AddLineRequest{
		Barcode: "NO-EXISTE",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddLine_FueraDeScopeDeCategoria(t *testing.T) {
	env := newCountingEnv()
	env.addLocation("loc-1", "store-1", "FOH_DISPLAY")
	env.addProduct("SKU-GUMMY", "", "Sour Gummies", "Edibles", "Gummies")
	session := mustCreateSession(t, env, "store-1")
	pass := mustCreatePass(t, env, session.ID, "loc-1", "Flower")

	_, err := env.sessions.AddLine(context.Background(), pass.ID, "user-1", dto.AddLineRequest{
		Barcode: "SKU-GUMMY",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddLine_PassEnviadoRechazaEscaneos(t *testing.T) {
	env := newCountingEnv()
	env.addLocation("loc-1", "store-1", "FOH_DISPLAY")
	env.addProduct("SKU-A", "", "Blue Dream 3.5g", "Flower", "Dried Flower")
	session := mustCreateSession(t, env, "store-1")
	pass := mustCreatePass(t, env, session.ID, "loc-1", "")

	_, err := env.sessions.SubmitPass(context.Background(), pass.ID, "user-1")
	require.NoError(t, err)

	_, err = env.sessions.AddLine(context.Background(), pass.ID, "user-1", dto.AddLineRequest{
		Barcode: "SKU-A",
	})
	assert.ErrorIs(t, err, domain.ErrPassSubmitted)
}

func TestUpdateLine_MarcaConfidenceCorrected(t *testing.T) {
	env := newCountingEnv()
	env.addLocation("loc-1", "store-1", "FOH_DISPLAY")
	env.addProduct("SKU-A", "", "Blue Dream 3.5g", "Flower", "Dried Flower")
	session := mustCreateSession(t, env, "store-1")
	pass := mustCreatePass(t, env, session.ID, "loc-1", "")

	resp, err := env.sessions.AddLine(context.Background(), pass.ID, "user-1", dto.AddLineRequest{
		Barcode: "SKU-A", CountedQty: 3,
	})
	require.NoError(t, err)

	qty := 7
	updated, err := env.sessions.UpdateLine(context.Background(), resp.Line.ID, "user-2", dto.UpdateLineRequest{
		CountedQty: &qty,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.CountedQty)
	assert.Equal(t, entity.ConfidenceCorrected, updated.Confidence)
	assert.Equal(t, "user-2", updated.CapturedBy)
}

func TestDeleteLine_SoloConPassInProgress(t *testing.T) {
	env := newCountingEnv()
	env.addLocation("loc-1", "store-1", "FOH_DISPLAY")
	env.addProduct("SKU-A", "", "Blue Dream 3.5g", "Flower", "Dried Flower")
	session := mustCreateSession(t, env, "store-1")
	pass := mustCreatePass(t, env, session.ID, "loc-1", "")

	resp, err := env.sessions.AddLine(context.Background(), pass.ID, "user-1", dto.AddLineRequest{
		Barcode: "SKU-A",
	})
	require.NoError(t, err)

	_, err = env.sessions.SubmitPass(context.Background(), pass.ID, "user-1")
	require.NoError(t, err)

	err = env.sessions.DeleteLine(context.Background(), resp.Line.ID)
	assert.ErrorIs(t, err, domain.ErrPassSubmitted)
}

func TestSubmitSession_ConPassesAbiertosFalla(t *testing.T) {
	env := newCountingEnv()
	env.addLocation("loc-1", "store-1", "FOH_DISPLAY")
	session := mustCreateSession(t, env, "store-1")
	mustCreatePass(t, env, session.ID, "loc-1", "")

	_, err := env.sessions.SubmitSession(session.ID)
	assert.ErrorIs(t, err, domain.ErrOpenPasses)
}

func TestSubmitSession_ConPassesResueltosOK(t *testing.T) {
	env := newCountingEnv()
	env.addLocation("loc-1", "store-1", "FOH_DISPLAY")
	session := mustCreateSession(t, env, "store-1")
	pass := mustCreatePass(t, env, session.ID, "loc-1", "")

	_, err := env.sessions.SubmitPass(context.Background(), pass.ID, "user-1")
	require.NoError(t, err)

	submitted, err := env.sessions.SubmitSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionSubmitted, submitted.Status)
}

func TestVoidPass_SoloDesdeInProgress(t *testing.T) {
	env := newCountingEnv()
	env.addLocation("loc-1", "store-1", "FOH_DISPLAY")
	session := mustCreateSession(t, env, "store-1")
	pass := mustCreatePass(t, env, session.ID, "loc-1", "")

	_, err := env.sessions.SubmitPass(context.Background(), pass.ID, "user-1")
	require.NoError(t, err)

	_, err = env.sessions.VoidPass(context.Background(), pass.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCloseSession_EsTerminal(t *testing.T) {
	env := newCountingEnv()
	env.addLocation("loc-1", "store-1", "FOH_DISPLAY")
	session := mustCreateSession(t, env, "store-1")
	pass := mustCreatePass(t, env, session.ID, "loc-1", "")

	_, err := env.sessions.SubmitPass(context.Background(), pass.ID, "user-1")
	require.NoError(t, err)
	_, err = env.sessions.SubmitSession(session.ID)
	require.NoError(t, err)

	closed, err := env.sessions.CloseSession(session.ID, "manager-1")
	require.NoError(t, err)
	assert.Equal(t, entity.SessionClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)
	assert.Equal(t, "manager-1", closed.ClosedBy)

	_, err = env.sessions.StartSession(session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionClosed)

	_, err = env.sessions.CreatePass(context.Background(), session.ID, "user-1", dto.CreatePassRequest{
		LocationID: "loc-1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func mustCreateSession(t *testing.T, env *countingEnv, storeID string) *entity.CountSession {
	t.Helper()
	session, err := env.sessions.CreateSession(context.Background(), "user-1", dto.CreateSessionRequest{
		StoreID: storeID,
	})
	require.NoError(t, err)
	return session
}

func mustCreatePass(t *testing.T, env *countingEnv, sessionID, locationID, category string) *entity.CountPass {
	t.Helper()
	pass, err := env.sessions.CreatePass(context.Background(), sessionID, "user-1", dto.CreatePassRequest{
		LocationID: locationID,
		Category:   category,
	})
	require.NoError(t, err)
	return pass
}
