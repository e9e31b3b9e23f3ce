package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josoavj/prospectius-core/internal/application/auth"
	"github.com/josoavj/prospectius-core/internal/domain/entity"
	"github.com/josoavj/prospectius-core/internal/domain/repository"
	apphttp "github.com/josoavj/prospectius-core/internal/interfaces/http"
	"github.com/josoavj/prospectius-core/pkg/logger"
)

// stubSessionRepo ne connaît qu'une seule session.
type stubSessionRepo struct {
	session *entity.Session
}

func (r stubSessionRepo) Create(_ context.Context, _ *entity.Session) error { return nil }
func (r stubSessionRepo) GetActive(_ context.Context, id string, now time.Time) (*entity.Session, error) {
	if r.session != nil && r.session.ID == id && r.session.Valid(now) {
		return r.session, nil
	}
	return nil, nil
}
func (r stubSessionRepo) Invalidate(_ context.Context, _ string) error { return nil }

type stubAccountRepo struct{}

func (stubAccountRepo) Create(_ context.Context, _ *entity.Account, _ *int64) (int64, error) {
	return 0, nil
}
func (stubAccountRepo) GetByID(_ context.Context, _ int64) (*entity.Account, error) {
	return nil, nil
}
func (stubAccountRepo) GetCredentialsByEmail(_ context.Context, _ string) (*repository.Credentials, error) {
	return nil, nil
}
func (stubAccountRepo) Authenticate(_ context.Context, _, _, _ string) (*repository.AuthResult, error) {
	return nil, nil
}
func (stubAccountRepo) ListActive(_ context.Context) ([]entity.Account, error) { return nil, nil }

func buildSessionApp(session *entity.Session) *fiber.App {
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	uc := auth.NewUseCase(stubAccountRepo{}, stubSessionRepo{session: session}, 8*time.Hour, log)
	handler := apphttp.NewAuthHandler(uc)

	app := fiber.New()
	app.Get("/api/auth/session", apphttp.SessionMiddleware(uc), handler.Session)
	return app
}

func TestSession_Courante(t *testing.T) {
	expires := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	app := buildSessionApp(&entity.Session{
		ID:        validSessionID,
		AccountID: 7,
		ExpiresAt: expires,
		Active:    true,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+validSessionID)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, validSessionID, body["session_id"])
	assert.EqualValues(t, 7, body["user_id"])
	assert.Equal(t, expires.Format(time.RFC3339), body["date_expiration"])
}

func TestSession_Expiree(t *testing.T) {
	app := buildSessionApp(&entity.Session{
		ID:        validSessionID,
		AccountID: 7,
		ExpiresAt: time.Now().Add(-time.Minute),
		Active:    true,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+validSessionID)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
