package handler_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "selfid/internal/jwt_token"
	"selfid/internal/platform/middleware"
	"selfid/internal/registry/clock"
	"selfid/internal/registry/handler"
	"selfid/internal/registry/models"
	"selfid/internal/registry/service"
	"selfid/internal/registry/store"
	id "selfid/pkg/domain"
)

const (
	adminPrincipal = "admin"
	aliceDID       = "did:example:alice"
)

type registryEnv struct {
	router *chi.Mux
	tokens *jwttoken.Service
}

func newRegistryEnv(t *testing.T) *registryEnv {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	svc, err := service.New(store.NewInMemory(adminPrincipal), &clock.Manual{}, service.WithLogger(logger))
	require.NoError(t, err)

	tokens := jwttoken.NewService("test-signing-key", "selfid", "selfid-registry")
	h := handler.New(svc, logger)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwttoken.NewServiceAdapter(tokens), logger))
		h.Register(r)
	})
	router.Group(h.RegisterReads)

	return &registryEnv{router: router, tokens: tokens}
}

func (e *registryEnv) do(t *testing.T, method, path string, principal id.Principal, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if !principal.IsZero() {
		token, err := e.tokens.IssueToken(principal, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestMutatingRoutesRequireAuth(t *testing.T) {
	env := newRegistryEnv(t)

	rec := env.do(t, http.MethodPost, "/registry/identities", id.ZeroPrincipal,
		models.RegisterIdentityRequest{DID: aliceDID})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterIdentity(t *testing.T) {
	env := newRegistryEnv(t)

	rec := env.do(t, http.MethodPost, "/registry/identities", "alice",
		models.RegisterIdentityRequest{DID: aliceDID})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, decodeBody[models.ValueResponse](t, rec).Value)

	t.Run("double registration conflicts", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/registry/identities", "alice",
			models.RegisterIdentityRequest{DID: "did:example:other"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("malformed did is a bad request", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/registry/identities", "bob",
			models.RegisterIdentityRequest{DID: "too-short"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed json is a bad request", func(t *testing.T) {
		token, err := env.tokens.IssueToken("bob", time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/registry/identities", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateDID(t *testing.T) {
	env := newRegistryEnv(t)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/registry/identities", "alice",
		models.RegisterIdentityRequest{DID: aliceDID}).Code)

	rec := env.do(t, http.MethodPut, "/registry/identities/did", "alice",
		models.UpdateDIDRequest{DID: "did:example:renamed"})
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("old did stops resolving", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/registry/dids/"+aliceDID, id.ZeroPrincipal, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("new did resolves to the owner", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/registry/dids/did:example:renamed", id.ZeroPrincipal, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alice", decodeBody[models.OwnerResponse](t, rec).Owner)
	})

	t.Run("unregistered caller gets 404", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/registry/identities/did", "carol",
			models.UpdateDIDRequest{DID: "did:example:carol"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCredentialLifecycle(t *testing.T) {
	env := newRegistryEnv(t)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/registry/identities", "alice",
		models.RegisterIdentityRequest{DID: aliceDID}).Code)

	rec := env.do(t, http.MethodPost, "/registry/identities/credentials", "alice",
		models.LinkCredentialRequest{CredentialID: "cred:degree"})
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("duplicate link conflicts", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/registry/identities/credentials", "alice",
			models.LinkCredentialRequest{CredentialID: "cred:degree"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("identity read shows the credential", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/registry/identities/alice", id.ZeroPrincipal, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		ident := decodeBody[models.Identity](t, rec)
		assert.Equal(t, []id.CredentialID{"cred:degree"}, ident.Credentials)
	})

	t.Run("unlink removes it", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/registry/identities/credentials/cred:degree", "alice", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodDelete, "/registry/identities/credentials/cred:degree", "alice", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, "second unlink must miss")
	})
}

func TestAdminEndpoints(t *testing.T) {
	env := newRegistryEnv(t)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/registry/identities", "alice",
		models.RegisterIdentityRequest{DID: aliceDID}).Code)

	t.Run("non-admin cannot pause", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/registry/admin/pause", "alice",
			models.SetPausedRequest{Paused: true})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin pauses and mutations 503", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/registry/admin/pause", adminPrincipal,
			models.SetPausedRequest{Paused: true})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decodeBody[models.ValueResponse](t, rec).Value)

		rec = env.do(t, http.MethodPost, "/registry/identities", "bob",
			models.RegisterIdentityRequest{DID: "did:example:bob01"})
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("reads keep working while paused", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/registry/status", id.ZeroPrincipal, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		status := decodeBody[models.StatusResponse](t, rec)
		assert.True(t, status.Paused)
		assert.Equal(t, adminPrincipal, status.Admin)
		assert.Equal(t, uint64(1), status.TotalIdentities)
	})

	t.Run("transfer moves authority", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/registry/admin/transfer", adminPrincipal,
			models.TransferAdminRequest{NewAdmin: "operator"})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodPost, "/registry/admin/pause", adminPrincipal,
			models.SetPausedRequest{Paused: false})
		assert.Equal(t, http.StatusForbidden, rec.Code, "old admin must be powerless")

		rec = env.do(t, http.MethodPost, "/registry/admin/pause", "operator",
			models.SetPausedRequest{Paused: false})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("transfer to the null identity is rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/registry/admin/transfer", "operator",
			models.TransferAdminRequest{NewAdmin: ""})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestReadEndpoints(t *testing.T) {
	env := newRegistryEnv(t)

	t.Run("unknown user is 404", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/registry/identities/nobody", id.ZeroPrincipal, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("registered flag is false for unknown user", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/registry/identities/nobody/registered", id.ZeroPrincipal, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, decodeBody[models.ValueResponse](t, rec).Value)
	})

	t.Run("status reports the initial configuration", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/registry/status", id.ZeroPrincipal, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		status := decodeBody[models.StatusResponse](t, rec)
		assert.Equal(t, adminPrincipal, status.Admin)
		assert.False(t, status.Paused)
		assert.Zero(t, status.TotalIdentities)
	})
}
