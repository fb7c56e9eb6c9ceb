package middleware

import (
	"gradebook/internal/common/security"
	"gradebook/internal/domain/model"
	"gradebook/internal/platform/config"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedRouter(t *testing.T) http.Handler {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey: []byte("test-secret"),
		JWTExp: time.Hour,
	}
	security.InitJWT()

	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(security.TokenAuth))
	r.Route("/teacher", func(teacher chi.Router) {
		teacher.Use(Authenticator)
		teacher.Use(RequireRole(model.RoleTeacher))
		teacher.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetIdentityFromContext(r.Context())
			require.True(t, ok)
			w.Write([]byte(identity.UserID))
		})
	})
	return r
}

func doRequest(t *testing.T, router http.Handler, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/teacher/whoami", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticatorMissingToken(t *testing.T) {
	router := protectedRouter(t)
	rec := doRequest(t, router, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatorBadToken(t *testing.T) {
	router := protectedRouter(t)
	rec := doRequest(t, router, "not.a.token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatorForeignKeyToken(t *testing.T) {
	router := protectedRouter(t)

	foreign := jwtauth.New("HS256", []byte("another-secret"), nil)
	_, token, err := foreign.Encode(map[string]interface{}{
		"user_id": "u1",
		"role":    model.RoleTeacher,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	rec := doRequest(t, router, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleRejectsOtherRoles(t *testing.T) {
	router := protectedRouter(t)

	for _, role := range []string{model.RoleStudent, model.RoleAdmin} {
		token, err := security.GenerateToken("u1", role)
		require.NoError(t, err)
		rec := doRequest(t, router, token)
		assert.Equal(t, http.StatusForbidden, rec.Code, "role %s", role)
	}
}

func TestRequireRoleAllowsMatch(t *testing.T) {
	router := protectedRouter(t)

	token, err := security.GenerateToken("u1", model.RoleTeacher)
	require.NoError(t, err)

	rec := doRequest(t, router, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())
}
