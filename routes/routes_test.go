package routes

import (
	"IPDLedger/config"
	"IPDLedger/models"
	"IPDLedger/utils"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func newTestRouter(t *testing.T) (http.Handler, *utils.TokenIssuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens, err := utils.NewTokenIssuer("0123456789abcdef0123456789abcdef")
	assert.NoError(t, err)
	cfg := &config.AppConfig{Env: "development", RateLimitRPS: 1000, RateLimitBurst: 1000}
	return SetupRoutes(cfg, zerolog.Nop(), &Services{}, tokens), tokens
}

func TestLiveness(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ipd-ledger")
}

// Requests rejected before reaching a handler never touch the (empty) services.
func TestRouteRoles(t *testing.T) {
	router, tokens := newTestRouter(t)
	token := func(role string) string {
		tok, err := tokens.GenerateAccessToken("1", role)
		assert.NoError(t, err)
		return tok
	}

	tests := []struct {
		method string
		path   string
		role   string
		status int
	}{
		{http.MethodGet, "/ledger?admissionId=a", "", http.StatusUnauthorized},
		{http.MethodPost, "/ledger", models.RoleDoctor, http.StatusForbidden},
		{http.MethodPost, "/ledger/bed-charge", models.RoleReceptionist, http.StatusForbidden},
		{http.MethodPost, "/ledger/bed-charge", models.RoleDoctor, http.StatusForbidden},
		{http.MethodPost, "/admissions", models.RoleNurse, http.StatusForbidden},
		{http.MethodPut, "/admissions", models.RoleReceptionist, http.StatusForbidden},
		{http.MethodPost, "/finalize", models.RoleNurse, http.StatusForbidden},
		{http.MethodPost, "/ipd/finalize", models.RoleDoctor, http.StatusForbidden},
		{http.MethodPost, "/auth/users", models.RoleNurse, http.StatusForbidden},
		{http.MethodPost, "/beds", models.RoleReceptionist, http.StatusForbidden},
		{http.MethodPost, "/patients", models.RoleNurse, http.StatusForbidden},
		{http.MethodGet, "/auth/me", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path+" "+tt.role, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.role != "" {
				req.Header.Set("Authorization", "Bearer "+token(tt.role))
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
