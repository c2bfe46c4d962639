// AngelaMos | 2026
// handler_test.go

package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/admin-backoffice/internal/adminauth"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/core"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/middleware"
	"github.com/carterperez-dev/templates/admin-backoffice/internal/profile"
)

const (
	adminID  = "0b6c2f0e-3f6a-4c59-9a43-1f1f3c1f0a01"
	targetID = "5a7d8b0e-9c1f-4e2b-8f3a-2d4c6e8f0b12"
)

type tokenVerifier struct{}

func (tokenVerifier) VerifyAccessToken(_ context.Context, token string) (*middleware.SessionClaims, error) {
	if token != "admin-token" {
		return nil, core.ErrTokenInvalid
	}
	return &middleware.SessionClaims{PrincipalID: adminID}, nil
}

type onlyAdmin struct{}

func (onlyAdmin) IsAdmin(_ context.Context, id string) bool { return id == adminID }

func newUsersRouter(svc *Service) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		NewHandler(svc).RegisterAdminRoutes(r,
			middleware.Authenticator(tokenVerifier{}),
			middleware.RequireAdmin(onlyAdmin{}),
		)
	})
	return r
}

func doRequest(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestListUsersHandler(t *testing.T) {
	profiles := &fakeProfiles{rows: []profile.Profile{{ID: targetID}}, total: 1}
	router := newUsersRouter(NewService(profiles, &fakePrincipals{}, &fakeSetter{}, nil))

	rec := doRequest(router, http.MethodGet,
		"/api/users?page=1&limit=5&search=kim&verificationStatus=verified&sortBy=full_name&sortOrder=asc", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body UserListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.TotalCount)
	assert.False(t, body.HasMore)
	require.Len(t, body.Users, 1)

	assert.Equal(t, profile.ListParams{
		Page:               1,
		PageSize:           5,
		Search:             "kim",
		VerificationStatus: profile.VerificationVerified,
		SortBy:             profile.SortFullName,
		SortOrder:          profile.SortAsc,
	}, profiles.gotParams)
}

func TestUpdateVerificationHandler(t *testing.T) {
	t.Run("grant records acting admin", func(t *testing.T) {
		setter := &fakeSetter{}
		router := newUsersRouter(NewService(&fakeProfiles{}, &fakePrincipals{}, setter, nil))

		rec := doRequest(router, http.MethodPatch, "/api/users",
			`{"userId":"`+targetID+`","verified":true,"notes":"initial setup"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())

		require.Len(t, setter.calls, 1)
		assert.Equal(t, setCall{targetID, true, "initial setup", adminID}, setter.calls[0])
	})

	t.Run("validation", func(t *testing.T) {
		router := newUsersRouter(NewService(&fakeProfiles{}, &fakePrincipals{}, &fakeSetter{}, nil))

		for _, body := range []string{
			`{"verified":true}`,
			`{"userId":"` + targetID + `"}`,
			`{"userId":"not-a-uuid","verified":true}`,
			`{"userId":`,
		} {
			rec := doRequest(router, http.MethodPatch, "/api/users", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		setter := &fakeSetter{err: &adminauth.VerificationUpdateFailedError{
			PrincipalID: targetID,
			Err:         assert.AnError,
		}}
		router := newUsersRouter(NewService(&fakeProfiles{}, &fakePrincipals{}, setter, nil))

		rec := doRequest(router, http.MethodPatch, "/api/users",
			`{"userId":"`+targetID+`","verified":false}`)
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		var body core.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "VERIFICATION_UPDATE_FAILED", body.Code)
	})
}

func TestUsersRoutesRequireAdmin(t *testing.T) {
	router := newUsersRouter(NewService(&fakeProfiles{}, &fakePrincipals{}, &fakeSetter{}, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
