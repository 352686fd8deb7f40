package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpcontext "github.com/dtroode/gophaccounts-server/internal/api/http/context"
	"github.com/dtroode/gophaccounts-server/internal/apierrors"
	"github.com/dtroode/gophaccounts-server/internal/mocks"
	"github.com/dtroode/gophaccounts-server/internal/model"
	"github.com/dtroode/gophaccounts-server/internal/testutil"
)

func newGatedApp(t *testing.T, tokens TokenService) *fiber.App {
	t.Helper()

	cm := httpcontext.NewManager()
	auth := NewAuthenticate(tokens, cm, "auth", testutil.MakeNoopLogger())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			resp := apierrors.ToResponse(err, c.Path())
			return c.Status(resp.Status).JSON(resp)
		},
	})
	app.Get("/whoami", auth.Handle, func(c *fiber.Ctx) error {
		identity, ok := cm.GetIdentityFromContext(c.UserContext())
		if !ok {
			return fiber.ErrTeapot
		}
		return c.SendString(identity.Email)
	})
	return app
}

func TestAuthenticate_TokenSources(t *testing.T) {
	identity := model.Identity{AccountID: uuid.New(), Email: "peter@parker.com"}

	tests := []struct {
		name      string
		query     string
		prepare   func(r *http.Request)
		wantToken string
	}{
		{
			name:      "bearer header",
			prepare:   func(r *http.Request) { r.Header.Set("Authorization", "Bearer from-header") },
			wantToken: "from-header",
		},
		{
			name:      "cookie",
			prepare:   func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "auth", Value: "from-cookie"}) },
			wantToken: "from-cookie",
		},
		{
			name:      "query parameter",
			query:     "token=from-query",
			prepare:   func(r *http.Request) {},
			wantToken: "from-query",
		},
		{
			name:      "x-access-token header",
			prepare:   func(r *http.Request) { r.Header.Set("x-access-token", "from-access-header") },
			wantToken: "from-access-header",
		},
		{
			name:  "bearer wins over everything",
			query: "token=from-query",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer from-header")
				r.AddCookie(&http.Cookie{Name: "auth", Value: "from-cookie"})
				r.Header.Set("x-access-token", "from-access-header")
			},
			wantToken: "from-header",
		},
		{
			name:  "cookie wins over query",
			query: "token=from-query",
			prepare: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "auth", Value: "from-cookie"})
			},
			wantToken: "from-cookie",
		},
		{
			name:  "query wins over x-access-token",
			query: "token=from-query",
			prepare: func(r *http.Request) {
				r.Header.Set("x-access-token", "from-access-header")
			},
			wantToken: "from-query",
		},
		{
			name: "non bearer authorization is skipped",
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Basic abc")
				r.Header.Set("x-access-token", "from-access-header")
			},
			wantToken: "from-access-header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := mocks.NewTokenService(t)
			tokens.On("GetIdentity", mock.Anything, tt.wantToken).Return(identity, nil).Once()

			target := "/whoami"
			if tt.query != "" {
				target += "?" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			tt.prepare(req)

			resp, err := newGatedApp(t, tokens).Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "peter@parker.com", string(body))
		})
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	tests := []struct {
		name        string
		header      string
		setup       func(m *mocks.TokenService)
		wantMessage string
	}{
		{
			name:        "missing token",
			setup:       func(m *mocks.TokenService) {},
			wantMessage: apierrors.MsgMissingToken,
		},
		{
			name:   "verification failure",
			header: "Bearer bad",
			setup: func(m *mocks.TokenService) {
				m.On("GetIdentity", mock.Anything, "bad").Return(model.Identity{}, model.ErrInvalidToken).Once()
			},
			wantMessage: apierrors.MsgInvalidToken,
		},
		{
			name:   "nil account id",
			header: "Bearer empty",
			setup: func(m *mocks.TokenService) {
				m.On("GetIdentity", mock.Anything, "empty").Return(model.Identity{}, nil).Once()
			},
			wantMessage: apierrors.MsgInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := mocks.NewTokenService(t)
			tt.setup(tokens)

			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := newGatedApp(t, tokens).Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			var body apierrors.Response
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, apierrors.NameUnauthorized, body.Name)
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.Equal(t, "/whoami", body.Path)
		})
	}
}
