package authn_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/momeni/fleetflow/pkg/adapter/restful/gin/authn"
	"github.com/momeni/fleetflow/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("unit-secret")

func TestNewValidates(t *testing.T) {
	_, err := authn.New(nil, 0)
	assert.Error(t, err)
	_, err = authn.New(secret, -time.Second)
	assert.Error(t, err)
}

func TestSignParse(t *testing.T) {
	auth, err := authn.New(secret, 0)
	require.NoError(t, err)
	did := uuid.New()
	a := model.Actor{ID: uuid.New(), Role: model.RoleDispatcher, DriverID: &did}
	tok, err := auth.Sign(a, time.Minute)
	require.NoError(t, err)
	got, err := auth.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, a, *got)

	expired, err := auth.Sign(a, -time.Minute)
	require.NoError(t, err)
	_, err = auth.Parse(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	other, err := authn.New([]byte("other-secret"), 0)
	require.NoError(t, err)
	_, err = other.Parse(tok)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func sign(t *testing.T, m jwt.SigningMethod, c authn.Claims) string {
	tok, err := jwt.NewWithClaims(m, c).SignedString(secret)
	require.NoError(t, err)
	return tok
}

func TestParseRejects(t *testing.T) {
	auth, err := authn.New(secret, 0)
	require.NoError(t, err)
	exp := jwt.NewNumericDate(time.Now().Add(time.Minute))
	for name, tok := range map[string]string{
		"no exp": sign(t, jwt.SigningMethodHS256, authn.Claims{
			Role:             "DISPATCHER",
			RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString()},
		}),
		"other alg": sign(t, jwt.SigningMethodHS384, authn.Claims{
			Role: "DISPATCHER",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject: uuid.NewString(), ExpiresAt: exp,
			},
		}),
		"bad sub": sign(t, jwt.SigningMethodHS256, authn.Claims{
			Role: "DISPATCHER",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject: "alice", ExpiresAt: exp,
			},
		}),
		"bad role": sign(t, jwt.SigningMethodHS256, authn.Claims{
			Role: "ADMIN",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject: uuid.NewString(), ExpiresAt: exp,
			},
		}),
		"bad driver": sign(t, jwt.SigningMethodHS256, authn.Claims{
			Role: "DISPATCHER", DriverID: "d-1",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject: uuid.NewString(), ExpiresAt: exp,
			},
		}),
	} {
		_, err := auth.Parse(tok)
		assert.Error(t, err, name)
	}
}

func TestMiddlewareAndRequire(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth, err := authn.New(secret, 0)
	require.NoError(t, err)
	e := gin.New()
	e.GET("/finance", auth.Middleware(),
		authn.Require(model.RoleFleetManager, model.RoleFinancialAnalyst),
		func(c *gin.Context) {
			c.String(http.StatusOK, authn.ActorOf(c).ID.String())
		},
	)
	get := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/finance", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		e.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, get("").Code)
	assert.Equal(t, http.StatusUnauthorized, get("Bearer garbage").Code)

	analyst := model.Actor{ID: uuid.New(), Role: model.RoleFinancialAnalyst}
	tok, err := auth.Sign(analyst, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get("Basic "+tok).Code)
	w := get("Bearer " + tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, analyst.ID.String(), w.Body.String())

	tok, err = auth.Sign(
		model.Actor{ID: uuid.New(), Role: model.RoleDispatcher}, time.Minute,
	)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, get("Bearer "+tok).Code)
}
