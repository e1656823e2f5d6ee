package signin_test

import (
	"net/http"
	"testing"

	"github.com/SafeMPC/signin-service/internal/api"
	"github.com/SafeMPC/signin-service/internal/api/httperrors"
	"github.com/SafeMPC/signin-service/internal/config"
	"github.com/SafeMPC/signin-service/internal/test"
	"github.com/SafeMPC/signin-service/internal/types/signin"
	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSignInRequest(t *testing.T) {
	upstream := test.NewFakeWarpcast(t)

	cfg := test.NewTestConfig(upstream.URL())
	cfg.Store.Driver = config.StoreDriverMemory

	test.WithTestServerConfigurable(t, cfg, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/sign-in", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var created signin.PostSignInResponse
		test.ParseResponseAndValidate(t, res, &created)
		token := swag.StringValue(created.PollingToken)

		upstream.SetState(token, "completed", swag.Int64(42))
		res = test.PerformRequest(t, s, "GET", "/sign-in/poll?token="+token, nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		res = test.PerformRequest(t, s, "GET", "/sign-in/requests/"+token, nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode, res.Body.String())

		var response signin.SignInRequestResponse
		test.ParseResponseAndValidate(t, res, &response)
		assert.Equal(t, token, swag.StringValue(response.Token))
		assert.Equal(t, swag.StringValue(created.PublicKey), swag.StringValue(response.PublicKey))
		assert.Equal(t, "completed", swag.StringValue(response.State))
		require.NotNil(t, response.UserFid)
		assert.Equal(t, int64(42), *response.UserFid)

		assert.NotContains(t, res.Body.String(), swag.StringValue(created.PrivateKey))
	})
}

func TestGetSignInRequestNotStored(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server, _ *test.FakeWarpcast) {
		res := test.PerformRequest(t, s, "GET", "/sign-in/requests/0xabc", nil, nil)
		test.RequireHTTPError(t, res, httperrors.ErrNotFoundSignInRequest)
	})
}
