package signin_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/SafeMPC/signin-service/internal/api"
	"github.com/SafeMPC/signin-service/internal/api/httperrors"
	"github.com/SafeMPC/signin-service/internal/test"
	"github.com/SafeMPC/signin-service/internal/types/signin"
	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostSignIn(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server, upstream *test.FakeWarpcast) {
		res := test.PerformRequest(t, s, "POST", "/sign-in", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode, res.Body.String())

		var response signin.PostSignInResponse
		test.ParseResponseAndValidate(t, res, &response)

		assert.Len(t, swag.StringValue(response.PublicKey), 66)
		assert.Len(t, swag.StringValue(response.PrivateKey), 66)
		assert.NotEmpty(t, swag.StringValue(response.PollingToken))
		assert.True(t, strings.HasPrefix(swag.StringValue(response.DeepLinkURL), "farcaster://"))
		assert.Equal(t, "pending_approval", response.Status)
		assert.Equal(t, int64(1234), response.RequestFid)
		assert.Equal(t, test.TestDeveloperAddress, response.RequestSigner)

		created := upstream.Created()
		require.Len(t, created, 1)
		assert.Equal(t, swag.StringValue(response.PublicKey), created[0].Key)
	})
}

func TestPostSignInUpstreamFailure(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server, upstream *test.FakeWarpcast) {
		upstream.FailWith(http.StatusInternalServerError, "internal error")

		res := test.PerformRequest(t, s, "POST", "/sign-in", nil, nil)
		response := test.RequireHTTPError(t, res, httperrors.ErrSignInFailed)

		// details of internal errors are hidden by default
		assert.Empty(t, response.Detail)
	})
}

func TestPostSignInUpstreamFailureDetails(t *testing.T) {
	upstream := test.NewFakeWarpcast(t)
	upstream.FailWith(http.StatusBadRequest, "Invalid signature")

	config := test.NewTestConfig(upstream.URL())
	config.Echo.HideInternalServerErrorDetails = false

	test.WithTestServerConfigurable(t, config, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/sign-in", nil, nil)
		response := test.RequireHTTPError(t, res, httperrors.ErrSignInFailed)

		assert.Contains(t, response.Detail, "Invalid signature")
	})
}
