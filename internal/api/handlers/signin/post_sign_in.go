package signin

import (
	"net/http"

	"github.com/SafeMPC/signin-service/internal/api"
	"github.com/SafeMPC/signin-service/internal/api/httperrors"
	"github.com/SafeMPC/signin-service/internal/types/signin"
	"github.com/SafeMPC/signin-service/internal/util"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
)

func PostSignInRoute(s *api.Server) *echo.Route {
	return s.Router.Root.POST("/sign-in", postSignInHandler(s))
}

func postSignInHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		pending, err := s.SignIn.SignIn(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to sign in")
			return httperrors.ErrSignInFailed.Wrap(err)
		}

		response := &signin.PostSignInResponse{
			DeepLinkURL:   swag.String(pending.DeepLinkURL),
			PollingToken:  swag.String(pending.Token),
			PublicKey:     swag.String(pending.PublicKey),
			PrivateKey:    swag.String(pending.PrivateKey),
			Status:        pending.Status,
			RequestFid:    int64(pending.RequestFID),
			RequestSigner: pending.RequestSigner,
			Deadline:      pending.Deadline,
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
