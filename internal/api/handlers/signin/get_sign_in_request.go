package signin

import (
	"net/http"

	"github.com/SafeMPC/signin-service/internal/api"
	"github.com/SafeMPC/signin-service/internal/api/httperrors"
	"github.com/SafeMPC/signin-service/internal/signin/store"
	"github.com/SafeMPC/signin-service/internal/types/signin"
	"github.com/SafeMPC/signin-service/internal/util"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func GetSignInRequestRoute(s *api.Server) *echo.Route {
	return s.Router.Root.GET("/sign-in/requests/:token", getSignInRequestHandler(s))
}

func getSignInRequestHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var params signin.GetSignInRequestParams
		if err := util.BindAndValidatePathParams(c, &params); err != nil {
			return err
		}

		rec, err := s.SignIn.Lookup(ctx, params.Token)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return httperrors.ErrNotFoundSignInRequest
			}
			util.LogFromContext(ctx).Error().Err(err).Str("token", params.Token).Msg("Failed to look up sign-in request")
			return err
		}

		response := &signin.SignInRequestResponse{
			Token:         swag.String(rec.Token),
			DeepLinkURL:   swag.String(rec.DeepLinkURL),
			PublicKey:     swag.String(rec.PublicKey),
			RequestFid:    int64(rec.RequestFID),
			RequestSigner: rec.RequestSigner,
			Deadline:      rec.Deadline,
			State:         swag.String(rec.State),
			UserFid:       rec.UserFID,
			CreatedAt:     strfmt.DateTime(rec.CreatedAt),
			UpdatedAt:     strfmt.DateTime(rec.UpdatedAt),
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
