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

func GetPollRoute(s *api.Server) *echo.Route {
	return s.Router.Root.GET("/sign-in/poll", getPollHandler(s))
}

func getPollHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var params signin.GetPollParams
		if err := util.BindAndValidateQueryParams(c, &params); err != nil {
			return err
		}

		result, err := s.SignIn.Poll(ctx, params.Token)
		if err != nil {
			log.Error().Err(err).Str("token", params.Token).Msg("Failed to poll sign-in request")
			return httperrors.ErrPollFailed.Wrap(err)
		}

		response := &signin.GetPollResponse{
			State:   swag.String(result.State),
			UserFid: result.UserFID,
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
