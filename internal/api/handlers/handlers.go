package handlers

import (
	"github.com/SafeMPC/signin-service/internal/api"
	"github.com/SafeMPC/signin-service/internal/api/handlers/common"
	"github.com/SafeMPC/signin-service/internal/api/handlers/qr"
	"github.com/SafeMPC/signin-service/internal/api/handlers/signin"
	"github.com/labstack/echo/v4"
)

func AttachAllRoutes(s *api.Server) {
	// attach our routes
	s.Router.Routes = []*echo.Route{
		common.GetHealthyRoute(s),
		common.GetReadyRoute(s),
		common.GetRootRoute(s),
		qr.GetQRRoute(s),
		signin.GetPollRoute(s),
		signin.GetSignInRequestRoute(s),
		signin.PostSignInRoute(s),
	}
}
