package qr

import (
	"net/http"

	"github.com/SafeMPC/signin-service/internal/api"
	"github.com/SafeMPC/signin-service/internal/api/httperrors"
	"github.com/SafeMPC/signin-service/internal/types/qr"
	"github.com/SafeMPC/signin-service/internal/util"
	"github.com/labstack/echo/v4"
)

func GetQRRoute(s *api.Server) *echo.Route {
	return s.Router.Root.GET("/qr/:token", getQRHandler(s))
}

func getQRHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := util.LogFromEchoContext(c)

		var params qr.GetQRParams
		if err := util.BindAndValidatePathParams(c, &params); err != nil {
			return err
		}

		png, err := s.Encoder.PNG(params.Token)
		if err != nil {
			s.Metrics.QRRender("failed")
			log.Error().Err(err).Str("token", params.Token).Msg("Failed to generate QR code")
			return httperrors.ErrQREncodingFailed
		}

		s.Metrics.QRRender("success")

		return c.Blob(http.StatusOK, "image/png", png)
	}
}
