package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SafeMPC/signin-service/internal/api"
	"github.com/SafeMPC/signin-service/internal/api/httperrors"
	"github.com/SafeMPC/signin-service/internal/types"
	"github.com/SafeMPC/signin-service/internal/util"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// PerformRequest sends method path through the echo instance of s. A non-nil
// body is encoded as JSON.
func PerformRequest(t *testing.T, s *api.Server, method string, path string, body interface{}, headers http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header[k] = v
	}
	if body != nil && req.Header.Get(echo.HeaderContentType) == "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	res := httptest.NewRecorder()
	s.Echo.ServeHTTP(res, req)

	return res
}

// ParseResponseAndValidate decodes the JSON body of res into v and validates it.
func ParseResponseAndValidate(t *testing.T, res *httptest.ResponseRecorder, v util.Validatable) {
	t.Helper()

	require.NoError(t, json.NewDecoder(res.Body).Decode(v), "Failed to parse response body: %s", res.Body.String())
	require.NoError(t, v.Validate(strfmt.Default), "Response failed validation")
}

// RequireHTTPError asserts res carries the status, type and message of expected.
func RequireHTTPError(t *testing.T, res *httptest.ResponseRecorder, expected *httperrors.HTTPError) types.PublicHTTPError {
	t.Helper()

	require.Equal(t, expected.Code(), res.Result().StatusCode, "Unexpected status code: %s", res.Body.String())

	var response types.PublicHTTPError
	ParseResponseAndValidate(t, res, &response)

	require.Equal(t, swag.Int64Value(expected.Status), swag.Int64Value(response.Status))
	require.Equal(t, swag.StringValue(expected.Type), swag.StringValue(response.Type))
	require.Equal(t, swag.StringValue(expected.Message), swag.StringValue(response.Message))

	return response
}
