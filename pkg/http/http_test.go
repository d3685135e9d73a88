package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applogger "AgroCast/pkg/logger"
)

type sampleRequest struct {
	Lat  float64 `query:"lat" json:"lat" validate:"latitude"`
	Days int     `query:"days" json:"days" default:"7" validate:"gte=1,lte=14"`
	Crop string  `query:"crop" json:"crop" default:"soybean" validate:"max=8"`
}

type routes struct{}

func (routes) RegisterRoutes(e *echo.Echo) {
	e.GET("/sample", func(c echo.Context) error {
		var req sampleRequest
		if errs := ReadAndValidateRequest(c, &req); errs != nil {
			return BadRequestResponse(c, errs)
		}
		return SuccessResponse(c, req)
	})
	e.GET("/teapot", func(c echo.Context) error {
		return AppErrorResponse(c, fmt.Errorf("wrapped: %w", TooManyRequestsError("slow down")))
	})
	e.GET("/boom", func(c echo.Context) error {
		panic("boom")
	})
	e.GET("/plain", func(c echo.Context) error {
		return AppErrorResponse(c, errors.New("db down"))
	})
}

func serve(t *testing.T, s *Server, method, target string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(echo.HeaderOrigin, "https://farm.example")
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	var body APIResponse
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestServer_ValidationAndDefaults(t *testing.T) {
	s := NewServer(routes{}, applogger.NewNop())

	rec, body := serve(t, s, http.MethodGet, "/sample?lat=18.5")
	assert.Equal(t, http.StatusOK, rec.Code)
	data := body.Data.(map[string]interface{})
	assert.Equal(t, 7.0, data["days"])
	assert.Equal(t, "soybean", data["crop"])
	assert.Equal(t, "https://farm.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	rec, body = serve(t, s, http.MethodGet, "/sample?lat=123&days=40")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errs := body.Data.([]interface{})
	require.Len(t, errs, 2)
	first := errs[0].(map[string]interface{})
	assert.Equal(t, "ERR_LATITUDE", first["code"])
	assert.Equal(t, "lat", first["field"])
	second := errs[1].(map[string]interface{})
	assert.Equal(t, "ERR_LTE", second["code"])
}

func TestServer_BindError(t *testing.T) {
	s := NewServer(routes{}, applogger.NewNop())
	rec, body := serve(t, s, http.MethodGet, "/sample?lat=north")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	first := body.Data.([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "ERR_BIND", first["code"])
}

func TestServer_AppErrorsAndPanics(t *testing.T) {
	s := NewServer(routes{}, applogger.NewNop())

	rec, body := serve(t, s, http.MethodGet, "/teapot")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, http.StatusTooManyRequests, body.Status)

	rec, _ = serve(t, s, http.MethodGet, "/plain")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec, body = serve(t, s, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, http.StatusInternalServerError, body.Status)
}

func TestServer_PreflightAndMetrics(t *testing.T) {
	s := NewServer(routes{}, applogger.NewNop())

	rec, _ := serve(t, s, http.MethodOptions, "/sample")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mrec := httptest.NewRecorder()
	s.Echo().ServeHTTP(mrec, req)
	assert.Equal(t, http.StatusOK, mrec.Code)
	assert.Contains(t, mrec.Body.String(), "agrocast_http_requests_total")
}

func TestClient_SendAndParse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "fail" {
			http.Error(w, "nope", http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "agrocast/1.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"name":"pune"}`))
	}))
	defer srv.Close()

	c := NewClient(WithHTTPClient(srv.Client()))

	var out struct{ Name string }
	err := c.SendAndParse(context.Background(), &RequestOptions{URL: srv.URL, QueryParams: map[string][]string{"q": {"ok"}}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "pune", out.Name)

	err = c.SendAndParse(context.Background(), &RequestOptions{URL: srv.URL, QueryParams: map[string][]string{"q": {"fail"}}}, &out)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.True(t, strings.Contains(se.Body, "nope"))
}
