package openweather

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"AgroCast/internal/domain/models"
	dsvc "AgroCast/internal/domain/service"
	"AgroCast/internal/services/forecast"
	apphttp "AgroCast/pkg/http"
	applogger "AgroCast/pkg/logger"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
	sourceName     = "openweathermap"
)

// Client fetches current conditions from the OpenWeatherMap REST API.
// Calls share one rate limiter so the free-tier quota is respected.
type Client struct {
	apiKey  string
	baseURL string
	http    *apphttp.Client
	limiter *rate.Limiter
	logger  *applogger.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

func WithHTTPClient(hc *apphttp.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRateLimit caps outgoing calls at rps with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 {
			if burst < 1 {
				burst = 1
			}
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client. The default limit is one call per second.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    apphttp.NewClient(apphttp.WithTimeout(10 * time.Second)),
		limiter: rate.NewLimiter(rate.Limit(1), 1),
		logger:  applogger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string { return sourceName }

type currentResponse struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Rain map[string]float64 `json:"rain"`
	// Weather[0].Main is the condition group, e.g. "Rain" or "Clouds".
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
}

// Current returns the live reading for a coordinate as an unstamped observation.
// Temperature is rounded to whole degrees.
func (c *Client) Current(ctx context.Context, lat, lon float64) (*models.Observation, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("openweather rate limit: %w", err)
	}

	var resp currentResponse
	err := c.http.SendAndParse(ctx, &apphttp.RequestOptions{
		URL: c.baseURL + "/weather",
		QueryParams: map[string][]string{
			"lat":   {strconv.FormatFloat(lat, 'f', -1, 64)},
			"lon":   {strconv.FormatFloat(lon, 'f', -1, 64)},
			"appid": {c.apiKey},
			"units": {"metric"},
		},
	}, &resp)
	if err != nil {
		c.logger.Error("OpenWeather request failed",
			applogger.Error(err),
			applogger.Float64("lat", lat),
			applogger.Float64("lon", lon),
		)
		return nil, fmt.Errorf("openweather current: %w", err)
	}

	return resp.toObservation(lat, lon), nil
}

func (r *currentResponse) toObservation(lat, lon float64) *models.Observation {
	o := &models.Observation{
		Lat:       lat,
		Lon:       lon,
		Temp:      forecast.RoundHalfUp(r.Main.Temp),
		Humidity:  r.Main.Humidity,
		WindSpeed: r.Wind.Speed,
		Source:    sourceName,
	}
	if r.Dt > 0 {
		o.Timestamp = time.Unix(r.Dt, 0).UTC()
	}
	if r.Main.Pressure > 0 {
		o.Pressure = models.Float(r.Main.Pressure)
	}
	if v, ok := r.Rain["1h"]; ok {
		o.Rain = models.Float(v)
	}
	if len(r.Weather) > 0 {
		o.Condition = r.Weather[0].Main
	}
	return o
}

var _ dsvc.WeatherSource = (*Client)(nil)
