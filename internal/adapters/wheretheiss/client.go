// Package wheretheiss is the HTTP client for the wheretheiss.at position and
// history endpoints.
package wheretheiss

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/orbitrack/internal/core/domain"
	"github.com/samirrijal/orbitrack/internal/pkg/telemetry"
)

const (
	// DefaultPositionURL tracks the ISS.
	DefaultPositionURL = "https://api.wheretheiss.at/v1/satellites/25544"

	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
	tracerName     = "github.com/samirrijal/orbitrack/internal/adapters/wheretheiss"
)

// ErrMalformed is returned when a response body does not have the expected shape.
var ErrMalformed = errors.New("malformed response")

// Config configures the client. HistoryURL defaults to PositionURL + "/positions".
type Config struct {
	PositionURL string
	HistoryURL  string
	Timeout     time.Duration
}

// Client implements ports.PositionSource.
type Client struct {
	positionURL string
	historyURL  string
	httpClient  *http.Client
	tracer      trace.Tracer
	logger      *slog.Logger
}

// NewClient creates a client. Zero config values select the defaults.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.PositionURL == "" {
		cfg.PositionURL = DefaultPositionURL
	}
	cfg.PositionURL = strings.TrimRight(cfg.PositionURL, "/")
	if cfg.HistoryURL == "" {
		cfg.HistoryURL = cfg.PositionURL + "/positions"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		positionURL: cfg.PositionURL,
		historyURL:  cfg.HistoryURL,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		tracer:      otel.Tracer(tracerName),
		logger:      logger,
	}
}

// PositionURL returns the configured position endpoint.
func (c *Client) PositionURL() string {
	return c.positionURL
}

// position is the wire shape of one report. Pointers distinguish a missing
// coordinate from a zero one.
type position struct {
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Velocity   float64  `json:"velocity"`
	Altitude   float64  `json:"altitude"`
	Visibility string   `json:"visibility"`
	Timestamp  int64    `json:"timestamp"`
}

func (p position) fix() (domain.Fix, error) {
	if p.Latitude == nil || p.Longitude == nil {
		return domain.Fix{}, fmt.Errorf("%w: missing latitude or longitude", ErrMalformed)
	}
	return domain.Fix{
		Latitude:   *p.Latitude,
		Longitude:  *p.Longitude,
		Velocity:   p.Velocity,
		Altitude:   p.Altitude,
		Visibility: p.Visibility,
		Timestamp:  p.Timestamp,
	}, nil
}

// Current fetches the latest position. A non-2xx status yields an error
// wrapping domain.ErrPositionUnavailable.
func (c *Client) Current(ctx context.Context) (*domain.Fix, error) {
	ctx, span := c.tracer.Start(ctx, telemetry.SpanFetchCurrent, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	body, err := c.get(ctx, span, c.positionURL)
	if err != nil {
		return nil, err
	}

	var p position
	if err := json.Unmarshal(body, &p); err != nil {
		err = fmt.Errorf("%w: decode position: %v", ErrMalformed, err)
		recordError(span, err)
		return nil, err
	}
	f, err := p.fix()
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return &f, nil
}

// History fetches one position per requested epoch second, in request order.
func (c *Client) History(ctx context.Context, timestamps []int64) ([]domain.Fix, error) {
	ctx, span := c.tracer.Start(ctx, telemetry.SpanFetchHistory,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Int(telemetry.AttrHistoryRequested, len(timestamps))),
	)
	defer span.End()

	u, err := url.Parse(c.historyURL)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("parse history url: %w", err)
	}
	parts := make([]string, len(timestamps))
	for i, ts := range timestamps {
		parts[i] = strconv.FormatInt(ts, 10)
	}
	// Commas stay literal; the history service splits on them unescaped.
	q := u.Query()
	q.Del("timestamps")
	u.RawQuery = q.Encode()
	if u.RawQuery != "" {
		u.RawQuery += "&"
	}
	u.RawQuery += "timestamps=" + strings.Join(parts, ",")

	body, err := c.get(ctx, span, u.String())
	if err != nil {
		return nil, err
	}

	var raw []position
	if err := json.Unmarshal(body, &raw); err != nil {
		err = fmt.Errorf("%w: history body is not an array: %v", ErrMalformed, err)
		recordError(span, err)
		return nil, err
	}

	out := make([]domain.Fix, 0, len(raw))
	for i, p := range raw {
		f, err := p.fix()
		if err != nil {
			err = fmt.Errorf("history item %d: %w", i, err)
			recordError(span, err)
			return nil, err
		}
		out = append(out, f)
	}
	span.SetAttributes(attribute.Int(telemetry.AttrHistoryReceived, len(out)))
	return out, nil
}

func (c *Client) get(ctx context.Context, span trace.Span, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("fetching %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int(telemetry.AttrHTTPStatus, resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("%w: HTTP %d", domain.ErrPositionUnavailable, resp.StatusCode)
		recordError(span, err)
		c.logger.Debug("position service returned non-success status", "url", rawURL, "status", resp.StatusCode)
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if len(body) > maxBodyBytes {
		err := fmt.Errorf("response exceeds %d byte limit", maxBodyBytes)
		recordError(span, err)
		return nil, err
	}
	return body, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
