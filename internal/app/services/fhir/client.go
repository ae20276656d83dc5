package fhir

import (
	"bytes"
	"context"
	"eyebench/internal/app/auth"
	"eyebench/internal/pkg/constvars"
	"eyebench/internal/pkg/exceptions"
	"eyebench/internal/pkg/fhir_dto"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Sample is one recorded request outcome, aggregated by canonical name.
type Sample struct {
	Name           string
	Method         string
	StatusCode     int
	Elapsed        time.Duration
	ResponseLength int
	Failure        string
}

// Recorder receives a Sample for every request the client sends.
type Recorder interface {
	Record(sample Sample)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *auth.TokenSource
	recorder   Recorder
	logger     *zap.Logger
}

type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) Bundle() (*fhir_dto.Bundle, error) {
	bundle := new(fhir_dto.Bundle)
	if err := json.Unmarshal(r.Body, bundle); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceBundle)
	}
	return bundle, nil
}

func (r *Response) DecodeInto(dest interface{}, resourceName string) error {
	if err := json.Unmarshal(r.Body, dest); err != nil {
		return exceptions.ErrDecodeResponse(err, resourceName)
	}
	return nil
}

func NewClient(baseURL string, timeout time.Duration, tokens *auth.TokenSource, recorder Recorder, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		recorder:   recorder,
		logger:     logger,
	}
}

func (c *Client) Get(ctx context.Context, path string, params url.Values) (*Response, error) {
	return c.do(ctx, constvars.MethodGet, path, params, nil)
}

func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}
	return c.do(ctx, constvars.MethodPost, path, nil, payload)
}

func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}
	return c.do(ctx, constvars.MethodPut, path, nil, payload)
}

func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}
	return c.do(ctx, constvars.MethodPatch, path, nil, payload)
}

// Transaction posts a bundle to the server root and returns the response
// bundle.
func (c *Client) Transaction(ctx context.Context, bundle *fhir_dto.Bundle) (*fhir_dto.Bundle, error) {
	resp, err := c.Post(ctx, "/", bundle)
	if err != nil {
		return nil, err
	}
	return resp.Bundle()
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body []byte) (*Response, error) {
	name := CanonicalName(method, path, body)

	fullURL := c.baseURL + ensureLeadingSlash(path)
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationFHIRJSON)
	if body != nil {
		req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)
	}
	if c.tokens != nil {
		authHeader, err := c.tokens.AuthorizationHeader(ctx)
		if err != nil {
			return nil, err
		}
		if authHeader != "" {
			req.Header.Set(constvars.HeaderAuthorization, authHeader)
		}
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.record(Sample{Name: name, Method: method, Elapsed: elapsed, Failure: err.Error()})
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		c.record(Sample{Name: name, Method: method, StatusCode: httpResp.StatusCode, Elapsed: elapsed, Failure: err.Error()})
		return nil, exceptions.ErrReadResponseBody(err)
	}

	resp := &Response{StatusCode: httpResp.StatusCode, Body: respBody}
	if !resp.OK() {
		detail := extractErrorDetail(respBody)
		c.record(Sample{
			Name:           name,
			Method:         method,
			StatusCode:     httpResp.StatusCode,
			Elapsed:        elapsed,
			ResponseLength: len(respBody),
			Failure:        detail,
		})
		c.logger.Error("FHIR request failed",
			zap.String(constvars.LoggingMetricKey, name),
			zap.String(constvars.LoggingMethodKey, method),
			zap.String(constvars.LoggingURLKey, fullURL),
			zap.Int(constvars.LoggingStatusCodeKey, httpResp.StatusCode),
			zap.Duration(constvars.LoggingElapsedKey, elapsed),
			zap.String(constvars.LoggingDetailKey, detail),
		)
		return resp, exceptions.ErrFHIRCallFailed(httpResp.StatusCode, name, detail)
	}

	c.record(Sample{
		Name:           name,
		Method:         method,
		StatusCode:     httpResp.StatusCode,
		Elapsed:        elapsed,
		ResponseLength: len(respBody),
	})
	c.logger.Debug("FHIR request completed",
		zap.String(constvars.LoggingMetricKey, name),
		zap.String(constvars.LoggingMethodKey, method),
		zap.Int(constvars.LoggingStatusCodeKey, httpResp.StatusCode),
		zap.Duration(constvars.LoggingElapsedKey, elapsed),
		zap.Int(constvars.LoggingResponseLengthKey, len(respBody)),
	)
	return resp, nil
}

func (c *Client) record(sample Sample) {
	if c.recorder != nil {
		c.recorder.Record(sample)
	}
}

func ensureLeadingSlash(path string) string {
	if path == "" || path == "/" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}
