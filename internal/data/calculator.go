package data

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fv-simulator/internal/model"

	"github.com/sirupsen/logrus"
)

// DefaultCalculatorURL is the hosted calculator used by the simulator form.
const DefaultCalculatorURL = "https://cash-48v3.onrender.com"

// ErrMalformedResponse is returned when the calculator answers 200 with a body
// that cannot be decoded into a bundle.
var ErrMalformedResponse = errors.New("malformed calculator response")

// CalculatorError represents an error status from the calculator service.
type CalculatorError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *CalculatorError) Error() string {
	return e.Message
}

// CalculatorClient calls the external cash-flow calculator.
type CalculatorClient struct {
	BaseURL string
	Client  *http.Client
	log     *logrus.Logger
}

// NewCalculatorClient creates a calculator client.
// If baseURL is empty, defaults to DefaultCalculatorURL.
func NewCalculatorClient(baseURL string, timeout time.Duration, log *logrus.Logger) *CalculatorClient {
	if baseURL == "" {
		baseURL = DefaultCalculatorURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CalculatorClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Calculate posts the project parameters and decodes the four-scenario bundle.
func (c *CalculatorClient) Calculate(ctx context.Context, params model.ProjectParams) (*model.Bundle, error) {
	raw, err := c.Fetch(ctx, params)
	if err != nil {
		return nil, err
	}
	bundle, err := model.DecodeBundle(raw)
	if err != nil {
		c.log.Errorf("[Calculator] Error decoding response: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	c.log.WithField("years", bundle.Horizon()).Info("[Calculator] Success")
	return bundle, nil
}

// Fetch posts the project parameters and returns the raw calculator response.
func (c *CalculatorClient) Fetch(ctx context.Context, params model.ProjectParams) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, &CalculatorError{Code: "INVALID_PARAMS", Message: err.Error()}
	}

	u, err := url.Parse(c.BaseURL + "/calcular")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode params: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	entry := c.log.WithFields(logrus.Fields{
		"url":     u.Path,
		"horizon": params.HorizonteAnios,
		"capex":   params.Capex,
	})
	entry.Info("[Calculator] Request: POST /calcular")

	start := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(start)
	if err != nil {
		entry.WithField("duration", duration).Errorf("[Calculator] Request failed: %v", err)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	entry = entry.WithFields(logrus.Fields{"status": resp.StatusCode, "duration": duration})
	entry.Info("[Calculator] Response received")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		msg := errorDetail(raw)
		if msg == "" {
			msg = "Calculator rejected the project parameters"
		}
		entry.Warnf("[Calculator] Error: parameters rejected: %s", msg)
		return nil, &CalculatorError{StatusCode: resp.StatusCode, Code: "INVALID_PARAMS", Message: msg}
	case resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusBadGateway ||
		resp.StatusCode == http.StatusGatewayTimeout:
		entry.Warn("[Calculator] Error: service unavailable")
		return nil, &CalculatorError{
			StatusCode: resp.StatusCode,
			Code:       "UNAVAILABLE",
			Message:    fmt.Sprintf("Calculator unavailable (status %d)", resp.StatusCode),
		}
	default:
		entry.Errorf("[Calculator] Error: %s", resp.Status)
		return nil, &CalculatorError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("Calculator returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	return raw, nil
}

// errorDetail pulls a message out of {"detail": ...} or {"error": ...} bodies.
func errorDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
		Error  json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	for _, field := range []json.RawMessage{body.Detail, body.Error} {
		if len(field) == 0 {
			continue
		}
		var s string
		if err := json.Unmarshal(field, &s); err == nil {
			return s
		}
		return string(field)
	}
	return ""
}
