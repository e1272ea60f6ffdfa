package util

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/url"
	"strings"

	"github.com/TushantKaura1/ai-micro-motivation/pkg/circuitbreaker"
)

// ClassifyFailure maps an error from an outbound call to a short label used
// in logs and metric labels.
func ClassifyFailure(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, circuitbreaker.ErrCircuitBreakerOpen) {
		return "circuit_open"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return "malformed_response"
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return "timeout"
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return "timeout"
		}
		return "network_error"
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "429") || strings.Contains(errStr, "quota") || strings.Contains(errStr, "rate limit"):
		return "quota"
	case strings.Contains(errStr, "401") || strings.Contains(errStr, "api key"):
		return "auth"
	case strings.Contains(errStr, "timeout"):
		return "timeout"
	case strings.Contains(errStr, "connection"):
		return "network_error"
	}

	return "unknown_error"
}
