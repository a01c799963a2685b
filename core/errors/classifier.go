package errors

import (
	"context"
	"errors"
	"net"
	"strings"
)

// toolRoutingSignatures are the recognizable substrings of tool-routing
// failures that warrant a hinted retry.
var toolRoutingSignatures = []string{
	"tool not found",
	"not found in the tool registry",
	"unknown tool",
	"invalid tool arguments",
}

// IsToolRouting reports whether the error carries a recognizable
// tool-routing failure signature. Unrecognized errors must propagate without
// retry.
func IsToolRouting(err error) bool {
	if err == nil {
		return false
	}
	if Is(err, CategoryToolRouting) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range toolRoutingSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// Classify assigns a category to an arbitrary provider or transport error
// based on recognizable signatures. Already-categorized errors keep their
// category.
func Classify(err error) Category {
	if err == nil {
		return CategoryGeneric
	}

	var ce *Error
	if errors.As(err, &ce) {
		return ce.Category
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return CategoryConnection
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryConnection
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "401", "unauthorized", "invalid api key", "authentication", "permission denied", "403"):
		return CategoryAuth
	case containsAny(msg, "429", "rate limit", "quota", "too many requests"):
		return CategoryRateLimit
	case containsAny(msg, "connection refused", "no such host", "timeout", "tls", "broken pipe"):
		return CategoryConnection
	case containsAny(msg, "500", "502", "503", "504", "overloaded", "server error"):
		return CategoryModel
	}
	return CategoryGeneric
}

func containsAny(msg string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(msg, n) {
			return true
		}
	}
	return false
}
