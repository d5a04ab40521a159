// Package health aggregates liveness and readiness checks into one status.
package health

import (
	"context"
	"encoding/json"
	"net/http"
)

// Check probes one resource. It returns an http status, a message and the
// failure, if any.
type Check struct {
	Name  string
	Check func(ctx context.Context, checkLiveness bool) (int, string, error)
}

type result struct {
	Resource string          `json:"resource"`
	Status   int             `json:"status"`
	Error    string          `json:"error,omitempty"`
	Message  string          `json:"message,omitempty"`
	Details  json.RawMessage `json:"dependencies,omitempty"`
}

type report struct {
	Status       int      `json:"status"`
	Dependencies []result `json:"dependencies"`
}

// CheckAll runs checks in order. The overall status is OK only when every
// check reports OK without an error. Messages that are themselves JSON
// reports are nested.
func CheckAll(ctx context.Context, checkLiveness bool, checks []Check) (int, string, error) {
	r := report{Status: http.StatusOK, Dependencies: make([]result, 0, len(checks))}

	for _, check := range checks {
		status, message, err := check.Check(ctx, checkLiveness)
		if err != nil || status != http.StatusOK {
			r.Status = http.StatusServiceUnavailable
		}

		res := result{Resource: check.Name, Status: status}
		if err != nil {
			res.Error = err.Error()
		}

		if json.Valid([]byte(message)) && len(message) > 0 && message[0] == '{' {
			res.Details = json.RawMessage(message)
		} else {
			res.Message = message
		}

		r.Dependencies = append(r.Dependencies, res)
	}

	body, err := json.Marshal(r)
	if err != nil {
		return http.StatusInternalServerError, "", err
	}

	return r.Status, string(body), nil
}

// OK is a check that always passes.
func OK(context.Context, bool) (int, string, error) {
	return http.StatusOK, "OK", nil
}
