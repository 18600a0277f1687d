package metrics

import (
	"time"

	obserrors "github.com/orc-hfg/uploader/internal/observability/errors"
	"github.com/orc-hfg/uploader/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultInvalid = "invalid"
)

// Operation names for the authentication client.
const (
	OperationSignIn     = "sign_in"
	OperationSignOut    = "sign_out"
	OperationValidation = "validation"
)

// Guard decisions.
const (
	DecisionAllow    = "allow"
	DecisionRedirect = "redirect"
	DecisionSkip     = "skip"
)

// Mock sign-in rejection results.
const (
	MockResultCSRFMismatch       = "csrf_mismatch"
	MockResultInvalidCredentials = "invalid_credentials"
)

const noErrorClass = "none"

// AuthMetric captures one authentication client operation for metric emission.
type AuthMetric struct {
	Operation string
	Result    string
	Duration  time.Duration
	Err       error
	// Cached marks validations answered from the validation cache.
	Cached bool
}

// EmitAuthOperation emits "auth.<operation>" counters and timings.
// Every emission carries the same tag keys so label-based sinks stay consistent.
func EmitAuthOperation(sink statsd.Sink, in AuthMetric) {
	if sink == nil || in.Operation == "" {
		return
	}

	class := noErrorClass
	if in.Err != nil {
		if c := obserrors.Classify(in.Err); c != "" {
			class = c
		}
	}
	cached := "false"
	if in.Cached {
		cached = "true"
	}

	tags := map[string]string{
		"result":      in.Result,
		"error_class": class,
		"cached":      cached,
	}
	name := "auth." + in.Operation
	sink.Count(name, 1, tags)
	if in.Duration > 0 {
		sink.Timing(name+".duration", in.Duration, CloneTags(tags))
	}
}

// EmitGuardDecision counts route guard outcomes per route name.
func EmitGuardDecision(sink statsd.Sink, route, mode, decision string) {
	if sink == nil {
		return
	}
	sink.Count("auth.guard", 1, map[string]string{
		"route":    route,
		"mode":     mode,
		"decision": decision,
	})
}

// EmitMockSignIn counts sign-in attempts handled by the authentication mock.
// result is ResultSuccess or one of the MockResult constants.
func EmitMockSignIn(sink statsd.Sink, result string) {
	if sink == nil {
		return
	}
	sink.Count("mock.sign_in", 1, map[string]string{"result": result})
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
