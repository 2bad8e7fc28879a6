package metrics

import (
	"strconv"
	"time"

	obserrors "github.com/talentexcel/talentexcel-api/internal/observability/errors"
	"github.com/talentexcel/talentexcel-api/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// RequestMetric captures one served HTTP request for metric emission.
type RequestMetric struct {
	Method   string
	Route    string
	Status   int
	Duration time.Duration
}

// EmitHTTPRequest emits standardised request count and latency metrics.
func EmitHTTPRequest(sink statsd.Sink, in RequestMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"method": in.Method,
		"route":  in.Route,
		"status": strconv.Itoa(in.Status),
	}
	sink.Count("http.request", 1, tags)
	if in.Duration > 0 {
		sink.Timing("http.request.duration", in.Duration, CloneTags(tags))
	}
}

// WebhookDeliveryMetric captures one webhook delivery attempt.
type WebhookDeliveryMetric struct {
	Event    string
	Result   string
	Duration time.Duration
	Err      error
}

// EmitWebhookDelivery emits delivery outcome metrics for application
// webhooks.
func EmitWebhookDelivery(sink statsd.Sink, in WebhookDeliveryMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"event":  in.Event,
		"result": in.Result,
	}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("webhook.delivery", 1, tags)
	if in.Duration > 0 {
		sink.Timing("webhook.delivery.duration", in.Duration, CloneTags(tags))
	}
}

// AuthEventMetric captures a session lifecycle event.
type AuthEventMetric struct {
	Kind   string // signup, verify, signin, signout
	Result string
}

// EmitAuthEvent counts authentication flow outcomes.
func EmitAuthEvent(sink statsd.Sink, in AuthEventMetric) {
	if sink == nil {
		return
	}
	sink.Count("auth."+in.Kind, 1, map[string]string{"result": in.Result})
}

// CloneTags returns a shallow copy so emitters can mutate tag maps safely.
func CloneTags(tags map[string]string) map[string]string {
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		out[k] = v
	}
	return out
}
