package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	"golang.org/x/sync/errgroup"

	"github.com/talentexcel/talentexcel-api/internal/core"
	"github.com/talentexcel/talentexcel-api/internal/data"
	"github.com/talentexcel/talentexcel-api/internal/domain/model"
	apperrors "github.com/talentexcel/talentexcel-api/internal/errors"
	"github.com/talentexcel/talentexcel-api/internal/observability/metrics"
	"github.com/talentexcel/talentexcel-api/internal/observability/statsd"
)

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathLibEvaluator implements JMESPathEvaluator using go-jmespath.
type jmespathLibEvaluator struct{}

func (j jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (j jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// WebhookServiceOptions groups dependencies for WebhookService.
type WebhookServiceOptions struct {
	Repo   core.WebhookRepository // Required: webhook repository
	Logger *slog.Logger           // Optional: structured logger
}

// WebhookService provides business logic for application webhook CRUD.
// Webhooks are employer-scoped: only the owning employer may read or
// change them.
type WebhookService struct {
	repo   core.WebhookRepository
	logger *slog.Logger
}

// NewWebhookService constructs a new WebhookService.
func NewWebhookService(opts WebhookServiceOptions) (*WebhookService, error) {
	if opts.Repo == nil {
		return nil, errors.New("WebhookRepository is required")
	}
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "webhook_service")
	}
	return &WebhookService{repo: opts.Repo, logger: logger}, nil
}

// Create registers a webhook for the employer. The filter expression is
// compiled during validation so syntax errors surface at registration time.
func (s *WebhookService) Create(
	ctx context.Context,
	employerID string,
	req *model.CreateWebhookRequest,
) (*model.ApplicationWebhook, error) {
	if req == nil {
		return nil, apperrors.Validation("create webhook request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	hook, err := s.repo.Create(ctx, employerID, req)
	if err != nil {
		return nil, fmt.Errorf("create webhook: %w", err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "webhook registered", "id", hook.ID, "employer_id", employerID)
	}
	return hook, nil
}

// Get retrieves a webhook the employer owns.
func (s *WebhookService) Get(ctx context.Context, employerID, id string) (*model.ApplicationWebhook, error) {
	return s.owned(ctx, employerID, id)
}

// List returns all of the employer's webhooks, enabled or not.
func (s *WebhookService) List(ctx context.Context, employerID string) ([]*model.ApplicationWebhook, error) {
	hooks, err := s.repo.ListByEmployer(ctx, employerID)
	if err != nil {
		return nil, fmt.Errorf("list webhooks: %w", err)
	}
	return hooks, nil
}

// Update applies a partial update to a webhook the employer owns.
func (s *WebhookService) Update(
	ctx context.Context,
	employerID, id string,
	req model.UpdateWebhookRequest,
) (*model.ApplicationWebhook, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if _, err := s.owned(ctx, employerID, id); err != nil {
		return nil, err
	}

	hook, err := s.repo.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, data.ErrWebhookNotFound) {
			return nil, apperrors.NotFound("webhook not found")
		}
		return nil, fmt.Errorf("update webhook: %w", err)
	}
	return hook, nil
}

// Delete deletes a webhook the employer owns.
func (s *WebhookService) Delete(ctx context.Context, employerID, id string) error {
	if _, err := s.owned(ctx, employerID, id); err != nil {
		return err
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	if !ok {
		return apperrors.NotFound("webhook not found")
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "webhook deleted", "id", id, "employer_id", employerID)
	}
	return nil
}

func (s *WebhookService) owned(ctx context.Context, employerID, id string) (*model.ApplicationWebhook, error) {
	hook, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrWebhookNotFound) {
			return nil, apperrors.NotFound("webhook not found")
		}
		return nil, fmt.Errorf("get webhook: %w", err)
	}
	if hook.EmployerID != employerID {
		return nil, apperrors.NotFound("webhook not found")
	}
	return hook, nil
}

// Application event kinds delivered to webhooks.
const (
	EventApplicationSubmitted     = "application.submitted"
	EventApplicationStatusChanged = "application.status_changed"
)

// ApplicationEvent is the payload delivered to application webhooks and the
// document webhook filters are evaluated against.
type ApplicationEvent struct {
	Kind        string             `json:"kind"`
	Application *model.Application `json:"application"`
	JobTitle    string             `json:"job_title,omitempty"`
	Company     string             `json:"company,omitempty"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

// WebhookHTTPClient abstracts the HTTP client used for deliveries.
type WebhookHTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

const (
	defaultDeliveryTimeout  = 10 * time.Second
	maxConcurrentDeliveries = 4
)

// WebhookDispatcherOptions groups dependencies for WebhookDispatcher.
type WebhookDispatcherOptions struct {
	Repo      core.WebhookRepository // Required: webhook repository
	Client    WebhookHTTPClient      // Optional: defaults to an http.Client with a delivery timeout
	Evaluator JMESPathEvaluator      // Optional: defaults to the go-jmespath library
	Logger    *slog.Logger           // Optional: structured logger
	Metrics   statsd.Sink            // Optional: delivery outcome metrics
}

// WebhookDispatcher delivers application events to an employer's enabled
// webhooks. A webhook with a filter only receives events the filter
// evaluates truthy against.
type WebhookDispatcher struct {
	repo   core.WebhookRepository
	client WebhookHTTPClient
	jems   JMESPathEvaluator
	logger *slog.Logger
	sink   statsd.Sink
}

// NewWebhookDispatcher constructs a new WebhookDispatcher.
func NewWebhookDispatcher(opts WebhookDispatcherOptions) (*WebhookDispatcher, error) {
	if opts.Repo == nil {
		return nil, errors.New("WebhookRepository is required")
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: defaultDeliveryTimeout}
	}
	jems := opts.Evaluator
	if jems == nil {
		jems = jmespathLibEvaluator{}
	}
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "webhook_dispatcher")
	}
	return &WebhookDispatcher{repo: opts.Repo, client: client, jems: jems, logger: logger, sink: opts.Metrics}, nil
}

// Dispatch delivers the event to every enabled webhook of the employer
// whose filter matches. Failed deliveries are logged and joined into the
// returned error; one failing endpoint does not stop the others.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, employerID string, event ApplicationEvent) error {
	hooks, err := d.repo.ListEnabledByEmployer(ctx, employerID)
	if err != nil {
		return fmt.Errorf("list enabled webhooks: %w", err)
	}
	if len(hooks) == 0 {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	// Filters are evaluated against the delivered JSON document, not the
	// Go struct, so field names match what the endpoint receives.
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("decode event payload: %w", err)
	}

	// Deliveries run concurrently with a bounded fan-out. Workers record
	// failures instead of returning them so one failing endpoint never
	// cancels deliveries still in flight.
	var (
		mu   sync.Mutex
		errs []error
	)
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentDeliveries)
	for _, hook := range hooks {
		group.Go(func() error {
			if err := d.dispatchOne(gctx, hook, event, doc, body); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("webhook %s: %w", hook.ID, err))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	return errors.Join(errs...)
}

func (d *WebhookDispatcher) dispatchOne(
	ctx context.Context,
	hook *model.ApplicationWebhook,
	event ApplicationEvent,
	doc any,
	body []byte,
) error {
	ok, evalErr := d.matches(hook.Filter, doc)
	if evalErr != nil {
		if d.logger != nil {
			d.logger.WarnContext(ctx, "webhook filter evaluation failed",
				"webhook_id", hook.ID, "error", evalErr)
		}
		return evalErr
	}
	if !ok {
		return nil
	}

	start := time.Now()
	if delErr := d.deliver(ctx, hook, body); delErr != nil {
		if d.logger != nil {
			d.logger.WarnContext(ctx, "webhook delivery failed",
				"webhook_id", hook.ID, "url", hook.URL, "error", delErr)
		}
		metrics.EmitWebhookDelivery(d.sink, metrics.WebhookDeliveryMetric{
			Event:    event.Kind,
			Result:   metrics.ResultError,
			Duration: time.Since(start),
			Err:      delErr,
		})
		return delErr
	}
	metrics.EmitWebhookDelivery(d.sink, metrics.WebhookDeliveryMetric{
		Event:    event.Kind,
		Result:   metrics.ResultSuccess,
		Duration: time.Since(start),
	})
	if d.logger != nil {
		d.logger.DebugContext(ctx, "webhook delivered",
			"webhook_id", hook.ID, "kind", event.Kind)
	}
	return nil
}

func (d *WebhookDispatcher) matches(filter string, doc any) (bool, error) {
	if strings.TrimSpace(filter) == "" {
		return true, nil
	}
	res, err := d.jems.Evaluate(filter, doc)
	if err != nil {
		return false, fmt.Errorf("evaluate filter: %w", err)
	}
	return jmespathTruthy(res), nil
}

func (d *WebhookDispatcher) deliver(ctx context.Context, hook *model.ApplicationWebhook, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hook.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// jmespathTruthy applies JMESPath falsy semantics: null, false, the empty
// string, and empty arrays and objects are falsy; everything else,
// including zero, is truthy.
func jmespathTruthy(v any) bool {
	switch tv := v.(type) {
	case nil:
		return false
	case bool:
		return tv
	case string:
		return tv != ""
	case []any:
		return len(tv) > 0
	case map[string]any:
		return len(tv) > 0
	default:
		return true
	}
}
