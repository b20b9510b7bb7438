package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/saga-orchestrator-service/domain"
)

const defaultStepTimeout = 30 * time.Second

var _ domain.StepInvoker = (*HTTPStepInvoker)(nil)

// HTTPStepInvoker executes saga steps as outbound HTTP calls against the
// domain collaborators. One call per step, a fixed timeout, no retries;
// timeout and connection failure surface as the same StepExecutionError as a
// non-success response.
type HTTPStepInvoker struct {
	client      *http.Client
	serviceURLs map[string]string
}

// NewHTTPStepInvoker creates an invoker resolving service names to base URLs.
func NewHTTPStepInvoker(serviceURLs map[string]string) *HTTPStepInvoker {
	return &HTTPStepInvoker{
		client:      &http.Client{Timeout: defaultStepTimeout},
		serviceURLs: serviceURLs,
	}
}

// Invoke executes one step and returns its outcome as a value.
func (i *HTTPStepInvoker) Invoke(ctx context.Context, step domain.StepDefinition, payload map[string]any) domain.StepResult {
	baseURL, ok := i.serviceURLs[step.ServiceName]
	if !ok {
		return stepErr(step.StepName, 0, "", errors.Errorf("no base URL configured for service %s", step.ServiceName))
	}

	requestURL := baseURL + resolvePlaceholders(step.RequestPath, payload)

	body, err := i.do(ctx, step.RequestMethod, requestURL, payload, step.StepName)
	if err != nil {
		if stepExecErr, ok := err.(*domain.StepExecutionError); ok {
			return domain.StepResult{Ok: false, Err: stepExecErr}
		}
		return stepErr(step.StepName, 0, "", err)
	}

	var response map[string]any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &response); err != nil {
			return stepErr(step.StepName, 0, string(body), errors.Wrap(err, "invalid response body"))
		}
	}

	entityID := deriveEntityID(response)

	return domain.StepResult{
		Ok:       true,
		Data:     response,
		EntityID: entityID,
		Compensation: domain.CompensationRecord{
			StepName:           step.StepName,
			ServiceName:        step.ServiceName,
			CompensationPath:   step.CompensationPath,
			CompensationMethod: step.CompensationMethod,
			EntityID:           entityID,
			Data:               response,
		},
	}
}

// Compensate invokes the compensation call recorded for one completed step.
// Compensation endpoints are required to be idempotent, so replaying a
// record is safe.
func (i *HTTPStepInvoker) Compensate(ctx context.Context, record domain.CompensationRecord) error {
	if record.CompensationPath == "" {
		return nil
	}

	baseURL, ok := i.serviceURLs[record.ServiceName]
	if !ok {
		return errors.Errorf("no base URL configured for service %s", record.ServiceName)
	}

	path := record.CompensationPath
	if record.EntityID != "" {
		path = strings.ReplaceAll(path, "{order_id}", record.EntityID)
		path = strings.ReplaceAll(path, "{payment_id}", record.EntityID)
	}

	method := record.CompensationMethod
	if method == "" {
		method = http.MethodPost
	}

	_, err := i.do(ctx, method, baseURL+path, record.Data, record.StepName)
	return err
}

// do issues the call with method-specific body semantics: POST carries the
// payload as JSON, PUT sends an empty body for pure status transitions,
// DELETE has no body and GET encodes the payload as query params.
func (i *HTTPStepInvoker) do(ctx context.Context, method, requestURL string, payload map[string]any, stepName string) ([]byte, error) {
	var reqBody io.Reader
	headers := map[string]string{}

	switch method {
	case http.MethodPost:
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal request body")
		}
		reqBody = bytes.NewReader(data)
		headers["Content-Type"] = "application/json"
	case http.MethodPut:
		if len(payload) > 0 {
			data, err := json.Marshal(payload)
			if err != nil {
				return nil, errors.Wrap(err, "failed to marshal request body")
			}
			reqBody = bytes.NewReader(data)
			headers["Content-Type"] = "application/json"
		}
	case http.MethodGet:
		params := url.Values{}
		for k, v := range payload {
			params.Set(k, fmt.Sprintf("%v", v))
		}
		if encoded := params.Encode(); encoded != "" {
			requestURL += "?" + encoded
		}
	case http.MethodDelete:
		// no body
	default:
		return nil, errors.Errorf("unsupported request method %s", method)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := i.client.Do(req)
	if err != nil {
		return nil, &domain.StepExecutionError{StepName: stepName, Cause: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &domain.StepExecutionError{StepName: stepName, Cause: err}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &domain.StepExecutionError{
			StepName:   stepName,
			StatusCode: res.StatusCode,
			Body:       string(body),
		}
	}

	return body, nil
}

// resolvePlaceholders substitutes path tokens from the step payload.
func resolvePlaceholders(path string, payload map[string]any) string {
	for _, key := range []string{domain.OrderIDKey, domain.PaymentIDKey} {
		token := "{" + key + "}"
		if !strings.Contains(path, token) {
			continue
		}
		if value, ok := payload[key]; ok {
			path = strings.ReplaceAll(path, token, fmt.Sprintf("%v", value))
		}
	}
	return path
}

// deriveEntityID extracts the created resource's identifier from a response,
// falling back from the generic id to method-specific fields.
func deriveEntityID(response map[string]any) string {
	for _, key := range []string{"id", domain.OrderIDKey, domain.PaymentIDKey} {
		if value, ok := response[key]; ok && value != nil {
			return fmt.Sprintf("%v", value)
		}
	}
	return ""
}

func stepErr(stepName string, status int, body string, cause error) domain.StepResult {
	return domain.StepResult{
		Ok: false,
		Err: &domain.StepExecutionError{
			StepName:   stepName,
			StatusCode: status,
			Body:       body,
			Cause:      cause,
		},
	}
}
