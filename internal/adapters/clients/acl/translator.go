package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/quote-generator/internal/adapters/clients"
	"github.com/jsamuelsen/quote-generator/internal/domain"
)

// BaseAdapter provides common request and error mapping for ACL adapters.
// Embed this in service-specific adapters.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter creates a new base adapter with the given client and service name.
func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	return BaseAdapter{
		client:      client,
		serviceName: serviceName,
	}
}

// Client returns the underlying HTTP client.
func (a *BaseAdapter) Client() *clients.Client {
	return a.client
}

// ServiceName returns the name of the external service.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

type call func() (*http.Response, error)

// do executes a request and maps any failure to a domain error.
// On success, returns the response body (caller must close).
func (a *BaseAdapter) do(send call, operation, entityID string) (io.ReadCloser, error) {
	resp, err := send()
	if err != nil {
		return nil, MapHTTPError(nil, err, a.serviceName, operation, entityID)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		defer func() { _ = resp.Body.Close() }()

		return nil, MapHTTPError(resp, nil, a.serviceName, operation, entityID)
	}

	return resp.Body, nil
}

// Get performs a GET request and returns the response body.
func (a *BaseAdapter) Get(ctx context.Context, path, operation, entityID string, opts ...clients.RequestOption) (io.ReadCloser, error) {
	return a.do(func() (*http.Response, error) {
		return a.client.Get(ctx, path, opts...)
	}, operation, entityID)
}

// Post performs a POST request with a JSON-encoded payload and returns the response body.
func (a *BaseAdapter) Post(ctx context.Context, path string, payload any, operation string, opts ...clients.RequestOption) (io.ReadCloser, error) {
	body, err := encodeBody(payload)
	if err != nil {
		return nil, err
	}

	return a.do(func() (*http.Response, error) {
		return a.client.Post(ctx, path, body, opts...)
	}, operation, "")
}

// Put performs a PUT request with a JSON-encoded payload and returns the response body.
func (a *BaseAdapter) Put(ctx context.Context, path string, payload any, operation, entityID string, opts ...clients.RequestOption) (io.ReadCloser, error) {
	body, err := encodeBody(payload)
	if err != nil {
		return nil, err
	}

	return a.do(func() (*http.Response, error) {
		return a.client.Put(ctx, path, body, opts...)
	}, operation, entityID)
}

func encodeBody(payload any) (io.Reader, error) {
	if payload == nil {
		return http.NoBody, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	return bytes.NewReader(data), nil
}

// DecodeResponse reads and decodes a JSON response body into the target type.
// Closes the body after reading.
func DecodeResponse[T any](body io.ReadCloser) (*T, error) {
	if body == nil {
		return nil, errors.New("response body is nil")
	}
	defer func() { _ = body.Close() }()

	var result T
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

// DiscardResponse drains and closes a body the caller does not need.
func DiscardResponse(body io.ReadCloser) {
	if body == nil {
		return
	}

	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}

// ValidateRequired checks that a required field is not empty.
// Returns a domain.ValidationError if the field is empty.
func ValidateRequired(value, fieldName string) error {
	if value == "" {
		return domain.NewValidationError(fieldName, "is required")
	}

	return nil
}
