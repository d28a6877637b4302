/*
Copyright 2024-2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

//nolint:err113,revive // dynamic errors and naming conventions acceptable in test code
package api

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/tidwall/gjson"

	"github.com/unikorn-cloud/storyspoiler/pkg/openapi"
)

type APIClient struct {
	baseURL   string
	client    *http.Client
	authToken string
	config    *TestConfig
	endpoints *Endpoints
	validator *openapi.Validator
}

// StoryResult is the outcome of a story mutation.  Only the status code and
// the two envelope fields are modelled, the raw body is kept for diagnostics.
type StoryResult struct {
	StatusCode int
	Message    string
	StoryID    string
	Body       []byte
}

// StoriesResult is the outcome of a story listing.  Stories is only decoded
// on success.
type StoriesResult struct {
	StatusCode int
	Stories    openapi.StoriesRead
	Body       []byte
}

func NewAPIClient(baseURL string) (*APIClient, error) {
	config, err := LoadTestConfig()
	if err != nil {
		return nil, err
	}

	if baseURL == "" {
		baseURL = config.BaseURL
	}

	return newAPIClientWithConfig(config, baseURL)
}

func NewAPIClientWithConfig(config *TestConfig) (*APIClient, error) {
	return newAPIClientWithConfig(config, config.BaseURL)
}

// common constructor logic.
func newAPIClientWithConfig(config *TestConfig, baseURL string) (*APIClient, error) {
	client := &APIClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		config:    config,
		endpoints: NewEndpoints(),
	}

	if config.ValidateResponses {
		validator, err := openapi.NewValidator()
		if err != nil {
			return nil, err
		}

		client.validator = validator
	}

	return client, nil
}

func (c *APIClient) SetAuthToken(token string) {
	c.authToken = token
}

// Close releases any pooled connections.
func (c *APIClient) Close() {
	c.client.CloseIdleConnections()
}

// logError logs a generic error with trace context.
func (c *APIClient) logError(method, path string, duration time.Duration, traceParent string, err error, context string) {
	ginkgo.GinkgoWriter.Printf("[%s %s] ERROR %s duration=%s traceparent=%s error=%v\n", method, path, context, duration, traceParent, err)
	c.logTraceContext(traceParent)
}

// logErrorWithStatus logs an error with HTTP status code.
func (c *APIClient) logErrorWithStatus(method, path string, duration time.Duration, statusCode int, traceParent string, err error, context string) {
	ginkgo.GinkgoWriter.Printf("[%s %s] ERROR %s duration=%s status=%d traceparent=%s error=%v\n", method, path, context, duration, statusCode, traceParent, err)
	c.logTraceContext(traceParent)
}

// logUnexpectedStatus logs an unexpected HTTP status code.
func (c *APIClient) logUnexpectedStatus(method, path string, expectedStatus, actualStatus int, body, traceParent string) {
	ginkgo.GinkgoWriter.Printf("[%s %s] UNEXPECTED STATUS expected=%d got=%d body=%s traceparent=%s\n", method, path, expectedStatus, actualStatus, body, traceParent)
	c.logTraceContext(traceParent)
}

// logTraceContext logs the trace context information.
func (c *APIClient) logTraceContext(traceParent string) {
	ginkgo.GinkgoWriter.Printf("TRACE CONTEXT: Use trace ID '%s' to search logs for this request\n", extractTraceID(traceParent))
}

// generateTraceID creates a new W3C trace ID, one per request so failures can
// be found in the service logs.
func generateTraceID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// generateSpanID creates a new W3C span ID.
func generateSpanID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// createTraceParent creates a W3C traceparent header value.
func createTraceParent() string {
	traceID := generateTraceID()
	spanID := generateSpanID()

	return fmt.Sprintf("00-%s-%s-01", traceID, spanID)
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

// doRequest performs a request, JSON encoding the body if one is given.  An
// expectedStatus of zero accepts any status, leaving the caller to interpret it.
//
//nolint:cyclop // test code complexity is acceptable
func (c *APIClient) doRequest(ctx context.Context, method, path string, body any, expectedStatus int) (*http.Response, []byte, error) {
	fullURL := c.baseURL + path

	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("marshaling request body: %w", err)
		}

		if c.config.DebugLogging {
			ginkgo.GinkgoWriter.Printf("[%s %s] request body: %s\n", method, path, string(data))
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}

	// Add W3C Trace Context headers
	traceParent := createTraceParent()
	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation=ginkgo")
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logError(method, path, duration, traceParent, err, "http request failed")
		return nil, nil, fmt.Errorf("http request failed: %w", err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logErrorWithStatus(method, path, duration, resp.StatusCode, traceParent, err, "reading response body")
		return resp, nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.config.LogRequests {
		ginkgo.GinkgoWriter.Printf("[%s %s] status=%d duration=%s traceparent=%s\n", method, path, resp.StatusCode, duration, traceParent)
	}

	if c.config.LogResponses && len(respBody) > 0 {
		ginkgo.GinkgoWriter.Printf("[%s %s] response body: %s\n", method, path, string(respBody))
	}

	if c.validator != nil {
		if err := c.validator.ValidateResponse(ctx, req, resp.StatusCode, resp.Header, respBody); err != nil {
			c.logErrorWithStatus(method, path, duration, resp.StatusCode, traceParent, err, "validating response")
			return resp, respBody, fmt.Errorf("%w (trace ID: %s)", err, extractTraceID(traceParent))
		}
	}

	if expectedStatus > 0 && resp.StatusCode != expectedStatus {
		c.logUnexpectedStatus(method, path, expectedStatus, resp.StatusCode, string(respBody), traceParent)
		return resp, respBody, fmt.Errorf("unexpected status code: expected %d, got %d, body: %s (trace ID: %s)", expectedStatus, resp.StatusCode, string(respBody), extractTraceID(traceParent))
	}

	return resp, respBody, nil
}

// newStoryResult reads the envelope leniently, error responses aren't
// guaranteed to be JSON so missing fields are left empty.
func newStoryResult(resp *http.Response, respBody []byte) *StoryResult {
	return &StoryResult{
		StatusCode: resp.StatusCode,
		Message:    gjson.GetBytes(respBody, "msg").String(),
		StoryID:    gjson.GetBytes(respBody, "storyId").String(),
		Body:       respBody,
	}
}

// Authenticate exchanges credentials for an access token.  Any failure,
// including a missing or blank token, is reported as ErrAuthentication.
func (c *APIClient) Authenticate(ctx context.Context, credentials *openapi.Credentials) (string, error) {
	path := c.endpoints.Authenticate()

	//nolint:bodyclose // response body is closed in doRequest
	_, respBody, err := c.doRequest(ctx, http.MethodPost, path, credentials, http.StatusOK)
	if err != nil {
		return "", fmt.Errorf("%w: failed to get access token: %w", ErrAuthentication, err)
	}

	token := gjson.GetBytes(respBody, "accessToken").String()
	if strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("%w: access token is empty or missing", ErrAuthentication)
	}

	return token, nil
}

// CreateStory creates a new story spoiler.
func (c *APIClient) CreateStory(ctx context.Context, story *openapi.StoryWrite) (*StoryResult, error) {
	path := c.endpoints.CreateStory()

	//nolint:bodyclose // response body is closed in doRequest
	resp, respBody, err := c.doRequest(ctx, http.MethodPost, path, story, 0)
	if err != nil {
		return nil, fmt.Errorf("creating story: %w", err)
	}

	return newStoryResult(resp, respBody), nil
}

// EditStory replaces the fields of an existing story.
func (c *APIClient) EditStory(ctx context.Context, storyID string, story *openapi.StoryWrite) (*StoryResult, error) {
	path := c.endpoints.EditStory(storyID)

	//nolint:bodyclose // response body is closed in doRequest
	resp, respBody, err := c.doRequest(ctx, http.MethodPut, path, story, 0)
	if err != nil {
		return nil, fmt.Errorf("editing story: %w", err)
	}

	return newStoryResult(resp, respBody), nil
}

// ListStories returns every story visible to the session.
func (c *APIClient) ListStories(ctx context.Context) (*StoriesResult, error) {
	path := c.endpoints.ListStories()

	//nolint:bodyclose // response body is closed in doRequest
	resp, respBody, err := c.doRequest(ctx, http.MethodGet, path, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("listing stories: %w", err)
	}

	result := &StoriesResult{
		StatusCode: resp.StatusCode,
		Body:       respBody,
	}

	if resp.StatusCode == http.StatusOK {
		if err := json.Unmarshal(respBody, &result.Stories); err != nil {
			return nil, fmt.Errorf("unmarshaling stories response: %w", err)
		}
	}

	return result, nil
}

// DeleteStory deletes a story.
func (c *APIClient) DeleteStory(ctx context.Context, storyID string) (*StoryResult, error) {
	path := c.endpoints.DeleteStory(storyID)

	//nolint:bodyclose // response body is closed in doRequest
	resp, respBody, err := c.doRequest(ctx, http.MethodDelete, path, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("deleting story: %w", err)
	}

	return newStoryResult(resp, respBody), nil
}
