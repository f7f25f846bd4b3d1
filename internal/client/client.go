package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/justsurfingit/job-posts/internal/models"
)

const DefaultBaseURL = "http://localhost:5000/api"

// APIError is a non-2xx answer from the job posts API.
type APIError struct {
	StatusCode int
	Message    string // the "error" field of the body, when present
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status code %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with status code %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to the /job-posts endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for baseURL (for example http://localhost:5000/api).
// A nil httpClient means http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: trimmed, httpClient: httpClient}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) ListJobPosts(ctx context.Context) ([]models.JobPost, error) {
	var posts []models.JobPost
	if err := c.do(ctx, http.MethodGet, "/job-posts", nil, &posts); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.JobPost{}
	}
	return posts, nil
}

func (c *Client) GetJobPost(ctx context.Context, id int) (models.JobPost, error) {
	var post models.JobPost
	err := c.do(ctx, http.MethodGet, postPath(id), nil, &post)
	return post, err
}

func (c *Client) CreateJobPost(ctx context.Context, data models.JobPostFormData) (models.JobPost, error) {
	var post models.JobPost
	err := c.do(ctx, http.MethodPost, "/job-posts", data, &post)
	return post, err
}

func (c *Client) UpdateJobPost(ctx context.Context, id int, data models.JobPostFormData) (models.JobPost, error) {
	var post models.JobPost
	err := c.do(ctx, http.MethodPut, postPath(id), data, &post)
	return post, err
}

func (c *Client) DeleteJobPost(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, postPath(id), nil, nil)
}

// DraftJobPost asks the server to draft a post from a pasted advert.
func (c *Client) DraftJobPost(ctx context.Context, rawText string) (models.JobPostFormData, error) {
	var resp struct {
		Draft models.JobPostFormData `json:"draft"`
	}
	err := c.do(ctx, http.MethodPost, "/job-posts/draft", map[string]string{"rawText": rawText}, &resp)
	return resp.Draft, err
}

func postPath(id int) string {
	return "/job-posts/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var e errorResponse
		if json.Unmarshal(payload, &e) == nil {
			apiErr.Message = e.Error
		}
		return apiErr
	}

	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
