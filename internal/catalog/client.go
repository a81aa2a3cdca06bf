package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public catalog API.
const DefaultBaseURL = "https://kitanime-api.vercel.app/v1"

// RequestIDHeader carries the id generated for every request.
const RequestIDHeader = "X-Request-Id"

// maxErrorBody bounds the body excerpt kept in HTTP errors.
const maxErrorBody = 200

// maxResponseBody bounds the size of an API response.
const maxResponseBody = 8 << 20

// ErrResponseTooLarge is returned for API responses over the size limit.
var ErrResponseTooLarge = errors.New("response too large")

// Error is returned by every catalog fetch that failed.
//
// Endpoint is the path relative to the base URL, e.g. "/anime/one-piece".
type Error struct {
	Endpoint string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to fetch from %s: %v", e.Endpoint, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrAPI is wrapped by errors reported through a non-"Ok" envelope.
var ErrAPI = errors.New("API returned an error")

// StatusError is an unsuccessful HTTP response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.Code, e.Body)
}

// Client wraps HTTP operations against the catalog API and the file hosts
// it links to.
//
// Client provides:
//   - Envelope decoding with typed errors
//   - A request id on every request, logged with zap
//   - File download with progress tracking
//
// Example usage:
//
//	client := catalog.New(catalog.DefaultBaseURL, catalog.WithTimeout(30*time.Second))
//
//	home, err := client.Home(ctx)
//
//	err = client.DownloadFile(ctx, fileURL, "/path/to/episode.mp4", func(written, total int64) {
//	    fmt.Printf("%d / %d\n", written, total)
//	})
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// DownloadClient fetches files. It has no overall timeout, downloads
	// are bounded by their context.
	DownloadClient *http.Client

	log       *zap.Logger
	userAgent string
	maxBody   int64
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger requests are reported to.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithTimeout sets the timeout of every API request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.HTTPClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.HTTPClient = hc
		c.DownloadClient = hc
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a Client for the API at baseURL, DefaultBaseURL when empty.
//
// API requests time out after 60 seconds. The client does not log
// unless WithLogger is given.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		BaseURL:        strings.TrimRight(baseURL, "/"),
		HTTPClient:     &http.Client{Timeout: 60 * time.Second},
		DownloadClient: &http.Client{},
		log:            zap.NewNop(),
		userAgent:      "otokonime",
		maxBody:        maxResponseBody,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// envelope is the wrapper around every API payload.
type envelope struct {
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination json.RawMessage `json:"pagination"`
}

// fetch requests endpoint and decodes the envelope's data into out.
//
// The raw pagination block is returned for listings. Every failure is
// wrapped in an *Error naming endpoint.
func (c *Client) fetch(ctx context.Context, endpoint string, out any) (json.RawMessage, error) {
	reqID := uuid.NewString()
	log := c.log.With(zap.String("endpoint", endpoint), zap.String("request_id", reqID))
	start := time.Now()

	env, err := c.fetchEnvelope(ctx, endpoint, reqID)
	if err == nil && out != nil {
		if uerr := json.Unmarshal(env.Data, out); uerr != nil {
			err = fmt.Errorf("decode data: %w", uerr)
		}
	}
	if err != nil {
		log.Warn("catalog fetch failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return nil, &Error{Endpoint: endpoint, Err: err}
	}

	log.Debug("catalog fetch", zap.Duration("elapsed", time.Since(start)))
	return env.Pagination, nil
}

func (c *Client) fetchEnvelope(ctx context.Context, endpoint, reqID string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, reqID)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: over %d bytes", ErrResponseTooLarge, c.maxBody)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: excerpt(body)}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Status != "Ok" {
		if env.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrAPI, env.Message)
		}
		return nil, ErrAPI
	}
	return &env, nil
}

func excerpt(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}

// ProgressWriter wraps a writer to track download progress.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, response.Body)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes, -1 when unknown.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// get performs a GET request against an absolute URL outside the API.
func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, uuid.NewString())

	resp, err := c.DownloadClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Body: excerpt(body)}
	}
	return resp, nil
}

// DownloadBytes downloads a small file, such as a poster, into memory.
func (c *Client) DownloadBytes(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// DownloadFile downloads url to destPath with an optional progress callback.
//
// The content is streamed to destPath+".part", which is renamed into place
// once complete, so an interrupted download never leaves a truncated file
// under the final name.
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) error {
	resp, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	partPath := destPath + ".part"
	file, err := os.Create(partPath)
	if err != nil {
		return err
	}

	var writer io.Writer = file
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   file,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}
	}

	_, err = io.Copy(writer, resp.Body)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(partPath)
		return err
	}
	return os.Rename(partPath, destPath)
}
