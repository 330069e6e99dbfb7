// Package scraper fetches job listing pages and reduces them to plain text.
package scraper

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/ZanzyTHEbar/job-fraud-detector/internal/monitoring"
	"github.com/ZanzyTHEbar/job-fraud-detector/internal/resilience"
)

// Failure statuses reported to clients
const (
	StatusTimeout             = "timeout"
	StatusConnectionError     = "connection_error"
	StatusHTTPError           = "http_error"
	StatusInsufficientContent = "insufficient_content"
	StatusError               = "error"
)

const (
	// DefaultUserAgent mimics a desktop browser
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// MinContentLength is the shortest extracted text accepted, in characters
	MinContentLength = 50

	unknownTitle = "Unknown"
)

// strippedElements never contribute to the extracted text
const strippedElements = "script, style, nav, footer, header"

// Listing is the text extracted from a fetched page
type Listing struct {
	Text  string
	Title string
	URL   string
}

// FetchError is a typed fetch failure. Message is safe to show clients.
type FetchError struct {
	Status     string
	Message    string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Config controls outbound fetches
type Config struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

// Fetcher retrieves listings with one GET per call and no retries
type Fetcher struct {
	client   *http.Client
	config   Config
	breakers *resilience.CircuitBreakerRegistry
	metrics  *monitoring.Metrics
	logger   *monitoring.Logger
}

// NewFetcher creates a fetcher. breakers, metrics and logger may be nil.
func NewFetcher(config Config, breakers *resilience.CircuitBreakerRegistry, metrics *monitoring.Metrics, logger *monitoring.Logger) *Fetcher {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = 5 << 20
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: config.Timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
		config:   config,
		breakers: breakers,
		metrics:  metrics,
		logger:   logger,
	}
}

// CountsAsFailure reports whether err should trip a host's breaker.
// Only transport failures and 5xx responses count.
func CountsAsFailure(err error) bool {
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		return err != nil
	}
	switch fetchErr.Status {
	case StatusTimeout, StatusConnectionError:
		return true
	case StatusHTTPError:
		return fetchErr.StatusCode >= http.StatusInternalServerError
	default:
		return false
	}
}

// Fetch downloads rawURL and extracts its title and visible text
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Listing, error) {
	start := time.Now()

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, f.finish("", start, genericError(err))
	}
	host := parsed.Hostname()

	var listing *Listing
	call := func() error {
		var fetchErr error
		listing, fetchErr = f.fetch(ctx, rawURL)
		return fetchErr
	}

	if f.breakers != nil && host != "" {
		err = f.breakers.Get(host).Call(call)
	} else {
		err = call()
	}

	var cbErr *resilience.CircuitBreakerError
	if errors.As(err, &cbErr) {
		err = &FetchError{
			Status:  StatusConnectionError,
			Message: "Could not connect to the website. Please check the URL.",
			Err:     err,
		}
	}
	if err != nil {
		return nil, f.finish(host, start, err)
	}

	f.finish(host, start, nil)
	return listing, nil
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (*Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, genericError(err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &FetchError{
			Status:     StatusHTTPError,
			Message:    fmt.Sprintf("HTTP error occurred: %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodyBytes))
	if err != nil {
		return nil, classifyTransportError(err)
	}

	title, text, err := Extract(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, genericError(err)
	}

	if utf8.RuneCountInString(text) < MinContentLength {
		return nil, &FetchError{
			Status:     StatusInsufficientContent,
			Message:    "Could not extract sufficient content from the URL",
			StatusCode: resp.StatusCode,
		}
	}

	return &Listing{Text: text, Title: title, URL: rawURL}, nil
}

// Extract parses an HTML document and returns its title and visible text.
// Script, style and page chrome elements are dropped, text nodes are
// trimmed and joined by single spaces.
func Extract(body []byte, contentType string) (title, text string, err error) {
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return "", "", fmt.Errorf("decode body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return "", "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find(strippedElements).Remove()

	title = collapse(doc.Find("h1, h2").First().Text())
	if title == "" {
		title = unknownTitle
	}

	var words []string
	for _, root := range doc.Nodes {
		words = appendText(words, root)
	}

	return title, strings.Join(words, " "), nil
}

func appendText(words []string, n *html.Node) []string {
	if n.Type == html.TextNode {
		return append(words, strings.Fields(n.Data)...)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		words = appendText(words, c)
	}
	return words
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (f *Fetcher) finish(host string, start time.Time, err error) error {
	outcome, statusCode := "ok", http.StatusOK
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		outcome, statusCode = fetchErr.Status, fetchErr.StatusCode
	}

	duration := time.Since(start)
	if f.metrics != nil {
		f.metrics.RecordFetch(outcome, duration)
	}
	if f.logger != nil {
		f.logger.FetchLogger(host, statusCode, outcome, duration)
	}
	return err
}

func genericError(err error) *FetchError {
	return &FetchError{
		Status:  StatusError,
		Message: "Failed to fetch job listing: " + err.Error(),
		Err:     err,
	}
}

func classifyTransportError(err error) *FetchError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &FetchError{
			Status:  StatusTimeout,
			Message: "Request timed out. The website took too long to respond.",
			Err:     err,
		}
	}

	if isConnectionError(err) {
		return &FetchError{
			Status:  StatusConnectionError,
			Message: "Could not connect to the website. Please check the URL.",
			Err:     err,
		}
	}

	return genericError(err)
}

func isConnectionError(err error) bool {
	var (
		opErr   *net.OpError
		dnsErr  *net.DNSError
		certErr *tls.CertificateVerificationError
	)
	switch {
	case errors.As(err, &opErr), errors.As(err, &dnsErr), errors.As(err, &certErr):
		return true
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return true
	}
	return false
}
