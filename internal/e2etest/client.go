package e2etest

import (
	"context"
	"encoding/json"
	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/foxtrail/internal/detective"
	"github.com/myrjola/foxtrail/internal/errors"
	"io"
	"log/slog"
	"net/http"
	neturl "net/url"
	"strings"
	"time"
)

type Client struct {
	client *http.Client
	url    string
}

// NewClient creates a cookie-aware HTTP client for the server at url.
func NewClient(url string) (*Client, error) {
	jar, err := newLoopbackCookieJar()
	if err != nil {
		return nil, errors.Wrap(err, "create cookie jar")
	}
	return &Client{
		client: &http.Client{Jar: jar}, //nolint:exhaustruct // defaults are fine for tests
		url:    url,
	}, nil
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = c.newRequestWithContext(ctx, http.MethodGet, urlPath, nil); err != nil {
			return errors.Wrap(err, "create request")
		}

		if resp, err = c.client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return errors.Wrap(err, "close response body")
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return errors.Wrap(err, "close response body")
			}
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "context cancelled")
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// Get fetches a URL and returns the response.
func (c *Client) Get(ctx context.Context, urlPath string) (*http.Response, error) {
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	if req, err = c.newRequestWithContext(ctx, http.MethodGet, urlPath, nil); err != nil {
		return nil, errors.Wrap(err, "create request with context")
	}
	if resp, err = c.client.Do(req); err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	return resp, nil
}

// GetDoc fetches a URL and returns a goquery document.
func (c *Client) GetDoc(ctx context.Context, urlPath string) (*goquery.Document, error) {
	var (
		err  error
		resp *http.Response
	)
	if resp, err = c.Get(ctx, urlPath); err != nil {
		return nil, errors.Wrap(err, "client get")
	}
	return readDoc(resp)
}

// State fetches the board of the current game as JSON.
func (c *Client) State(ctx context.Context) (detective.Snapshot, error) {
	var (
		err      error
		resp     *http.Response
		snapshot detective.Snapshot
	)
	if resp, err = c.Get(ctx, "/detective/state"); err != nil {
		return snapshot, errors.Wrap(err, "client get")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if http.StatusOK != resp.StatusCode {
		return snapshot, errors.New("unexpected status code", slog.Int("status", resp.StatusCode))
	}
	if err = json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return snapshot, errors.Wrap(err, "decode snapshot")
	}
	return snapshot, nil
}

// SubmitForm submits the form matching formSelector in doc with the values of its named inputs and returns the
// document the server responds with after redirects.
func (c *Client) SubmitForm(
	ctx context.Context,
	doc *goquery.Document,
	formSelector string,
) (*goquery.Document, error) {
	var (
		req *http.Request
		err error
	)
	if req, err = c.newFormRequest(ctx, doc, formSelector); err != nil {
		return nil, errors.Wrap(err, "new form request")
	}
	var resp *http.Response
	if resp, err = c.client.Do(req); err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	return readDoc(resp)
}

// SubmitFormHX submits the form like htmx does and returns the board fragment the server swaps in.
func (c *Client) SubmitFormHX(
	ctx context.Context,
	doc *goquery.Document,
	formSelector string,
) (*goquery.Document, error) {
	var (
		req *http.Request
		err error
	)
	if req, err = c.newFormRequest(ctx, doc, formSelector); err != nil {
		return nil, errors.Wrap(err, "new form request")
	}
	req.Header.Set("HX-Request", "true")
	var resp *http.Response
	if resp, err = c.client.Do(req); err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	return readDoc(resp)
}

func (c *Client) newFormRequest(ctx context.Context, doc *goquery.Document, formSelector string) (*http.Request, error) {
	form := doc.Find(formSelector)
	if form.Length() != 1 {
		return nil, errors.New("form not found", slog.String("selector", formSelector), slog.Int("matches", form.Length()))
	}
	action, ok := form.Attr("action")
	if !ok {
		return nil, errors.New("form has no action", slog.String("selector", formSelector))
	}

	formData := neturl.Values{}
	form.Find("input[name]").Each(func(_ int, input *goquery.Selection) {
		name, _ := input.Attr("name")
		value, _ := input.Attr("value")
		formData.Add(name, value)
	})
	if !formData.Has("csrf_token") {
		return nil, errors.New("csrf_token not found in form", slog.String("selector", formSelector))
	}

	req, err := c.newRequestWithContext(ctx, http.MethodPost, action, strings.NewReader(formData.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "new request with context")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req, nil
}

// newRequestWithContext creates a new HTTP request to the server that respects the given context.
func (c *Client) newRequestWithContext(
	ctx context.Context,
	method, urlPath string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url+urlPath, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	return req, nil
}

func readDoc(resp *http.Response) (*goquery.Document, error) {
	defer func() {
		_ = resp.Body.Close()
	}()
	if http.StatusOK != resp.StatusCode {
		return nil, errors.New("unexpected status code", slog.Int("status", resp.StatusCode))
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "create document from reader")
	}
	return doc, nil
}
