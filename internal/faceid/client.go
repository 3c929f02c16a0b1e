// Package faceid is the HTTP client for the face-ID signup and login endpoints.
package faceid

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/andresmejia3/faceid/internal/types"
)

const (
	SignupPath = "/faceid/signup/"
	LoginPath  = "/faceid/login/"

	// LoginFilename is the upload name used for every login photo.
	LoginFilename = "login.jpg"

	maxResponseBytes = 1 << 20
)

// ErrMalformedResponse is returned when the body is not JSON, or is JSON null.
var ErrMalformedResponse = errors.New("malformed response")

// Client posts captured stills to a face-ID backend.
type Client struct {
	baseURL string
	http    *http.Client

	// Progress, if set, is called once per request with the body size and
	// receives a copy of the body as it is sent.
	Progress func(size int64) io.Writer
}

// NewClient validates baseURL and returns a client using httpClient
// (or a client without an overall timeout when nil).
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q: missing host", baseURL)
	}
	if httpClient == nil {
		httpClient = NewHTTPClient(0)
	}
	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    httpClient,
	}, nil
}

// BaseURL returns the server root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Signup registers name with photo. The photo is uploaded as "<name>.jpg".
func (c *Client) Signup(ctx context.Context, name string, photo types.Payload) (types.AuthResult, error) {
	body, contentType, err := encodeForm([][2]string{{"name", name}}, name+".jpg", photo)
	if err != nil {
		return types.AuthResult{}, err
	}
	return c.post(ctx, SignupPath, body, contentType)
}

// Login submits photo for identification.
func (c *Client) Login(ctx context.Context, photo types.Payload) (types.AuthResult, error) {
	body, contentType, err := encodeForm(nil, LoginFilename, photo)
	if err != nil {
		return types.AuthResult{}, err
	}
	return c.post(ctx, LoginPath, body, contentType)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeForm builds a multipart body with the text fields followed by a
// "photo" file part whose Content-Type is the payload's MIME type.
func encodeForm(fields [][2]string, filename string, photo types.Payload) ([]byte, string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for _, f := range fields {
		if err := writer.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	mime := photo.MIME
	if mime == "" {
		mime = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename="%s"`, quoteEscaper.Replace(filename)))
	h.Set("Content-Type", mime)
	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(photo.Data); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body.Bytes(), writer.FormDataContentType(), nil
}

func (c *Client) post(ctx context.Context, path string, body []byte, contentType string) (types.AuthResult, error) {
	var r io.Reader = bytes.NewReader(body)
	if c.Progress != nil {
		if w := c.Progress(int64(len(body))); w != nil {
			r = io.TeeReader(r, w)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, r)
	if err != nil {
		return types.AuthResult{}, err
	}
	req.ContentLength = int64(len(body))
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return types.AuthResult{}, fmt.Errorf("POST %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return types.AuthResult{}, fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return types.AuthResult{}, fmt.Errorf("%w from %s (status %d): %v (body: %s)",
			ErrMalformedResponse, path, resp.StatusCode, err, truncate(string(data), 200))
	}
	if decoded == nil {
		return types.AuthResult{}, fmt.Errorf("%w from %s (status %d): null body", ErrMalformedResponse, path, resp.StatusCode)
	}
	return interpret(decoded, resp.StatusCode), nil
}

// interpret reads a decoded JSON body. Only a literal true "success" is a
// success; any other JSON value, including a missing field, is a rejection.
// The HTTP status is recorded but does not decide the outcome.
func interpret(body any, status int) types.AuthResult {
	res := types.AuthResult{StatusCode: status}
	obj, ok := body.(map[string]any)
	if !ok {
		return res
	}
	res.Success = obj["success"] == true
	res.Name, _ = obj["name"].(string)
	res.RedirectURL, _ = obj["redirect_url"].(string)
	return res
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
