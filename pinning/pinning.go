package pinning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"charm-dblog-tui/domain"
	"charm-dblog-tui/metrics"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ipfs/go-cid"
)

const (
	DefaultEndpoint = "https://api.pinata.cloud/pinning/pinFileToIPFS"
	DefaultGateway  = "https://gateway.pinata.cloud"
)

// Client pins files through the Pinata HTTP API
type Client struct {
	endpoint string
	jwt      string
	gateway  string
	http     *http.Client
	metrics  *metrics.Recorder
}

type Options struct {
	Endpoint string
	JWT      string
	Gateway  string
	Timeout  time.Duration
	HTTP     *http.Client
	Metrics  *metrics.Recorder
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

type pinMetadata struct {
	Name string `json:"name"`
}

type pinOptions struct {
	CIDVersion int `json:"cidVersion"`
}

func New(opts Options) *Client {
	c := &Client{
		endpoint: opts.Endpoint,
		jwt:      opts.JWT,
		gateway:  strings.TrimRight(opts.Gateway, "/"),
		http:     opts.HTTP,
		metrics:  opts.Metrics,
	}
	if c.endpoint == "" {
		c.endpoint = DefaultEndpoint
	}
	if c.gateway == "" {
		c.gateway = DefaultGateway
	}
	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		c.http = &http.Client{Timeout: timeout}
	}
	return c
}

// Upload pins the contents of r under name and returns the content hash
func (c *Client) Upload(ctx context.Context, name string, r io.Reader) (hash string, err error) {
	start := time.Now()
	var size int64
	defer func() {
		if c.metrics != nil {
			c.metrics.ObserveUpload(size, time.Since(start), err)
		}
	}()

	if c.jwt == "" {
		return "", fmt.Errorf("%w: no pinning credentials configured", domain.ErrUpload)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %w", domain.ErrUpload, name, err)
	}
	size = int64(len(data))

	body, contentType, err := encodeForm(name, data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUpload, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.jwt)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUpload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: pinning service returned %d: %s", domain.ErrUpload, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decoding response: %w", domain.ErrUpload, err)
	}
	if _, err := cid.Decode(out.IpfsHash); err != nil {
		return "", fmt.Errorf("%w: invalid IpfsHash %q: %w", domain.ErrUpload, out.IpfsHash, err)
	}
	return out.IpfsHash, nil
}

// GatewayURL returns the public gateway URL for a content hash
func (c *Client) GatewayURL(hash string) string {
	return GatewayURL(c.gateway, hash)
}

func GatewayURL(gateway, hash string) string {
	if hash == "" {
		return ""
	}
	if gateway == "" {
		gateway = DefaultGateway
	}
	return strings.TrimRight(gateway, "/") + "/ipfs/" + hash
}

func encodeForm(name string, data []byte) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(name)))
	h.Set("Content-Type", mimetype.Detect(data).String())
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}

	meta, err := json.Marshal(pinMetadata{Name: name})
	if err != nil {
		return nil, "", err
	}
	if err := w.WriteField("pinataMetadata", string(meta)); err != nil {
		return nil, "", err
	}

	opts, err := json.Marshal(pinOptions{CIDVersion: 0})
	if err != nil {
		return nil, "", err
	}
	if err := w.WriteField("pinataOptions", string(opts)); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
