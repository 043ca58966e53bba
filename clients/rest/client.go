// Package rest is a thin authenticated JSON/HTTP client used by the REST
// port adapters. It knows nothing about the payment protocol.
package rest

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MatthewPhinney/five-bells-sender/domain"
)

// Config holds connection configuration.
type Config struct {
	Timeout   time.Duration
	UserAgent string
}

// Client issues JSON requests, optionally authenticated with one of the
// credential forms in the domain package.
type Client struct {
	cfg  Config
	base *http.Client
}

// NewClient creates a REST client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:  cfg,
		base: &http.Client{Timeout: cfg.Timeout},
	}
}

// Response is the decoded outcome of a request that reached the server.
type Response struct {
	Status int
	Body   []byte
}

// OK reports whether the status is in the 2xx range.
func (r *Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

// Decode unmarshals the response body into out.
func (r *Response) Decode(out any) error {
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// Get issues an unauthenticated GET. A non-nil error means the server was
// never reached; HTTP-level failure is reported through Response.Status.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.do(ctx, http.MethodGet, url, nil, nil)
}

// Put issues a PUT with a JSON body, authenticated when cred is non-nil.
func (c *Client) Put(ctx context.Context, url string, body any, cred domain.Credential) (*Response, error) {
	return c.do(ctx, http.MethodPut, url, body, cred)
}

// Post issues a POST with a JSON body, authenticated when cred is non-nil.
func (c *Client) Post(ctx context.Context, url string, body any, cred domain.Credential) (*Response, error) {
	return c.do(ctx, http.MethodPost, url, body, cred)
}

func (c *Client) do(ctx context.Context, method, url string, body any, cred domain.Credential) (*Response, error) {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	httpClient, err := c.clientFor(cred, req)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return &Response{Status: resp.StatusCode, Body: raw}, nil
}

// clientFor applies the credential: basic auth goes on the request, while a
// client certificate or custom trust anchor needs a dedicated transport.
func (c *Client) clientFor(cred domain.Credential, req *http.Request) (*http.Client, error) {
	switch cred := cred.(type) {
	case nil:
		return c.base, nil
	case domain.BasicCredential:
		req.SetBasicAuth(cred.Username, cred.Password)
		if cred.CA == nil {
			return c.base, nil
		}
		tlsCfg, err := tlsConfig(cred.CA, nil)
		if err != nil {
			return nil, err
		}
		return c.withTransport(tlsCfg), nil
	case domain.CertCredential:
		pair, err := tls.X509KeyPair(cred.Cert, cred.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}
		tlsCfg, err := tlsConfig(cred.CA, []tls.Certificate{pair})
		if err != nil {
			return nil, err
		}
		return c.withTransport(tlsCfg), nil
	default:
		return nil, fmt.Errorf("unsupported credential type %T", cred)
	}
}

func (c *Client) withTransport(tlsCfg *tls.Config) *http.Client {
	return &http.Client{
		Timeout:   c.cfg.Timeout,
		Transport: &http.Transport{TLSClientConfig: tlsCfg},
	}
}

func tlsConfig(ca []byte, certs []tls.Certificate) (*tls.Config, error) {
	cfg := &tls.Config{Certificates: certs}
	if ca != nil {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(ca) {
			return nil, fmt.Errorf("failed to parse CA bundle")
		}
		cfg.RootCAs = pool
	}
	return cfg, nil
}
