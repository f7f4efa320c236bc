// Package chain is a typed client for the REST API exposed by the blockchain
// service under test. The service itself is external; the contract consumed
// here is GET /chain, GET /mine, POST /nodes/register and GET /nodes/resolve.
package chain

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// ReplacedMessage is the literal message the service returns from
// /nodes/resolve when consensus replaced the local chain. The wording is part
// of the service's public behavior, so it is matched verbatim.
const ReplacedMessage = "Our chain was replaced"

// DefaultTimeout bounds every request. The service answers mining calls
// synchronously, so this needs headroom for proof-of-work.
const DefaultTimeout = 30 * time.Second

// Client talks to a single node of the blockchain service.
type Client struct {
	cl *resty.Client
}

type chainResponse struct {
	Length int `json:"length"`
}

type registerRequest struct {
	Nodes []string `json:"nodes"`
}

type registerResponse struct {
	TotalNodes []string `json:"total_nodes"`
}

type resolveResponse struct {
	Message string `json:"message"`
}

// New constructs a client for the node reachable at baseURL, e.g.
// "http://127.0.0.1:5001".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		cl: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(DefaultTimeout).
			SetRetryCount(0),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.cl.SetTimeout(d)
	}
}

// Length returns the node's current chain length.
func (c *Client) Length(ctx context.Context) (int, error) {
	var out chainResponse
	resp, err := c.cl.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/chain")
	if err != nil {
		return 0, fmt.Errorf("fetching chain: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, fmt.Errorf("fetching chain: non-ok response (%s): %s", resp.Status(), resp.String())
	}
	return out.Length, nil
}

// Mine asks the node to mine exactly one block. The response body is
// irrelevant; only success matters.
func (c *Client) Mine(ctx context.Context) error {
	resp, err := c.cl.R().
		SetContext(ctx).
		Get("/mine")
	if err != nil {
		return fmt.Errorf("mining block: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("mining block: non-ok response (%s): %s", resp.Status(), resp.String())
	}
	return nil
}

// RegisterPeers submits peer URLs to the node and returns how many peers the
// node reports in total afterwards.
func (c *Client) RegisterPeers(ctx context.Context, peers []string) (int, error) {
	var out registerResponse
	resp, err := c.cl.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(registerRequest{Nodes: peers}).
		SetResult(&out).
		Post("/nodes/register")
	if err != nil {
		return 0, fmt.Errorf("registering peers: %w", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return 0, fmt.Errorf("registering peers: non-ok response (%s): %s", resp.Status(), resp.String())
	}
	return len(out.TotalNodes), nil
}

// Resolve triggers the node's conflict-resolution step and returns the
// message it reports.
func (c *Client) Resolve(ctx context.Context) (string, error) {
	var out resolveResponse
	resp, err := c.cl.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/nodes/resolve")
	if err != nil {
		return "", fmt.Errorf("resolving conflicts: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("resolving conflicts: non-ok response (%s): %s", resp.Status(), resp.String())
	}
	return out.Message, nil
}
