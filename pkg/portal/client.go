// Package portal is a Go client for the casesettle API. Every mutating call is
// two steps: the remote write, then Projection.Apply with the server's answer.
// A failed write leaves the projection untouched.
package portal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/casesettle/pkg/api"
	"github.com/mmynk/casesettle/pkg/api/apiconnect"
)

const defaultTimeout = 30 * time.Second

// ErrNotLoggedIn is returned by calls that need a token before Login or SetToken.
var ErrNotLoggedIn = errors.New("portal: not logged in")

type options struct {
	httpClient *http.Client
	token      string
}

type Option func(*options)

// WithHTTPClient replaces the default client, which has a 30s timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func WithToken(token string) Option {
	return func(o *options) { o.token = token }
}

// Client talks to one casesettle server on behalf of one user.
type Client struct {
	settlements apiconnect.SettlementServiceClient
	escalations apiconnect.EscalationServiceClient
	auth        apiconnect.AuthServiceClient
	projection  *Projection

	mu    sync.RWMutex
	token string
}

func New(baseURL string, opts ...Option) *Client {
	o := options{httpClient: &http.Client{Timeout: defaultTimeout}}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Client{projection: NewProjection(), token: o.token}
	interceptors := connect.WithInterceptors(c.bearer())
	c.settlements = apiconnect.NewSettlementServiceClient(o.httpClient, baseURL, interceptors)
	c.escalations = apiconnect.NewEscalationServiceClient(o.httpClient, baseURL, interceptors)
	c.auth = apiconnect.NewAuthServiceClient(o.httpClient, baseURL, interceptors)
	return c
}

// bearer attaches the current token to every outgoing call.
func (c *Client) bearer() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if token := c.Token(); token != "" && req.Spec().IsClient {
				req.Header().Set("Authorization", "Bearer "+token)
			}
			return next(ctx, req)
		}
	}
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Projection exposes the local view.
func (c *Client) Projection() *Projection {
	return c.projection
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*api.User, error) {
	resp, err := c.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: email, Password: password}))
	if err != nil {
		return nil, err
	}
	c.SetToken(resp.Msg.Token)
	return resp.Msg.User, nil
}

func (c *Client) requireToken() error {
	if c.Token() == "" {
		return ErrNotLoggedIn
	}
	return nil
}

// Sync replaces the projection with the settlements currently visible.
func (c *Client) Sync(ctx context.Context, caseID string) error {
	if err := c.requireToken(); err != nil {
		return err
	}
	resp, err := c.settlements.ListSettlements(ctx, connect.NewRequest(&api.ListSettlementsRequest{CaseID: caseID}))
	if err != nil {
		return err
	}
	c.projection.Replace(resp.Msg.Settlements)
	return nil
}

// Refresh re-reads one settlement into the projection.
func (c *Client) Refresh(ctx context.Context, id string) (*api.Settlement, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	resp, err := c.settlements.GetSettlement(ctx, connect.NewRequest(&api.GetSettlementRequest{SettlementID: id}))
	if err != nil {
		return nil, err
	}
	c.projection.Apply(resp.Msg.Settlement)
	return resp.Msg.Settlement, nil
}

func (c *Client) Create(ctx context.Context, in *api.CreateSettlementRequest) (*api.Settlement, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	resp, err := c.settlements.CreateSettlement(ctx, connect.NewRequest(in))
	if err != nil {
		return nil, err
	}
	c.projection.Apply(resp.Msg.Settlement)
	return resp.Msg.Settlement, nil
}

func (c *Client) Approve(ctx context.Context, id, notes string) (*api.Settlement, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	resp, err := c.settlements.ApproveSettlement(ctx, connect.NewRequest(&api.ApproveSettlementRequest{SettlementID: id, Notes: notes}))
	if err != nil {
		return nil, err
	}
	c.projection.Apply(resp.Msg.Settlement)
	return resp.Msg.Settlement, nil
}

func (c *Client) Deny(ctx context.Context, id, reason string) (*api.Settlement, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	resp, err := c.settlements.DenySettlement(ctx, connect.NewRequest(&api.DenySettlementRequest{SettlementID: id, Reason: reason}))
	if err != nil {
		return nil, err
	}
	c.projection.Apply(resp.Msg.Settlement)
	return resp.Msg.Settlement, nil
}

func (c *Client) Override(ctx context.Context, id, reason, attachment string) (*api.Settlement, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	resp, err := c.settlements.OverrideSettlement(ctx, connect.NewRequest(&api.OverrideSettlementRequest{
		SettlementID: id,
		Reason:       reason,
		Attachment:   attachment,
	}))
	if err != nil {
		return nil, err
	}
	c.projection.Apply(resp.Msg.Settlement)
	return resp.Msg.Settlement, nil
}

// Dispute escalates a settlement and projects both the settlement and its new
// escalation item.
func (c *Client) Dispute(ctx context.Context, in *api.DisputeSettlementRequest) (*api.Settlement, *api.Escalation, error) {
	if err := c.requireToken(); err != nil {
		return nil, nil, err
	}
	resp, err := c.settlements.DisputeSettlement(ctx, connect.NewRequest(in))
	if err != nil {
		return nil, nil, err
	}
	c.projection.Apply(resp.Msg.Settlement)
	c.projection.ApplyEscalation(resp.Msg.Escalation)
	return resp.Msg.Settlement, resp.Msg.Escalation, nil
}

// Confirm records the caller's confirmation. The projected settlement picks
// up finalization when this call completed the pair.
func (c *Client) Confirm(ctx context.Context, in *api.ConfirmSettlementRequest) (*api.ConfirmSettlementResponse, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	resp, err := c.settlements.ConfirmSettlement(ctx, connect.NewRequest(in))
	if err != nil {
		return nil, err
	}
	c.projection.Apply(resp.Msg.Settlement)
	return resp.Msg, nil
}

func (c *Client) RecordPayment(ctx context.Context, in *api.RecordPaymentRequest) (*api.Settlement, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	resp, err := c.settlements.RecordPayment(ctx, connect.NewRequest(in))
	if err != nil {
		return nil, err
	}
	c.projection.Apply(resp.Msg.Settlement)
	return resp.Msg.Settlement, nil
}

// Escalations lists the escalation items for a settlement into the projection.
func (c *Client) Escalations(ctx context.Context, settlementID string) ([]*api.Escalation, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	resp, err := c.escalations.ListEscalations(ctx, connect.NewRequest(&api.ListEscalationsRequest{SettlementID: settlementID}))
	if err != nil {
		return nil, err
	}
	for _, e := range resp.Msg.Escalations {
		c.projection.ApplyEscalation(e)
	}
	return resp.Msg.Escalations, nil
}
