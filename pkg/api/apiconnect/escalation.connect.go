package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/casesettle/pkg/api"
)

const (
	// EscalationServiceName is the fully-qualified name of the EscalationService service.
	EscalationServiceName = "casesettle.v1.EscalationService"
)

// These constants are the fully-qualified names of the RPCs defined in EscalationService.
const (
	EscalationServiceGetEscalationProcedure      = "/casesettle.v1.EscalationService/GetEscalation"
	EscalationServiceListEscalationsProcedure    = "/casesettle.v1.EscalationService/ListEscalations"
	EscalationServiceAssignEscalationProcedure   = "/casesettle.v1.EscalationService/AssignEscalation"
	EscalationServiceResolveEscalationProcedure  = "/casesettle.v1.EscalationService/ResolveEscalation"
	EscalationServiceCloseEscalationProcedure    = "/casesettle.v1.EscalationService/CloseEscalation"
	EscalationServiceGetEscalationStatsProcedure = "/casesettle.v1.EscalationService/GetEscalationStats"
)

// EscalationServiceClient is a client for the casesettle.v1.EscalationService service.
type EscalationServiceClient interface {
	GetEscalation(context.Context, *connect.Request[api.GetEscalationRequest]) (*connect.Response[api.EscalationResponse], error)
	ListEscalations(context.Context, *connect.Request[api.ListEscalationsRequest]) (*connect.Response[api.ListEscalationsResponse], error)
	AssignEscalation(context.Context, *connect.Request[api.AssignEscalationRequest]) (*connect.Response[api.EscalationResponse], error)
	ResolveEscalation(context.Context, *connect.Request[api.ResolveEscalationRequest]) (*connect.Response[api.EscalationResponse], error)
	CloseEscalation(context.Context, *connect.Request[api.CloseEscalationRequest]) (*connect.Response[api.EscalationResponse], error)
	GetEscalationStats(context.Context, *connect.Request[api.GetEscalationStatsRequest]) (*connect.Response[api.GetEscalationStatsResponse], error)
}

// NewEscalationServiceClient constructs a client for the casesettle.v1.EscalationService service.
func NewEscalationServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) EscalationServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &escalationServiceClient{
		getEscalation:      connect.NewClient[api.GetEscalationRequest, api.EscalationResponse](httpClient, baseURL+EscalationServiceGetEscalationProcedure, opts...),
		listEscalations:    connect.NewClient[api.ListEscalationsRequest, api.ListEscalationsResponse](httpClient, baseURL+EscalationServiceListEscalationsProcedure, opts...),
		assignEscalation:   connect.NewClient[api.AssignEscalationRequest, api.EscalationResponse](httpClient, baseURL+EscalationServiceAssignEscalationProcedure, opts...),
		resolveEscalation:  connect.NewClient[api.ResolveEscalationRequest, api.EscalationResponse](httpClient, baseURL+EscalationServiceResolveEscalationProcedure, opts...),
		closeEscalation:    connect.NewClient[api.CloseEscalationRequest, api.EscalationResponse](httpClient, baseURL+EscalationServiceCloseEscalationProcedure, opts...),
		getEscalationStats: connect.NewClient[api.GetEscalationStatsRequest, api.GetEscalationStatsResponse](httpClient, baseURL+EscalationServiceGetEscalationStatsProcedure, opts...),
	}
}

// escalationServiceClient implements EscalationServiceClient.
type escalationServiceClient struct {
	getEscalation      *connect.Client[api.GetEscalationRequest, api.EscalationResponse]
	listEscalations    *connect.Client[api.ListEscalationsRequest, api.ListEscalationsResponse]
	assignEscalation   *connect.Client[api.AssignEscalationRequest, api.EscalationResponse]
	resolveEscalation  *connect.Client[api.ResolveEscalationRequest, api.EscalationResponse]
	closeEscalation    *connect.Client[api.CloseEscalationRequest, api.EscalationResponse]
	getEscalationStats *connect.Client[api.GetEscalationStatsRequest, api.GetEscalationStatsResponse]
}

func (c *escalationServiceClient) GetEscalation(ctx context.Context, req *connect.Request[api.GetEscalationRequest]) (*connect.Response[api.EscalationResponse], error) {
	return c.getEscalation.CallUnary(ctx, req)
}

func (c *escalationServiceClient) ListEscalations(ctx context.Context, req *connect.Request[api.ListEscalationsRequest]) (*connect.Response[api.ListEscalationsResponse], error) {
	return c.listEscalations.CallUnary(ctx, req)
}

func (c *escalationServiceClient) AssignEscalation(ctx context.Context, req *connect.Request[api.AssignEscalationRequest]) (*connect.Response[api.EscalationResponse], error) {
	return c.assignEscalation.CallUnary(ctx, req)
}

func (c *escalationServiceClient) ResolveEscalation(ctx context.Context, req *connect.Request[api.ResolveEscalationRequest]) (*connect.Response[api.EscalationResponse], error) {
	return c.resolveEscalation.CallUnary(ctx, req)
}

func (c *escalationServiceClient) CloseEscalation(ctx context.Context, req *connect.Request[api.CloseEscalationRequest]) (*connect.Response[api.EscalationResponse], error) {
	return c.closeEscalation.CallUnary(ctx, req)
}

func (c *escalationServiceClient) GetEscalationStats(ctx context.Context, req *connect.Request[api.GetEscalationStatsRequest]) (*connect.Response[api.GetEscalationStatsResponse], error) {
	return c.getEscalationStats.CallUnary(ctx, req)
}

// EscalationServiceHandler is an implementation of the casesettle.v1.EscalationService service.
type EscalationServiceHandler interface {
	GetEscalation(context.Context, *connect.Request[api.GetEscalationRequest]) (*connect.Response[api.EscalationResponse], error)
	ListEscalations(context.Context, *connect.Request[api.ListEscalationsRequest]) (*connect.Response[api.ListEscalationsResponse], error)
	AssignEscalation(context.Context, *connect.Request[api.AssignEscalationRequest]) (*connect.Response[api.EscalationResponse], error)
	ResolveEscalation(context.Context, *connect.Request[api.ResolveEscalationRequest]) (*connect.Response[api.EscalationResponse], error)
	CloseEscalation(context.Context, *connect.Request[api.CloseEscalationRequest]) (*connect.Response[api.EscalationResponse], error)
	GetEscalationStats(context.Context, *connect.Request[api.GetEscalationStatsRequest]) (*connect.Response[api.GetEscalationStatsResponse], error)
}

// NewEscalationServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewEscalationServiceHandler(svc EscalationServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + EscalationServiceName + "/", router{
		EscalationServiceGetEscalationProcedure:      connect.NewUnaryHandler(EscalationServiceGetEscalationProcedure, svc.GetEscalation, opts...),
		EscalationServiceListEscalationsProcedure:    connect.NewUnaryHandler(EscalationServiceListEscalationsProcedure, svc.ListEscalations, opts...),
		EscalationServiceAssignEscalationProcedure:   connect.NewUnaryHandler(EscalationServiceAssignEscalationProcedure, svc.AssignEscalation, opts...),
		EscalationServiceResolveEscalationProcedure:  connect.NewUnaryHandler(EscalationServiceResolveEscalationProcedure, svc.ResolveEscalation, opts...),
		EscalationServiceCloseEscalationProcedure:    connect.NewUnaryHandler(EscalationServiceCloseEscalationProcedure, svc.CloseEscalation, opts...),
		EscalationServiceGetEscalationStatsProcedure: connect.NewUnaryHandler(EscalationServiceGetEscalationStatsProcedure, svc.GetEscalationStats, opts...),
	}
}

// UnimplementedEscalationServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedEscalationServiceHandler struct{}

func (UnimplementedEscalationServiceHandler) GetEscalation(context.Context, *connect.Request[api.GetEscalationRequest]) (*connect.Response[api.EscalationResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casesettle.v1.EscalationService.GetEscalation is not implemented"))
}

func (UnimplementedEscalationServiceHandler) ListEscalations(context.Context, *connect.Request[api.ListEscalationsRequest]) (*connect.Response[api.ListEscalationsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casesettle.v1.EscalationService.ListEscalations is not implemented"))
}

func (UnimplementedEscalationServiceHandler) AssignEscalation(context.Context, *connect.Request[api.AssignEscalationRequest]) (*connect.Response[api.EscalationResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casesettle.v1.EscalationService.AssignEscalation is not implemented"))
}

func (UnimplementedEscalationServiceHandler) ResolveEscalation(context.Context, *connect.Request[api.ResolveEscalationRequest]) (*connect.Response[api.EscalationResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casesettle.v1.EscalationService.ResolveEscalation is not implemented"))
}

func (UnimplementedEscalationServiceHandler) CloseEscalation(context.Context, *connect.Request[api.CloseEscalationRequest]) (*connect.Response[api.EscalationResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casesettle.v1.EscalationService.CloseEscalation is not implemented"))
}

func (UnimplementedEscalationServiceHandler) GetEscalationStats(context.Context, *connect.Request[api.GetEscalationStatsRequest]) (*connect.Response[api.GetEscalationStatsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casesettle.v1.EscalationService.GetEscalationStats is not implemented"))
}
