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
	// SettlementServiceName is the fully-qualified name of the SettlementService service.
	SettlementServiceName = "casesettle.v1.SettlementService"
)

// These constants are the fully-qualified names of the RPCs defined in SettlementService.
const (
	SettlementServiceCreateSettlementProcedure   = "/casesettle.v1.SettlementService/CreateSettlement"
	SettlementServiceGetSettlementProcedure      = "/casesettle.v1.SettlementService/GetSettlement"
	SettlementServiceListSettlementsProcedure    = "/casesettle.v1.SettlementService/ListSettlements"
	SettlementServiceApproveSettlementProcedure  = "/casesettle.v1.SettlementService/ApproveSettlement"
	SettlementServiceDenySettlementProcedure     = "/casesettle.v1.SettlementService/DenySettlement"
	SettlementServiceOverrideSettlementProcedure = "/casesettle.v1.SettlementService/OverrideSettlement"
	SettlementServiceDisputeSettlementProcedure  = "/casesettle.v1.SettlementService/DisputeSettlement"
	SettlementServiceRecordPaymentProcedure      = "/casesettle.v1.SettlementService/RecordPayment"
	SettlementServiceConfirmSettlementProcedure  = "/casesettle.v1.SettlementService/ConfirmSettlement"
	SettlementServiceHasConfirmedProcedure       = "/casesettle.v1.SettlementService/HasConfirmed"
	SettlementServiceListConfirmationsProcedure  = "/casesettle.v1.SettlementService/ListConfirmations"
	SettlementServiceListAuditTrailProcedure     = "/casesettle.v1.SettlementService/ListAuditTrail"
	SettlementServiceGetSettlementStatsProcedure = "/casesettle.v1.SettlementService/GetSettlementStats"
)

// SettlementServiceClient is a client for the casesettle.v1.SettlementService service.
type SettlementServiceClient interface {
	CreateSettlement(context.Context, *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.SettlementResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.SettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	ApproveSettlement(context.Context, *connect.Request[api.ApproveSettlementRequest]) (*connect.Response[api.SettlementResponse], error)
	DenySettlement(context.Context, *connect.Request[api.DenySettlementRequest]) (*connect.Response[api.SettlementResponse], error)
	OverrideSettlement(context.Context, *connect.Request[api.OverrideSettlementRequest]) (*connect.Response[api.SettlementResponse], error)
	DisputeSettlement(context.Context, *connect.Request[api.DisputeSettlementRequest]) (*connect.Response[api.DisputeSettlementResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.SettlementResponse], error)
	ConfirmSettlement(context.Context, *connect.Request[api.ConfirmSettlementRequest]) (*connect.Response[api.ConfirmSettlementResponse], error)
	HasConfirmed(context.Context, *connect.Request[api.HasConfirmedRequest]) (*connect.Response[api.HasConfirmedResponse], error)
	ListConfirmations(context.Context, *connect.Request[api.ListConfirmationsRequest]) (*connect.Response[api.ListConfirmationsResponse], error)
	ListAuditTrail(context.Context, *connect.Request[api.ListAuditTrailRequest]) (*connect.Response[api.ListAuditTrailResponse], error)
	GetSettlementStats(context.Context, *connect.Request[api.GetSettlementStatsRequest]) (*connect.Response[api.GetSettlementStatsResponse], error)
}

// NewSettlementServiceClient constructs a client for the casesettle.v1.SettlementService
// service. By default, it uses the Connect protocol with the JSON codec.
//
// The URL supplied here should be the base URL for the Connect server (for
// example, http://api.acme.com or https://acme.com/grpc).
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &settlementServiceClient{
		createSettlement:   connect.NewClient[api.CreateSettlementRequest, api.SettlementResponse](httpClient, baseURL+SettlementServiceCreateSettlementProcedure, opts...),
		getSettlement:      connect.NewClient[api.GetSettlementRequest, api.SettlementResponse](httpClient, baseURL+SettlementServiceGetSettlementProcedure, opts...),
		listSettlements:    connect.NewClient[api.ListSettlementsRequest, api.ListSettlementsResponse](httpClient, baseURL+SettlementServiceListSettlementsProcedure, opts...),
		approveSettlement:  connect.NewClient[api.ApproveSettlementRequest, api.SettlementResponse](httpClient, baseURL+SettlementServiceApproveSettlementProcedure, opts...),
		denySettlement:     connect.NewClient[api.DenySettlementRequest, api.SettlementResponse](httpClient, baseURL+SettlementServiceDenySettlementProcedure, opts...),
		overrideSettlement: connect.NewClient[api.OverrideSettlementRequest, api.SettlementResponse](httpClient, baseURL+SettlementServiceOverrideSettlementProcedure, opts...),
		disputeSettlement:  connect.NewClient[api.DisputeSettlementRequest, api.DisputeSettlementResponse](httpClient, baseURL+SettlementServiceDisputeSettlementProcedure, opts...),
		recordPayment:      connect.NewClient[api.RecordPaymentRequest, api.SettlementResponse](httpClient, baseURL+SettlementServiceRecordPaymentProcedure, opts...),
		confirmSettlement:  connect.NewClient[api.ConfirmSettlementRequest, api.ConfirmSettlementResponse](httpClient, baseURL+SettlementServiceConfirmSettlementProcedure, opts...),
		hasConfirmed:       connect.NewClient[api.HasConfirmedRequest, api.HasConfirmedResponse](httpClient, baseURL+SettlementServiceHasConfirmedProcedure, opts...),
		listConfirmations:  connect.NewClient[api.ListConfirmationsRequest, api.ListConfirmationsResponse](httpClient, baseURL+SettlementServiceListConfirmationsProcedure, opts...),
		listAuditTrail:     connect.NewClient[api.ListAuditTrailRequest, api.ListAuditTrailResponse](httpClient, baseURL+SettlementServiceListAuditTrailProcedure, opts...),
		getSettlementStats: connect.NewClient[api.GetSettlementStatsRequest, api.GetSettlementStatsResponse](httpClient, baseURL+SettlementServiceGetSettlementStatsProcedure, opts...),
	}
}

// settlementServiceClient implements SettlementServiceClient.
type settlementServiceClient struct {
	createSettlement   *connect.Client[api.CreateSettlementRequest, api.SettlementResponse]
	getSettlement      *connect.Client[api.GetSettlementRequest, api.SettlementResponse]
	listSettlements    *connect.Client[api.ListSettlementsRequest, api.ListSettlementsResponse]
	approveSettlement  *connect.Client[api.ApproveSettlementRequest, api.SettlementResponse]
	denySettlement     *connect.Client[api.DenySettlementRequest, api.SettlementResponse]
	overrideSettlement *connect.Client[api.OverrideSettlementRequest, api.SettlementResponse]
	disputeSettlement  *connect.Client[api.DisputeSettlementRequest, api.DisputeSettlementResponse]
	recordPayment      *connect.Client[api.RecordPaymentRequest, api.SettlementResponse]
	confirmSettlement  *connect.Client[api.ConfirmSettlementRequest, api.ConfirmSettlementResponse]
	hasConfirmed       *connect.Client[api.HasConfirmedRequest, api.HasConfirmedResponse]
	listConfirmations  *connect.Client[api.ListConfirmationsRequest, api.ListConfirmationsResponse]
	listAuditTrail     *connect.Client[api.ListAuditTrailRequest, api.ListAuditTrailResponse]
	getSettlementStats *connect.Client[api.GetSettlementStatsRequest, api.GetSettlementStatsResponse]
}

func (c *settlementServiceClient) CreateSettlement(ctx context.Context, req *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.SettlementResponse], error) {
	return c.createSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.SettlementResponse], error) {
	return c.getSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ApproveSettlement(ctx context.Context, req *connect.Request[api.ApproveSettlementRequest]) (*connect.Response[api.SettlementResponse], error) {
	return c.approveSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) DenySettlement(ctx context.Context, req *connect.Request[api.DenySettlementRequest]) (*connect.Response[api.SettlementResponse], error) {
	return c.denySettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) OverrideSettlement(ctx context.Context, req *connect.Request[api.OverrideSettlementRequest]) (*connect.Response[api.SettlementResponse], error) {
	return c.overrideSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) DisputeSettlement(ctx context.Context, req *connect.Request[api.DisputeSettlementRequest]) (*connect.Response[api.DisputeSettlementResponse], error) {
	return c.disputeSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.SettlementResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ConfirmSettlement(ctx context.Context, req *connect.Request[api.ConfirmSettlementRequest]) (*connect.Response[api.ConfirmSettlementResponse], error) {
	return c.confirmSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) HasConfirmed(ctx context.Context, req *connect.Request[api.HasConfirmedRequest]) (*connect.Response[api.HasConfirmedResponse], error) {
	return c.hasConfirmed.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ListConfirmations(ctx context.Context, req *connect.Request[api.ListConfirmationsRequest]) (*connect.Response[api.ListConfirmationsResponse], error) {
	return c.listConfirmations.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ListAuditTrail(ctx context.Context, req *connect.Request[api.ListAuditTrailRequest]) (*connect.Response[api.ListAuditTrailResponse], error) {
	return c.listAuditTrail.CallUnary(ctx, req)
}

func (c *settlementServiceClient) GetSettlementStats(ctx context.Context, req *connect.Request[api.GetSettlementStatsRequest]) (*connect.Response[api.GetSettlementStatsResponse], error) {
	return c.getSettlementStats.CallUnary(ctx, req)
}

// SettlementServiceHandler is an implementation of the casesettle.v1.SettlementService service.
type SettlementServiceHandler interface {
	CreateSettlement(context.Context, *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.SettlementResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.SettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	ApproveSettlement(context.Context, *connect.Request[api.ApproveSettlementRequest]) (*connect.Response[api.SettlementResponse], error)
	DenySettlement(context.Context, *connect.Request[api.DenySettlementRequest]) (*connect.Response[api.SettlementResponse], error)
	OverrideSettlement(context.Context, *connect.Request[api.OverrideSettlementRequest]) (*connect.Response[api.SettlementResponse], error)
	DisputeSettlement(context.Context, *connect.Request[api.DisputeSettlementRequest]) (*connect.Response[api.DisputeSettlementResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.SettlementResponse], error)
	ConfirmSettlement(context.Context, *connect.Request[api.ConfirmSettlementRequest]) (*connect.Response[api.ConfirmSettlementResponse], error)
	HasConfirmed(context.Context, *connect.Request[api.HasConfirmedRequest]) (*connect.Response[api.HasConfirmedResponse], error)
	ListConfirmations(context.Context, *connect.Request[api.ListConfirmationsRequest]) (*connect.Response[api.ListConfirmationsResponse], error)
	ListAuditTrail(context.Context, *connect.Request[api.ListAuditTrailRequest]) (*connect.Response[api.ListAuditTrailResponse], error)
	GetSettlementStats(context.Context, *connect.Request[api.GetSettlementStatsRequest]) (*connect.Response[api.GetSettlementStatsResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + SettlementServiceName + "/", router{
		SettlementServiceCreateSettlementProcedure:   connect.NewUnaryHandler(SettlementServiceCreateSettlementProcedure, svc.CreateSettlement, opts...),
		SettlementServiceGetSettlementProcedure:      connect.NewUnaryHandler(SettlementServiceGetSettlementProcedure, svc.GetSettlement, opts...),
		SettlementServiceListSettlementsProcedure:    connect.NewUnaryHandler(SettlementServiceListSettlementsProcedure, svc.ListSettlements, opts...),
		SettlementServiceApproveSettlementProcedure:  connect.NewUnaryHandler(SettlementServiceApproveSettlementProcedure, svc.ApproveSettlement, opts...),
		SettlementServiceDenySettlementProcedure:     connect.NewUnaryHandler(SettlementServiceDenySettlementProcedure, svc.DenySettlement, opts...),
		SettlementServiceOverrideSettlementProcedure: connect.NewUnaryHandler(SettlementServiceOverrideSettlementProcedure, svc.OverrideSettlement, opts...),
		SettlementServiceDisputeSettlementProcedure:  connect.NewUnaryHandler(SettlementServiceDisputeSettlementProcedure, svc.DisputeSettlement, opts...),
		SettlementServiceRecordPaymentProcedure:      connect.NewUnaryHandler(SettlementServiceRecordPaymentProcedure, svc.RecordPayment, opts...),
		SettlementServiceConfirmSettlementProcedure:  connect.NewUnaryHandler(SettlementServiceConfirmSettlementProcedure, svc.ConfirmSettlement, opts...),
		SettlementServiceHasConfirmedProcedure:       connect.NewUnaryHandler(SettlementServiceHasConfirmedProcedure, svc.HasConfirmed, opts...),
		SettlementServiceListConfirmationsProcedure:  connect.NewUnaryHandler(SettlementServiceListConfirmationsProcedure, svc.ListConfirmations, opts...),
		SettlementServiceListAuditTrailProcedure:     connect.NewUnaryHandler(SettlementServiceListAuditTrailProcedure, svc.ListAuditTrail, opts...),
		SettlementServiceGetSettlementStatsProcedure: connect.NewUnaryHandler(SettlementServiceGetSettlementStatsProcedure, svc.GetSettlementStats, opts...),
	}
}

// UnimplementedSettlementServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedSettlementServiceHandler struct{}

func (UnimplementedSettlementServiceHandler) CreateSettlement(context.Context, *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.SettlementResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casesettle.v1.SettlementService.CreateSettlement is not implemented"))
}

func (UnimplementedSettlementServiceHandler) GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.SettlementResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casesettle.v1.SettlementService.GetSettlement is not implemented"))
}

func (UnimplementedSettlementServiceHandler) ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casesettle.v1.SettlementService.ListSettlements is not implemented"))
}

func (UnimplementedSettlementServiceHandler) ApproveSettlement(context.Context, *connect.Request[api.ApproveSettlementRequest]) (*connect.Response[api.SettlementResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casesettle.v1.SettlementService.ApproveSettlement is not implemented"))
}

func (UnimplementedSettlementServiceHandler) DenySettlement(context.Context, *connect.Request[api.DenySettlementRequest]) (*connect.Response[api.SettlementResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casesettle.v1.SettlementService.DenySettlement is not implemented"))
}

func (UnimplementedSettlementServiceHandler) OverrideSettlement(context.Context, *connect.Request[api.OverrideSettlementRequest]) (*connect.Response[api.SettlementResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casesettle.v1.SettlementService.OverrideSettlement is not implemented"))
}

func (UnimplementedSettlementServiceHandler) DisputeSettlement(context.Context, *connect.Request[api.DisputeSettlementRequest]) (*connect.Response[api.DisputeSettlementResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casesettle.v1.SettlementService.DisputeSettlement is not implemented"))
}

func (UnimplementedSettlementServiceHandler) RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.SettlementResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casesettle.v1.SettlementService.RecordPayment is not implemented"))
}

func (UnimplementedSettlementServiceHandler) ConfirmSettlement(context.Context, *connect.Request[api.ConfirmSettlementRequest]) (*connect.Response[api.ConfirmSettlementResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casesettle.v1.SettlementService.ConfirmSettlement is not implemented"))
}

func (UnimplementedSettlementServiceHandler) HasConfirmed(context.Context, *connect.Request[api.HasConfirmedRequest]) (*connect.Response[api.HasConfirmedResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casesettle.v1.SettlementService.HasConfirmed is not implemented"))
}

func (UnimplementedSettlementServiceHandler) ListConfirmations(context.Context, *connect.Request[api.ListConfirmationsRequest]) (*connect.Response[api.ListConfirmationsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casesettle.v1.SettlementService.ListConfirmations is not implemented"))
}

func (UnimplementedSettlementServiceHandler) ListAuditTrail(context.Context, *connect.Request[api.ListAuditTrailRequest]) (*connect.Response[api.ListAuditTrailResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casesettle.v1.SettlementService.ListAuditTrail is not implemented"))
}

func (UnimplementedSettlementServiceHandler) GetSettlementStats(context.Context, *connect.Request[api.GetSettlementStatsRequest]) (*connect.Response[api.GetSettlementStatsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casesettle.v1.SettlementService.GetSettlementStats is not implemented"))
}
