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
	// DirectoryServiceName is the fully-qualified name of the DirectoryService service.
	DirectoryServiceName = "casesettle.v1.DirectoryService"
)

// These constants are the fully-qualified names of the RPCs defined in DirectoryService.
const (
	DirectoryServiceRegisterOrganizationProcedure = "/casesettle.v1.DirectoryService/RegisterOrganization"
	DirectoryServiceRegisterCaseProcedure         = "/casesettle.v1.DirectoryService/RegisterCase"
	DirectoryServiceGetCaseProcedure              = "/casesettle.v1.DirectoryService/GetCase"
)

// DirectoryServiceClient is a client for the casesettle.v1.DirectoryService service.
type DirectoryServiceClient interface {
	RegisterOrganization(context.Context, *connect.Request[api.RegisterOrganizationRequest]) (*connect.Response[api.OrganizationResponse], error)
	RegisterCase(context.Context, *connect.Request[api.RegisterCaseRequest]) (*connect.Response[api.CaseResponse], error)
	GetCase(context.Context, *connect.Request[api.GetCaseRequest]) (*connect.Response[api.CaseResponse], error)
}

// NewDirectoryServiceClient constructs a client for the casesettle.v1.DirectoryService service.
func NewDirectoryServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) DirectoryServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &directoryServiceClient{
		registerOrganization: connect.NewClient[api.RegisterOrganizationRequest, api.OrganizationResponse](httpClient, baseURL+DirectoryServiceRegisterOrganizationProcedure, opts...),
		registerCase:         connect.NewClient[api.RegisterCaseRequest, api.CaseResponse](httpClient, baseURL+DirectoryServiceRegisterCaseProcedure, opts...),
		getCase:              connect.NewClient[api.GetCaseRequest, api.CaseResponse](httpClient, baseURL+DirectoryServiceGetCaseProcedure, opts...),
	}
}

// directoryServiceClient implements DirectoryServiceClient.
type directoryServiceClient struct {
	registerOrganization *connect.Client[api.RegisterOrganizationRequest, api.OrganizationResponse]
	registerCase         *connect.Client[api.RegisterCaseRequest, api.CaseResponse]
	getCase              *connect.Client[api.GetCaseRequest, api.CaseResponse]
}

func (c *directoryServiceClient) RegisterOrganization(ctx context.Context, req *connect.Request[api.RegisterOrganizationRequest]) (*connect.Response[api.OrganizationResponse], error) {
	return c.registerOrganization.CallUnary(ctx, req)
}

func (c *directoryServiceClient) RegisterCase(ctx context.Context, req *connect.Request[api.RegisterCaseRequest]) (*connect.Response[api.CaseResponse], error) {
	return c.registerCase.CallUnary(ctx, req)
}

func (c *directoryServiceClient) GetCase(ctx context.Context, req *connect.Request[api.GetCaseRequest]) (*connect.Response[api.CaseResponse], error) {
	return c.getCase.CallUnary(ctx, req)
}

// DirectoryServiceHandler is an implementation of the casesettle.v1.DirectoryService service.
type DirectoryServiceHandler interface {
	RegisterOrganization(context.Context, *connect.Request[api.RegisterOrganizationRequest]) (*connect.Response[api.OrganizationResponse], error)
	RegisterCase(context.Context, *connect.Request[api.RegisterCaseRequest]) (*connect.Response[api.CaseResponse], error)
	GetCase(context.Context, *connect.Request[api.GetCaseRequest]) (*connect.Response[api.CaseResponse], error)
}

// NewDirectoryServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewDirectoryServiceHandler(svc DirectoryServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + DirectoryServiceName + "/", router{
		DirectoryServiceRegisterOrganizationProcedure: connect.NewUnaryHandler(DirectoryServiceRegisterOrganizationProcedure, svc.RegisterOrganization, opts...),
		DirectoryServiceRegisterCaseProcedure:         connect.NewUnaryHandler(DirectoryServiceRegisterCaseProcedure, svc.RegisterCase, opts...),
		DirectoryServiceGetCaseProcedure:              connect.NewUnaryHandler(DirectoryServiceGetCaseProcedure, svc.GetCase, opts...),
	}
}

// UnimplementedDirectoryServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedDirectoryServiceHandler struct{}

func (UnimplementedDirectoryServiceHandler) RegisterOrganization(context.Context, *connect.Request[api.RegisterOrganizationRequest]) (*connect.Response[api.OrganizationResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casesettle.v1.DirectoryService.RegisterOrganization is not implemented"))
}

func (UnimplementedDirectoryServiceHandler) RegisterCase(context.Context, *connect.Request[api.RegisterCaseRequest]) (*connect.Response[api.CaseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casesettle.v1.DirectoryService.RegisterCase is not implemented"))
}

func (UnimplementedDirectoryServiceHandler) GetCase(context.Context, *connect.Request[api.GetCaseRequest]) (*connect.Response[api.CaseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("casesettle.v1.DirectoryService.GetCase is not implemented"))
}
