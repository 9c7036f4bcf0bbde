// Package apiconnect wires the casesettle services onto Connect. Each service
// has a handler constructor returning the path prefix to mount and a client
// constructor; both speak the JSON codec from package api.
package apiconnect

import (
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/casesettle/pkg/api"
)

// This is a compile-time assertion to ensure that this package is compatible
// with the version of connect it is built against.
const _ = connect.IsAtLeastVersion1_13_0

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
}

// router dispatches on the full procedure path.
type router map[string]http.Handler

func (r router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if h, ok := r[req.URL.Path]; ok {
		h.ServeHTTP(w, req)
		return
	}
	http.NotFound(w, req)
}
