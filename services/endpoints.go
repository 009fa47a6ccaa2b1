package services

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/lborres/whatif/core"
)

// BaseEndpoints returns framework-agnostic endpoint specifications for the
// account operations. Paths are relative to the configured base path.
//
// Adapters bind their own handlers by OperationID, so several HTTP
// frameworks can share one route table.
func BaseEndpoints() []core.Endpoint {
	return []core.Endpoint{
		{
			Path:   "/register",
			Method: http.MethodPost,
			Metadata: core.EndpointMetadata{
				OperationID: core.OpRegister,
				Description: "Register an account with username, email and password",
				RequestBody: core.RegisterInput{},
				Responses: map[int]interface{}{
					http.StatusCreated:    core.Result{},
					http.StatusBadRequest: core.Result{},
					http.StatusConflict:   core.Result{},
				},
			},
		},
		{
			Path:   "/login",
			Method: http.MethodPost,
			Metadata: core.EndpointMetadata{
				OperationID: core.OpLogin,
				Description: "Log in with username and password and become the current user",
				RequestBody: core.LoginInput{},
				Responses: map[int]interface{}{
					http.StatusOK:           core.Result{},
					http.StatusBadRequest:   core.Result{},
					http.StatusUnauthorized: core.Result{},
				},
			},
		},
		{
			Path:   "/logout",
			Method: http.MethodPost,
			Metadata: core.EndpointMetadata{
				OperationID: core.OpLogout,
				Description: "Clear the current user",
				Responses:   map[int]interface{}{http.StatusOK: core.Result{}},
			},
		},
		{
			Path:   "/session",
			Method: http.MethodGet,
			Metadata: core.EndpointMetadata{
				OperationID: core.OpGetSession,
				Description: "Report whether someone is logged in and who",
				Responses:   map[int]interface{}{http.StatusOK: core.SessionData{}},
			},
		},
	}
}

// EndpointRegistry manages a collection of framework-agnostic endpoints
// and rejects duplicate METHOD:PATH combinations.
type EndpointRegistry struct {
	// endpoints stores all registered endpoints keyed by "METHOD:PATH"
	endpoints map[string]*core.Endpoint
}

var _ core.EndpointProvider = (*EndpointRegistry)(nil)

// NewEndpointRegistry creates a registry with the base endpoints registered
func NewEndpointRegistry() *EndpointRegistry {
	reg := &EndpointRegistry{
		endpoints: make(map[string]*core.Endpoint),
	}

	base := BaseEndpoints()
	for i := range base {
		// base paths are unique by construction
		_ = reg.register(&base[i])
	}

	return reg
}

func endpointKey(ep *core.Endpoint) string {
	return fmt.Sprintf("%s:%s", ep.Method, ep.Path)
}

func (r *EndpointRegistry) register(ep *core.Endpoint) error {
	key := endpointKey(ep)
	if _, exists := r.endpoints[key]; exists {
		return fmt.Errorf("endpoint conflict: %s %s already registered", ep.Method, ep.Path)
	}
	r.endpoints[key] = ep
	return nil
}

// RegisterPlugin registers additional endpoints. Nothing is registered when
// any of them conflicts with an existing endpoint or with another one in the
// same batch.
func (r *EndpointRegistry) RegisterPlugin(endpoints []core.Endpoint) error {
	seen := make(map[string]bool, len(endpoints))
	for i := range endpoints {
		key := endpointKey(&endpoints[i])
		if _, exists := r.endpoints[key]; exists {
			return fmt.Errorf("plugin endpoint conflict: %s %s already registered", endpoints[i].Method, endpoints[i].Path)
		}
		if seen[key] {
			return fmt.Errorf("plugin contains duplicate endpoint: %s %s", endpoints[i].Method, endpoints[i].Path)
		}
		seen[key] = true
	}

	for i := range endpoints {
		ep := endpoints[i]
		r.endpoints[endpointKey(&ep)] = &ep
	}
	return nil
}

// Endpoints returns every registered endpoint ordered by path then method
func (r *EndpointRegistry) Endpoints() []*core.Endpoint {
	result := make([]*core.Endpoint, 0, len(r.endpoints))
	for _, ep := range r.endpoints {
		result = append(result, ep)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Path != result[j].Path {
			return result[i].Path < result[j].Path
		}
		return result[i].Method < result[j].Method
	})
	return result
}
