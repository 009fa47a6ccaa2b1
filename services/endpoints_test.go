package services

import (
	"net/http"
	"testing"

	"github.com/lborres/whatif/core"
)

// Requirement: BaseEndpoints returns framework-agnostic endpoint specifications
// with all required paths, methods and operation ids.
func TestBaseEndpoints(t *testing.T) {
	tests := []struct {
		name       string
		wantPath   string
		wantMethod string
		wantOpID   string
	}{
		{
			name:       "returns register endpoint with correct path and method",
			wantPath:   "/register",
			wantMethod: http.MethodPost,
			wantOpID:   core.OpRegister,
		},
		{
			name:       "returns login endpoint with correct path and method",
			wantPath:   "/login",
			wantMethod: http.MethodPost,
			wantOpID:   core.OpLogin,
		},
		{
			name:       "returns logout endpoint with correct path and method",
			wantPath:   "/logout",
			wantMethod: http.MethodPost,
			wantOpID:   core.OpLogout,
		},
		{
			name:       "returns session endpoint with correct path and method",
			wantPath:   "/session",
			wantMethod: http.MethodGet,
			wantOpID:   core.OpGetSession,
		},
	}

	// Arrange
	endpoints := BaseEndpoints()

	if len(endpoints) != len(tests) {
		t.Fatalf("BaseEndpoints should return %d endpoints, got %d", len(tests), len(endpoints))
	}

	byPath := make(map[string]core.Endpoint, len(endpoints))
	for _, ep := range endpoints {
		byPath[ep.Path] = ep
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Act
			ep, ok := byPath[test.wantPath]

			// Assert
			if !ok {
				t.Fatalf("endpoint %s not found", test.wantPath)
			}
			if ep.Method != test.wantMethod {
				t.Errorf("Method = %s, want %s", ep.Method, test.wantMethod)
			}
			if ep.Metadata.OperationID != test.wantOpID {
				t.Errorf("OperationID = %s, want %s", ep.Metadata.OperationID, test.wantOpID)
			}
			if ep.Metadata.Description == "" {
				t.Error("Description should not be empty")
			}
			if len(ep.Metadata.Responses) == 0 {
				t.Error("Responses should not be empty")
			}
		})
	}
}

// Requirement: operation ids are unique so adapters can bind handlers by id.
func TestBaseEndpoints_UniqueOperationIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, ep := range BaseEndpoints() {
		if seen[ep.Metadata.OperationID] {
			t.Errorf("duplicate OperationID %q", ep.Metadata.OperationID)
		}
		seen[ep.Metadata.OperationID] = true
	}
}

// Requirement: the registry starts with the base endpoints, ordered by path then method.
func TestEndpointRegistry_Endpoints(t *testing.T) {
	// Arrange
	reg := NewEndpointRegistry()

	// Act
	endpoints := reg.Endpoints()

	// Assert
	wantOrder := []string{"/login", "/logout", "/register", "/session"}
	if len(endpoints) != len(wantOrder) {
		t.Fatalf("Endpoints() returned %d endpoints, want %d", len(endpoints), len(wantOrder))
	}
	for i, path := range wantOrder {
		if endpoints[i].Path != path {
			t.Errorf("Endpoints()[%d].Path = %s, want %s", i, endpoints[i].Path, path)
		}
	}
}

// Requirement: plugins may add endpoints, but never replace existing ones.
func TestEndpointRegistry_RegisterPlugin(t *testing.T) {
	tests := []struct {
		name      string
		plugin    []core.Endpoint
		wantErr   bool
		wantCount int
	}{
		{
			name: "adds new endpoints",
			plugin: []core.Endpoint{
				{Path: "/accounts", Method: http.MethodGet, Metadata: core.EndpointMetadata{OperationID: "listAccounts"}},
			},
			wantCount: 5,
		},
		{
			name: "same path with a different method is allowed",
			plugin: []core.Endpoint{
				{Path: "/session", Method: http.MethodDelete, Metadata: core.EndpointMetadata{OperationID: "deleteSession"}},
			},
			wantCount: 5,
		},
		{
			name: "rejects conflict with base endpoint",
			plugin: []core.Endpoint{
				{Path: "/accounts", Method: http.MethodGet},
				{Path: "/login", Method: http.MethodPost},
			},
			wantErr:   true,
			wantCount: 4,
		},
		{
			name: "rejects duplicates within the plugin",
			plugin: []core.Endpoint{
				{Path: "/accounts", Method: http.MethodGet},
				{Path: "/accounts", Method: http.MethodGet},
			},
			wantErr:   true,
			wantCount: 4,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			reg := NewEndpointRegistry()

			// Act
			err := reg.RegisterPlugin(test.plugin)

			// Assert
			if (err != nil) != test.wantErr {
				t.Fatalf("RegisterPlugin() error = %v, wantErr %v", err, test.wantErr)
			}
			if got := len(reg.Endpoints()); got != test.wantCount {
				t.Errorf("Endpoints() count = %d, want %d", got, test.wantCount)
			}
		})
	}
}
