package core

// EndpointProvider provides a list of endpoints to register dynamically
type EndpointProvider interface {
	Endpoints() []*Endpoint
}

// Endpoint describes a route independently of the HTTP framework serving it.
// Adapters look up their handler by Metadata.OperationID.
type Endpoint struct {
	Path     string
	Method   string
	Metadata EndpointMetadata
}

type EndpointMetadata struct {
	OperationID string
	Description string
	RequestBody interface{} // for validation
	Responses   map[int]interface{}
}

// Operation IDs of the base endpoints
const (
	OpRegister   = "register"
	OpLogin      = "login"
	OpLogout     = "logout"
	OpGetSession = "getSession"
)
