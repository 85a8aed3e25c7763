package model

type TaskCategory string

const (
	CategoryGeneral TaskCategory = "general"
	CategoryVisual  TaskCategory = "visual"
	CategoryComplex TaskCategory = "complex"
)

// Caller roles recognized by the role filter. Anything else is treated
// as RoleUser.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleUser       = "user"
)

// RequestContext carries the optional client context sent with a routed
// request: which module the user is in plus free-form context data.
type RequestContext struct {
	Module string         `json:"module,omitempty"`
	Data   map[string]any `json:"context,omitempty"`
}

// Action is one structured action marker extracted from a provider
// response, e.g. [ACTION:navigate:/app/environment].
type Action struct {
	Type   string `json:"type"`
	Target string `json:"target"`
}

// RouteResult is the outcome of one routed request. SourceProvider is
// "fallback" when every provider in the chain failed.
type RouteResult struct {
	ResponseText   string   `json:"responseText"`
	Actions        []Action `json:"actions"`
	SourceProvider string   `json:"sourceProvider"`
}

// ClassifiedRequest is ephemeral: it exists for one request-response
// cycle inside the fallback router.
type ClassifiedRequest struct {
	Text     string
	Category TaskCategory
	Role     string
	Context  RequestContext
}
