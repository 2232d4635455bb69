// Package actions - wire types of the Solana Actions protocol
// (https://github.com/solana-developers/solana-actions).
package actions

// ActionType discriminates action payloads
type ActionType string

const (
	TypeAction      ActionType = "action"
	TypeTransaction ActionType = "transaction"
)

// ParameterType is the input type a client renders for a parameter
type ParameterType string

const (
	ParameterText     ParameterType = "text"
	ParameterEmail    ParameterType = "email"
	ParameterTextarea ParameterType = "textarea"
)

// ActionGetResponse is the discovery document returned on GET
type ActionGetResponse struct {
	Type        ActionType   `json:"type"`
	Icon        string       `json:"icon"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Label       string       `json:"label"`
	Disabled    bool         `json:"disabled,omitempty"`
	Links       *ActionLinks `json:"links,omitempty"`
	Error       *ActionError `json:"error,omitempty"`
}

// ActionLinks groups linked actions
type ActionLinks struct {
	Actions []LinkedAction `json:"actions"`
}

// LinkedAction is one callable action with its input parameters
type LinkedAction struct {
	Type       ActionType        `json:"type"`
	Href       string            `json:"href"`
	Label      string            `json:"label"`
	Parameters []ActionParameter `json:"parameters,omitempty"`
}

// ActionParameter describes one field a client collects before POST
type ActionParameter struct {
	Name     string        `json:"name"`
	Label    string        `json:"label,omitempty"`
	Type     ParameterType `json:"type,omitempty"`
	Required bool          `json:"required,omitempty"`
	Layout   string        `json:"layout,omitempty"`
}

// ActionPostRequest is the POST body sent by a wallet client
type ActionPostRequest struct {
	Account string         `json:"account"`
	Data    map[string]any `json:"data,omitempty"`
}

// StringField returns a string value from Data, "" when absent or of another type
func (r *ActionPostRequest) StringField(name string) string {
	if r.Data == nil {
		return ""
	}
	s, _ := r.Data[name].(string)
	return s
}

// ActionPostResponse carries the unsigned transaction for the wallet
type ActionPostResponse struct {
	Type        ActionType `json:"type"`
	Transaction string     `json:"transaction"`
	Message     string     `json:"message,omitempty"`
}

// ActionError is the error body of every action endpoint
type ActionError struct {
	Message string `json:"message"`
}

// ActionsJSON is the discovery manifest served at /actions.json
type ActionsJSON struct {
	Rules []ActionRule `json:"rules"`
}

// ActionRule maps a website path glob onto an action API path
type ActionRule struct {
	PathPattern string `json:"pathPattern"`
	APIPath     string `json:"apiPath"`
}
