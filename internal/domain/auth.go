package domain

type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderLocal  Provider = "local"
)

// PermissionSubmit allows calling the submission endpoints
const PermissionSubmit = "judge.submit"

type AuthPayload struct {
	Username   string   `json:"username"`
	Role       Role     `json:"role"`
	Permission []string `json:"permission"`
}

type LoginResponse struct {
	Message  string `json:"message"`
	Token    string `json:"token"`
	Username string `json:"username"`
}
