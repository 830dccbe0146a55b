package dto

type MeResponse struct {
	User UserDTO `json:"user"`
	// ExpiresIn is the remaining token lifetime in seconds.
	ExpiresIn int64 `json:"expiresIn"`
}
