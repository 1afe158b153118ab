package dto

// LoginRequest captures operator credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Identity returns the e-mail, accepting the username field used by form logins.
func (r LoginRequest) Identity() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Username
}

// LoginResponse contains the issued access token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Redirect    string `json:"redirect,omitempty"`
}
