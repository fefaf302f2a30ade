package schema

type (
	// Credentials is the login request body
	Credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	// Registration is the register request body
	Registration struct {
		Username   string `json:"username"`
		Password   string `json:"password"`
		AccessCode string `json:"access_code"`
	}

	// PasswordResetRequest asks the API to send a one-time code to the user
	PasswordResetRequest struct {
		Username string `json:"username"`
	}

	// PasswordUpdate sets a new password using the one-time code
	PasswordUpdate struct {
		Username   string `json:"username"`
		Password   string `json:"password"`
		AccessCode string `json:"access_code"`
	}

	// TokenPair is returned by a successful login
	TokenPair struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}

	// AccessRequest asks for an account on behalf of an organisation
	AccessRequest struct {
		Name              string `json:"name"`
		Organisation      string `json:"organisation"`
		Designation       string `json:"designation"`
		OrganisationEmail string `json:"organisationEmail"`
		ContactNumber     string `json:"contactNumber"`
		CountryCode       string `json:"countryCode"`
		Reason            string `json:"reason"`
	}
)

// Envelope is the common response shape: a status code plus a typed message.
type Envelope[T any] struct {
	Code    string `json:"code,omitempty"`
	Message T      `json:"message"`
}

// Succeeded reports whether the envelope carries the success code; an absent code counts as success.
func (e *Envelope[T]) Succeeded() bool {
	return e.Code == "" || e.Code == CodeSuccess
}
