// Package access defines the descriptor that locates a file in an XNAT
// repository and carries the credentials for reaching it, plus the
// validation that runs before any network activity.
package access

// Direction selects which of the two descriptor shapes applies.
type Direction string

const (
	// Send is the upload shape: full container coordinates and the
	// document type are mandatory, upsert is allowed.
	Send Direction = "send"
	// Receive is the download shape: container-qualified or
	// container-less, with upsert and xsiType not part of either form.
	Receive Direction = "receive"
)

// Auth holds the basic-auth credentials sent with every request.
type Auth struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// BasicAuth implements the credential source the API client consumes.
func (a Auth) BasicAuth() (string, string) {
	return a.Username, a.Password
}

// Access describes one end of a transfer: the XNAT deployment, the
// coordinates of the remote file, and the credentials. Field names are
// the connector's external JSON contract.
//
// Upsert is a pointer so validation can tell an absent key from an
// explicit false: the receive shape rejects the key outright, even when
// its value would change nothing.
type Access struct {
	BaseURL                string `json:"baseUrl" validate:"required"`
	Project                string `json:"project" validate:"required"`
	Subject                string `json:"subject" validate:"required"`
	Session                string `json:"session" validate:"required"`
	ContainerType          string `json:"containerType,omitempty" validate:"omitempty,oneof=scans reconstructions assessors"`
	Container              string `json:"container,omitempty"`
	Resource               string `json:"resource,omitempty"`
	XSIType                string `json:"xsiType,omitempty"`
	File                   string `json:"file" validate:"required"`
	Upsert                 *bool  `json:"upsert,omitempty"`
	Auth                   Auth   `json:"auth"`
	DisableSSLVerification bool   `json:"disableSSLVerification,omitempty"`
}

// UpsertEnabled reports whether replacing an existing container is
// allowed. An absent key and an explicit false mean the same thing here.
func (a *Access) UpsertEnabled() bool {
	return a.Upsert != nil && *a.Upsert
}

// VerifyTLS reports whether the remote certificate must be verified.
// Verification stays on unless the descriptor disables it explicitly.
func (a *Access) VerifyTLS() bool {
	return !a.DisableSSLVerification
}
