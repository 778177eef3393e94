package dto

// UpdateUserRequest changes profile details. Username changes re-run the
// uniqueness check; a nil field is left untouched.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
}
