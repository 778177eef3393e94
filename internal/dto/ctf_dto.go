package dto

type CreateCTFRequest struct {
	Name string `json:"name"`
}

type CreateChallengeRequest struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

type UpdateChallengeRequest struct {
	Solved *bool `json:"solved,omitempty"`
}
