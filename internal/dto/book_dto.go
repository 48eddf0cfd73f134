package dto

type BookResponse struct {
	Name    string `json:"name"`
	Current bool   `json:"current"`
}
