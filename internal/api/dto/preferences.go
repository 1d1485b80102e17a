package dto

type InterestsRequest struct {
	Interests []string `json:"interests" validate:"max=32,dive,required,max=64"`
}

type InterestsResponse struct {
	UserID    string   `json:"user_id"`
	Interests []string `json:"interests"`
	// Provider categories the interests expand to.
	Categories []string `json:"categories"`
}
