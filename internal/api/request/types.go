package request

// RegisterRequest is the payload for player registration
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Mail     string `json:"mail,omitempty"`
}

// LoginRequest is the payload for login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// StartGameRequest is the payload for starting a new game
type StartGameRequest struct {
	Phrase string `json:"phrase"`
}

// GuessRequest is the payload for buying a letter
type GuessRequest struct {
	Letter string `json:"letter"`
}
