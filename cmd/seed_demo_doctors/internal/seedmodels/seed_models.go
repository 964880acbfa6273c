package seedmodels

// SeedDoctor defines one account in the JSON seed file.
type SeedDoctor struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}
