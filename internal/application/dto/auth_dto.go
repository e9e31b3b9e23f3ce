package dto

// RegisterRequest création d'un compte utilisateur.
type RegisterRequest struct {
	LastName  string `json:"nom"`
	FirstName string `json:"prenom"`
	Username  string `json:"nom_utilisateur"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// RegisterResponse identifiant du compte créé.
type RegisterResponse struct {
	AccountID int64  `json:"id_compte"`
	Message   string `json:"message"`
}

// LoginRequest authentification par email et mot de passe.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse résultat de l'authentification.
type LoginResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	AccountID int64  `json:"user_id,omitempty"`
}

// SessionInfo compte associé à une session valide.
type SessionInfo struct {
	SessionID string `json:"session_id"`
	AccountID int64  `json:"user_id"`
	ExpiresAt string `json:"date_expiration"`
}
