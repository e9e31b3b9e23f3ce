package domain

import "errors"

// Erreurs de domaine (sans dépendances externes). Les repositories classent
// les échecs du backend sur ces sentinelles ; tout le reste remonte enveloppé
// avec %w.
var (
	ErrValidation         = errors.New("entrée invalide")
	ErrDuplicateIdentity  = errors.New("email ou nom d'utilisateur déjà enregistré")
	ErrInvalidCredentials = errors.New("identifiants invalides")
	ErrSessionExpired     = errors.New("session invalide ou expirée")
	ErrPoolExhausted      = errors.New("pool de connexions épuisé")
	ErrNotFound           = errors.New("ressource introuvable")
)
