// Package password centralise la génération de sel et le hachage des mots de
// passe. L'empreinte est calculée avec argon2id (algorithme à coût mémoire
// adaptatif) ; le sel est stocké à part, en colonne, car la procédure
// d'authentification reçoit l'empreinte recalculée côté applicatif.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	hashTime    uint32 = 3
	hashMemory  uint32 = 64 * 1024 // KiB
	hashThreads uint8  = 2
	hashKeyLen  uint32 = 32
	saltLen            = 16
)

// GenerateSalt produit un sel aléatoire encodé en hexadécimal.
func GenerateSalt() (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("générer le sel: %w", err)
	}
	return hex.EncodeToString(salt), nil
}

// Hash calcule l'empreinte argon2id du mot de passe avec le sel fourni,
// encodée en hexadécimal.
func Hash(password, salt string) string {
	sum := argon2.IDKey([]byte(password), []byte(salt), hashTime, hashMemory, hashThreads, hashKeyLen)
	return hex.EncodeToString(sum)
}

// Verify recalcule l'empreinte et la compare en temps constant.
func Verify(password, salt, digest string) bool {
	expected, err := hex.DecodeString(digest)
	if err != nil {
		return false
	}
	actual := argon2.IDKey([]byte(password), []byte(salt), hashTime, hashMemory, hashThreads, hashKeyLen)
	return subtle.ConstantTimeCompare(actual, expected) == 1
}
