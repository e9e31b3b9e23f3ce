package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josoavj/prospectius-core/pkg/password"
)

// Un mot de passe haché avec son sel doit se vérifier ; tout autre mot de
// passe doit échouer.
func TestHashVerify_AllerRetour(t *testing.T) {
	salt, err := password.GenerateSalt()
	require.NoError(t, err)
	require.Len(t, salt, 32) // 16 octets en hexadécimal

	digest := password.Hash("Str0ng!Pass", salt)
	require.NotEmpty(t, digest)

	assert.True(t, password.Verify("Str0ng!Pass", salt, digest))
	assert.False(t, password.Verify("wrong", salt, digest))
	assert.False(t, password.Verify("str0ng!pass", salt, digest))
}

// Deux sels successifs doivent différer, et le même mot de passe avec deux
// sels distincts donne deux empreintes distinctes.
func TestGenerateSalt_Unique(t *testing.T) {
	s1, err := password.GenerateSalt()
	require.NoError(t, err)
	s2, err := password.GenerateSalt()
	require.NoError(t, err)

	assert.NotEqual(t, s1, s2)
	assert.NotEqual(t, password.Hash("Str0ng!Pass", s1), password.Hash("Str0ng!Pass", s2))
}

// Le hachage est déterministe pour un couple (mot de passe, sel) donné.
func TestHash_Deterministe(t *testing.T) {
	const salt = "aabbccddeeff00112233445566778899"
	assert.Equal(t, password.Hash("secret", salt), password.Hash("secret", salt))
}

// Une empreinte stockée corrompue (hex invalide) ne doit jamais valider.
func TestVerify_EmpreinteInvalide(t *testing.T) {
	assert.False(t, password.Verify("secret", "00", "pas-de-l-hexa"))
}
