package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	digest, err := Hash("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(digest, "$argon2id$"), "new hashes must be argon2id, got %q", digest)
	assert.True(t, Verify("correct horse battery staple", digest))
	assert.False(t, Verify("wrong password", digest))
	assert.False(t, Verify("", digest))
}

func TestHashIsSalted(t *testing.T) {
	a, err := Hash("same password")
	require.NoError(t, err)
	b, err := Hash("same password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyLegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("old password"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, Verify("old password", string(legacy)))
	assert.False(t, Verify("not it", string(legacy)))
}

func TestVerifyGarbageDigest(t *testing.T) {
	for _, digest := range []string{
		"",
		"plaintext",
		"$argon2id$",
		"$argon2id$v=19$m=65536,t=3,p=2$notb64!$notb64!",
		"$argon2i$v=19$m=65536,t=3,p=2$AAAA$BBBB", // argon2i never issued here
		"$2z$10$invalidprefix",
	} {
		assert.False(t, Verify("anything", digest), "digest %q", digest)
	}
}
