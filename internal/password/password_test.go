package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashProducesDistinctDigests(t *testing.T) {
	first, err := Hash("s3cret-passw0rd")
	require.NoError(t, err)
	second, err := Hash("s3cret-passw0rd")
	require.NoError(t, err)

	// Per-call random salt: same plaintext, different digests, both verify.
	assert.NotEqual(t, first, second)
	assert.True(t, Verify("s3cret-passw0rd", first))
	assert.True(t, Verify("s3cret-passw0rd", second))
}

func TestVerifyRejectsWrongPassword(t *testing.T) {
	digest, err := Hash("correct-password")
	require.NoError(t, err)

	assert.False(t, Verify("wrong-password", digest))
	assert.False(t, Verify("", digest))
	assert.False(t, Verify("correct-password", "not-a-bcrypt-digest"))
}
