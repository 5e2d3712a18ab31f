package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessKeyChecker(t *testing.T) {
	hash, err := HashAccessKey("s3cret-key", 4)
	require.NoError(t, err)

	c := NewAccessKeyChecker(hash)
	assert.True(t, c.Enabled())
	assert.True(t, c.Check("s3cret-key"))
	assert.False(t, c.Check("wrong"))
	assert.False(t, c.Check(""))
}

func TestAccessKeyChecker_Disabled(t *testing.T) {
	c := NewAccessKeyChecker("  ")
	assert.False(t, c.Enabled())
	assert.False(t, c.Check("anything"))

	var nilChecker *AccessKeyChecker
	assert.False(t, nilChecker.Check("anything"))
}
