package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// AccessKeyChecker compares a shared access key against a bcrypt hash.
type AccessKeyChecker struct {
	hash []byte
}

// NewAccessKeyChecker creates a checker for hash. An empty hash disables the checker.
func NewAccessKeyChecker(hash string) *AccessKeyChecker {
	return &AccessKeyChecker{hash: []byte(strings.TrimSpace(hash))}
}

// Enabled reports whether a hash has been configured.
func (c *AccessKeyChecker) Enabled() bool {
	return c != nil && len(c.hash) > 0
}

// Check reports whether key matches the configured hash.
func (c *AccessKeyChecker) Check(key string) bool {
	if !c.Enabled() || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(c.hash, []byte(key)) == nil
}

// HashAccessKey hashes key with the given bcrypt cost.
func HashAccessKey(key string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

