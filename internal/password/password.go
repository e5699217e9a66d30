// Package password provides one-way password hashing and verification.
package password

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 10

// dummyHash is compared against when the user does not exist, so login takes
// the same time whether or not the username matches a record.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Hash derives a salted bcrypt digest from a plaintext password. Hashing the
// same plaintext twice yields different digests.
func Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plain matches the stored digest. bcrypt re-derives
// from the embedded salt and compares in constant time.
func Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// DummyCompare burns a bcrypt comparison against a fixed digest.
func DummyCompare(plain string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plain))
}
