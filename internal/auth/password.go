package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes plaintext with bcrypt at the given cost. The salt is
// random and embedded in the hash, so equal inputs never produce equal hashes;
// comparison is only meaningful through CheckPassword.
func HashPassword(plaintext string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies plaintext against a stored bcrypt hash. A malformed
// hash verifies as false.
func CheckPassword(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
