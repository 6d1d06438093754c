// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 parameters of the stored login_info.password hashes.
const (
	passwordIterations = 26
	passwordKeyLength  = 32
)

// HashPassword derives the stored hash of a password.
//
// The salt is unique per user: the global secret and the username joined by
// a colon. The result is the lowercase hex encoding of the derived key.
func HashPassword(globalSalt, username, plainTextPassword string) string {
	salt := globalSalt + ":" + username
	key := pbkdf2.Key([]byte(plainTextPassword), []byte(salt), passwordIterations, passwordKeyLength, sha512.New)
	return hex.EncodeToString(key)
}

// CheckPassword compares a plain-text password with a stored hash in constant time.
func CheckPassword(globalSalt, username, plainTextPassword, existingHash string) bool {
	candidate := HashPassword(globalSalt, username, plainTextPassword)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(existingHash)) == 1
}
