// Package password generates and hashes the admin password.
package password

import (
	"crypto/rand"
	"errors"

	"github.com/alexedwards/argon2id"
)

// DefaultLen gives ~95 bits of entropy with Chars.
const DefaultLen = 16

// Chars are the characters generated passwords consist of.
var Chars = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789") //nolint:gochecknoglobals

// ErrCharset is returned for alphabets that cannot be sampled without bias.
var ErrCharset = errors.New("password: alphabet needs between 2 and 256 characters")

// Generate returns a random password of length characters taken from chars.
// Random bytes above the largest multiple of len(chars) are rejected so every
// character is equally likely.
func Generate(length int, chars []byte) (string, error) {
	n := len(chars)
	if n < 2 || n > 256 {
		return "", ErrCharset
	}

	limit := 256 - 256%n
	out := make([]byte, 0, length)
	buf := make([]byte, length+length/2+1)

	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}

		for _, b := range buf {
			if int(b) >= limit {
				continue
			}

			out = append(out, chars[int(b)%n])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}

// Hash returns the argon2id hash stored in [Webserver.Admin].PasswordHash.
func Hash(plain string) (string, error) {
	return argon2id.CreateHash(plain, argon2id.DefaultParams)
}
