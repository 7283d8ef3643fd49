// Package pid turns numeric primary keys into opaque tokens and back.
//
// A pid is base64url(nonce || XChaCha20-Poly1305(id)). The nonce is random, so
// the same id yields a different pid every time it is encoded; all of them
// decode back to the same id as long as the secret is unchanged.
package pid

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrInvalidPID is returned for tokens that were not produced by this codec.
var ErrInvalidPID = errors.New("invalid pid")

type Codec struct {
	key []byte
}

// NewCodec derives the AEAD key from secret.
func NewCodec(secret string) *Codec {
	k := sha256.Sum256([]byte(secret))
	return &Codec{key: k[:]}
}

// Encode seals id into a pid.
func (c *Codec) Encode(id uint) (string, error) {
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+8+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("pid nonce: %w", err)
	}
	var plain [8]byte
	binary.BigEndian.PutUint64(plain[:], uint64(id))
	sealed := aead.Seal(nonce, nonce, plain[:], nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// MustEncode is Encode for call sites that render records; a failing random
// source is not recoverable there.
func (c *Codec) MustEncode(id uint) string {
	s, err := c.Encode(id)
	if err != nil {
		panic(err)
	}
	return s
}

// Decode opens a pid and returns the id it stands for.
func (c *Codec) Decode(pid string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(pid)
	if err != nil {
		return 0, ErrInvalidPID
	}
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return 0, err
	}
	if len(raw) < aead.NonceSize()+aead.Overhead()+8 {
		return 0, ErrInvalidPID
	}
	nonce, box := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, box, nil)
	if err != nil || len(plain) != 8 {
		return 0, ErrInvalidPID
	}
	id := binary.BigEndian.Uint64(plain)
	if id == 0 {
		return 0, ErrInvalidPID
	}
	return uint(id), nil
}
