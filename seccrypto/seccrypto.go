// Package seccrypto is the firmware's cryptographic surface: authenticated
// encryption for payloads carried over untrusted buses and a keyed-less hash
// for attestation digests. The bus drivers treat its output as opaque bytes.
package seccrypto

import (
	"crypto/cipher"
	"errors"

	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// KeySize is the AEAD key length in bytes.
	KeySize = chacha20poly1305.KeySize
	// NonceSize is the AEAD nonce length in bytes.
	NonceSize = chacha20poly1305.NonceSize
	// Overhead is the ciphertext expansion of Seal.
	Overhead = chacha20poly1305.Overhead
	// DigestSize is the hash output length in bytes.
	DigestSize = blake2s.Size
)

var (
	ErrBadKey   = errors.New("seccrypto: key must be 32 bytes")
	ErrBadNonce = errors.New("seccrypto: nonce must be 12 bytes")
	ErrAuth     = errors.New("seccrypto: authentication failed")
)

// Seal encrypts and authenticates plaintext with the given key and nonce,
// binding ad into the tag. The result is len(plaintext)+Overhead bytes.
// Nonces must never repeat under the same key.
func Seal(key, nonce, plaintext, ad []byte) ([]byte, error) {
	aead, err := newAEAD(key, nonce)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, nonce, plaintext, ad), nil
}

// Open authenticates and decrypts ciphertext produced by Seal. A forged or
// corrupted message fails with ErrAuth and yields no plaintext.
func Open(key, nonce, ciphertext, ad []byte) ([]byte, error) {
	aead, err := newAEAD(key, nonce)
	if err != nil {
		return nil, err
	}
	pt, err := aead.Open(nil, nonce, ciphertext, ad)
	if err != nil {
		return nil, ErrAuth
	}
	return pt, nil
}

func newAEAD(key, nonce []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrBadKey
	}
	if len(nonce) != NonceSize {
		return nil, ErrBadNonce
	}
	return chacha20poly1305.New(key)
}

// Hash returns the 32-byte digest of data.
func Hash(data []byte) [DigestSize]byte {
	return blake2s.Sum256(data)
}

// Zeroize overwrites secret material in place. The write is kept observable
// by the final read-back so the compiler cannot drop it.
func Zeroize(secret []byte) {
	for i := range secret {
		secret[i] = 0
	}
	// Read back through a volatile-ish sink.
	var sink byte
	for i := range secret {
		sink |= secret[i]
	}
	if sink != 0 {
		panic("seccrypto: zeroize failed")
	}
}
