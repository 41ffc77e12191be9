// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package secrets encrypts stored provider API keys using AES-256-GCM
// under a versioned envelope format. The version tag prefixing every
// ciphertext identifies the scheme that produced it, so decryption never
// has to guess; an unknown tag fails closed instead of falling back to a
// legacy scheme.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Envelope format: "v1:" + base64(nonce || ciphertext).
const (
	versionTag = "v1:"
	keyLen     = 32 // AES-256
)

// ErrUnknownVersion indicates a stored envelope carries a version tag this
// build does not understand.
var ErrUnknownVersion = errors.New("secrets: unknown envelope version")

// Box seals and opens credential envelopes with a fixed symmetric key.
type Box struct {
	key []byte
}

// NewBox creates a Box from a hex-encoded 32-byte key.
func NewBox(hexKey string) (*Box, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("secrets: decode key: %w", err)
	}
	if len(key) != keyLen {
		return nil, fmt.Errorf("secrets: key must be %d bytes, got %d", keyLen, len(key))
	}
	return &Box{key: key}, nil
}

// Seal encrypts the plaintext credential and returns a versioned envelope
// string suitable for storage.
func (b *Box) Seal(plaintext string) (string, error) {
	block, err := aes.NewCipher(b.key)
	if err != nil {
		return "", fmt.Errorf("secrets: cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("secrets: gcm: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("secrets: nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return versionTag + base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a stored envelope and returns the plaintext credential.
// Envelopes with an unrecognized version tag are rejected outright.
func (b *Box) Open(envelope string) (string, error) {
	if !strings.HasPrefix(envelope, versionTag) {
		return "", ErrUnknownVersion
	}

	raw, err := base64.StdEncoding.DecodeString(envelope[len(versionTag):])
	if err != nil {
		return "", fmt.Errorf("secrets: decode envelope: %w", err)
	}

	block, err := aes.NewCipher(b.key)
	if err != nil {
		return "", fmt.Errorf("secrets: cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("secrets: gcm: %w", err)
	}

	if len(raw) < gcm.NonceSize() {
		return "", fmt.Errorf("secrets: envelope too short")
	}

	nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("secrets: open: %w", err)
	}
	return string(plaintext), nil
}
