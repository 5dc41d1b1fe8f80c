// Copyright 2023 - 2025, the SelfossFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package authenticated signs and verifies the v4.public tokens handed to
browsers.
*/
package authenticated

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

// Implicit is the implicit assertion bound into every token. Changing it
// invalidates all issued tokens.
const Implicit = "SelfossFE session token"

var ErrInvalidToken = errors.New("invalid token")

// NewSecretKeyHex returns a freshly generated secret key, hex encoded.
func NewSecretKeyHex() string {
	return paseto.NewV4AsymmetricSecretKey().ExportHex()
}

// Validator signs and verifies v4.public tokens.
type Validator struct {
	SecretKey paseto.V4AsymmetricSecretKey
}

// NewValidator loads the hex encoded secret key, or generates an ephemeral
// one when secretHex is empty. Tokens signed with an ephemeral key do not
// survive a restart.
func NewValidator(secretHex string) (*Validator, error) {
	if secretHex == "" {
		return &Validator{SecretKey: paseto.NewV4AsymmetricSecretKey()}, nil
	}

	v := &Validator{}
	if err := v.LoadSecretKeyFromHex(secretHex); err != nil {
		return nil, err
	}

	return v, nil
}

func (v *Validator) LoadSecretKeyFromHex(hex string) (err error) {
	v.SecretKey, err = paseto.NewV4AsymmetricSecretKeyFromHex(hex)
	if err != nil {
		return fmt.Errorf("failed to load secret key: %w", err)
	}

	return nil
}

// Sign returns a token for subject carrying the string claims, valid for ttl.
func (v *Validator) Sign(subject string, claims map[string]string, ttl time.Duration) string {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(ttl))
	token.SetSubject(subject)

	for key, value := range claims {
		token.SetString(key, value)
	}

	return token.V4Sign(v.SecretKey, []byte(Implicit))
}

// Verify checks signature, expiry and subject of signed and returns the
// requested string claim.
func (v *Validator) Verify(signed, subject, claim string) (string, error) {
	parser := paseto.MakeParser([]paseto.Rule{
		paseto.NotExpired(),
		paseto.Subject(subject),
	})

	token, err := parser.ParseV4Public(v.SecretKey.Public(), signed, []byte(Implicit))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	value, err := token.GetString(claim)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return value, nil
}
