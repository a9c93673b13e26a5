package main

import (
	"encoding/base64"
	"fmt"

	"github.com/cloudflare/circl/sign/ed25519"
)

// decodePublicKey parses the base64 text handed to -k on the inspect and
// run subcommands.
func decodePublicKey(text string) (ed25519.PublicKey, error) {
	if text == "" {
		return nil, fmt.Errorf("-k is required")
	}
	raw, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("-k is not valid base64: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("-k is %d bytes, want %d", len(raw), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(raw), nil
}
