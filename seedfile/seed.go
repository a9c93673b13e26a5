// Package seedfile binds a reproducible Ed25519 keypair to a human
// readable, checksum-protected text file: Turboshell's entire key
// management story, per SPEC_FULL.md's Non-goals.
package seedfile

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"hash/crc32"
	"strings"

	"github.com/cloudflare/circl/sign/ed25519"
)

const (
	seedSize = 32

	headerLine = "---------- THIS IS YOUR PRIVATE SEED FILE ----------"
	footerLine = "------------- DO NOT SHARE IT PUBLICLY -------------"

	seedB64Len = 44 // base64.StdEncoding length of a 32-byte seed
	crcB64Len  = 8  // base64.StdEncoding length of a 4-byte CRC
	bodyLen    = seedB64Len + crcB64Len
)

// SeedFile is a 32-byte seed from which an Ed25519 keypair is derived.
type SeedFile struct {
	Seed [seedSize]byte
}

// Generate returns a SeedFile built from 32 cryptographically random
// bytes.
func Generate() (*SeedFile, error) {
	var sf SeedFile
	if _, err := rand.Read(sf.Seed[:]); err != nil {
		return nil, fmt.Errorf("generating seed: %w", err)
	}
	return &sf, nil
}

// Encode renders the SeedFile as its three-line text format.
func (sf *SeedFile) Encode() string {
	seedPart := base64.StdEncoding.EncodeToString(sf.Seed[:])

	var crcBytes [4]byte
	crc := crc32.ChecksumIEEE(sf.Seed[:])
	crcBytes[0] = byte(crc >> 24)
	crcBytes[1] = byte(crc >> 16)
	crcBytes[2] = byte(crc >> 8)
	crcBytes[3] = byte(crc)
	crcPart := base64.StdEncoding.EncodeToString(crcBytes[:])

	return strings.Join([]string{headerLine, seedPart + crcPart, footerLine}, "\n")
}

// Decode parses the three-line text format produced by Encode. source is
// used only to identify the input in error messages (a file path, "stdin",
// and so on).
func Decode(text, source string) (*SeedFile, error) {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(lines) != 3 {
		return nil, fmt.Errorf("%s: expected 3 lines, got %d", source, len(lines))
	}
	if lines[0] != headerLine {
		return nil, fmt.Errorf("%s: line 1 does not match the expected seed file header", source)
	}
	if lines[2] != footerLine {
		return nil, fmt.Errorf("%s: line 3 does not match the expected seed file footer", source)
	}
	if len(lines[1]) != bodyLen {
		return nil, fmt.Errorf("%s: line 2 must be %d bytes, got %d", source, bodyLen, len(lines[1]))
	}

	seedPart := lines[1][:seedB64Len]
	crcPart := lines[1][seedB64Len:]

	seed, err := base64.StdEncoding.DecodeString(seedPart)
	if err != nil {
		return nil, fmt.Errorf("%s: seed is not valid base64: %w", source, err)
	}
	crcBytes, err := base64.StdEncoding.DecodeString(crcPart)
	if err != nil {
		return nil, fmt.Errorf("%s: checksum is not valid base64: %w", source, err)
	}

	var sf SeedFile
	copy(sf.Seed[:], seed)

	wantCRC := uint32(crcBytes[0])<<24 | uint32(crcBytes[1])<<16 | uint32(crcBytes[2])<<8 | uint32(crcBytes[3])
	gotCRC := crc32.ChecksumIEEE(sf.Seed[:])
	if gotCRC != wantCRC {
		return nil, fmt.Errorf("%s: checksum mismatch (seed file is corrupt or was edited)", source)
	}

	return &sf, nil
}

// Keypair derives the Ed25519 keypair bound to this seed.
func (sf *SeedFile) Keypair() (ed25519.PublicKey, ed25519.PrivateKey) {
	priv := ed25519.NewKeyFromSeed(sf.Seed[:])
	pub := priv.Public().(ed25519.PublicKey)
	return pub, priv
}
