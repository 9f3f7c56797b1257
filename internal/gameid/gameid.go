// Package gameid generates the opaque identifiers handed out to players and
// games. IDs are UUIDv7 values encoded as 26 lowercase Crockford base32
// characters, so they sort by creation time.
package gameid

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in every generated ID.
const Length = 26

// Generator produces IDs from a configurable entropy source.
type Generator struct {
	entropy io.Reader
}

// NewGenerator creates a generator reading random bits from entropy.
// A nil reader uses crypto/rand.
func NewGenerator(entropy io.Reader) *Generator {
	if entropy == nil {
		entropy = rand.Reader
	}
	return &Generator{entropy: entropy}
}

// Generate creates a new ID using crypto/rand.
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new ID from the generator's entropy source.
func (g *Generator) Generate() string {
	id, err := uuid.NewV7FromReader(g.entropy)
	if err != nil {
		panic("failed to generate uuid: " + err.Error())
	}
	return encodeBase32(id)
}

// encodeBase32 encodes a 128-bit UUID as a 26-character base32 string.
// The value is treated as 130 bits with two leading zero bits.
func encodeBase32(data [16]byte) string {
	result := make([]byte, Length)

	var acc uint
	bits := 2 // leading zero bits
	pos := 0
	for _, b := range data {
		acc = acc<<8 | uint(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			result[pos] = alphabet[(acc>>uint(bits))&0x1f]
			pos++
		}
	}

	return string(result)
}

// Validate checks if an ID is well formed (26 characters, valid base32).
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("id must be exactly %d characters, got %d", Length, len(id))
	}

	// First character carries the two padding bits plus three data bits
	if id[0] > '7' {
		return fmt.Errorf("id first character must be 0-7, got %c", id[0])
	}

	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}

	return nil
}
