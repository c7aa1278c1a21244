package hash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	// ErrInvalidHash is returned when an encoded hash cannot be parsed.
	ErrInvalidHash = errors.New("hash: invalid encoded hash")
	// ErrIncompatibleVersion is returned when the encoded hash was produced by another argon2 version.
	ErrIncompatibleVersion = errors.New("hash: incompatible argon2 version")
	// ErrUnsupportedVariant is returned for argon2 variants this package cannot compute.
	ErrUnsupportedVariant = errors.New("hash: unsupported argon2 variant")
	// ErrSaltTooShort is returned when a caller supplied salt is shorter than MinSaltLength.
	ErrSaltTooShort = errors.New("hash: salt too short")
	// ErrMismatch is returned when the plaintext does not match the encoded hash.
	ErrMismatch = errors.New("hash: password does not match")
)

// MinSaltLength is the smallest salt argon2 accepts (RFC 9106).
const MinSaltLength = 8

// Variant names an argon2 flavour as it appears in the PHC string.
type Variant string

const (
	// VariantArgon2id is the hybrid variant, recommended for passwords.
	VariantArgon2id Variant = "argon2id"
	// VariantArgon2i is the data-independent variant.
	VariantArgon2i Variant = "argon2i"
)

// Argon2Config tunes the cost parameters. Zero values fall back to defaults.
type Argon2Config struct {
	Variant     Variant
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
	Pepper      string
}

// Digest is the outcome of a salted hash.
type Digest struct {
	// Encoded is the self-describing PHC string, e.g. $argon2id$v=19$m=..,t=..,p=..$salt$hash.
	Encoded string
	// Hex is the raw derived key rendered as lowercase hex.
	Hex string
	// Raw is the derived key.
	Raw []byte
}

// Argon2 hashes and verifies passwords with argon2id or argon2i.
type Argon2 struct {
	variant     Variant
	memory      uint32
	iterations  uint32
	parallelism uint8
	saltLength  uint32
	keyLength   uint32
	pepper      string
}

// NewArgon2 builds a hasher from cfg, filling unset parameters with defaults.
func NewArgon2(cfg Argon2Config) (*Argon2, error) {
	if cfg.Variant == "" {
		cfg.Variant = VariantArgon2id
	}
	if cfg.Variant != VariantArgon2id && cfg.Variant != VariantArgon2i {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVariant, cfg.Variant)
	}

	a := &Argon2{
		variant:     cfg.Variant,
		memory:      32 * 1024, // e.g. 32MB, 64MB, 128MB
		iterations:  3,         // time cost
		parallelism: 2,         // threads
		saltLength:  16,
		keyLength:   32,
		pepper:      cfg.Pepper,
	}
	if cfg.Memory > 0 {
		a.memory = cfg.Memory
	}
	if cfg.Iterations > 0 {
		a.iterations = cfg.Iterations
	}
	if cfg.Parallelism > 0 {
		a.parallelism = cfg.Parallelism
	}
	if cfg.SaltLength >= MinSaltLength {
		a.saltLength = cfg.SaltLength
	}
	if cfg.KeyLength > 0 {
		a.keyLength = cfg.KeyLength
	}

	return a, nil
}

// HashRandomSalt hashes str with a fresh random salt of the configured length.
func (a *Argon2) HashRandomSalt(str string) (*Digest, error) {
	salt := make([]byte, a.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	return a.HashWithSalt(str, salt)
}

// HashWithSalt hashes str with the given salt. The same input always yields the same Digest.
func (a *Argon2) HashWithSalt(str string, salt []byte) (*Digest, error) {
	if len(salt) < MinSaltLength {
		return nil, fmt.Errorf("%w: got %d bytes, need %d", ErrSaltTooShort, len(salt), MinSaltLength)
	}

	key := derive(a.variant, []byte(str+a.pepper), salt, a.iterations, a.memory, a.parallelism, a.keyLength)

	encoded := fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		a.variant,
		argon2.Version,
		a.memory,
		a.iterations,
		a.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return &Digest{Encoded: encoded, Hex: hex.EncodeToString(key), Raw: key}, nil
}

// Compare checks str against an encoded hash. The variant and cost parameters
// are read from the encoded string, so hashes made with other settings still verify.
func (a *Argon2) Compare(hashed, str string) error {
	parts := strings.Split(hashed, "$")
	if len(parts) != 6 || parts[0] != "" {
		return ErrInvalidHash
	}

	variant := Variant(parts[1])
	if variant != VariantArgon2id && variant != VariantArgon2i {
		return fmt.Errorf("%w: %q", ErrUnsupportedVariant, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return ErrInvalidHash
	}
	if version != argon2.Version {
		return ErrIncompatibleVersion
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return ErrInvalidHash
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 {
		return ErrInvalidHash
	}

	computed := derive(variant, []byte(str+a.pepper), salt, iterations, memory, parallelism, uint32(len(expected)))

	if subtle.ConstantTimeCompare(expected, computed) != 1 {
		return ErrMismatch
	}

	return nil
}

func derive(v Variant, password, salt []byte, time, memory uint32, threads uint8, keyLen uint32) []byte {
	if v == VariantArgon2i {
		return argon2.Key(password, salt, time, memory, threads, keyLen)
	}

	return argon2.IDKey(password, salt, time, memory, threads, keyLen)
}
