package crypto

import (
	"crypto/hmac"
	"crypto/md5" //nolint:gosec // retained for exchanges that still require it
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"hash"
)

// Const declarations for common hashing types
const (
	HashSHA256 = iota
	HashSHA512
	HashMD5
)

// ErrUnsupportedHashType is returned when a hash type is not recognised
var ErrUnsupportedHashType = errors.New("unsupported hash type")

// HexEncodeToString takes in a hexadecimal byte array and returns a string
func HexEncodeToString(input []byte) string {
	return hex.EncodeToString(input)
}

// Base64Encode takes in a byte array then returns an encoded base64 string
func Base64Encode(input []byte) string {
	return base64.StdEncoding.EncodeToString(input)
}

// Base64Decode takes in a base64 string and returns a byte array and an error
func Base64Decode(input string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(input)
}

// GetHMAC returns a keyed-hash message authentication code using the desired
// hashtype
func GetHMAC(hashType int, input, key []byte) ([]byte, error) {
	var hasher func() hash.Hash
	switch hashType {
	case HashSHA256:
		hasher = sha256.New
	case HashSHA512:
		hasher = sha512.New
	case HashMD5:
		hasher = md5.New
	default:
		return nil, ErrUnsupportedHashType
	}

	h := hmac.New(hasher, key)
	h.Write(input)
	return h.Sum(nil), nil
}
