// Package crypto provides password key derivation for credstore.
//
// Key derivation uses scrypt (golang.org/x/crypto/scrypt) with:
//   - cost parameters N, r, p stored next to every credential
//   - 32-byte random salt per credential (minimum 16 bytes)
//   - 32-byte derived key by default
//
// Defaults are N=2048, r=8, p=1. Raise N for new deployments; existing
// credentials keep verifying with the parameters they were created with.
//
// Memory safety:
//   - Use ClearBytes() to zero passwords and derived keys after use
package crypto
