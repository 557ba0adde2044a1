// Package core provides the credstore user directory.
//
// A Directory maps logins to scrypt credentials. It is hydrated from a
// storage.Store when created and writes through to it on every change:
//   - Register: append the new entry, then insert it in memory
//   - Login: recompute the key with the stored parameters and compare
//   - ChangePassword: replace in memory, rewrite the store, roll back on failure
//
// A login moves from absent to registered and stays registered; there is
// no deletion.
package core
