// Package credential encodes credentials to the single-line text form kept
// in a credential store.
//
// A record is five fields joined by '$':
//
//	N$r$p$base64(salt)$hex(key)
//
// An entry prefixes the record with the login and a ':' separator:
//
//	alice:2048$8$1$3q2+7w...$9f86d0...
//
// Neither the base64 nor the hex alphabet contains '$', and logins may not
// contain ':', so both separators are unambiguous.
package credential
