package credential

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	fieldSeparator = "$"
	loginSeparator = ":"
	fieldCount     = 5
)

var ErrMalformedRecord = errors.New("malformed credential record")

// Record is a derived key together with the parameters that produced it
type Record struct {
	N    int
	R    int
	P    int
	Salt []byte
	Key  []byte
}

// Encode returns the N$r$p$salt$key form of the record
func (r Record) Encode() string {
	return strings.Join([]string{
		strconv.Itoa(r.N),
		strconv.Itoa(r.R),
		strconv.Itoa(r.P),
		base64.StdEncoding.EncodeToString(r.Salt),
		hex.EncodeToString(r.Key),
	}, fieldSeparator)
}

// Decode parses a record produced by Encode
func Decode(s string) (Record, error) {
	parts := strings.Split(s, fieldSeparator)
	if len(parts) != fieldCount {
		return Record{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRecord, fieldCount, len(parts))
	}

	var rec Record
	costs := []*int{&rec.N, &rec.R, &rec.P}
	for i, dst := range costs {
		v, err := strconv.Atoi(parts[i])
		if err != nil || v <= 0 {
			return Record{}, fmt.Errorf("%w: cost field %d is not a positive integer", ErrMalformedRecord, i+1)
		}
		*dst = v
	}

	salt, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return Record{}, fmt.Errorf("%w: invalid salt encoding", ErrMalformedRecord)
	}
	if len(salt) == 0 {
		return Record{}, fmt.Errorf("%w: empty salt", ErrMalformedRecord)
	}

	key, err := hex.DecodeString(parts[4])
	if err != nil {
		return Record{}, fmt.Errorf("%w: invalid key encoding", ErrMalformedRecord)
	}
	if len(key) == 0 {
		return Record{}, fmt.Errorf("%w: empty key", ErrMalformedRecord)
	}

	rec.Salt = salt
	rec.Key = key
	return rec, nil
}

// Entry is a login with its credential
type Entry struct {
	Login  string
	Record Record
}

// Encode returns the login:record form of the entry
func (e Entry) Encode() string {
	return e.Login + loginSeparator + e.Record.Encode()
}

// ParseEntry parses a line produced by Entry.Encode.
// The login ends at the first ':'.
func ParseEntry(line string) (Entry, error) {
	login, rest, ok := strings.Cut(line, loginSeparator)
	if !ok {
		return Entry{}, fmt.Errorf("%w: missing login separator", ErrMalformedRecord)
	}
	if login == "" {
		return Entry{}, fmt.Errorf("%w: empty login", ErrMalformedRecord)
	}

	rec, err := Decode(rest)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Login: login, Record: rec}, nil
}
