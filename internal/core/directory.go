package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/illarion/credstore/internal/credential"
	"github.com/illarion/credstore/internal/crypto"
	"github.com/illarion/credstore/internal/logging"
	"github.com/illarion/credstore/internal/storage"
)

var (
	ErrDuplicateUser = errors.New("user already exists")
	ErrUnknownUser   = errors.New("user does not exist")
	ErrInvalidLogin  = errors.New("invalid login")
)

// Options configures a Directory. Zero fields take defaults.
type Options struct {
	Params crypto.Params     // cost parameters for new credentials
	KDF    crypto.KeyDeriver // defaults to crypto.Scrypt
	Logger logging.Logger    // defaults to logging.Discard
	Salt   func(n int) ([]byte, error)
}

// Directory is the in-memory view of a credential store
type Directory struct {
	mu     sync.Mutex
	store  storage.Store
	params crypto.Params
	kdf    crypto.KeyDeriver
	log    logging.Logger
	salt   func(n int) ([]byte, error)

	users map[string]credential.Record
	order []string // logins in registration order
}

// New creates a Directory backed by store and loads every entry from it.
// A malformed line aborts loading.
func New(ctx context.Context, store storage.Store, opts Options) (*Directory, error) {
	if opts.Params == (crypto.Params{}) {
		opts.Params = crypto.DefaultParams()
	}
	if err := opts.Params.Validate(); err != nil {
		return nil, err
	}
	if opts.KDF == nil {
		opts.KDF = crypto.Scrypt{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Salt == nil {
		opts.Salt = crypto.GenerateRandom
	}

	d := &Directory{
		store:  store,
		params: opts.Params,
		kdf:    opts.KDF,
		log:    opts.Logger.With("component", "directory"),
		salt:   opts.Salt,
		users:  make(map[string]credential.Record),
	}

	if err := d.load(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Directory) load(ctx context.Context) error {
	n := 0
	for line, err := range d.store.ReadAll(ctx) {
		if err != nil {
			return fmt.Errorf("failed to read users: %w", err)
		}
		n++

		entry, err := credential.ParseEntry(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}

		if _, exists := d.users[entry.Login]; exists {
			d.log.Warn(ctx, "duplicate login in store, keeping the later entry", "login", entry.Login, "line", n)
		} else {
			d.order = append(d.order, entry.Login)
		}
		d.users[entry.Login] = entry.Record
	}

	d.log.Debug(ctx, "users loaded", "count", len(d.users))
	return nil
}

// newRecord derives a credential for password with a fresh salt
func (d *Directory) newRecord(password []byte) (credential.Record, error) {
	salt, err := d.salt(d.params.SaltLength)
	if err != nil {
		return credential.Record{}, fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := d.kdf.DeriveKey(password, salt, d.params.N, d.params.R, d.params.P, d.params.KeyLength)
	if err != nil {
		return credential.Record{}, fmt.Errorf("failed to derive key: %w", err)
	}

	return credential.Record{
		N:    d.params.N,
		R:    d.params.R,
		P:    d.params.P,
		Salt: salt,
		Key:  key,
	}, nil
}

// Register adds a user. The entry is appended to the store before it
// becomes visible in memory.
func (d *Directory) Register(ctx context.Context, login string, password []byte) error {
	if err := ValidateLogin(login); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.users[login]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateUser, login)
	}

	rec, err := d.newRecord(password)
	if err != nil {
		return err
	}

	entry := credential.Entry{Login: login, Record: rec}
	if err := d.store.AppendOne(ctx, entry.Encode()); err != nil {
		return fmt.Errorf("failed to store user %s: %w", login, err)
	}

	d.users[login] = rec
	d.order = append(d.order, login)

	d.log.Info(ctx, "user registered", "login", login)
	return nil
}

// Login reports whether password matches the stored credential of login
func (d *Directory) Login(login string, password []byte) (bool, error) {
	d.mu.Lock()
	rec, ok := d.users[login]
	d.mu.Unlock()

	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownUser, login)
	}

	key, err := d.kdf.DeriveKey(password, rec.Salt, rec.N, rec.R, rec.P, len(rec.Key))
	if err != nil {
		return false, fmt.Errorf("failed to derive key: %w", err)
	}
	defer crypto.ClearBytes(key)

	return crypto.ConstantTimeCompare(key, rec.Key), nil
}

// ChangePassword replaces the credential of login with one derived from
// newPassword and a new salt, then rewrites the store. The previous
// credential is restored if the rewrite fails.
func (d *Directory) ChangePassword(ctx context.Context, login string, newPassword []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	old, ok := d.users[login]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUser, login)
	}

	rec, err := d.newRecord(newPassword)
	if err != nil {
		return err
	}

	d.users[login] = rec
	if err := d.store.WriteAll(ctx, d.linesLocked()); err != nil {
		d.users[login] = old
		return fmt.Errorf("failed to store users: %w", err)
	}

	d.log.Info(ctx, "password changed", "login", login)
	return nil
}

// NeedsUpgrade reports whether the credential of login was created with
// weaker parameters than the configured ones, or with another key length.
func (d *Directory) NeedsUpgrade(login string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rec, ok := d.users[login]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownUser, login)
	}

	return rec.N < d.params.N ||
		rec.R < d.params.R ||
		rec.P < d.params.P ||
		len(rec.Key) != d.params.KeyLength, nil
}

// Exists reports whether login is registered
func (d *Directory) Exists(login string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.users[login]
	return ok
}

// Logins returns registered logins in registration order
func (d *Directory) Logins() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]string(nil), d.order...)
}

// Len returns the number of registered users
func (d *Directory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.users)
}

// Params returns the parameters used for new credentials
func (d *Directory) Params() crypto.Params {
	return d.params
}

// Compact rewrites the store from memory, dropping duplicate and blank
// lines, then lets the backend reclaim space if it can.
func (d *Directory) Compact(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.store.WriteAll(ctx, d.linesLocked()); err != nil {
		return fmt.Errorf("failed to rewrite store: %w", err)
	}

	if c, ok := d.store.(storage.Compacter); ok {
		if err := c.Compact(ctx); err != nil {
			return fmt.Errorf("failed to compact store: %w", err)
		}
	}
	return nil
}

// linesLocked encodes every entry in registration order. d.mu must be held.
func (d *Directory) linesLocked() []string {
	lines := make([]string, 0, len(d.order))
	for _, login := range d.order {
		lines = append(lines, credential.Entry{Login: login, Record: d.users[login]}.Encode())
	}
	return lines
}
