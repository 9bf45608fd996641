package persistence

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/mitchellh/go-homedir"
	"github.com/natefinch/atomic"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/melevanoronha/admin-console/internal/domain/session"
)

const nonceSize = 24

var ErrSessionCorrupt = errors.New("session file cannot be decrypted")

// FileSessionStore keeps the session in a single JSON document on disk.
// With a secret the document is sealed with secretbox.
type FileSessionStore struct {
	path string
	key  *[32]byte
}

func NewFileSessionStore(path, secret string) (*FileSessionStore, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expand session path %q: %w", path, err)
	}

	store := &FileSessionStore{path: expanded}
	if secret != "" {
		key, err := deriveSessionKey(secret)
		if err != nil {
			return nil, err
		}
		store.key = key
	}
	return store, nil
}

func (f *FileSessionStore) Path() string { return f.path }

func (f *FileSessionStore) Load(ctx context.Context) (session.Tokens, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return session.Tokens{}, session.ErrNoSession
	}
	if err != nil {
		return session.Tokens{}, fmt.Errorf("read session file: %w", err)
	}

	if f.key != nil {
		if data, err = f.open(data); err != nil {
			return session.Tokens{}, err
		}
	}

	var tokens session.Tokens
	if err := json.Unmarshal(data, &tokens); err != nil {
		return session.Tokens{}, fmt.Errorf("decode session file: %w", err)
	}
	if tokens.Empty() {
		return session.Tokens{}, session.ErrNoSession
	}
	return tokens, nil
}

func (f *FileSessionStore) Save(ctx context.Context, tokens session.Tokens) error {
	data, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	if f.key != nil {
		if data, err = f.seal(data); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := atomic.WriteFile(f.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return os.Chmod(f.path, 0o600)
}

func (f *FileSessionStore) Clear(ctx context.Context) error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (f *FileSessionStore) seal(plain []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plain, &nonce, f.key), nil
}

func (f *FileSessionStore) open(sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, ErrSessionCorrupt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, f.key)
	if !ok {
		return nil, ErrSessionCorrupt
	}
	return plain, nil
}

func deriveSessionKey(secret string) (*[32]byte, error) {
	var key [32]byte
	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte("meleva-admin-session"))
	if _, err := io.ReadFull(reader, key[:]); err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	return &key, nil
}
