// Package encoding serializes application-state snapshots for external
// persistence collaborators. The core runtime never persists anything
// itself; a collaborator reads the store, encodes a snapshot here, parks it
// wherever it likes (cookie, URL, key-value store), and later decodes and
// re-dispatches it.
//
// Snapshots travel through untrusted hands, so the codec supports two
// modes:
//   - Signed (default): msgpack + HMAC signature - visible but tamper-proof
//   - Encrypted: AES-256-GCM - fully opaque
package encoding

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// snapshotVersion is bumped when the envelope layout changes.
const snapshotVersion = 1

// Sentinel errors surfaced to callers.
var (
	ErrInvalidFormat    = errors.New("encoding: invalid snapshot format")
	ErrSignatureInvalid = errors.New("encoding: signature verification failed")
	ErrDecryptFailed    = errors.New("encoding: snapshot decryption failed")
	ErrVersion          = errors.New("encoding: unsupported snapshot version")
)

// envelope wraps the raw state bytes with the metadata needed to reject
// stale layouts before unmarshalling.
type envelope struct {
	Version   int    `msgpack:"v"`
	CreatedAt int64  `msgpack:"t"` // unix seconds
	State     []byte `msgpack:"s"` // msgpack-encoded state value
}

// Encoder encodes and decodes state snapshots.
type Encoder struct {
	key []byte
	gcm cipher.AEAD
}

// NewEncoder creates an encoder with the given key. Keys shorter than 32
// bytes are stretched with SHA-256 so AES-256 always has a full key.
func NewEncoder(key []byte) (*Encoder, error) {
	if len(key) < 32 {
		h := sha256.Sum256(key)
		key = h[:]
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Encoder{key: key, gcm: gcm}, nil
}

// EncodeSnapshot serializes a state value into an opaque string. If
// sensitive is true the snapshot is encrypted; otherwise it is signed.
func (e *Encoder) EncodeSnapshot(state any, sensitive bool) (string, error) {
	raw, err := msgpack.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("encoding: marshal state: %w", err)
	}

	packed, err := msgpack.Marshal(envelope{
		Version:   snapshotVersion,
		CreatedAt: time.Now().Unix(),
		State:     raw,
	})
	if err != nil {
		return "", fmt.Errorf("encoding: marshal envelope: %w", err)
	}

	if sensitive {
		return e.encrypt(packed)
	}
	return e.sign(packed)
}

// DecodeSnapshot verifies (or decrypts) an encoded snapshot and unmarshals
// the state into out. Returns the time the snapshot was taken.
func (e *Encoder) DecodeSnapshot(encoded string, sensitive bool, out any) (time.Time, error) {
	var packed []byte
	var err error
	if sensitive {
		packed, err = e.decrypt(encoded)
	} else {
		packed, err = e.verify(encoded)
	}
	if err != nil {
		return time.Time{}, err
	}

	var env envelope
	if err := msgpack.Unmarshal(packed, &env); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if env.Version != snapshotVersion {
		return time.Time{}, fmt.Errorf("%w: %d", ErrVersion, env.Version)
	}
	if err := msgpack.Unmarshal(env.State, out); err != nil {
		return time.Time{}, fmt.Errorf("%w: state: %v", ErrInvalidFormat, err)
	}
	return time.Unix(env.CreatedAt, 0), nil
}

// sign creates a signed (but visible) encoding: base64.signature
func (e *Encoder) sign(data []byte) (string, error) {
	b64 := base64.RawURLEncoding.EncodeToString(data)
	mac := hmac.New(sha256.New, e.key)
	mac.Write(data)
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil)[:16]) // 128-bit tag
	return b64 + "." + sig, nil
}

// verify checks the signature and returns the payload bytes.
func (e *Encoder) verify(encoded string) ([]byte, error) {
	parts := strings.SplitN(encoded, ".", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: missing signature", ErrInvalidFormat)
	}

	data, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	mac := hmac.New(sha256.New, e.key)
	mac.Write(data)
	expected := mac.Sum(nil)[:16]

	if !hmac.Equal(sig, expected) {
		return nil, ErrSignatureInvalid
	}
	return data, nil
}

// encrypt seals the payload with AES-256-GCM, nonce prepended.
func (e *Encoder) encrypt(data []byte) (string, error) {
	nonce := make([]byte, e.gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	ciphertext := e.gcm.Seal(nonce, nonce, data, nil)
	return base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

// decrypt opens a sealed snapshot.
func (e *Encoder) decrypt(encoded string) ([]byte, error) {
	ciphertext, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if len(ciphertext) < e.gcm.NonceSize() {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrInvalidFormat)
	}

	nonce := ciphertext[:e.gcm.NonceSize()]
	ciphertext = ciphertext[e.gcm.NonceSize():]

	plain, err := e.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}
	return plain, nil
}
