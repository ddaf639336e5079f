package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

const (
	// SessionCodecAES encrypts the user id with AES-GCM
	SessionCodecAES = "aes"
	// SessionCodecJWT signs the user id in an HS256 token
	SessionCodecJWT = "jwt"
	// SessionCodecPlain stores the raw user id in the cookie. Insecure.
	SessionCodecPlain = "plain"
)

const sessionKeyInfo = "user-auth session cookie"

// NewSessionCodec builds the codec selected by cfg
func NewSessionCodec(cfg Config) (SessionCodec, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.GetSessionCodec())) {
	case "", SessionCodecAES:
		return NewAESSessionCodec(cfg.GetSessionSecret())
	case SessionCodecJWT:
		return NewJWTSessionCodec(cfg.GetSessionSecret(), cfg.GetSessionIssuer(), cfg.GetSessionTTL())
	case SessionCodecPlain:
		return PlainSessionCodec{}, nil
	default:
		return nil, goerrors.New(fmt.Sprintf("unknown session codec %q", cfg.GetSessionCodec()), goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}
}

// PlainSessionCodec puts the user id in the cookie as is
type PlainSessionCodec struct{}

var _ SessionCodec = PlainSessionCodec{}

func (PlainSessionCodec) Encode(userID string) (string, error) {
	id, err := parseSessionUserID(userID)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (PlainSessionCodec) Decode(token string) (string, error) {
	return parseSessionUserID(token)
}

// AESSessionCodec encrypts the user id with AES-256-GCM. The key is derived
// from the secret with HKDF-SHA256, tokens are base64url(nonce|ciphertext).
type AESSessionCodec struct {
	aead cipher.AEAD
}

var _ SessionCodec = (*AESSessionCodec)(nil)

// NewAESSessionCodec derives the cipher key from secret
func NewAESSessionCodec(secret string) (*AESSessionCodec, error) {
	if secret == "" {
		return nil, ErrMissingSessionSecret
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(sessionKeyInfo)), key); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to derive session key")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create cipher")
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create GCM")
	}

	return &AESSessionCodec{aead: aead}, nil
}

func (c *AESSessionCodec) Encode(userID string) (string, error) {
	id, err := parseSessionUserID(userID)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate nonce")
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(id), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (c *AESSessionCodec) Decode(token string) (string, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", ErrUnableToDecodeSession
	}

	nonceSize := c.aead.NonceSize()
	if len(data) < nonceSize+c.aead.Overhead() {
		return "", ErrUnableToDecodeSession
	}

	nonce, sealed := data[:nonceSize], data[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrUnableToDecodeSession
	}

	return parseSessionUserID(string(plaintext))
}

// JWTSessionCodec issues HS256 tokens with the user id as subject
type JWTSessionCodec struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
	now        func() time.Time
}

var _ SessionCodec = (*JWTSessionCodec)(nil)

// NewJWTSessionCodec signs tokens with secret. A zero ttl issues tokens
// without expiration.
func NewJWTSessionCodec(secret, issuer string, ttl time.Duration) (*JWTSessionCodec, error) {
	if secret == "" {
		return nil, ErrMissingSessionSecret
	}
	return &JWTSessionCodec{
		signingKey: []byte(secret),
		issuer:     issuer,
		ttl:        ttl,
		now:        time.Now,
	}, nil
}

func (c *JWTSessionCodec) Encode(userID string) (string, error) {
	id, err := parseSessionUserID(userID)
	if err != nil {
		return "", err
	}

	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:  id,
		Issuer:   c.issuer,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign session token")
	}
	return signed, nil
}

func (c *JWTSessionCodec) Decode(token string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return c.signingKey, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return "", ErrUnableToDecodeSession
	}

	return parseSessionUserID(claims.Subject)
}

func parseSessionUserID(value string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil || id == uuid.Nil {
		return "", ErrUnableToDecodeSession
	}
	return id.String(), nil
}
