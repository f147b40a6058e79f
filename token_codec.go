package signup

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenCodecImpl implements the TokenCodec interface
type TokenCodecImpl struct {
	signingKey []byte
	issuer     string
	audience   jwt.ClaimStrings
	logger     Logger
}

// AuthTokenMinter mints session tokens for freshly created accounts.
type AuthTokenMinter interface {
	MintAuthToken(accountID string, durationSeconds int) (string, error)
}

// NewTokenCodec creates a new TokenCodec instance. It fails when no signing
// key is configured; callers are expected to abort startup on that error.
func NewTokenCodec(cfg Config, logger Logger) (*TokenCodecImpl, error) {
	if cfg == nil || cfg.GetSigningKey() == "" {
		return nil, ErrMissingSigningKey
	}

	if logger == nil {
		logger = defLogger{}
	}

	return &TokenCodecImpl{
		signingKey: []byte(cfg.GetSigningKey()),
		issuer:     cfg.GetIssuer(),
		audience:   cfg.GetAudience(),
		logger:     logger,
	}, nil
}

// CreateToken signs the supplied claim set with an absolute expiry of
// now + durationSeconds. Each issuance carries a fresh token ID, so two
// tokens minted for the same claims never compare equal.
func (tc *TokenCodecImpl) CreateToken(durationSeconds int, claims ClaimSet) (string, error) {
	now := time.Now()
	tokenClaims := &ClaimTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tc.issuer,
			Subject:   claims.Email,
			Audience:  tc.audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(durationSeconds) * time.Second)),
		},
		Email:       claims.Email,
		Username:    claims.Username,
		ProfileUUID: claims.ProfileUUID,
	}

	ensureTokenID(&tokenClaims.RegisteredClaims)

	return tc.signClaims(tokenClaims)
}

// MintAuthToken issues the session token returned by a finalized
// registration. Same signing key, subject is the account ID.
func (tc *TokenCodecImpl) MintAuthToken(accountID string, durationSeconds int) (string, error) {
	if accountID == "" {
		return "", errors.New("account id is required", errors.CategoryBadInput)
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    tc.issuer,
		Subject:   accountID,
		Audience:  tc.audience,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(durationSeconds) * time.Second)),
	}

	ensureTokenID(claims)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tc.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign auth token")
	}

	return signed, nil
}

func (tc *TokenCodecImpl) signClaims(claims *ClaimTokenClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(tc.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign claim token")
	}

	return signedString, nil
}

// Decode parses and verifies a token string, returning the claim set
func (tc *TokenCodecImpl) Decode(tokenString string) (ClaimSet, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if tc.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(tc.issuer))
	}
	for _, aud := range tc.audience {
		parserOptions = append(parserOptions, jwt.WithAudience(aud))
	}

	token, err := jwt.ParseWithClaims(tokenString, &ClaimTokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			tc.logger.Error("TokenCodec decode encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return tc.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ClaimSet{}, ErrTokenExpired
		}
		return ClaimSet{}, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).WithTextCode(ErrTokenMalformed.TextCode)
	}

	if claims, ok := token.Claims.(*ClaimTokenClaims); ok && token.Valid {
		return claims.ClaimSet(), nil
	}

	tc.logger.Error("TokenCodec decode could not map claims")
	return ClaimSet{}, ErrTokenMalformed
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}

var _ TokenCodec = (*TokenCodecImpl)(nil)
var _ AuthTokenMinter = (*TokenCodecImpl)(nil)
