package signup

// TokenDecoder decodes claim tokens without tying callers to a specific
// signing implementation.
type TokenDecoder interface {
	Decode(token string) (ClaimSet, error)
}

// TokenDecoderFunc adapts a function into a TokenDecoder.
type TokenDecoderFunc func(token string) (ClaimSet, error)

// Decode satisfies the TokenDecoder interface.
func (f TokenDecoderFunc) Decode(token string) (ClaimSet, error) {
	if f == nil {
		return ClaimSet{}, ErrTokenMalformed
	}
	return f(token)
}

// MultiTokenDecoder tries decoders in order until one succeeds, which lets a
// deployment rotate the signing secret without invalidating claim tokens
// issued under the previous one. It treats ErrTokenMalformed as "try next"
// and returns the last malformed error if all decoders fail.
type MultiTokenDecoder struct {
	decoders []TokenDecoder
}

// NewMultiTokenDecoder filters nil decoders and returns a composite decoder.
func NewMultiTokenDecoder(decoders ...TokenDecoder) *MultiTokenDecoder {
	filtered := make([]TokenDecoder, 0, len(decoders))
	for _, d := range decoders {
		if d != nil {
			filtered = append(filtered, d)
		}
	}
	return &MultiTokenDecoder{decoders: filtered}
}

// Decode satisfies the TokenDecoder interface.
func (m *MultiTokenDecoder) Decode(token string) (ClaimSet, error) {
	var lastErr error
	for _, d := range m.decoders {
		claims, err := d.Decode(token)
		if err == nil {
			return claims, nil
		}
		if IsMalformedError(err) {
			lastErr = err
			continue
		}
		return ClaimSet{}, err
	}
	if lastErr != nil {
		return ClaimSet{}, lastErr
	}
	return ClaimSet{}, ErrTokenMalformed
}
