package signup

// DefaultClaimTokenDuration is the lifetime in seconds of an issued claim
// token; the email/username pair is provisionally reserved for that window.
const DefaultClaimTokenDuration = 600

// DefaultAuthTokenDuration is the lifetime in seconds of the session token
// minted when a registration finalizes.
const DefaultAuthTokenDuration = 24 * 60 * 60

// BaseConfig is a concrete Config with sane defaults. The signing key has no
// default: construction fails fast when it is missing.
type BaseConfig struct {
	SigningKey         string   `json:"signing_key" yaml:"signing_key"`
	ClaimTokenDuration int      `json:"claim_token_duration" yaml:"claim_token_duration"`
	AuthTokenDuration  int      `json:"auth_token_duration" yaml:"auth_token_duration"`
	Issuer             string   `json:"issuer" yaml:"issuer"`
	Audience           []string `json:"audience" yaml:"audience"`
}

func (c *BaseConfig) GetSigningKey() string { return c.SigningKey }

func (c *BaseConfig) GetClaimTokenDuration() int {
	if c.ClaimTokenDuration <= 0 {
		return DefaultClaimTokenDuration
	}
	return c.ClaimTokenDuration
}

func (c *BaseConfig) GetAuthTokenDuration() int {
	if c.AuthTokenDuration <= 0 {
		return DefaultAuthTokenDuration
	}
	return c.AuthTokenDuration
}

func (c *BaseConfig) GetIssuer() string { return c.Issuer }

func (c *BaseConfig) GetAudience() []string { return c.Audience }

// Validate checks the configuration is serviceable.
func (c *BaseConfig) Validate() error {
	if c.SigningKey == "" {
		return ErrMissingSigningKey
	}
	return nil
}
