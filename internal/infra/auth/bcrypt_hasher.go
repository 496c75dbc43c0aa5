package auth

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"lebay/config"
	domainerrors "lebay/internal/domain/errors"
	"lebay/internal/domain/service"
	"lebay/internal/errors"

	"golang.org/x/crypto/bcrypt"
)

var forbiddenPasswordWords = []string{"password", "lebay", "qwerty", "letmein"}

// PasswordPolicy mirrors config.PasswordStrengthConfig.
type PasswordPolicy struct {
	MinLength        int
	MaxLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireNumbers   bool
	RequireSpecial   bool
}

// DefaultPasswordPolicy is used when no passwordStrength section is configured.
var DefaultPasswordPolicy = PasswordPolicy{
	MinLength:        8,
	MaxLength:        72,
	RequireLowercase: true,
	RequireNumbers:   true,
}

type bcryptHasher struct {
	cost   int
	policy PasswordPolicy
}

// NewBcryptHasher builds the hasher from auth.bcryptCost and passwordStrength.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg.Auth != nil && cfg.Auth.BcryptCost > 0 {
		cost = cfg.Auth.BcryptCost
	}

	policy := DefaultPasswordPolicy
	if ps := cfg.PasswordStrength; ps != nil {
		policy = PasswordPolicy{
			MinLength:        ps.MinLength,
			MaxLength:        ps.MaxLength,
			RequireUppercase: ps.RequireUppercase,
			RequireLowercase: ps.RequireLowercase,
			RequireNumbers:   ps.RequireNumbers,
			RequireSpecial:   ps.RequireSpecial,
		}
	}

	return NewBcryptHasherWithCost(cost, policy)
}

// NewBcryptHasherWithCost clamps cost into bcrypt's accepted range.
func NewBcryptHasherWithCost(cost int, policy PasswordPolicy) service.PasswordHasher {
	cost = min(max(cost, bcrypt.MinCost), bcrypt.MaxCost)
	if policy.MaxLength <= 0 || policy.MaxLength > 72 {
		// bcrypt ignores everything past 72 bytes
		policy.MaxLength = 72
	}

	return &bcryptHasher{cost: cost, policy: policy}
}

func (h *bcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(err, "bcrypt generate")
	}

	return string(hash), nil
}

func (h *bcryptHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	var problems []string

	length := utf8.RuneCountInString(password)
	if length < h.policy.MinLength {
		problems = append(problems, fmt.Sprintf("must be at least %d characters long", h.policy.MinLength))
	}
	if len(password) > h.policy.MaxLength {
		problems = append(problems, fmt.Sprintf("must be at most %d bytes long", h.policy.MaxLength))
	}
	if h.policy.RequireLowercase && !hasRune(password, unicode.IsLower) {
		problems = append(problems, "must contain at least one lowercase letter")
	}
	if h.policy.RequireUppercase && !hasRune(password, unicode.IsUpper) {
		problems = append(problems, "must contain at least one uppercase letter")
	}
	if h.policy.RequireNumbers && !hasRune(password, unicode.IsDigit) {
		problems = append(problems, "must contain at least one number")
	}
	if h.policy.RequireSpecial && !hasRune(password, isSpecial) {
		problems = append(problems, "must contain at least one special character")
	}
	if containsForbiddenWords(password, forbiddenPasswordWords) {
		problems = append(problems, "contains forbidden words")
	}

	if len(problems) == 0 {
		return nil
	}

	return domainerrors.ErrPasswordStrength.WithDetails("password " + strings.Join(problems, ", "))
}

func hasRune(s string, pred func(rune) bool) bool {
	return strings.IndexFunc(s, pred) >= 0
}

func isSpecial(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func containsForbiddenWords(password string, words []string) bool {
	lower := strings.ToLower(password)
	for _, word := range words {
		if strings.Contains(lower, word) {
			return true
		}
	}

	return false
}
