package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Security block codes returned to the client on a denied login
const (
	SecurityCodeUserBlocked    = "USER_BLOCKED"
	SecurityCodeRateLimit      = "RATE_LIMIT"
	SecurityCodeIPBlocked      = "IP_BLOCKED"
	SecurityCodeCountryBlocked = "COUNTRY_BLOCKED"
)

// Login throttling thresholds
const (
	userFailureLimit  = 5
	userFailureWindow = 15 * time.Minute

	ipAttemptLimit  = 10
	ipAttemptWindow = time.Minute

	ipFailureLimit  = 30
	ipFailureWindow = time.Hour
)

// SecurityError carries a machine-readable block code alongside the
// user-facing message
type SecurityError struct {
	Code    string
	Message string
}

// Error returns the user-facing message
func (e *SecurityError) Error() string {
	return e.Message
}

// SecurityService enforces login throttling and geographic blocks using
// Redis counters. Counters expire on their own; no cleanup job needed.
type SecurityService struct {
	redis            *redis.Client
	blockedCountries map[string]bool
}

// NewSecurityService creates a new security service. Countries are
// ISO 3166-1 alpha-2 codes as delivered by the CDN country header.
func NewSecurityService(rdb *redis.Client, blockedCountries []string) *SecurityService {
	blocked := make(map[string]bool, len(blockedCountries))
	for _, c := range blockedCountries {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			blocked[c] = true
		}
	}
	return &SecurityService{redis: rdb, blockedCountries: blocked}
}

// CheckLogin runs the pre-authentication gate. It counts the attempt
// against the IP and returns a SecurityError when any block applies.
func (s *SecurityService) CheckLogin(ctx context.Context, email, ip, country string) error {
	if country != "" && s.blockedCountries[strings.ToUpper(country)] {
		return &SecurityError{
			Code:    SecurityCodeCountryBlocked,
			Message: "acesso não permitido a partir desta região",
		}
	}

	attempts, err := s.bump(ctx, s.ipAttemptKey(ip), ipAttemptWindow)
	if err != nil {
		return fmt.Errorf("security check: %w", err)
	}
	if attempts > ipAttemptLimit {
		return &SecurityError{
			Code:    SecurityCodeRateLimit,
			Message: "muitas tentativas de login, aguarde um minuto",
		}
	}

	ipFailures, err := s.redis.Get(ctx, s.ipFailureKey(ip)).Int64()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("security check: %w", err)
	}
	if ipFailures >= ipFailureLimit {
		return &SecurityError{
			Code:    SecurityCodeIPBlocked,
			Message: "endereço IP bloqueado temporariamente",
		}
	}

	userFailures, err := s.redis.Get(ctx, s.userFailureKey(email)).Int64()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("security check: %w", err)
	}
	if userFailures >= userFailureLimit {
		return &SecurityError{
			Code:    SecurityCodeUserBlocked,
			Message: "conta bloqueada temporariamente por excesso de tentativas",
		}
	}

	return nil
}

// RegisterFailure counts a failed credential check against both the
// account and the source IP
func (s *SecurityService) RegisterFailure(ctx context.Context, email, ip string) {
	s.bump(ctx, s.userFailureKey(email), userFailureWindow)
	s.bump(ctx, s.ipFailureKey(ip), ipFailureWindow)
}

// ClearFailures resets the account failure counter after a successful login
func (s *SecurityService) ClearFailures(ctx context.Context, email string) {
	s.redis.Del(ctx, s.userFailureKey(email))
}

// bump increments a counter and sets its window on first increment
func (s *SecurityService) bump(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := s.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		s.redis.Expire(ctx, key, window)
	}
	return n, nil
}

func (s *SecurityService) userFailureKey(email string) string {
	return "login:failures:user:" + strings.ToLower(email)
}

func (s *SecurityService) ipAttemptKey(ip string) string {
	return "login:attempts:ip:" + ip
}

func (s *SecurityService) ipFailureKey(ip string) string {
	return "login:failures:ip:" + ip
}
