package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSecurity(t *testing.T, blockedCountries []string) (*SecurityService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSecurityService(rdb, blockedCountries), mr
}

func TestSecurityService_CheckLogin_Clean(t *testing.T) {
	service, _ := newTestSecurity(t, nil)

	err := service.CheckLogin(context.Background(), "user@viaplan.app", "10.0.0.1", "BR")
	assert.NoError(t, err)
}

func TestSecurityService_CheckLogin_BlockedCountry(t *testing.T) {
	service, _ := newTestSecurity(t, []string{"KP", "ru"})

	err := service.CheckLogin(context.Background(), "user@viaplan.app", "10.0.0.1", "RU")
	require.Error(t, err)

	var secErr *SecurityError
	require.ErrorAs(t, err, &secErr)
	assert.Equal(t, SecurityCodeCountryBlocked, secErr.Code)
}

func TestSecurityService_CheckLogin_IPRateLimit(t *testing.T) {
	service, _ := newTestSecurity(t, nil)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		assert.NoError(t, service.CheckLogin(ctx, "user@viaplan.app", "10.0.0.2", ""))
	}

	err := service.CheckLogin(ctx, "user@viaplan.app", "10.0.0.2", "")
	require.Error(t, err)

	var secErr *SecurityError
	require.ErrorAs(t, err, &secErr)
	assert.Equal(t, SecurityCodeRateLimit, secErr.Code)
}

func TestSecurityService_CheckLogin_UserBlockedAfterFailures(t *testing.T) {
	service, _ := newTestSecurity(t, nil)
	ctx := context.Background()

	// Failures spread over distinct IPs so only the account counter trips
	for i := 0; i < 5; i++ {
		service.RegisterFailure(ctx, "victim@viaplan.app", fmt.Sprintf("10.0.1.%d", i+1))
	}

	err := service.CheckLogin(ctx, "victim@viaplan.app", "10.0.2.1", "")
	require.Error(t, err)

	var secErr *SecurityError
	require.ErrorAs(t, err, &secErr)
	assert.Equal(t, SecurityCodeUserBlocked, secErr.Code)
}

func TestSecurityService_CheckLogin_IPBlockedAfterFailures(t *testing.T) {
	service, _ := newTestSecurity(t, nil)
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		service.RegisterFailure(ctx, "anyone@viaplan.app", "10.0.0.3")
	}

	err := service.CheckLogin(ctx, "someone-else@viaplan.app", "10.0.0.3", "")
	require.Error(t, err)

	var secErr *SecurityError
	require.ErrorAs(t, err, &secErr)
	assert.Equal(t, SecurityCodeIPBlocked, secErr.Code)
}

func TestSecurityService_ClearFailures(t *testing.T) {
	service, _ := newTestSecurity(t, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		service.RegisterFailure(ctx, "victim@viaplan.app", "10.0.3.1")
	}
	service.ClearFailures(ctx, "victim@viaplan.app")

	err := service.CheckLogin(ctx, "victim@viaplan.app", "10.0.4.1", "")
	assert.NoError(t, err)
}

func TestSecurityService_CountersExpire(t *testing.T) {
	service, mr := newTestSecurity(t, nil)
	ctx := context.Background()

	for i := 0; i < 11; i++ {
		service.CheckLogin(ctx, "user@viaplan.app", "10.0.5.1", "")
	}
	require.Error(t, service.CheckLogin(ctx, "user@viaplan.app", "10.0.5.1", ""))

	mr.FastForward(2 * time.Minute)

	assert.NoError(t, service.CheckLogin(ctx, "user@viaplan.app", "10.0.5.1", ""))
}
