package config

import (
	"testing"

	"wallet-service/src/pkg/log"
	redisModule "wallet-service/src/pkg/redis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewVipEngine_CustomLevels(t *testing.T) {
	v := testConfig()
	v.Set("vip.timezone", "Asia/Jakarta")
	v.Set("vip.levels", []map[string]interface{}{
		{"level": 1, "price": 1000, "daily_profit": 100, "cycle_days": 30},
		{"level": 2, "price": 5000, "daily_profit": 600},
	})

	engine, err := NewVipEngine(v)
	require.NoError(t, err)
	assert.Equal(t, 2, engine.Catalog.Size())
	l2, ok := engine.Catalog.Lookup(2)
	require.True(t, ok)
	assert.Equal(t, int64(600), l2.DailyProfit)
	assert.Equal(t, 60, l2.CycleDays)
	assert.Equal(t, "Asia/Jakarta", engine.Location.String())
}

func TestNewVipEngine_BadTimezone(t *testing.T) {
	v := testConfig()
	v.Set("vip.timezone", "Mars/Olympus")
	_, err := NewVipEngine(v)
	assert.Error(t, err)
}

func TestNewWorkflow_Limits(t *testing.T) {
	v := testConfig()
	engine, err := NewVipEngine(v)
	require.NoError(t, err)
	ref, err := NewReferralEngine(v)
	require.NoError(t, err)

	wf, err := NewWorkflow(v, engine, ref)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), wf.Limits.MinRecharge)

	v.Set("limits", map[string]interface{}{"min_recharge": 1, "min_withdraw": 10, "max_withdraw": 5})
	_, err = NewWorkflow(v, engine, ref)
	assert.Error(t, err)
}

func TestNewAdminCredential(t *testing.T) {
	v := testConfig()
	v.Set("admin.email", " Admin@AAB.com ")
	credential, err := NewAdminCredential(v)
	require.NoError(t, err)
	assert.Equal(t, "admin@aab.com", credential.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(credential.PasswordHash), []byte("admin123")))

	v.Set("admin.password", "")
	_, err = NewAdminCredential(v)
	assert.Error(t, err)
}

func TestNewLocker_FallsBackWithoutRedis(t *testing.T) {
	locker := NewLocker(nil, log.Discard())
	_, ok := locker.(*redisModule.LocalLocker)
	assert.True(t, ok)
}

func TestNewTopics_Override(t *testing.T) {
	v := testConfig()
	v.Set("kafka.topics", map[string]interface{}{"vip": "custom-vip"})
	topics := NewTopics(v)
	assert.Equal(t, "custom-vip", topics.Vip)
	assert.Equal(t, "wallet-referral-bonus", topics.ReferralBonus)
}
