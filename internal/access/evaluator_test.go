package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/cardlink/internal/models"
)

func TestEvaluate_Trial(t *testing.T) {
	trialStart := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	trialEnd := trialStart.AddDate(0, 0, 7)

	rec := &models.AccessRecord{
		UserUID:        "user-1",
		Status:         models.AccessStatusTrial,
		TrialStartDate: trialStart,
		TrialEndDate:   trialEnd,
	}

	tests := []struct {
		name     string
		now      time.Time
		wantDays int
		wantOk   bool
	}{
		{
			name:     "первый день пробного периода",
			now:      trialStart,
			wantDays: 7,
			wantOk:   true,
		},
		{
			name:     "середина пробного периода",
			now:      trialStart.AddDate(0, 0, 3),
			wantDays: 4,
			wantOk:   true,
		},
		{
			name:     "неполный последний день округляется вверх",
			now:      trialEnd.Add(-time.Hour),
			wantDays: 1,
			wantOk:   true,
		},
		{
			name:     "пробный период истек ровно в конце",
			now:      trialEnd,
			wantDays: 0,
			wantOk:   false,
		},
		{
			name:     "после истечения остаток не уходит в минус",
			now:      trialEnd.AddDate(0, 0, 10),
			wantDays: 0,
			wantOk:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(rec, tt.now)
			assert.Equal(t, tt.wantOk, got.HasAccess)
			assert.Equal(t, tt.wantDays, got.DaysRemaining)
			assert.True(t, got.IsTrialUser)
			if tt.wantOk {
				assert.Equal(t, models.AccessStatusTrial, got.Status)
			} else {
				assert.Equal(t, models.AccessStatusExpired, got.Status)
			}
		})
	}
}

func TestEvaluate_TrialDaysStrictlyDecrease(t *testing.T) {
	trialStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rec := &models.AccessRecord{
		Status:         models.AccessStatusTrial,
		TrialStartDate: trialStart,
		TrialEndDate:   trialStart.AddDate(0, 0, 7),
	}

	prev := 8
	for day := 0; day <= 9; day++ {
		got := Evaluate(rec, trialStart.AddDate(0, 0, day).Add(time.Minute))
		assert.LessOrEqual(t, got.DaysRemaining, prev-1, "день %d", day)
		assert.GreaterOrEqual(t, got.DaysRemaining, 0)
		prev = got.DaysRemaining + 1
	}
}

func TestEvaluate_ActiveSubscription(t *testing.T) {
	subStart := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	subEnd := subStart.AddDate(0, 0, 365)

	rec := &models.AccessRecord{
		UserUID:               "user-2",
		Status:                models.AccessStatusActive,
		SubscriptionStartDate: &subStart,
		SubscriptionEndDate:   &subEnd,
	}

	tests := []struct {
		name       string
		now        time.Time
		wantOk     bool
		wantStatus string
	}{
		{
			name:       "подписка активна",
			now:        subStart.AddDate(0, 6, 0),
			wantOk:     true,
			wantStatus: models.AccessStatusActive,
		},
		{
			name:       "последний момент подписки",
			now:        subEnd,
			wantOk:     true,
			wantStatus: models.AccessStatusActive,
		},
		{
			name:       "подписка истекла, хранимый статус отстает",
			now:        subEnd.Add(time.Second),
			wantOk:     false,
			wantStatus: models.AccessStatusExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(rec, tt.now)
			assert.Equal(t, tt.wantOk, got.HasAccess)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.False(t, got.IsTrialUser)
		})
	}
}

func TestEvaluate_Expired(t *testing.T) {
	rec := &models.AccessRecord{
		UserUID: "user-3",
		Status:  models.AccessStatusExpired,
	}

	got := Evaluate(rec, time.Now())
	assert.False(t, got.HasAccess)
	assert.Equal(t, models.AccessStatusExpired, got.Status)
}
