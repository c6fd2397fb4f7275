// Package access реализует вычисление фактического состояния доступа пользователя
// по записи AccessRecord и текущему времени.
//
// Evaluate — чистая функция: хранимый статус может отставать от реальности
// (пробный период или подписка истекли, а запись ещё не перезаписана),
// поэтому все проверки доступа в системе должны идти через Evaluate,
// а не по сырому полю Status из базы.
package access

import (
	"time"

	"github.com/magabrotheeeer/cardlink/internal/models"
)

// Info описывает вычисленное состояние доступа пользователя.
type Info struct {
	HasAccess     bool   `json:"has_access"`     // Есть ли доступ к платным возможностям
	IsTrialUser   bool   `json:"is_trial_user"`  // Пользователь на пробном периоде
	DaysRemaining int    `json:"days_remaining"` // Остаток дней пробного периода, 0 если не применимо
	Status        string `json:"status"`         // Фактический статус: trial, active или expired
}

// Evaluate вычисляет состояние доступа по записи и моменту времени now.
func Evaluate(rec *models.AccessRecord, now time.Time) Info {
	switch rec.Status {
	case models.AccessStatusActive:
		if rec.SubscriptionEndDate != nil && !now.After(*rec.SubscriptionEndDate) {
			return Info{
				HasAccess: true,
				Status:    models.AccessStatusActive,
			}
		}
		// Подписка истекла, но запись ещё не перезаписана.
		return Info{
			HasAccess: false,
			Status:    models.AccessStatusExpired,
		}
	case models.AccessStatusTrial:
		days := trialDaysRemaining(rec.TrialEndDate, now)
		if days > 0 {
			return Info{
				HasAccess:     true,
				IsTrialUser:   true,
				DaysRemaining: days,
				Status:        models.AccessStatusTrial,
			}
		}
		return Info{
			HasAccess:   false,
			IsTrialUser: true,
			Status:      models.AccessStatusExpired,
		}
	default:
		return Info{
			HasAccess: false,
			Status:    models.AccessStatusExpired,
		}
	}
}

// trialDaysRemaining возвращает остаток дней пробного периода,
// округленный вверх и не меньше нуля.
func trialDaysRemaining(trialEnd, now time.Time) int {
	left := trialEnd.Sub(now)
	if left <= 0 {
		return 0
	}
	days := int(left / (24 * time.Hour))
	if left%(24*time.Hour) > 0 {
		days++
	}
	return days
}
