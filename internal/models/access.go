// Package models содержит доменные структуры, описывающие доступ пользователя
// к сервису: пробный период и оплаченная подписка.
package models

import "time"

// Статусы записи доступа, хранящиеся в базе данных.
// Хранимый статус может отставать от фактического: истечение пробного периода
// или подписки фиксируется при следующей записи, а не в момент истечения.
const (
	AccessStatusTrial   = "trial"
	AccessStatusActive  = "active"
	AccessStatusExpired = "expired"
)

// AccessRecord представляет запись доступа пользователя.
// Создается один раз при регистрации (выдача пробного периода),
// изменяется только активатором подписки и фоновой очисткой статусов.
type AccessRecord struct {
	UserUID               string     // Идентификатор пользователя, неизменяемый
	Status                string     // trial, active или expired
	TrialStartDate        time.Time  // Начало пробного периода, ставится один раз
	TrialEndDate          time.Time  // Конец пробного периода, начало + 7 дней
	SubscriptionStartDate *time.Time // Начало оплаченного периода, пишет только активатор
	SubscriptionEndDate   *time.Time // Конец оплаченного периода, всегда начало + 365 дней
	IsFirstYear           bool       // true только для первой в жизни оплаты
}
