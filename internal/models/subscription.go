package models

import "time"

// SubscriptionRecord представляет денормализованную запись об оплаченной подписке.
// Запись ведется для истории и отображения, источником истины о доступе
// остается AccessRecord.
type SubscriptionRecord struct {
	UserUID     string    // Владелец подписки, одна запись на пользователя
	PaymentID   string    // Идентификатор платежа у платёжного провайдера
	Price       float64   // Фактически оплаченная сумма
	ListPrice   float64   // Цена без скидки первого года
	IsFirstYear bool      // Оплата по тарифу первого года
	StartDate   time.Time // Начало оплаченного периода
	EndDate     time.Time // Конец оплаченного периода
}

// PaymentNotification представляет входящее уведомление платёжного провайдера.
// Провайдер присылает только тип события и идентификатор платежа,
// детали платежа запрашиваются отдельно.
type PaymentNotification struct {
	Type string `json:"type"` // Тип уведомления, обрабатывается только "payment"
	Data struct {
		ID string `json:"id"` // Идентификатор платежа у провайдера
	} `json:"data"`
}
