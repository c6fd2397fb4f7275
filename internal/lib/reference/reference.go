// Package reference реализует кодирование и разбор строки external_reference,
// связывающей сессию оплаты с последующим уведомлением платёжного провайдера.
//
// Формат строки фиксирован и является внешним контрактом:
//
//	user-{userUID}-subscription-{first-year|renewal}-{unixMillis}
//
// Строка создаётся при открытии оплаты и разбирается ровно один раз
// при обработке вебхука.
package reference

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Типы покупки, допустимые в external_reference.
const (
	PurchaseFirstYear = "first-year"
	PurchaseRenewal   = "renewal"
)

// ErrInvalidReference возвращается при разборе строки, не соответствующей формату.
var ErrInvalidReference = fmt.Errorf("invalid external reference")

var referenceRe = regexp.MustCompile(`^user-(.+)-subscription-(first-year|renewal)-(\d+)$`)

// CheckoutReference представляет разобранное содержимое external_reference.
type CheckoutReference struct {
	UserUID      string    // Пользователь, открывший оплату
	PurchaseType string    // first-year или renewal
	IssuedAt     time.Time // Момент создания ссылки, используется как уникализатор
}

// Encode собирает строку external_reference.
func Encode(userUID, purchaseType string, issuedAt time.Time) string {
	return fmt.Sprintf("user-%s-subscription-%s-%d", userUID, purchaseType, issuedAt.UnixMilli())
}

// Parse разбирает строку external_reference.
// Возвращает ErrInvalidReference, если строка не соответствует формату
// или тип покупки неизвестен.
func Parse(raw string) (*CheckoutReference, error) {
	const op = "reference.Parse"
	matches := referenceRe.FindStringSubmatch(raw)
	if matches == nil {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrInvalidReference, raw)
	}
	millis, err := strconv.ParseInt(matches[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrInvalidReference, raw)
	}
	return &CheckoutReference{
		UserUID:      matches[1],
		PurchaseType: matches[2],
		IssuedAt:     time.UnixMilli(millis),
	}, nil
}
