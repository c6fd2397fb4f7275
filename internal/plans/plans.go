// Package plans содержит статическую таблицу квот тарифных планов.
// Таблица определяет, сколько ресурсов каждого вида доступно пользователю
// на пробном периоде и на оплаченной подписке.
package plans

// ResourceKind определяет вид ресурса, на который действует квота.
type ResourceKind string

const (
	// ResourceCards — цифровые визитки.
	ResourceCards ResourceKind = "cards"
	// ResourcePresentations — презентации.
	ResourcePresentations ResourceKind = "presentations"
)

// Tier определяет тарифный план пользователя.
type Tier string

const (
	// TierTrial — пробный период.
	TierTrial Tier = "trial"
	// TierPaid — оплаченная подписка.
	TierPaid Tier = "paid"
)

// Unlimited — значение квоты, означающее отсутствие ограничения.
const Unlimited = -1

var quotas = map[Tier]map[ResourceKind]int{
	TierTrial: {
		ResourceCards:         1,
		ResourcePresentations: 3,
	},
	TierPaid: {
		ResourceCards:         5,
		ResourcePresentations: Unlimited,
	},
}

// Quota возвращает квоту плана tier на ресурс kind.
// Для неизвестного плана или ресурса возвращается 0 — самый строгий вариант.
func Quota(tier Tier, kind ResourceKind) int {
	limits, ok := quotas[tier]
	if !ok {
		return 0
	}
	quota, ok := limits[kind]
	if !ok {
		return 0
	}
	return quota
}

// Allows сообщает, разрешает ли квота плана tier создать ещё один ресурс kind
// при текущем количестве count.
func Allows(tier Tier, kind ResourceKind, count int) bool {
	quota := Quota(tier, kind)
	if quota == Unlimited {
		return true
	}
	return count < quota
}
