package paymentprovider

// Статусы платежа у провайдера. Обработку вызывает только "approved".
const (
	StatusApproved = "approved"
	StatusPending  = "pending"
	StatusRejected = "rejected"
)

// Payment представляет платёж, полученный от провайдера по идентификатору.
type Payment struct {
	ID                string  `json:"id"`                 // Идентификатор платежа
	Status            string  `json:"status"`             // approved, pending, rejected
	ExternalReference string  `json:"external_reference"` // Строка, переданная при открытии оплаты
	TransactionAmount float64 `json:"transaction_amount"` // Сумма платежа
}

// CreatePreferenceRequest представляет запрос на создание сессии оплаты.
type CreatePreferenceRequest struct {
	Items []PreferenceItem `json:"items"`
	// ExternalReference возвращается провайдером в платеже без изменений
	// и связывает уведомление с пользователем.
	ExternalReference string         `json:"external_reference"`
	BackURLs          PreferenceURLs `json:"back_urls"`
}

// PreferenceItem описывает оплачиваемую позицию.
type PreferenceItem struct {
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// PreferenceURLs описывает адреса возврата пользователя после оплаты.
type PreferenceURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

// CreatePreferenceResponse представляет ответ на создание сессии оплаты.
type CreatePreferenceResponse struct {
	ID        string `json:"id"`         // Идентификатор сессии
	InitPoint string `json:"init_point"` // Ссылка для перехода к оплате
}
