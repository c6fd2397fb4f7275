package models

import "time"

// Presentation представляет презентацию пользователя.
// Содержимое слайдов хранится как JSON-документ, структура которого
// определяется клиентом и генератором презентаций.
type Presentation struct {
	ID        int       // Идентификатор презентации
	UserUID   string    // Владелец презентации
	Title     string    // Название презентации
	Topic     string    // Тема, по которой генерировалась презентация
	Slides    string    // JSON со слайдами
	CreatedAt time.Time // Дата создания
}

// DummyPresentation используется для приёма данных презентации из JSON-запроса.
type DummyPresentation struct {
	Title  string `json:"title" validate:"required"` // Название презентации
	Topic  string `json:"topic" validate:"required"` // Тема презентации
	Slides string `json:"slides"`                    // JSON со слайдами
}
