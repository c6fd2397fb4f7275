package models

import "time"

// Card представляет цифровую визитку пользователя.
// Slug уникален в пределах всей системы и используется в публичной ссылке.
type Card struct {
	ID          int       // Идентификатор визитки
	UserUID     string    // Владелец визитки
	Slug        string    // Публичный слаг, уникальный
	Title       string    // Название визитки
	FullName    string    // Имя владельца на визитке
	Company     string    // Компания
	JobTitle    string    // Должность
	Phone       string    // Телефон
	Email       string    // Контактный email
	Website     string    // Сайт или ссылка на соцсеть
	Theme       string    // Тема оформления
	IsPublished bool      // Доступна ли визитка по публичной ссылке
	CreatedAt   time.Time // Дата создания
	UpdatedAt   time.Time // Дата последнего изменения
}

// DummyCard используется для приёма данных визитки из JSON-запроса,
// прежде чем конвертировать их в Card.
type DummyCard struct {
	Title    string `json:"title" validate:"required"` // Название визитки
	FullName string `json:"full_name" validate:"required"`
	Company  string `json:"company"`
	JobTitle string `json:"job_title"`
	Phone    string `json:"phone"`
	Email    string `json:"email" validate:"omitempty,email"`
	Website  string `json:"website"`
	Theme    string `json:"theme"`
}
