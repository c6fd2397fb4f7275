// Package slug реализует генерацию публичных слагов для визиток.
//
// Слаг собирается из названия визитки: не-ASCII символы отбрасываются,
// буквы приводятся к нижнему регистру, последовательности прочих символов
// заменяются одним дефисом. К базе добавляется короткий случайный суффикс,
// уникальность итогового значения проверяет вызывающая сторона.
package slug

import (
	"strings"

	"github.com/google/uuid"
)

const maxBaseLen = 40

// Make возвращает слаг, собранный из title, с коротким случайным суффиксом.
func Make(title string) string {
	base := normalize(title)
	if base == "" {
		base = "card"
	}
	return base + "-" + uuid.NewString()[:8]
}

func normalize(s string) string {
	var b strings.Builder
	prevDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
		if b.Len() >= maxBaseLen {
			break
		}
	}
	return strings.Trim(b.String(), "-")
}
