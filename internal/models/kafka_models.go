package models

import (
	"time"

	"github.com/google/uuid"
)

// событие о зафиксированном результате конвертации
type ConversionCommittedEvent struct {
	EventID    uuid.UUID         `json:"event_id"`        // Уникальный ID события
	Generation uint64            `json:"generation"`      // Поколение запроса
	InputText  string            `json:"input_text"`      // Введенная сумма
	Results    []ConversionEntry `json:"results"`         // Результаты по парам
	Error      string            `json:"error,omitempty"` // Код ошибки, если была
	Timestamp  time.Time         `json:"timestamp"`       // Время фиксации
}

type ConversionEntry struct {
	Pair            string `json:"pair"`
	ConvertedAmount string `json:"converted_amount"`
	Rate            string `json:"rate"`
}
