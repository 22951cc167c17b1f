package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout — формат календарной даты в таблицах и HTML-формах.
const DateLayout = "2006-01-02"

// Date — календарная дата без времени (deadline_date).
// Нулевое значение означает «срок не задан» и сериализуется как null.
type Date struct {
	t time.Time
}

// NewDate создаёт дату из года, месяца и дня (UTC).
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate разбирает "YYYY-MM-DD". Пустая строка даёт нулевую дату.
// Для значений, пришедших из хранилища как timestamp, допускается RFC 3339.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{t: t}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Date{}, fmt.Errorf("некорректная дата %q: ожидается формат YYYY-MM-DD", s)
	}
	y, m, d := t.Date()
	return NewDate(y, m, d), nil
}

// IsZero сообщает, что дата не задана.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// String возвращает "YYYY-MM-DD" или пустую строку для нулевой даты.
// Это же значение подставляется в <input type="date">.
func (d Date) String() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// Format форматирует дату по layout; для нулевой даты возвращает "".
func (d Date) Format(layout string) string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(layout)
}

// MarshalJSON — null для нулевой даты, иначе "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	if d.t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON принимает null, "" и "YYYY-MM-DD".
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("некорректная дата: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan реализует sql.Scanner для колонки PostgreSQL типа date.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		y, m, day := v.Date()
		*d = NewDate(y, m, day)
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("Date.Scan: неподдерживаемый тип %T", src)
	}
}

// Value реализует driver.Valuer: NULL для нулевой даты.
func (d Date) Value() (driver.Value, error) {
	if d.t.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}
