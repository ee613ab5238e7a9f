package utils

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// ToText converts a domain's primitive string to a pgtype.Text.
// An empty string is considered invalid (NULL).
func ToText(s string) pgtype.Text {
	return pgtype.Text{
		String: s,
		Valid:  s != "",
	}
}

// FromText converts a pgtype.Text to a domain's primitive string.
// A NULL value is converted to an empty string ("").
func FromText(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

// ToNullText converts a *string (pointer) to a pgtype.Text.
// A nil pointer is considered invalid (NULL).
func ToNullText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{
		String: *s,
		Valid:  true,
	}
}

// ToNullTimestamp converts a *time.Time to a pgtype.Timestamptz.
// A nil pointer is considered invalid (NULL).
func ToNullTimestamp(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

// FromNullTimestamp converts a pgtype.Timestamptz to a *time.Time.
// A NULL value is converted to nil.
func FromNullTimestamp(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	value := t.Time
	return &value
}
