package postgres

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgconn"
)

// isCheckViolation reports whether err is a PostgreSQL CHECK constraint failure
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == PgErrorCodeCheckViolation
}

// nullString maps the empty string to SQL NULL
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// encodeJSONB marshals v for a JSONB column, substituting fallback for nil values
func encodeJSONB(v any, isNil bool, fallback string) ([]byte, error) {
	if isNil {
		return []byte(fallback), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgEncodeJSONB, err)
	}
	return b, nil
}

// decodeJSONB unmarshals a JSONB column into dst; empty input leaves dst untouched
func decodeJSONB(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgDecodeJSONB, err)
	}
	return nil
}
