package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	DriverCode       string `json:"driver_code,omitempty"`
	DriverConstraint string `json:"driver_constraint,omitempty"`
	DriverDetail     string `json:"driver_detail,omitempty"`
	DriverMessage    string `json:"driver_message,omitempty"`
}

// Dump flattens an error chain plus any database driver diagnostics for logging.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		d.DriverCode = sqliteErr.Code.Error()
		d.DriverDetail = sqliteErr.ExtendedCode.Error()
		d.DriverMessage = sqliteErr.Error()
		return d
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		d.DriverCode = pgxErr.Code
		d.DriverConstraint = pgxErr.ConstraintName
		d.DriverDetail = pgxErr.Detail
		d.DriverMessage = pgxErr.Message
		return d
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		d.DriverCode = string(pqErr.Code)
		d.DriverConstraint = pqErr.Constraint
		d.DriverDetail = pqErr.Detail
		d.DriverMessage = pqErr.Message
		return d
	}

	return d
}
