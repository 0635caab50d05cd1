package apperrors

import (
	"database/sql"
	stderrors "errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// DriverErrorClass groups driver codes by how they are surfaced.
type DriverErrorClass int

const (
	DriverErrorOther DriverErrorClass = iota
	DriverErrorUnique
	DriverErrorNotFound
	DriverErrorForeignKey
)

// DriverError - what the conversion layer needs from an ORM/driver failure:
// the stable code and, when known, the offending field.
type DriverError struct {
	Class   DriverErrorClass
	Code    string
	Target  string
	Message string
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	mysqlDuplicateEntry   = 1062
	mysqlRowIsReferenced  = 1451
	mysqlNoReferencedRow  = 1452
	mysqlNoReferencedRow2 = 1216

	codeRecordNotFound = "RECORD_NOT_FOUND"
	codeDuplicatedKey  = "DUPLICATED_KEY"
	codeForeignKey     = "FOREIGN_KEY_VIOLATED"
)

// "Key (email)=(a@b.c) already exists." / "Key (user_id)=(...) is not present in table ..."
var pgDetailKey = regexp.MustCompile(`Key \(([^)]+)\)=`)

// MySQL: "Duplicate entry 'x' for key 'users.idx_users_email'"
var mysqlDupKey = regexp.MustCompile(`for key '([^']+)'`)

// AsDriverError extracts a DriverError from pgx, lib/pq, MySQL or gorm errors.
// Errors from anywhere else report false.
func AsDriverError(err error) (*DriverError, bool) {
	if err == nil {
		return nil, false
	}

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return fromPostgres(pgErr.Code, pgErr.Message, pgErr.Detail, pgErr.ColumnName, pgErr.ConstraintName, pgErr.TableName), true
	}

	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return fromPostgres(string(pqErr.Code), pqErr.Message, pqErr.Detail, pqErr.Column, pqErr.Constraint, pqErr.Table), true
	}

	var myErr *mysql.MySQLError
	if stderrors.As(err, &myErr) {
		return fromMySQL(myErr), true
	}

	switch {
	case stderrors.Is(err, gorm.ErrRecordNotFound), stderrors.Is(err, sql.ErrNoRows):
		return &DriverError{Class: DriverErrorNotFound, Code: codeRecordNotFound, Message: err.Error()}, true
	case stderrors.Is(err, gorm.ErrDuplicatedKey):
		return &DriverError{Class: DriverErrorUnique, Code: codeDuplicatedKey, Message: err.Error()}, true
	case stderrors.Is(err, gorm.ErrForeignKeyViolated):
		return &DriverError{Class: DriverErrorForeignKey, Code: codeForeignKey, Message: err.Error()}, true
	}

	return nil, false
}

func fromPostgres(code, message, detail, column, constraint, table string) *DriverError {
	de := &DriverError{Code: code, Message: message}
	switch code {
	case pgUniqueViolation:
		de.Class = DriverErrorUnique
	case pgForeignKeyViolation:
		de.Class = DriverErrorForeignKey
	default:
		return de
	}

	if m := pgDetailKey.FindStringSubmatch(detail); m != nil {
		de.Target = m[1]
	} else if column != "" {
		de.Target = column
	} else {
		de.Target = fieldFromConstraint(constraint, table)
	}
	return de
}

func fromMySQL(myErr *mysql.MySQLError) *DriverError {
	de := &DriverError{Code: strconv.Itoa(int(myErr.Number)), Message: myErr.Message}
	switch myErr.Number {
	case mysqlDuplicateEntry:
		de.Class = DriverErrorUnique
		if m := mysqlDupKey.FindStringSubmatch(myErr.Message); m != nil {
			key := m[1]
			table := ""
			if i := strings.LastIndex(key, "."); i >= 0 {
				table, key = key[:i], key[i+1:]
			}
			de.Target = fieldFromConstraint(key, table)
		}
	case mysqlRowIsReferenced, mysqlNoReferencedRow, mysqlNoReferencedRow2:
		de.Class = DriverErrorForeignKey
	}
	return de
}

// fieldFromConstraint guesses the column behind an index/constraint name
// produced by gorm or postgres naming: idx_users_email, uni_users_email,
// users_email_key -> email. Primary keys yield "".
func fieldFromConstraint(name, table string) string {
	if name == "" || strings.HasSuffix(name, "_pkey") || name == "PRIMARY" {
		return ""
	}
	for _, prefix := range []string{"idx_", "uni_", "uniq_", "fk_"} {
		name = strings.TrimPrefix(name, prefix)
	}
	if table != "" {
		name = strings.TrimPrefix(name, table+"_")
	}
	for _, suffix := range []string{"_key", "_unique", "_fkey", "_idx"} {
		name = strings.TrimSuffix(name, suffix)
	}
	return name
}
