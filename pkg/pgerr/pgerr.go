// Package pgerr classifies PostgreSQL errors returned by lib/pq.
package pgerr

import (
	"errors"

	"github.com/lib/pq"
)

// SQLSTATE коды, которые обрабатываются репозиториями
const (
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
	CodeUniqueViolation      = "23505"
	CodeForeignKeyViolation  = "23503"
	CodeExclusionViolation   = "23P01"
	CodeCheckViolation       = "23514"
)

// Code возвращает SQLSTATE код ошибки или пустую строку, если это не ошибка PostgreSQL
func Code(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsSerializationFailure сообщает, что транзакция была отклонена из-за конкурентной записи
// и может быть повторена целиком
func IsSerializationFailure(err error) bool {
	code := Code(err)
	return code == CodeSerializationFailure || code == CodeDeadlockDetected
}

// IsExclusionViolation сообщает о нарушении EXCLUDE constraint (пересечение диапазонов)
func IsExclusionViolation(err error) bool {
	return Code(err) == CodeExclusionViolation
}

// IsUniqueViolation сообщает о нарушении UNIQUE constraint
func IsUniqueViolation(err error) bool {
	return Code(err) == CodeUniqueViolation
}

// IsForeignKeyViolation сообщает о ссылке на несуществующую запись
func IsForeignKeyViolation(err error) bool {
	return Code(err) == CodeForeignKeyViolation
}
