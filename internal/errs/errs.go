package errs

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Категории ошибок хранилища и валидации. Обработчики сопоставляют их
// с HTTP-статусами через errors.Is, не разбирая текст ошибки.
var (
	ErrValidation = errors.New("некорректные данные запроса")
	ErrForeignKey = errors.New("указанная сущность не существует")
	ErrDuplicate  = errors.New("значение уже существует")
	ErrNotFound   = errors.New("запись не найдена")
	ErrForbidden  = errors.New("доступ запрещен")
	ErrStorage    = errors.New("ошибка хранилища")
)

// FromDB переводит ошибку драйвера в одну из категорий выше, сохраняя
// исходный текст для серверного лога.
func FromDB(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %v", ErrForeignKey, err)
		case "23505": // unique_violation
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		case "23502": // not_null_violation
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	return fmt.Errorf("%w: %v", ErrStorage, err)
}
