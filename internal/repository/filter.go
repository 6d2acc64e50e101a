package repository

import (
	"fmt"
	"strings"
)

// PostFilter - необязательные условия поиска постов. Nil/пустое значение
// означает отсутствие условия.
type PostFilter struct {
	Keyword       string
	CategoryID    *int64
	SubcategoryID *int64
	UserID        *int64
	Status        string
	Featured      *bool
	Limit         int
	Offset        int
}

// buildFilterPredicate собирает WHERE-часть и связанные параметры из
// заполненных полей фильтра. Условия соединяются через AND в фиксированном
// порядке, каждое условие добавляет ровно один параметр-плейсхолдер.
// Одна и та же пара (предикат, параметры) используется и для постраничного
// запроса, и для запроса COUNT, чтобы они не расходились.
func buildFilterPredicate(f PostFilter) (string, []interface{}) {
	var sb strings.Builder
	args := make([]interface{}, 0, 6)

	sb.WriteString("WHERE 1=1")

	if f.Keyword != "" {
		args = append(args, "%"+f.Keyword+"%")
		fmt.Fprintf(&sb, " AND (LOWER(title) LIKE LOWER($%d) OR LOWER(content) LIKE LOWER($%d))",
			len(args), len(args))
	}

	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		fmt.Fprintf(&sb, " AND category_id = $%d", len(args))
	}

	if f.SubcategoryID != nil {
		args = append(args, *f.SubcategoryID)
		fmt.Fprintf(&sb, " AND subcategory_id = $%d", len(args))
	}

	if f.Status != "" {
		args = append(args, f.Status)
		fmt.Fprintf(&sb, " AND status = $%d", len(args))
	}

	if f.Featured != nil {
		args = append(args, *f.Featured)
		fmt.Fprintf(&sb, " AND featured = $%d", len(args))
	}

	if f.UserID != nil {
		args = append(args, *f.UserID)
		fmt.Fprintf(&sb, " AND user_id = $%d", len(args))
	}

	return sb.String(), args
}
