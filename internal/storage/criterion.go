package storage

import (
	"errors"
	"fmt"
)

// ErrUnsupportedCriterion is returned when a table cannot be queried by the
// given criterion (e.g. the audit log by code)
var ErrUnsupportedCriterion = errors.New("unsupported query criterion")

// Kind selects how a Criterion filters rows
type Kind int

const (
	KindAll Kind = iota
	KindByID
	KindByCode
	KindMostRecent
	KindLimit
)

func (k Kind) String() string {
	switch k {
	case KindAll:
		return "all"
	case KindByID:
		return "by_id"
	case KindByCode:
		return "by_code"
	case KindMostRecent:
		return "most_recent"
	case KindLimit:
		return "limit"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Criterion describes which rows a query returns. Results are always ordered
// by ascending id: MostRecent(n) keeps the last n rows, Limit(n) the first n.
type Criterion struct {
	Kind Kind
	ID   int64
	Code string
	N    int
}

func All() Criterion               { return Criterion{Kind: KindAll} }
func ByID(id int64) Criterion      { return Criterion{Kind: KindByID, ID: id} }
func ByCode(code string) Criterion { return Criterion{Kind: KindByCode, Code: code} }
func MostRecent(n int) Criterion   { return Criterion{Kind: KindMostRecent, N: n} }
func Limit(n int) Criterion        { return Criterion{Kind: KindLimit, N: n} }

// Validate rejects criteria that cannot select anything sensible
func (c Criterion) Validate() error {
	switch c.Kind {
	case KindAll, KindByID, KindByCode:
		return nil
	case KindMostRecent, KindLimit:
		if c.N <= 0 {
			return fmt.Errorf("%w: %s requires a positive count, got %d", ErrUnsupportedCriterion, c.Kind, c.N)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedCriterion, c.Kind)
	}
}

func (c Criterion) String() string {
	switch c.Kind {
	case KindByID:
		return fmt.Sprintf("by_id(%d)", c.ID)
	case KindByCode:
		return fmt.Sprintf("by_code(%s)", c.Code)
	case KindMostRecent, KindLimit:
		return fmt.Sprintf("%s(%d)", c.Kind, c.N)
	default:
		return c.Kind.String()
	}
}

// Select applies c to rows that are already sorted by ascending id. Backends
// that cannot push a criterion down use it after loading rows. codeOf may be
// nil for tables without a code column.
func Select[T any](rows []T, c Criterion, idOf func(T) int64, codeOf func(T) string) ([]T, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	switch c.Kind {
	case KindAll:
		return rows, nil
	case KindByID:
		for _, row := range rows {
			if idOf(row) == c.ID {
				return []T{row}, nil
			}
		}
		return []T{}, nil
	case KindByCode:
		if codeOf == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedCriterion, c.Kind)
		}
		out := []T{}
		for _, row := range rows {
			if codeOf(row) == c.Code {
				out = append(out, row)
			}
		}
		return out, nil
	case KindMostRecent:
		if len(rows) > c.N {
			return rows[len(rows)-c.N:], nil
		}
		return rows, nil
	case KindLimit:
		if len(rows) > c.N {
			return rows[:c.N], nil
		}
		return rows, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedCriterion, c.Kind)
}
