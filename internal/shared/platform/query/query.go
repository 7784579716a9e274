package query

import (
	"fmt"
	"strings"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Pagination es la paginación clásica por offset de las consultas de lectura.
type Pagination struct {
	Limit  int `form:"limit" json:"limit"`
	Offset int `form:"offset" json:"offset"`
}

// Normalize aplica los límites por defecto.
func (p Pagination) Normalize() Pagination {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// ---------- Criterios de filtrado ----------

type Operator string

const (
	OpEq Operator = "="
	OpIn Operator = "IN"
	OpLt Operator = "<"
)

// Criterion describe una condición neutral de filtrado
type Criterion struct {
	Field string
	Op    Operator
	Value interface{}
}

// Criteria permite transformar filtros a condiciones neutrales
type Criteria interface {
	ToConditions() []Criterion
}

// All combina varios criterios con AND.
type All []Criteria

func (a All) ToConditions() []Criterion {
	var out []Criterion
	for _, c := range a {
		if c == nil {
			continue
		}
		out = append(out, c.ToConditions()...)
	}
	return out
}

// Where traduce los criterios a SQL con placeholders '?'. Hay que pasar el resultado por Rebind.
func Where(c Criteria) (string, []interface{}, error) {
	if c == nil {
		return "", nil, nil
	}
	var (
		parts []string
		args  []interface{}
	)
	for _, cond := range c.ToConditions() {
		switch cond.Op {
		case OpEq, OpLt:
			parts = append(parts, fmt.Sprintf("%s %s ?", cond.Field, cond.Op))
			args = append(args, cond.Value)
		case OpIn:
			values, ok := cond.Value.([]string)
			if !ok {
				return "", nil, fmt.Errorf("criterion %s: IN expects []string, got %T", cond.Field, cond.Value)
			}
			if len(values) == 0 {
				parts = append(parts, "1 = 0")
				continue
			}
			parts = append(parts, fmt.Sprintf("%s IN (?%s)", cond.Field, strings.Repeat(", ?", len(values)-1)))
			for _, v := range values {
				args = append(args, v)
			}
		default:
			return "", nil, fmt.Errorf("criterion %s: unsupported operator %q", cond.Field, cond.Op)
		}
	}
	if len(parts) == 0 {
		return "", nil, nil
	}
	return "WHERE " + strings.Join(parts, " AND "), args, nil
}
