package store

import (
	"regexp"

	"github.com/habiliai/recallhub/entity"
	"github.com/habiliai/recallhub/errors"
)

type Op string

const (
	OpEq  Op = "$eq"
	OpGte Op = "$gte"
)

// keyPattern restricts filter keys, which the SQL stores interpolate into
// json paths. Stored metadata keys are not restricted.
var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

type Condition struct {
	Key   string
	Op    Op
	Value any
}

// Filter is a conjunction of conditions. An empty filter matches every
// record.
type Filter []Condition

func Eq(key string, value any) Condition {
	return Condition{Key: key, Op: OpEq, Value: value}
}

// Gte compares numbers numerically and strings lexicographically.
func Gte(key string, value any) Condition {
	return Condition{Key: key, Op: OpGte, Value: value}
}

func Where(conds ...Condition) Filter {
	return Filter(conds)
}

// And returns a new filter with conds appended.
func (f Filter) And(conds ...Condition) Filter {
	out := make(Filter, 0, len(f)+len(conds))
	out = append(out, f...)
	return append(out, conds...)
}

func (f Filter) Validate() error {
	for _, c := range f {
		if !keyPattern.MatchString(c.Key) {
			return errors.Wrapf(errors.ErrValidation, "invalid filter key %q", c.Key)
		}
		if c.Op != OpEq && c.Op != OpGte {
			return errors.Wrapf(errors.ErrValidation, "unsupported filter operator %q", c.Op)
		}
		if !entity.IsScalar(c.Value) {
			return errors.Wrapf(errors.ErrValidation, "filter value of %q must be a scalar, got %T", c.Key, c.Value)
		}
	}
	return nil
}

// Match evaluates the filter against metadata.
func (f Filter) Match(metadata map[string]any) bool {
	for _, c := range f {
		v, ok := metadata[c.Key]
		if !ok {
			return false
		}
		switch c.Op {
		case OpEq:
			if !scalarEqual(v, c.Value) {
				return false
			}
		case OpGte:
			if !scalarGte(v, c.Value) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func scalarEqual(a, b any) bool {
	if fa, ok := entity.ToFloat(a); ok {
		fb, ok := entity.ToFloat(b)
		return ok && fa == fb
	}
	return a == b
}

func scalarGte(a, b any) bool {
	if fa, ok := entity.ToFloat(a); ok {
		fb, ok := entity.ToFloat(b)
		return ok && fa >= fb
	}
	sa, ok := a.(string)
	if !ok {
		return false
	}
	sb, ok := b.(string)
	return ok && sa >= sb
}
