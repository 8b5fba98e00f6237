package subband

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MaxDepth bounds the nesting of a Plan.
const MaxDepth = 4

// Split names a subband to decompose further and what to do with the four
// subbands that decomposition creates. An empty Next stops that branch.
type Split struct {
	Role Role
	Next Plan
}

// Plan is an ordered set of Splits applied to one level of a subband tree.
//
//	[[0]]                 decompose LL once more
//	[[0], [1]]            decompose LL and LH
//	[[0, [[0], [1]]]]     decompose LL, then its LL and LH
type Plan []Split

// Depth is the number of decomposition levels the plan adds.
func (p Plan) Depth() int {
	if len(p) == 0 {
		return 0
	}
	d := 0
	for _, s := range p {
		d = max(d, s.Next.Depth())
	}
	return d + 1
}

func (p Plan) Validate() error {
	if d := p.Depth(); MaxDepth < d {
		return errors.Wrapf(ErrInvalidPlan, "depth %d exceeds %d", d, MaxDepth)
	}
	return p.validate("root")
}

func (p Plan) validate(path string) error {
	if len(roles) < len(p) {
		return errors.Wrapf(ErrInvalidPlan, "%s: %d splits for %d subbands", path, len(p), len(roles))
	}
	seen := [4]bool{}
	for _, s := range p {
		if s.Role.valid() != true {
			return errors.Wrapf(ErrInvalidPlan, "%s: role index %d out of range", path, int(s.Role))
		}
		if seen[s.Role] {
			return errors.Wrapf(ErrInvalidPlan, "%s: %s split twice", path, s.Role)
		}
		seen[s.Role] = true
		if err := s.Next.validate(path + "/" + s.Role.String()); err != nil {
			return err
		}
	}
	return nil
}

// String returns the nested list form accepted by ParsePlan.
func (p Plan) String() string {
	sb := new(strings.Builder)
	p.write(sb)
	return sb.String()
}

func (p Plan) write(sb *strings.Builder) {
	sb.WriteByte('[')
	for i, s := range p {
		if 0 < i {
			sb.WriteString(", ")
		}
		sb.WriteByte('[')
		sb.WriteString(strconv.Itoa(int(s.Role)))
		if 0 < len(s.Next) {
			sb.WriteString(", ")
			s.Next.write(sb)
		}
		sb.WriteByte(']')
	}
	sb.WriteByte(']')
}

// ParsePlan reads the nested list form, e.g. "[[0, [[0], [1]]], [3]]".
func ParsePlan(s string) (Plan, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Plan{}, nil
	}
	var raw any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, errors.Wrapf(ErrInvalidPlan, "parse %q: %v", s, err)
	}
	p, err := planFrom(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %q", s)
	}
	if err := p.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	return p, nil
}

func planFrom(raw any) (Plan, error) {
	list, ok := raw.([]any)
	if ok != true {
		return nil, errors.Wrapf(ErrInvalidPlan, "expected list, got %v", raw)
	}
	p := make(Plan, 0, len(list))
	for _, item := range list {
		pair, ok := item.([]any)
		if ok != true || len(pair) < 1 || 2 < len(pair) {
			return nil, errors.Wrapf(ErrInvalidPlan, "expected [role] or [role, plan], got %v", item)
		}
		idx, ok := pair[0].(float64)
		if ok != true || idx != float64(int(idx)) {
			return nil, errors.Wrapf(ErrInvalidPlan, "role index %v is not an integer", pair[0])
		}
		s := Split{Role: Role(int(idx))}
		if len(pair) == 2 {
			next, err := planFrom(pair[1])
			if err != nil {
				return nil, err
			}
			s.Next = next
		}
		p = append(p, s)
	}
	return p, nil
}
