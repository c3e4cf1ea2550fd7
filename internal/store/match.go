package store

import (
	"bytes"
	"reflect"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// matches evaluates the subset of the MongoDB query language the API uses.
func matches(doc bson.M, filter bson.M) bool {
	for key, cond := range filter {
		switch key {
		case "$or":
			ok := false
			for _, sub := range subFilters(cond) {
				if matches(doc, sub) {
					ok = true
					break
				}
			}
			if !ok {
				return false
			}
		case "$and":
			for _, sub := range subFilters(cond) {
				if !matches(doc, sub) {
					return false
				}
			}
		default:
			val, present := lookup(doc, key)
			if !matchCondition(val, present, cond) {
				return false
			}
		}
	}
	return true
}

func lookup(doc bson.M, path string) (any, bool) {
	var cur any = doc
	for _, part := range strings.Split(path, ".") {
		m, ok := asDocument(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func asDocument(v any) (bson.M, bool) {
	switch t := v.(type) {
	case bson.M:
		return t, true
	case map[string]any:
		return bson.M(t), true
	case primitive.D:
		return t.Map(), true
	default:
		return nil, false
	}
}

func subFilters(cond any) []bson.M {
	switch t := cond.(type) {
	case []bson.M:
		return t
	case primitive.A:
		return subFilters([]any(t))
	case []any:
		out := make([]bson.M, 0, len(t))
		for _, v := range t {
			if m, ok := asDocument(v); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

func isOperatorDoc(m bson.M) bool {
	if len(m) == 0 {
		return false
	}
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return false
		}
	}
	return true
}

func matchCondition(val any, present bool, cond any) bool {
	if ops, ok := asDocument(cond); ok && isOperatorDoc(ops) {
		for op, arg := range ops {
			if !matchOperator(op, arg, ops, val, present) {
				return false
			}
		}
		return true
	}
	return equals(val, present, normalize(cond))
}

func matchOperator(op string, arg any, ops bson.M, val any, present bool) bool {
	switch op {
	case "$options":
		return true
	case "$regex":
		return matchRegex(arg, ops["$options"], val)
	case "$eq":
		return equals(val, present, normalize(arg))
	case "$ne":
		return !equals(val, present, normalize(arg))
	case "$gt", "$gte", "$lt", "$lte":
		if !present {
			return false
		}
		cmp, ok := compareValues(val, normalize(arg))
		if !ok {
			return false
		}
		switch op {
		case "$gt":
			return cmp > 0
		case "$gte":
			return cmp >= 0
		case "$lt":
			return cmp < 0
		default:
			return cmp <= 0
		}
	case "$in", "$nin":
		found := false
		for _, want := range asList(normalize(arg)) {
			if equals(val, present, want) {
				found = true
				break
			}
		}
		if op == "$in" {
			return found
		}
		return !found
	case "$exists":
		want, _ := arg.(bool)
		return present == want
	default:
		return false
	}
}

func matchRegex(pattern, options any, val any) bool {
	var expr, flags string
	switch p := pattern.(type) {
	case string:
		expr = p
	case primitive.Regex:
		expr, flags = p.Pattern, p.Options
	default:
		return false
	}
	if o, ok := options.(string); ok {
		flags += o
	}
	prefix := ""
	for _, f := range "ims" {
		if strings.ContainsRune(flags, f) {
			prefix += string(f)
		}
	}
	if prefix != "" {
		expr = "(?" + prefix + ")" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return false
	}
	s, ok := val.(string)
	return ok && re.MatchString(s)
}

func asList(v any) []any {
	switch t := v.(type) {
	case primitive.A:
		return []any(t)
	case []any:
		return t
	default:
		return nil
	}
}

// equals follows MongoDB equality: a null condition matches missing fields and
// a scalar condition matches arrays containing it.
func equals(val any, present bool, want any) bool {
	if want == nil {
		return !present || val == nil
	}
	if !present {
		return false
	}
	if arr, ok := val.(primitive.A); ok {
		if _, wantArr := want.(primitive.A); wantArr {
			return reflect.DeepEqual(val, want)
		}
		for _, el := range arr {
			if valuesEqual(el, want) {
				return true
			}
		}
		return false
	}
	return valuesEqual(val, want)
}

func valuesEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af == bf
		}
	}
	return reflect.DeepEqual(a, b)
}

func compareValues(a, b any) (int, bool) {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}
	switch at := a.(type) {
	case string:
		bt, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(at, bt), true
	case primitive.DateTime:
		bt, ok := b.(primitive.DateTime)
		if !ok {
			return 0, false
		}
		switch {
		case at < bt:
			return -1, true
		case at > bt:
			return 1, true
		}
		return 0, true
	case primitive.ObjectID:
		bt, ok := b.(primitive.ObjectID)
		if !ok {
			return 0, false
		}
		return bytes.Compare(at[:], bt[:]), true
	case bool:
		bt, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case at == bt:
			return 0, true
		case !at:
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

// sortCompare orders missing and null values first, like MongoDB does for
// ascending sorts.
func sortCompare(a any, aok bool, b any, bok bool) int {
	aNull := !aok || a == nil
	bNull := !bok || b == nil
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		return -1
	case bNull:
		return 1
	}
	cmp, _ := compareValues(a, b)
	return cmp
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// normalize pushes a filter value through bson so it has the same Go type as
// stored values (time.Time becomes primitive.DateTime, int becomes int32/int64).
func normalize(v any) any {
	raw, err := bson.Marshal(bson.M{"v": v})
	if err != nil {
		return v
	}
	var out bson.M
	if err := bson.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out["v"]
}
