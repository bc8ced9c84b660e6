package value

import (
	"fmt"

	"shapescript/diag"
	"shapescript/srcrange"
)

var onesOrdinal = [...]string{
	"", "first", "second", "third", "fourth", "fifth", "sixth", "seventh", "eighth", "ninth",
}

var onesCardinal = [...]string{
	"", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
}

var teensOrdinal = [...]string{
	"tenth", "eleventh", "twelfth", "thirteenth", "fourteenth", "fifteenth",
	"sixteenth", "seventeenth", "eighteenth", "nineteenth",
}

var tensCardinal = [...]string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
}

var tensOrdinal = [...]string{
	"", "", "twentieth", "thirtieth", "fortieth", "fiftieth", "sixtieth", "seventieth", "eightieth", "ninetieth",
}

// ordinalName returns the ordinal member name for a 1-based index, through
// at least the 99th, per spec.md §4.G.
func ordinalName(i int) string {
	switch {
	case i >= 1 && i <= 9:
		return onesOrdinal[i]
	case i >= 10 && i <= 19:
		return teensOrdinal[i-10]
	case i >= 20 && i <= 99:
		tens, ones := i/10, i%10
		if ones == 0 {
			return tensOrdinal[tens]
		}

		return tensCardinal[tens] + onesOrdinal[ones]
	default:
		return fmt.Sprintf("item%d", i)
	}
}

// ordinalIndex is the reverse of ordinalName for 1..99, used by Member to
// resolve a tuple element access like `.fifth`.
var ordinalIndex = func() map[string]int {
	m := make(map[string]int, 99)
	for i := 1; i <= 99; i++ {
		m[ordinalName(i)] = i
	}

	return m
}()

// vectorMembers lists every member name a vector/size/rotation/tuple-as-
// vector value exposes, per spec.md §4.G.
func vectorMembers() []string {
	return []string{
		"x", "y", "z", "width", "height", "depth", "roll", "pitch", "yaw",
		"red", "green", "blue", "alpha", "first", "second", "third",
	}
}

func colorMembers() []string {
	return []string{"red", "green", "blue", "alpha", "first", "second", "third", "fourth"}
}

func rotationMembers() []string {
	return []string{"roll", "pitch", "yaw", "first", "second", "third"}
}

func rangeMembers() []string {
	return []string{"start", "end", "step"}
}

func scalarMembers() []string {
	return []string{"first", "x"}
}

func unknownMember(name string, kind Kind, options []string, r srcrange.Range) error {
	return &diag.Error{
		Kind:       diag.EvalUnknownMember,
		Message:    fmt.Sprintf("unknown member %q of %s", name, kind.String()),
		Suggestion: diag.Suggest(name, options),
		Range:      r,
	}
}

// Member resolves a named member access (v.name) to its value, per the
// per-kind member tables in spec.md §4.G.
func Member(v Value, name string, r srcrange.Range) (Value, error) {
	if v.Kind == Tuple {
		if i, ok := ordinalIndex[name]; ok && i <= len(v.Tup) {
			return v.Tup[i-1], nil
		}
	}

	switch v.Kind {
	case Vector, Size, Tuple:
		return vectorMember(v, name, r)
	case Color:
		return colorMember(v, name, r)
	case Rotation:
		return rotationMember(v, name, r)
	case RangeKind:
		switch name {
		case "start":
			return NumberValue(v.Rng.From), nil
		case "end":
			return NumberValue(v.Rng.To), nil
		case "step":
			return NumberValue(v.Rng.Step), nil
		default:
			return Value{}, unknownMember(name, v.Kind, rangeMembers(), r)
		}
	default:
		// mesh, texture, path, string, number, boolean: only "first" (self)
		// and, for number, the "x" alias.
		if name == "first" || (v.Kind == Number && name == "x") {
			return v, nil
		}

		return Value{}, unknownMember(name, v.Kind, scalarMembers(), r)
	}
}

func vectorMember(v Value, name string, r srcrange.Range) (Value, error) {
	vec := v.Vec
	if v.Kind == Tuple {
		asVec, err := asVec3(v, Vector, "member", r)
		if err != nil {
			return Value{}, unknownMember(name, v.Kind, vectorMembers(), r)
		}

		vec = asVec.Vec
	}

	switch name {
	case "x", "width", "roll", "red", "first":
		return NumberValue(vec.X), nil
	case "y", "height", "pitch", "green", "second":
		return NumberValue(vec.Y), nil
	case "z", "depth", "yaw", "blue", "third":
		return NumberValue(vec.Z), nil
	case "alpha":
		return NumberValue(1), nil
	default:
		return Value{}, unknownMember(name, v.Kind, vectorMembers(), r)
	}
}

func colorMember(v Value, name string, r srcrange.Range) (Value, error) {
	switch name {
	case "red", "first":
		return NumberValue(v.Col.R), nil
	case "green", "second":
		return NumberValue(v.Col.G), nil
	case "blue", "third":
		return NumberValue(v.Col.B), nil
	case "alpha", "fourth":
		return NumberValue(v.Col.A), nil
	default:
		return Value{}, unknownMember(name, v.Kind, colorMembers(), r)
	}
}

func rotationMember(v Value, name string, r srcrange.Range) (Value, error) {
	switch name {
	case "roll", "first":
		return NumberValue(v.Vec.X), nil
	case "pitch", "second":
		return NumberValue(v.Vec.Y), nil
	case "yaw", "third":
		return NumberValue(v.Vec.Z), nil
	default:
		return Value{}, unknownMember(name, v.Kind, rotationMembers(), r)
	}
}
