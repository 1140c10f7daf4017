package domain

// CallKind tags how a proxy invocation is interpreted.
type CallKind int

const (
	CallInvalid CallKind = iota
	CallAlias
	CallMap
	CallBulk
)

func (k CallKind) String() string {
	switch k {
	case CallAlias:
		return "alias"
	case CallMap:
		return "map"
	case CallBulk:
		return "bulk"
	default:
		return "invalid"
	}
}

// Call is a proxy invocation decided once at the boundary.
type Call struct {
	Kind   CallKind
	Key    string
	Target string
	Value  any
	Rest   []any
	Pairs  Pairs
}

// Classify inspects the positional arguments of a proxy call.
// A string second argument means alias, a string first argument means map,
// an object first argument means bulk.
func Classify(args ...any) Call {
	if len(args) == 0 {
		return Call{Kind: CallInvalid}
	}
	key, keyIsString := args[0].(string)
	if len(args) > 1 {
		// An alias needs a string key, so (42, "x") is invalid rather than an alias.
		if target, ok := args[1].(string); ok && keyIsString {
			return Call{Kind: CallAlias, Key: key, Target: target, Rest: args[2:]}
		}
	}
	if keyIsString {
		call := Call{Kind: CallMap, Key: key}
		if len(args) > 1 {
			call.Value = args[1]
			call.Rest = args[2:]
		}
		return call
	}
	if pairs, ok := AsPairs(args[0]); ok {
		return Call{Kind: CallBulk, Pairs: pairs}
	}
	return Call{Kind: CallInvalid, Value: args[0]}
}
