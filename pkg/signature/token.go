// Package signature implements the algebra over file.Token signature
// trees: non-recursive preorder traversal, generic instantiation,
// structural equality, the assignability relation, and ability
// derivation. The token type itself lives in package file alongside the rest
// of the binary format model; this package is purely operations over it.
package signature

import "github.com/aptos-labs/aptos-core-sub004/pkg/file"

// worklistEntry pairs a token with its depth for the depth-aware traversal.
type worklistEntry struct {
	tok   *file.Token
	depth int
}

// Preorder returns every node of t in root -> left -> right preorder,
// without recursing: it walks an explicit worklist so that an adversarial,
// arbitrarily deep type cannot overflow the Go call stack (design note:
// recursive types must use a non-recursive walk).
func Preorder(t *file.Token) []*file.Token {
	var out []*file.Token
	for _, e := range PreorderWithDepth(t) {
		out = append(out, e.tok)
	}
	return out
}

// WithDepth pairs a token with its depth in the tree, root at depth 0.
type WithDepth struct {
	Token *file.Token
	Depth int
}

// PreorderWithDepth is Preorder but additionally reporting each node's
// depth, for callers that want to bound type complexity.
func PreorderWithDepth(t *file.Token) []WithDepth {
	var out []WithDepth
	stack := []worklistEntry{{t, 0}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, WithDepth{Token: e.tok, Depth: e.depth})

		switch e.tok.Tag {
		case file.TagVector, file.TagReference, file.TagMutableReference:
			stack = append(stack, worklistEntry{e.tok.Inner, e.depth + 1})
		case file.TagStructInstantiation:
			// Push in reverse so traversal order visits type args
			// left-to-right.
			for i := len(e.tok.TypeArgs) - 1; i >= 0; i-- {
				stack = append(stack, worklistEntry{&e.tok.TypeArgs[i], e.depth + 1})
			}
		case file.TagFunction:
			for i := len(e.tok.FunctionResults) - 1; i >= 0; i-- {
				stack = append(stack, worklistEntry{&e.tok.FunctionResults[i], e.depth + 1})
			}
			for i := len(e.tok.FunctionArgs) - 1; i >= 0; i-- {
				stack = append(stack, worklistEntry{&e.tok.FunctionArgs[i], e.depth + 1})
			}
		}
	}
	return out
}

// Instantiate substitutes every TypeParameter(i) node of t with subst[i],
// walking composites structurally. subst must have at least as many
// entries as the highest type-parameter index occurring in t; an
// out-of-range reference is a verifier-bypass bug, reported as a panic
// just like the file-format model's own out-of-range accessors.
func Instantiate(t file.Token, subst []file.Token) file.Token {
	switch t.Tag {
	case file.TagTypeParameter:
		if int(t.TypeParamIndex) >= len(subst) {
			panic("signature: type-parameter index out of range of substitution: verifier precondition violated")
		}
		return subst[t.TypeParamIndex]
	case file.TagVector:
		inner := Instantiate(*t.Inner, subst)
		return file.NewVectorToken(inner)
	case file.TagReference:
		inner := Instantiate(*t.Inner, subst)
		return file.NewReferenceToken(inner)
	case file.TagMutableReference:
		inner := Instantiate(*t.Inner, subst)
		return file.NewMutableReferenceToken(inner)
	case file.TagStructInstantiation:
		args := make([]file.Token, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			args[i] = Instantiate(a, subst)
		}
		return file.NewStructInstantiationToken(t.StructIndex, args)
	case file.TagFunction:
		args := make([]file.Token, len(t.FunctionArgs))
		for i, a := range t.FunctionArgs {
			args[i] = Instantiate(a, subst)
		}
		results := make([]file.Token, len(t.FunctionResults))
		for i, r := range t.FunctionResults {
			results[i] = Instantiate(r, subst)
		}
		return file.NewFunctionToken(args, results, t.FunctionAbility)
	default:
		// Leaf tokens (including a bare Struct) carry no type parameters
		// of their own to substitute.
		return t
	}
}

// Compose returns the substitution equivalent to applying inner then
// outer: Instantiate(Compose(outer, inner), t) == Instantiate(outer,
// Instantiate(inner, t)), the composition law of testable property 4.
func Compose(outer, inner []file.Token) []file.Token {
	out := make([]file.Token, len(inner))
	for i, t := range inner {
		out[i] = Instantiate(t, outer)
	}
	return out
}

// StructuralEqual reports whether two tokens are the same type term.
func StructuralEqual(a, b file.Token) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case file.TagTypeParameter:
		return a.TypeParamIndex == b.TypeParamIndex
	case file.TagStruct:
		return a.StructIndex == b.StructIndex
	case file.TagStructInstantiation:
		if a.StructIndex != b.StructIndex || len(a.TypeArgs) != len(b.TypeArgs) {
			return false
		}
		for i := range a.TypeArgs {
			if !StructuralEqual(a.TypeArgs[i], b.TypeArgs[i]) {
				return false
			}
		}
		return true
	case file.TagVector, file.TagReference, file.TagMutableReference:
		return StructuralEqual(*a.Inner, *b.Inner)
	case file.TagFunction:
		if a.FunctionAbility != b.FunctionAbility ||
			len(a.FunctionArgs) != len(b.FunctionArgs) ||
			len(a.FunctionResults) != len(b.FunctionResults) {
			return false
		}
		for i := range a.FunctionArgs {
			if !StructuralEqual(a.FunctionArgs[i], b.FunctionArgs[i]) {
				return false
			}
		}
		for i := range a.FunctionResults {
			if !StructuralEqual(a.FunctionResults[i], b.FunctionResults[i]) {
				return false
			}
		}
		return true
	default:
		return true // equal leaf kinds with no payload
	}
}

// IsAssignableFrom reports whether a value of type rhs may flow into a
// slot declared as lhs: structural equality, immutable-reference
// covariance over assignable inner types, or function subtyping that
// widens the caller's ability view (matching parameter/result lists and
// lhs.abilities ⊆ rhs.abilities).
func IsAssignableFrom(lhs, rhs file.Token) bool {
	if StructuralEqual(lhs, rhs) {
		return true
	}
	if lhs.Tag == file.TagReference && rhs.Tag == file.TagReference {
		return IsAssignableFrom(*lhs.Inner, *rhs.Inner)
	}
	if lhs.Tag == file.TagFunction && rhs.Tag == file.TagFunction {
		if len(lhs.FunctionArgs) != len(rhs.FunctionArgs) || len(lhs.FunctionResults) != len(rhs.FunctionResults) {
			return false
		}
		for i := range lhs.FunctionArgs {
			if !StructuralEqual(lhs.FunctionArgs[i], rhs.FunctionArgs[i]) {
				return false
			}
		}
		for i := range lhs.FunctionResults {
			if !StructuralEqual(lhs.FunctionResults[i], rhs.FunctionResults[i]) {
				return false
			}
		}
		return lhs.FunctionAbility.IsSubsetOf(rhs.FunctionAbility)
	}
	return false
}

// StructHandleAbilities resolves the declared abilities and type-parameter
// constraints of a struct handle index; callers pass a lookup bound to
// their loaded module(s) since this package has no notion of a resolver.
type StructHandleAbilities func(idx file.StructHandleIndex) (abilities file.AbilitySet, phantom []bool)

// AbilitiesOf computes the ability set of a (possibly generic) token per
// §3: a struct-instantiation's abilities are its declared abilities
// intersected with the abilities of every non-phantom type argument,
// except that key additionally requires every non-phantom argument to
// have store.
func AbilitiesOf(t file.Token, lookup StructHandleAbilities) file.AbilitySet {
	switch t.Tag {
	case file.TagBool, file.TagU8, file.TagU16, file.TagU32, file.TagU64, file.TagU128, file.TagU256, file.TagAddress:
		return file.NewAbilitySet(file.AbilityCopy, file.AbilityDrop, file.AbilityStore)
	case file.TagSigner:
		return file.NewAbilitySet(file.AbilityDrop)
	case file.TagReference, file.TagMutableReference:
		return file.NewAbilitySet(file.AbilityCopy, file.AbilityDrop)
	case file.TagVector:
		return vectorAbilities(AbilitiesOf(*t.Inner, lookup))
	case file.TagFunction:
		return t.FunctionAbility
	case file.TagTypeParameter:
		// Resolved by the caller's substitution before reaching here in
		// well-formed programs; a bare type-parameter token has no
		// abilities of its own.
		return file.EmptyAbilitySet
	case file.TagStruct:
		declared, _ := lookup(t.StructIndex)
		return declared
	case file.TagStructInstantiation:
		declared, phantom := lookup(t.StructIndex)
		return instantiatedStructAbilities(declared, t.TypeArgs, phantom, lookup)
	default:
		return file.EmptyAbilitySet
	}
}

// vectorAbilities derives vector<T>'s abilities: copy/drop/store, each
// gated on the element type also carrying it. key never applies to a
// vector itself.
func vectorAbilities(elem file.AbilitySet) file.AbilitySet {
	base := file.NewAbilitySet(file.AbilityCopy, file.AbilityDrop, file.AbilityStore)
	return base.Intersect(elem)
}

func instantiatedStructAbilities(declared file.AbilitySet, args []file.Token, phantom []bool, lookup StructHandleAbilities) file.AbilitySet {
	result := declared
	allNonPhantomHaveStore := true
	for i, arg := range args {
		if i < len(phantom) && phantom[i] {
			continue
		}
		argAbilities := AbilitiesOf(arg, lookup)
		result = result.Intersect(argAbilities)
		if !argAbilities.HasStore() {
			allNonPhantomHaveStore = false
		}
	}
	if result.HasKey() && !allNonPhantomHaveStore {
		result &^= file.AbilitySet(file.AbilityKey)
	}
	return result
}
