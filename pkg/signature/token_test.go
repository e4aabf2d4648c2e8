package signature_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aptos-labs/aptos-core-sub004/pkg/file"
	"github.com/aptos-labs/aptos-core-sub004/pkg/signature"
)

func TestPreorder_NestedComposite(t *testing.T) {
	// vector<&u64>
	inner := file.NewReferenceToken(file.NewU64Token())
	tok := file.NewVectorToken(inner)

	nodes := signature.Preorder(&tok)
	require.Len(t, nodes, 3)
	assert.Equal(t, file.TagVector, nodes[0].Tag)
	assert.Equal(t, file.TagReference, nodes[1].Tag)
	assert.Equal(t, file.TagU64, nodes[2].Tag)
}

func TestPreorder_DeepChainDoesNotRecurse(t *testing.T) {
	// A deeply nested vector<vector<...<u8>...>> must not overflow the Go
	// call stack; Preorder uses an explicit worklist, not recursion.
	tok := file.NewU8Token()
	const depth = 50000
	for i := 0; i < depth; i++ {
		tok = file.NewVectorToken(tok)
	}
	nodes := signature.Preorder(&tok)
	assert.Len(t, nodes, depth+1)
}

func TestInstantiate_Substitutes(t *testing.T) {
	// vector<T0> instantiated with [u64] -> vector<u64>.
	tok := file.NewVectorToken(file.NewTypeParameterToken(0))
	out := signature.Instantiate(tok, []file.Token{file.NewU64Token()})
	assert.True(t, signature.StructuralEqual(out, file.NewVectorToken(file.NewU64Token())))
}

func TestInstantiate_ComposesWithItself(t *testing.T) {
	// Testable property 4: instantiate(sigma, instantiate(tau, t)) ==
	// instantiate(compose(sigma, tau), t).
	t0 := file.NewTypeParameterToken(0)
	inner := []file.Token{file.NewTypeParameterToken(1)} // tau: T0 -> T1
	outer := []file.Token{file.NewU64Token(), file.NewBoolToken()} // sigma: T1 -> bool, T0 -> u64 (unused)

	viaSteps := signature.Instantiate(signature.Instantiate(t0, inner), outer)
	composed := signature.Compose(outer, inner)
	viaCompose := signature.Instantiate(t0, composed)

	assert.True(t, signature.StructuralEqual(viaSteps, viaCompose))
	assert.True(t, signature.StructuralEqual(viaCompose, file.NewBoolToken()))
}

func TestStructuralEqual(t *testing.T) {
	a := file.NewStructInstantiationToken(3, []file.Token{file.NewU64Token()})
	b := file.NewStructInstantiationToken(3, []file.Token{file.NewU64Token()})
	c := file.NewStructInstantiationToken(3, []file.Token{file.NewU8Token()})

	assert.True(t, signature.StructuralEqual(a, b))
	assert.False(t, signature.StructuralEqual(a, c))
}

func TestIsAssignableFrom_ReferenceCovariance(t *testing.T) {
	lhs := file.NewReferenceToken(file.NewU64Token())
	rhs := file.NewReferenceToken(file.NewU64Token())
	assert.True(t, signature.IsAssignableFrom(lhs, rhs))

	// Mutable references are not covariant under this relation: a mutable
	// reference is not itself "both immutable references".
	mutRhs := file.NewMutableReferenceToken(file.NewU64Token())
	assert.False(t, signature.IsAssignableFrom(lhs, mutRhs))
}

func TestIsAssignableFrom_FunctionSubtyping(t *testing.T) {
	args := []file.Token{file.NewU64Token()}
	results := []file.Token{file.NewBoolToken()}

	lhs := file.NewFunctionToken(args, results, file.NewAbilitySet(file.AbilityCopy))
	rhs := file.NewFunctionToken(args, results, file.NewAbilitySet(file.AbilityCopy, file.AbilityDrop))

	// rhs carries more abilities than lhs requires, which is allowed
	// (lhs.abilities subset of rhs.abilities).
	assert.True(t, signature.IsAssignableFrom(lhs, rhs))
	// The reverse does not hold.
	assert.False(t, signature.IsAssignableFrom(rhs, lhs))
}

func TestAbilitiesOf_StructInstantiationIntersectsTypeArgs(t *testing.T) {
	lookup := func(idx file.StructHandleIndex) (file.AbilitySet, []bool) {
		return file.NewAbilitySet(file.AbilityCopy, file.AbilityDrop, file.AbilityStore), []bool{false}
	}
	// Struct<T> with T = signer (drop only, no copy/store): the
	// instantiation's abilities lose copy and store.
	tok := file.NewStructInstantiationToken(0, []file.Token{file.NewSignerToken()})
	got := signature.AbilitiesOf(tok, lookup)
	assert.Equal(t, file.NewAbilitySet(file.AbilityDrop), got)
}

func TestAbilitiesOf_KeyRequiresStoreOnAllNonPhantomArgs(t *testing.T) {
	// Outer struct declares key+copy+drop+store; its single type argument
	// is another struct that has key+copy+drop but NOT store. Plain
	// ability intersection would still leave key set (key is declared on
	// both sides); the exception in §3 strips it because the argument
	// lacks store.
	lookup := func(idx file.StructHandleIndex) (file.AbilitySet, []bool) {
		if idx == 0 {
			return file.NewAbilitySet(file.AbilityKey, file.AbilityCopy, file.AbilityDrop, file.AbilityStore), []bool{false}
		}
		return file.NewAbilitySet(file.AbilityKey, file.AbilityCopy, file.AbilityDrop), nil
	}
	argWithoutStore := file.NewStructToken(1)
	tok := file.NewStructInstantiationToken(0, []file.Token{argWithoutStore})
	got := signature.AbilitiesOf(tok, lookup)
	assert.False(t, got.HasKey(), "key must be stripped when a non-phantom argument lacks store")
	assert.True(t, got.HasCopy())
	assert.True(t, got.HasDrop())
}

func TestAbilitiesOf_PhantomArgExemptFromKeyRequirement(t *testing.T) {
	lookup := func(idx file.StructHandleIndex) (file.AbilitySet, []bool) {
		if idx == 0 {
			return file.NewAbilitySet(file.AbilityKey, file.AbilityStore), []bool{true}
		}
		return file.NewAbilitySet(file.AbilityKey, file.AbilityCopy, file.AbilityDrop), nil
	}
	argWithoutStore := file.NewStructToken(1)
	tok := file.NewStructInstantiationToken(0, []file.Token{argWithoutStore})
	got := signature.AbilitiesOf(tok, lookup)
	assert.True(t, got.HasKey(), "a phantom argument's missing store must not strip key")
}

func TestAbilitiesOf_VectorGatesOnElement(t *testing.T) {
	lookup := func(idx file.StructHandleIndex) (file.AbilitySet, []bool) { return file.EmptyAbilitySet, nil }
	vecOfU64 := file.NewVectorToken(file.NewU64Token())
	got := signature.AbilitiesOf(vecOfU64, lookup)
	assert.True(t, got.HasCopy())
	assert.True(t, got.HasDrop())
	assert.True(t, got.HasStore())
	assert.False(t, got.HasKey())

	vecOfSigner := file.NewVectorToken(file.NewSignerToken())
	got2 := signature.AbilitiesOf(vecOfSigner, lookup)
	assert.False(t, got2.HasCopy())
	assert.True(t, got2.HasDrop())
	assert.False(t, got2.HasStore())
}
