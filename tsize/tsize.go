// Package tsize implements the closed classification of declared-variable
// shapes and the symbolic size algebra over them (spec.md §4.1). A Size is
// a four-tuple (scalars, t-vectors, s-tensors, tensors) that can be added,
// subtracted (never going negative component-wise) and stringified against
// hypothesis-dependent dimension placeholders.
package tsize

import (
	"fmt"

	"github.com/cpmech/gosl/io"
)

// Type is the closed classification of a declared variable's shape.
type Type int

const (
	Scalar Type = iota
	TVector
	STensor
	Tensor
)

// supportedTypes maps every MFront type name the front-end accepts to its
// shape classification. This is the fixed vocabulary spec.md §1 says the
// core emits against; it is extended by adding a type here or, at run
// time, through RegisterType.
var supportedTypes = map[string]Type{
	"real":          Scalar,
	"stress":        Scalar,
	"strain":        Scalar,
	"temperature":   Scalar,
	"frequency":     Scalar,
	"time":          Scalar,
	"length":        Scalar,
	"TVector":       TVector,
	"StrainStensor": STensor,
	"StressStensor": STensor,
	"Stensor":       STensor,
	"Tensor":        Tensor,
	"StrainTensor":  Tensor,
	"StressTensor":  Tensor,
	"Stensor4":      Tensor, // 4th-order, see NOTE below
	"Tensor4":       Tensor,
}

// NOTE: fourth-order tensors (Stensor4/Tensor4) are classified into the
// Tensor bucket for unknown-vector layout purposes: the implicit scheme
// never solves for a 4th-order unknown directly (spec.md §4.5 only ever
// lists gradient/force/integration-variable types as 0th-3rd order); a
// distinct bucket would add a dimension §4.1 never asks for.

// ClassifyType returns the shape classification of a declared type name,
// and whether it is recognised.
func ClassifyType(typeName string) (Type, bool) {
	t, ok := supportedTypes[typeName]
	return t, ok
}

// IsSupportedType reports whether typeName is in the fixed vocabulary.
func IsSupportedType(typeName string) bool {
	_, ok := supportedTypes[typeName]
	return ok
}

// RegisterType extends the fixed vocabulary, used when a brick or model
// declares an additional symbolic type. Registering a name twice with a
// different classification panics, mirroring the closed-vocabulary
// invariant: the classification of an existing type is never silently
// overwritten.
func RegisterType(typeName string, t Type) {
	if existing, ok := supportedTypes[typeName]; ok && existing != t {
		panic(fmt.Sprintf("tsize: type %q already registered with a different classification", typeName))
	}
	supportedTypes[typeName] = t
}

// Size is the symbolic size of a declared quantity, expressed as counts of
// each shape category. It supports addition, subtraction, array-size
// scaling and stringification against hypothesis-dependent symbols.
type Size struct {
	NScalar  int
	NTVector int
	NSTensor int
	NTensor  int
}

// Of returns the base (array size 1) Size of a classified type.
func Of(t Type) Size {
	switch t {
	case Scalar:
		return Size{NScalar: 1}
	case TVector:
		return Size{NTVector: 1}
	case STensor:
		return Size{NSTensor: 1}
	case Tensor:
		return Size{NTensor: 1}
	}
	return Size{}
}

// OfType is a convenience wrapper combining ClassifyType and Of; it panics
// if typeName is not in the supported-types vocabulary, since callers are
// expected to validate types before reaching size arithmetic.
func OfType(typeName string) Size {
	t, ok := ClassifyType(typeName)
	if !ok {
		panic(fmt.Sprintf("tsize: %q is not a supported type", typeName))
	}
	return Of(t)
}

// Scale multiplies every component by n, the declared array size.
func (s Size) Scale(n int) Size {
	return Size{
		NScalar:  s.NScalar * n,
		NTVector: s.NTVector * n,
		NSTensor: s.NSTensor * n,
		NTensor:  s.NTensor * n,
	}
}

// Add returns the component-wise sum of two sizes.
func (s Size) Add(o Size) Size {
	return Size{
		NScalar:  s.NScalar + o.NScalar,
		NTVector: s.NTVector + o.NTVector,
		NSTensor: s.NSTensor + o.NSTensor,
		NTensor:  s.NTensor + o.NTensor,
	}
}

// Sub returns s - o. The second return value is false if any resulting
// component would be negative, in which case the zero Size is returned
// instead (subtraction is only meaningful when it "leaves all components
// non-negative", per spec.md §8 property 2).
func (s Size) Sub(o Size) (Size, bool) {
	r := Size{
		NScalar:  s.NScalar - o.NScalar,
		NTVector: s.NTVector - o.NTVector,
		NSTensor: s.NSTensor - o.NSTensor,
		NTensor:  s.NTensor - o.NTensor,
	}
	if r.NScalar < 0 || r.NTVector < 0 || r.NSTensor < 0 || r.NTensor < 0 {
		return Size{}, false
	}
	return r, true
}

// Equal reports component-wise equality.
func (s Size) Equal(o Size) bool {
	return s == o
}

// IsNull reports whether every component is zero.
func (s Size) IsNull() bool {
	return s == Size{}
}

// DimensionSymbols names the three hypothesis-dependent placeholders a
// Size is stringified against: the sizes of a t-vector, a symmetric
// 2-tensor and a general 2-tensor for the active modelling hypothesis.
type DimensionSymbols struct {
	TVectorSize string
	STensorSize string
	TensorSize  string
}

// DefaultSymbols is the placeholder vocabulary the emitter uses when
// writing generic (un-specialised) code shared across hypotheses.
var DefaultSymbols = DimensionSymbols{
	TVectorSize: "TVectorSize",
	STensorSize: "StensorSize",
	TensorSize:  "TensorSize",
}

// String renders an algebraic expression for this size using
// DefaultSymbols' three symbols, omitting zero terms and collapsing to "0" when the size is null.
func (s Size) String() string {
	return s.AsString(DefaultSymbols)
}

// AsString renders this size as a sum-of-products expression against the
// given dimension symbols, e.g. "3+2*StensorSize+TensorSize".
func (s Size) AsString(dim DimensionSymbols) string {
	var terms []string
	if s.NScalar != 0 {
		terms = append(terms, fmt.Sprintf("%d", s.NScalar))
	}
	addTerm := func(n int, symbol string) {
		if n == 0 {
			return
		}
		if n == 1 {
			terms = append(terms, symbol)
			return
		}
		terms = append(terms, fmt.Sprintf("%d*%s", n, symbol))
	}
	addTerm(s.NTVector, dim.TVectorSize)
	addTerm(s.NSTensor, dim.STensorSize)
	addTerm(s.NTensor, dim.TensorSize)
	if len(terms) == 0 {
		return "0"
	}
	out := terms[0]
	for _, t := range terms[1:] {
		out = io.Sf("%s+%s", out, t)
	}
	return out
}

// DerivativeSize returns the size of the "derivative type" of v1 with
// respect to v2 (v1 x v2 in the view-based linear-algebra layer), i.e. the
// flat-buffer footprint of a Jacobian block mapping a v2-column onto a
// v1-row. This is the shape a view-based linear-algebra layer maps onto a
// flat buffer (spec.md §4.1): a v1-row x v2-column outer-product block.
func DerivativeSize(v1, v2 Size) Size {
	return Size{
		NScalar:  v1.NScalar * v2.NScalar,
		NTVector: v1.NTVector*v2.NScalar + v1.NScalar*v2.NTVector,
		NSTensor: v1.NSTensor*v2.NScalar + v1.NScalar*v2.NSTensor,
		NTensor: v1.NTensor*v2.NScalar + v1.NScalar*v2.NTensor +
			v1.NTVector*v2.NTVector + v1.NSTensor*v2.NSTensor,
	}
}
