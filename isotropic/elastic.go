// Package isotropic implements the two isotropic DSL specialisations
// (spec.md §4.7): IsotropicMisesPlasticFlow and IsotropicMisesCreep. Both
// pre-declare the elastic-strain/equivalent-plastic-strain state and emit a
// canonical Newton loop whose unknowns are both integration variables, the
// elastic strain eel and the equivalent plastic strain p (the loop is not
// reduced to the scalar p alone), built on top of the implicit package's
// layout/Jacobian machinery.
package isotropic

// LameFromYoungPoisson converts (E, ν) to Lamé's (λ, μ), the pair the
// synthesised elastic prediction and tangent-operator text is written
// against. Adapted from msolid/elasticity.go's Calc_l_from_Enu and
// Calc_G_from_Enu (note: μ == G).
func LameFromYoungPoisson(young, nu float64) (lambda, mu float64) {
	lambda = young * nu / ((1.0 + nu) * (1.0 - 2.0*nu))
	mu = young / (2.0 * (1.0 + nu))
	return
}

// BulkModulusFromYoungPoisson returns K given (E, ν). Adapted from
// msolid/elasticity.go's Calc_K_from_Enu; used by the consistent
// tangent-operator formula when it is expressed in (K, G) rather than
// (λ, μ).
func BulkModulusFromYoungPoisson(young, nu float64) float64 {
	return young / (3.0 * (1.0 - 2.0*nu))
}
