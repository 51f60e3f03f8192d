package dsl

import (
	"strings"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/mfront/behaviour"
	"github.com/cpmech/mfront/brick"
	"github.com/cpmech/mfront/hypothesis"
	"github.com/cpmech/mfront/iface"
	"github.com/cpmech/mfront/mferr"
	"github.com/cpmech/mfront/token"
)

// validIdentifier rejects empty names and names starting with a digit; a
// fuller check (reserved C++ words, etc.) belongs to a richer InvalidName
// handler, out of scope for the core front-end beyond this gate.
func validIdentifier(handler, name string) error {
	if name == "" {
		return mferr.New(mferr.InvalidName, handler, "name must not be empty")
	}
	if name[0] >= '0' && name[0] <= '9' {
		return mferr.New(mferr.InvalidName, handler, "name %q must not start with a digit", name)
	}
	return nil
}

// singleStringField builds a handler that reads one quoted string and
// assigns it via assign.
func singleStringField(handler string, assign func(desc *behaviour.Description, value string)) Handler {
	return func(c *Cursor, desc *behaviour.Description) error {
		s, err := c.ExpectString(handler)
		if err != nil {
			return err
		}
		if err := c.Expect(handler, ";"); err != nil {
			return err
		}
		assign(desc, s)
		return nil
	}
}

// singleIdentifierField builds a handler that reads one identifier and
// assigns it via assign, validating it as a name.
func singleIdentifierField(handler string, assign func(desc *behaviour.Description, value string)) Handler {
	return func(c *Cursor, desc *behaviour.Description) error {
		name, err := c.ExpectIdentifier(handler)
		if err != nil {
			return err
		}
		if err := validIdentifier(handler, name); err != nil {
			return err
		}
		if err := c.Expect(handler, ";"); err != nil {
			return err
		}
		assign(desc, name)
		return nil
	}
}

// dslSchemeNames maps a @DSL scheme name to the IntegrationScheme it
// selects (spec.md §3's "integration scheme (explicit / implicit /
// runge-kutta / specific / user)"). "Implicit" is spec.md §8's S2 name;
// "IsotropicPlasticMisesFlow" is S3's, grounded on
// original_source/mfront/src/IsotropicMisesPlasticFlowDSL.cxx's getName()
// (spec.md §4.7 itself spells the same front-end "IsotropicMisesPlasticFlow",
// so both spellings are accepted). The isotropic front-ends lower onto the
// implicit scheme internally (isotropic.declareCommon) but are their own
// DSL entry point, hence SpecificScheme rather than ImplicitScheme here.
var dslSchemeNames = map[string]behaviour.IntegrationScheme{
	"Implicit":                  behaviour.ImplicitScheme,
	"ImplicitII":                behaviour.ImplicitScheme,
	"Explicit":                  behaviour.ExplicitScheme,
	"RungeKutta":                behaviour.RungeKuttaScheme,
	"IsotropicPlasticMisesFlow": behaviour.SpecificScheme,
	"IsotropicMisesPlasticFlow": behaviour.SpecificScheme,
	"IsotropicMisesCreep":       behaviour.SpecificScheme,
}

// dslHandler parses `@DSL <Name>;`, the keyword every real MFront source
// (and spec.md's own S2/S3 scenarios) opens with, and records the selected
// scheme on desc.Scheme.
func dslHandler(c *Cursor, desc *behaviour.Description) error {
	const handler = "@DSL"
	line := c.Line()
	name, err := c.ExpectIdentifier(handler)
	if err != nil {
		return err
	}
	if err := c.Expect(handler, ";"); err != nil {
		return err
	}
	scheme, ok := dslSchemeNames[name]
	if !ok {
		return mferr.New(mferr.UnknownEntity, handler, "unknown DSL %q", name).At(c.File, line)
	}
	desc.Scheme = scheme
	return nil
}

// RegisterCommonKeywords wires the minimal keyword set spec.md §6 names as
// required for the implicit core into r.
func RegisterCommonKeywords(r *Registry) {
	r.Register("@DSL", true, dslHandler)

	r.Register("@Material", true, singleIdentifierField("@Material", func(d *behaviour.Description, v string) { d.MaterialName = v }))
	r.Register("@Library", true, singleIdentifierField("@Library", func(d *behaviour.Description, v string) { d.Library = v }))
	r.Register("@Behaviour", true, singleIdentifierField("@Behaviour", func(d *behaviour.Description, v string) { d.ClassName = v }))
	r.Register("@Author", true, func(c *Cursor, desc *behaviour.Description) error {
		// author names may contain spaces; consume tokens until ';'
		text, err := parseExpressionUntil(c, "@Author", ";")
		if err != nil {
			return err
		}
		desc.Author = text
		return c.Expect("@Author", ";")
	})
	r.Register("@Date", true, singleStringOrWordsField("@Date", func(d *behaviour.Description, v string) { d.SetDate(v) }))
	r.Register("@Description", true, func(c *Cursor, desc *behaviour.Description) error {
		const handler = "@Description"
		if err := c.Expect(handler, "{"); err != nil {
			return err
		}
		text, err := parseBracedBody(c, handler)
		if err != nil {
			return err
		}
		desc.Description = text
		return nil
	})

	r.Register("@ModellingHypothesis", true, modellingHypothesisHandler(false))
	r.Register("@ModellingHypotheses", true, modellingHypothesisHandler(true))

	r.Register("@Gradient", true, mainVariableHandler("@Gradient", "Gradient"))
	r.Register("@Flux", true, mainVariableHandler("@Flux", "ThermodynamicForce"))
	r.Register("@ThermodynamicForce", true, mainVariableHandler("@ThermodynamicForce", "ThermodynamicForce"))

	r.Register("@MaterialProperty", true, variableListHandler("@MaterialProperty", behaviour.MaterialProperty, "real"))
	r.Register("@StateVariable", true, variableListHandler("@StateVariable", behaviour.StateVariable, "real"))
	r.Register("@AuxiliaryStateVariable", true, variableListHandler("@AuxiliaryStateVariable", behaviour.AuxiliaryStateVariable, "real"))
	r.Register("@ExternalStateVariable", true, variableListHandler("@ExternalStateVariable", behaviour.ExternalStateVariable, "real"))
	r.Register("@IntegrationVariable", true, variableListHandler("@IntegrationVariable", behaviour.IntegrationVariable, "real"))
	r.Register("@LocalVariable", true, variableListHandler("@LocalVariable", behaviour.LocalVariable, "real"))
	r.Register("@Parameter", true, variableListHandler("@Parameter", behaviour.Parameter, "real"))
	r.Register("@StaticVariable", true, variableListHandler("@StaticVariable", behaviour.StaticVariable, "real"))

	r.Register("@Bounds", true, boundsHandler("@Bounds", false))
	r.Register("@PhysicalBounds", true, boundsHandler("@PhysicalBounds", true))

	r.Register("@IsotropicBehaviour", true, func(c *Cursor, desc *behaviour.Description) error {
		desc.Symmetry = behaviour.Isotropic
		return c.Expect("@IsotropicBehaviour", ";")
	})
	r.Register("@OrthotropicBehaviour", true, orthotropicBehaviourHandler)
	r.Register("@IsotropicElasticBehaviour", true, func(c *Cursor, desc *behaviour.Description) error {
		iso := behaviour.Isotropic
		desc.ElasticSymmetryOverride = &iso
		return c.Expect("@IsotropicElasticBehaviour", ";")
	})
	r.Register("@StrainMeasure", true, strainMeasureHandler)
	r.Register("@UseQt", true, func(c *Cursor, desc *behaviour.Description) error {
		const handler = "@UseQt"
		name, err := c.ExpectIdentifier(handler)
		if err != nil {
			return err
		}
		if err := c.Expect(handler, ";"); err != nil {
			return err
		}
		switch name {
		case "true":
			desc.UseQt = true
		case "false":
			desc.UseQt = false
		default:
			return mferr.New(mferr.SyntaxError, handler, "expected 'true' or 'false', found %q", name).At(c.File, c.Line())
		}
		return nil
	})

	r.Register("@UsableInPurelyImplicitResolution", true, func(c *Cursor, desc *behaviour.Description) error {
		desc.Umbrella().UsableInPurelyImplicitResolution = true
		return c.Expect("@UsableInPurelyImplicitResolution", ";")
	})

	r.Register("@ComputeStiffnessTensor", true, func(c *Cursor, desc *behaviour.Description) error {
		desc.ComputesStiffnessTensor = true
		if err := desc.CheckStiffnessTensorInvariant(); err != nil {
			return err
		}
		return c.Expect("@ComputeStiffnessTensor", ";")
	})
	r.Register("@RequireStiffnessTensor", true, func(c *Cursor, desc *behaviour.Description) error {
		desc.RequiresStiffnessTensor = true
		if err := desc.CheckStiffnessTensorInvariant(); err != nil {
			return err
		}
		return c.Expect("@RequireStiffnessTensor", ";")
	})
	r.Register("@ComputeThermalExpansion", true, func(c *Cursor, desc *behaviour.Description) error {
		desc.ComputeThermalExpansion = true
		if err := desc.CheckThermalExpansionInvariant(); err != nil {
			return err
		}
		return c.Expect("@ComputeThermalExpansion", ";")
	})
	r.Register("@ElasticMaterialProperties", true, elasticMaterialPropertiesHandler)
	r.Register("@ThermalExpansionCoefficient", true, thermalExpansionCoefficientsHandler)
	r.Register("@ThermalExpansionCoefficients", true, thermalExpansionCoefficientsHandler)
	r.Register("@HillTensor", true, hillTensorHandler)
	r.Register("@HillTensors", true, hillTensorHandler)

	for _, kw := range []string{
		"@Integrator", "@Predictor", "@ComputeStress", "@ComputeFinalStress", "@TangentOperator",
		"@PredictionOperator", "@InitLocalVariables", "@UpdateAuxiliaryStateVariables",
		"@InternalEnergy", "@DissipatedEnergy", "@SpeedOfSound", "@ComputeStressFreeExpansion",
		"@APrioriTimeStepScalingFactor", "@APosterioriTimeStepScalingFactor",
		"@AdditionalConvergenceChecks", "@ProcessNewCorrection", "@RejectCurrentCorrection",
		"@ProcessNewEstimate", "@Includes", "@Sources", "@Members", "@Private",
	} {
		r.Register(kw, true, codeBlockHandler(kw, codeBlockKind(kw)))
	}
	r.Register("@Initialize", true, namedCodeBlockHandler("@Initialize"))
	r.Register("@PostProcessing", true, namedCodeBlockHandler("@PostProcessing"))

	r.Register("@Epsilon", true, numericParamHandler("@Epsilon", func(d *behaviour.Description, v float64) error {
		if v < 0 {
			return mferr.New(mferr.NumericalOutOfRange, "@Epsilon", "epsilon must be non-negative, found %v", v)
		}
		data := d.Umbrella()
		data.Epsilon = v
		data.NumericalJacobianEpsilon = v / 10
		return nil
	}))
	r.Register("@Theta", true, numericParamHandler("@Theta", func(d *behaviour.Description, v float64) error {
		if v < 0 || v > 1 {
			return mferr.New(mferr.NumericalOutOfRange, "@Theta", "theta must be in [0,1], found %v", v)
		}
		d.Umbrella().Theta = v
		return nil
	}))
	r.Register("@IterMax", true, numericParamHandler("@IterMax", func(d *behaviour.Description, v float64) error {
		if v < 1 {
			return mferr.New(mferr.NumericalOutOfRange, "@IterMax", "iterMax must be >= 1, found %v", v)
		}
		d.Umbrella().IterMax = int(v)
		return nil
	}))
	r.Register("@JacobianComparisonCriterion", true, numericParamHandler("@JacobianComparisonCriterion", func(d *behaviour.Description, v float64) error {
		if v < 0 {
			return mferr.New(mferr.NumericalOutOfRange, "@JacobianComparisonCriterion", "criterion must be non-negative, found %v", v)
		}
		d.Umbrella().JacobianComparisonCriterion = v
		return nil
	}))
	r.Register("@PerturbationValueForNumericalJacobianComputation", true, numericParamHandler("@PerturbationValueForNumericalJacobianComputation", func(d *behaviour.Description, v float64) error {
		if v <= 0 {
			return mferr.New(mferr.NumericalOutOfRange, "@PerturbationValueForNumericalJacobianComputation", "perturbation value must be positive, found %v", v)
		}
		d.Umbrella().NumericalJacobianEpsilon = v
		return nil
	}))
	r.Register("@CompareToNumericalJacobian", true, func(c *Cursor, desc *behaviour.Description) error {
		desc.Umbrella().CompareToNumericalJacobian = true
		return c.Expect("@CompareToNumericalJacobian", ";")
	})
	r.Register("@NumericallyComputedJacobianBlocks", true, numericallyComputedJacobianBlocksHandler)
	r.Register("@Algorithm", true, func(c *Cursor, desc *behaviour.Description) error {
		const handler = "@Algorithm"
		name, err := c.ExpectIdentifier(handler)
		if err != nil {
			return err
		}
		if err := c.Expect(handler, ";"); err != nil {
			return err
		}
		desc.Umbrella().Algorithm = name
		return nil
	})
	r.Register("@IsTangentOperatorSymmetric", true, func(c *Cursor, desc *behaviour.Description) error {
		desc.Umbrella().IsTangentOperatorSymmetric = true
		return c.Expect("@IsTangentOperatorSymmetric", ";")
	})
	r.Register("@TangentOperatorBlocks", true, tangentOperatorBlocksHandler)
	r.Register("@AdditionalTangentOperatorBlock", true, additionalTangentOperatorBlockHandler)
	r.Register("@AdditionalTangentOperatorBlocks", true, additionalTangentOperatorBlockHandler)

	r.Register("@IntegerConstant", true, integerConstantHandler)
	r.Register("@MaterialLaw", true, materialLawHandler)

	r.Register("@CrystalStructure", true, crystalStructureHandler)
	r.Register("@SlipSystem", true, slipSystemHandler)
	r.Register("@SlipSystems", true, slipSystemsHandler)
	r.Register("@InteractionMatrix", true, interactionMatrixHandler)

	r.Register("@Brick", true, brickHandler(r))
	r.Register("@Interface", true, interfaceHandler)

	r.Register("@AxialGrowth", true, stressFreeExpansionHandler("@AxialGrowth", "axialgrowth", true))
	r.Register("@Swelling", true, stressFreeExpansionHandler("@Swelling", "swelling", false))
	r.Register("@Relocation", true, stressFreeExpansionHandler("@Relocation", "relocation", false))
}

// stressFreeExpansionHandler parses `@AxialGrowth esv;`/`@Swelling esv;`/
// `@Relocation esv;`: a reference to an already-declared variable driving a
// gradient contribution subtracted before constitutive evaluation (spec.md
// glossary's "stress-free expansion"). Axial growth is only meaningful for
// a directional, orthotropic behaviour (spec.md §8's S6), so that check
// runs immediately, at the keyword's own line, before the referenced
// variable is even looked up.
func stressFreeExpansionHandler(handler, kind string, requireOrthotropic bool) Handler {
	return func(c *Cursor, desc *behaviour.Description) error {
		line := c.Line()
		name, err := c.ExpectIdentifier(handler)
		if err != nil {
			return err
		}
		if err := c.Expect(handler, ";"); err != nil {
			return err
		}
		if requireOrthotropic && desc.Symmetry != behaviour.Orthotropic {
			return mferr.New(mferr.InconsistentDeclaration, handler,
				"%s requires an orthotropic behaviour, found isotropic symmetry", handler).At(c.File, line)
		}
		data := desc.Umbrella()
		if data.LookupVariableName(name) == nil {
			return mferr.New(mferr.UnknownEntity, handler, "%q is not a declared variable", name).At(c.File, line)
		}
		data.StressFreeExpansions = append(data.StressFreeExpansions, behaviour.StressFreeExpansion{
			Kind:         kind,
			VariableName: name,
		})
		return nil
	}
}

// strainMeasureHandler parses `@StrainMeasure <Name>;` with an optional
// trailing `{save_strain, save_stress}` flag list (spec.md §4.3).
func strainMeasureHandler(c *Cursor, desc *behaviour.Description) error {
	const handler = "@StrainMeasure"
	name, err := c.ExpectIdentifier(handler)
	if err != nil {
		return err
	}
	switch name {
	case "Linearised", "Linearized":
		desc.StrainMeasureKind = behaviour.Linearised
	case "GreenLagrange":
		desc.StrainMeasureKind = behaviour.GreenLagrange
	case "Hencky":
		desc.StrainMeasureKind = behaviour.Hencky
	default:
		return mferr.New(mferr.UnknownEntity, handler, "unknown strain measure %q", name).At(c.File, c.Line())
	}
	if tok, ok := c.Peek(); ok && tok.Lexeme == "{" {
		c.Advance()
		for {
			flag, err := c.ExpectIdentifier(handler)
			if err != nil {
				return err
			}
			switch flag {
			case "save_strain":
				desc.SaveStrain = true
			case "save_stress":
				desc.SaveStress = true
			default:
				return mferr.New(mferr.UnknownEntity, handler, "unknown strain measure flag %q", flag).At(c.File, c.Line())
			}
			tok, ok := c.Peek()
			if !ok {
				return mferr.New(mferr.SyntaxError, handler, "unterminated flag list, expected '}'").At(c.File, c.Line())
			}
			if tok.Lexeme == "," {
				c.Advance()
				continue
			}
			if tok.Lexeme == "}" {
				c.Advance()
				break
			}
			return mferr.New(mferr.SyntaxError, handler, "expected ',' or '}', found %q", tok.Lexeme).At(c.File, tok.Line)
		}
	}
	return c.Expect(handler, ";")
}

// parseExpressionList parses a braced, comma-separated list of free-form
// expressions, terminated by ';' (spec.md §6's @ElasticMaterialProperties
// and @HillTensor coefficient lists). Nested commas inside an expression
// are not supported, matching parseExpressionUntil's own simplicity.
func parseExpressionList(c *Cursor, handler string) ([]string, error) {
	if err := c.Expect(handler, "{"); err != nil {
		return nil, err
	}
	var out []string
	for {
		var expr string
		for {
			tok, ok := c.Peek()
			if !ok {
				return nil, mferr.New(mferr.SyntaxError, handler, "unterminated expression list, expected '}'").At(c.File, c.Line())
			}
			if tok.Lexeme == "," || tok.Lexeme == "}" {
				break
			}
			if expr != "" {
				expr += " "
			}
			expr += tok.Lexeme
			c.Advance()
		}
		out = append(out, expr)
		tok, ok := c.Peek()
		if !ok {
			return nil, mferr.New(mferr.SyntaxError, handler, "unterminated expression list, expected '}'").At(c.File, c.Line())
		}
		if tok.Lexeme == "," {
			c.Advance()
			continue
		}
		c.Advance() // consume '}'
		break
	}
	if err := c.Expect(handler, ";"); err != nil {
		return nil, err
	}
	return out, nil
}

// elasticMaterialPropertyNames assigns glossary-style names to a
// @ElasticMaterialProperties expression list: the two isotropic or nine
// orthotropic coefficients TFEL's own convention names, falling back to an
// indexed name for any other count.
func elasticMaterialPropertyNames(sym behaviour.Symmetry, n int) []string {
	switch {
	case sym == behaviour.Isotropic && n == 2:
		return []string{"YoungModulus", "PoissonRatio"}
	case sym == behaviour.Orthotropic && n == 9:
		return []string{
			"YoungModulus1", "YoungModulus2", "YoungModulus3",
			"PoissonRatio12", "PoissonRatio23", "PoissonRatio13",
			"ShearModulus12", "ShearModulus23", "ShearModulus13",
		}
	}
	names := make([]string, n)
	for i := range names {
		names[i] = io.Sf("ElasticMaterialProperty%d", i)
	}
	return names
}

// elasticMaterialPropertiesHandler parses `@ElasticMaterialProperties
// {expr, ...};` (spec.md §6), embedding each expression as a named
// MaterialPropertyExpression on the description.
func elasticMaterialPropertiesHandler(c *Cursor, desc *behaviour.Description) error {
	exprs, err := parseExpressionList(c, "@ElasticMaterialProperties")
	if err != nil {
		return err
	}
	names := elasticMaterialPropertyNames(desc.Symmetry, len(exprs))
	for i, expr := range exprs {
		desc.ElasticMaterialProperties = append(desc.ElasticMaterialProperties, behaviour.MaterialPropertyExpression{
			Name:       names[i],
			Expression: expr,
		})
	}
	return nil
}

// thermalExpansionCoefficientsHandler parses `@ThermalExpansionCoefficient(s)
// {expr, ...};`, embedding each expression the way
// elasticMaterialPropertiesHandler does, named ThermalExpansionCoefficient1.. .
func thermalExpansionCoefficientsHandler(c *Cursor, desc *behaviour.Description) error {
	exprs, err := parseExpressionList(c, "@ThermalExpansionCoefficient")
	if err != nil {
		return err
	}
	for i, expr := range exprs {
		desc.ThermalExpansionCoeffs = append(desc.ThermalExpansionCoeffs, behaviour.MaterialPropertyExpression{
			Name:       io.Sf("ThermalExpansionCoefficient%d", i+1),
			Expression: expr,
		})
	}
	return nil
}

// hillTensorHandler parses `@HillTensor <Name> = {F,G,H,L,M,N};` (spec.md
// glossary's Hill tensor, six coefficients in the orthotropic frame).
// @HillTensors shares the same grammar.
func hillTensorHandler(c *Cursor, desc *behaviour.Description) error {
	const handler = "@HillTensor"
	name, err := c.ExpectIdentifier(handler)
	if err != nil {
		return err
	}
	if err := c.Expect(handler, "="); err != nil {
		return err
	}
	exprs, err := parseExpressionList(c, handler)
	if err != nil {
		return err
	}
	if len(exprs) != 6 {
		return mferr.New(mferr.SyntaxError, handler, "expected 6 coefficients (F,G,H,L,M,N), found %d", len(exprs)).At(c.File, c.Line())
	}
	var coeffs [6]string
	copy(coeffs[:], exprs)
	desc.HillTensors = append(desc.HillTensors, behaviour.HillTensorDescription{Name: name, Coefficients: coeffs})
	return nil
}

// parseIdentifierList parses either a single identifier or a braced,
// comma-separated list of identifiers, terminated by ';' -- the shape
// @NumericallyComputedJacobianBlocks, @TangentOperatorBlocks and
// @AdditionalTangentOperatorBlock(s) all share.
func parseIdentifierList(c *Cursor, handler string) ([]string, error) {
	tok, ok := c.Peek()
	if !ok {
		return nil, mferr.New(mferr.SyntaxError, handler, "expected an identifier or '{', found end of input").At(c.File, c.Line())
	}
	var names []string
	if tok.Lexeme == "{" {
		c.Advance()
		for {
			name, err := c.ExpectIdentifier(handler)
			if err != nil {
				return nil, err
			}
			names = append(names, name)
			tok, ok := c.Peek()
			if !ok {
				return nil, mferr.New(mferr.SyntaxError, handler, "unterminated list, expected '}'").At(c.File, c.Line())
			}
			if tok.Lexeme == "," {
				c.Advance()
				continue
			}
			if tok.Lexeme == "}" {
				c.Advance()
				break
			}
			return nil, mferr.New(mferr.SyntaxError, handler, "expected ',' or '}', found %q", tok.Lexeme).At(c.File, tok.Line)
		}
	} else {
		name, err := c.ExpectIdentifier(handler)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := c.Expect(handler, ";"); err != nil {
		return nil, err
	}
	return names, nil
}

// parseTangentOperatorBlockPair resolves a "d<row>_dd<col>" block symbol
// (mirroring implicit.BlockSymbol's "df<row>_dd<col>" naming, adapted to
// the main-variable/gradient names a tangent-operator block pairs rather
// than the residual names a Jacobian block pairs) into the declared
// variables it names.
func parseTangentOperatorBlockPair(c *Cursor, handler string, data *behaviour.Data, sym string) (behaviour.TangentOperatorPair, error) {
	if !strings.HasPrefix(sym, "d") {
		return behaviour.TangentOperatorPair{}, mferr.New(mferr.SyntaxError, handler, "block %q must start with 'd'", sym).At(c.File, c.Line())
	}
	rest := sym[1:]
	idx := strings.Index(rest, "_dd")
	if idx < 0 {
		return behaviour.TangentOperatorPair{}, mferr.New(mferr.SyntaxError, handler, "block %q must contain '_dd'", sym).At(c.File, c.Line())
	}
	rowName, colName := rest[:idx], rest[idx+3:]
	lookup := func(name string) *behaviour.Variable {
		if v := data.LookupVariableName(name); v != nil {
			return v
		}
		for _, mv := range data.MainVariables {
			if mv.Gradient.Name == name {
				return mv.Gradient
			}
			if mv.ThermodynamicForce.Name == name {
				return mv.ThermodynamicForce
			}
		}
		return nil
	}
	row := lookup(rowName)
	if row == nil {
		return behaviour.TangentOperatorPair{}, mferr.New(mferr.UnknownEntity, handler, "%q is not a declared variable", rowName).At(c.File, c.Line())
	}
	col := lookup(colName)
	if col == nil {
		return behaviour.TangentOperatorPair{}, mferr.New(mferr.UnknownEntity, handler, "%q is not a declared variable", colName).At(c.File, c.Line())
	}
	return behaviour.TangentOperatorPair{Row: row, Column: col}, nil
}

// tangentOperatorBlocksHandler parses `@TangentOperatorBlocks{sym, ...};`,
// replacing the behaviour's tangent-operator block wholesale (spec.md §3).
func tangentOperatorBlocksHandler(c *Cursor, desc *behaviour.Description) error {
	const handler = "@TangentOperatorBlocks"
	syms, err := parseIdentifierList(c, handler)
	if err != nil {
		return err
	}
	data := desc.Umbrella()
	block := make(behaviour.TangentOperatorBlock, 0, len(syms))
	for _, sym := range syms {
		pair, err := parseTangentOperatorBlockPair(c, handler, data, sym)
		if err != nil {
			return err
		}
		block = append(block, pair)
	}
	data.TangentOperatorBlock = block
	return nil
}

// additionalTangentOperatorBlockHandler parses
// `@AdditionalTangentOperatorBlock(s){sym, ...};`, appending to the
// existing tangent-operator block rather than replacing it.
func additionalTangentOperatorBlockHandler(c *Cursor, desc *behaviour.Description) error {
	const handler = "@AdditionalTangentOperatorBlock"
	syms, err := parseIdentifierList(c, handler)
	if err != nil {
		return err
	}
	data := desc.Umbrella()
	for _, sym := range syms {
		pair, err := parseTangentOperatorBlockPair(c, handler, data, sym)
		if err != nil {
			return err
		}
		data.TangentOperatorBlock = append(data.TangentOperatorBlock, pair)
	}
	return nil
}

// integerConstantHandler parses `@IntegerConstant <Name> = <value>;`
// (spec.md §6), a compile-time integer constant distinct from
// @StaticVariable's real-typed declarations.
func integerConstantHandler(c *Cursor, desc *behaviour.Description) error {
	const handler = "@IntegerConstant"
	name, err := c.ExpectIdentifier(handler)
	if err != nil {
		return err
	}
	if err := c.Expect(handler, "="); err != nil {
		return err
	}
	v, err := c.ExpectNumber(handler)
	if err != nil {
		return err
	}
	if err := c.Expect(handler, ";"); err != nil {
		return err
	}
	desc.IntegerConstants = append(desc.IntegerConstants, behaviour.IntegerConstant{Name: name, Value: int64(v)})
	return nil
}

// materialLawClassName derives a class name from a material-law file path:
// the base name without directory or extension.
func materialLawClassName(file string) string {
	name := file
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		name = name[:idx]
	}
	return name
}

// materialLawHandler parses `@MaterialLaw "file";`, embedding a reference
// to an external material-law file as a ModelDescription (spec.md §1:
// external model DSLs are out of scope, only the resulting description is
// read and embedded, matching writeMaterialLaws's own EmbeddedModels
// consumption in emitter/codeblock.go).
func materialLawHandler(c *Cursor, desc *behaviour.Description) error {
	const handler = "@MaterialLaw"
	file, err := c.ExpectString(handler)
	if err != nil {
		return err
	}
	if err := c.Expect(handler, ";"); err != nil {
		return err
	}
	desc.EmbeddedModels = append(desc.EmbeddedModels, &behaviour.ModelDescription{
		File:      file,
		ClassName: materialLawClassName(file),
	})
	return nil
}

// crystalStructureHandler parses `@CrystalStructure <Name>;` (spec.md §3's
// SlipSystemsDescription.Structure).
func crystalStructureHandler(c *Cursor, desc *behaviour.Description) error {
	const handler = "@CrystalStructure"
	name, err := c.ExpectIdentifier(handler)
	if err != nil {
		return err
	}
	if err := c.Expect(handler, ";"); err != nil {
		return err
	}
	switch name {
	case "FCC":
		desc.CrystalStructure.Structure = behaviour.FCC
	case "BCC":
		desc.CrystalStructure.Structure = behaviour.BCC
	case "HCP":
		desc.CrystalStructure.Structure = behaviour.HCP
	default:
		return mferr.New(mferr.UnknownEntity, handler, "unknown crystal structure %q", name).At(c.File, c.Line())
	}
	return nil
}

// expectSignedNumber consumes an optional leading '-' (the tokeniser never
// folds a sign into a Number token, see token/token.go's scanNumber) before
// delegating to ExpectNumber, needed for crystallographic indices like the
// "-1" in "<1,-1,0>".
func expectSignedNumber(c *Cursor, handler string) (float64, error) {
	neg := false
	if tok, ok := c.Peek(); ok && tok.Lexeme == "-" {
		c.Advance()
		neg = true
	}
	v, err := c.ExpectNumber(handler)
	if err != nil {
		return 0, err
	}
	if neg {
		v = -v
	}
	return v, nil
}

// parseSlipSystem parses "<p0,p1,p2>{d0,d1,d2}": a slip plane in angle
// brackets and a slip direction in braces (spec.md §6).
func parseSlipSystem(c *Cursor, handler string) (behaviour.SlipSystem, error) {
	var ss behaviour.SlipSystem
	if err := c.Expect(handler, "<"); err != nil {
		return ss, err
	}
	for i := 0; i < 3; i++ {
		v, err := expectSignedNumber(c, handler)
		if err != nil {
			return ss, err
		}
		ss.Plane[i] = v
		if i < 2 {
			if err := c.Expect(handler, ","); err != nil {
				return ss, err
			}
		}
	}
	if err := c.Expect(handler, ">"); err != nil {
		return ss, err
	}
	if err := c.Expect(handler, "{"); err != nil {
		return ss, err
	}
	for i := 0; i < 3; i++ {
		v, err := expectSignedNumber(c, handler)
		if err != nil {
			return ss, err
		}
		ss.Direction[i] = v
		if i < 2 {
			if err := c.Expect(handler, ","); err != nil {
				return ss, err
			}
		}
	}
	if err := c.Expect(handler, "}"); err != nil {
		return ss, err
	}
	return ss, nil
}

// slipSystemHandler parses `@SlipSystem <p>{d};`, appending a
// single-member family (spec.md §6).
func slipSystemHandler(c *Cursor, desc *behaviour.Description) error {
	const handler = "@SlipSystem"
	ss, err := parseSlipSystem(c, handler)
	if err != nil {
		return err
	}
	if err := c.Expect(handler, ";"); err != nil {
		return err
	}
	desc.CrystalStructure.Families = append(desc.CrystalStructure.Families, []behaviour.SlipSystem{ss})
	return nil
}

// slipSystemsHandler parses `@SlipSystems{ <p1>{d1}, <p2>{d2}, ... };`,
// appending one family containing every listed slip system.
func slipSystemsHandler(c *Cursor, desc *behaviour.Description) error {
	const handler = "@SlipSystems"
	if err := c.Expect(handler, "{"); err != nil {
		return err
	}
	var family []behaviour.SlipSystem
	for {
		ss, err := parseSlipSystem(c, handler)
		if err != nil {
			return err
		}
		family = append(family, ss)
		tok, ok := c.Peek()
		if !ok {
			return mferr.New(mferr.SyntaxError, handler, "unterminated slip-system family, expected '}'").At(c.File, c.Line())
		}
		if tok.Lexeme == "," {
			c.Advance()
			continue
		}
		if tok.Lexeme == "}" {
			c.Advance()
			break
		}
		return mferr.New(mferr.SyntaxError, handler, "expected ',' or '}', found %q", tok.Lexeme).At(c.File, tok.Line)
	}
	if err := c.Expect(handler, ";"); err != nil {
		return err
	}
	desc.CrystalStructure.Families = append(desc.CrystalStructure.Families, family)
	return nil
}

// interactionMatrixHandler parses `@InteractionMatrix{v, ...};`, the flat
// list of slip-system interaction coefficients (spec.md §6).
func interactionMatrixHandler(c *Cursor, desc *behaviour.Description) error {
	const handler = "@InteractionMatrix"
	if err := c.Expect(handler, "{"); err != nil {
		return err
	}
	for {
		v, err := expectSignedNumber(c, handler)
		if err != nil {
			return err
		}
		desc.InteractionMatrix = append(desc.InteractionMatrix, v)
		tok, ok := c.Peek()
		if !ok {
			return mferr.New(mferr.SyntaxError, handler, "unterminated interaction matrix, expected '}'").At(c.File, c.Line())
		}
		if tok.Lexeme == "," {
			c.Advance()
			continue
		}
		if tok.Lexeme == "}" {
			c.Advance()
			break
		}
		return mferr.New(mferr.SyntaxError, handler, "expected ',' or '}', found %q", tok.Lexeme).At(c.File, tok.Line)
	}
	return c.Expect(handler, ";")
}

// namedCodeBlockHandler builds a handler for `@Initialize<Id>{...}` /
// `@PostProcessing<Id>{...}` (spec.md §4.3): a code block keyed by both its
// kind and an author-chosen identifier. spec.md §9's open question on
// @Initialize is resolved here as documented: a reused <Id> raises
// DuplicateDeclaration rather than silently overwriting.
func namedCodeBlockHandler(keyword string) Handler {
	kind := keyword[1:]
	return func(c *Cursor, desc *behaviour.Description) error {
		line := c.Line()
		if err := c.Expect(keyword, "<"); err != nil {
			return err
		}
		id, err := c.ExpectIdentifier(keyword)
		if err != nil {
			return err
		}
		if err := c.Expect(keyword, ">"); err != nil {
			return err
		}
		blockKind := kind + ":" + id
		opts, err := ParseCodeBlockOptions(c, keyword)
		if err != nil {
			return err
		}
		if err := c.Expect(keyword, "{"); err != nil {
			return err
		}
		text, err := parseBracedBody(c, keyword)
		if err != nil {
			return err
		}
		targets := opts.TargetHypotheses(declaredHypotheses(desc))
		for _, h := range targets {
			data := desc.Data(h)
			if h != hypothesis.Undefined && !desc.HasSpecialisation(h) {
				data = desc.Specialise(h)
			}
			if data.HasCodeBlock(blockKind) {
				return mferr.New(mferr.DuplicateDeclaration, keyword,
					"%s<%s> already declared", keyword, id).At(c.File, line)
			}
			cb := data.CodeBlock(blockKind, c.Line())
			if err := cb.Insert(text, opts.Policy, opts.Position); err != nil {
				return err
			}
			data.DisableNewUserDefinedVariables()
		}
		return nil
	}
}

// brickHandler parses `@Brick "name" { options };` or `@Brick name;`,
// instantiates the named brick from the brick registry, lets it extend
// the keyword set (spec.md §4.3's keyword-extension lifecycle point, run
// immediately since later keywords in this same source may use it), and
// attaches it to desc for the two end-of-file hooks (spec.md §5). r is
// captured so the brick's ExtendKeywords callback can register directly
// into the same registry this source is being processed against.
func brickHandler(r *Registry) Handler {
	const handler = "@Brick"
	return func(c *Cursor, desc *behaviour.Description) error {
		name, err := brickOrInterfaceName(c, handler)
		if err != nil {
			return err
		}
		options := map[string]string{}
		if tok, ok := c.Peek(); ok && tok.Lexeme == "{" {
			c.Advance()
			body, err := parseBracedBody(c, handler)
			if err != nil {
				return err
			}
			options = parseKeyValueOptions(body)
		}
		if err := c.Expect(handler, ";"); err != nil {
			return err
		}
		b, err := brick.New(name, options)
		if err != nil {
			return err
		}
		b.ExtendKeywords(func(keyword string, kh brick.KeywordHandler) {
			r.Register(keyword, true, func(c *Cursor, desc *behaviour.Description) error {
				var args []string
				for {
					tok, ok := c.Peek()
					if !ok || tok.Lexeme == ";" {
						break
					}
					args = append(args, tok.Lexeme)
					c.Advance()
				}
				if err := c.Expect(keyword, ";"); err != nil {
					return err
				}
				return kh(desc, args)
			})
		})
		desc.AttachBrick(name, b)
		return nil
	}
}

// interfaceHandler parses `@Interface "name";` or `@Interface name;`,
// instantiates the named interface from the interface registry, and
// attaches it to desc for the single hand-off hook (spec.md §1
// Out-of-scope).
func interfaceHandler(c *Cursor, desc *behaviour.Description) error {
	const handler = "@Interface"
	name, err := brickOrInterfaceName(c, handler)
	if err != nil {
		return err
	}
	if err := c.Expect(handler, ";"); err != nil {
		return err
	}
	i, err := iface.New(name)
	if err != nil {
		return err
	}
	desc.AttachInterface(name, i)
	return nil
}

// brickOrInterfaceName reads either a quoted string or a bare identifier,
// the two forms spec.md §4.3's `@Brick "name" { options }` allows.
func brickOrInterfaceName(c *Cursor, handler string) (string, error) {
	if tok, ok := c.Peek(); ok && tok.Kind == token.StringLiteral {
		return c.ExpectString(handler)
	}
	return c.ExpectIdentifier(handler)
}

// parseKeyValueOptions splits a brace body of the form "key1 value1, key2
// value2" into a map, best-effort: brick option syntax is brick-specific
// and out of scope for the core (spec.md §1), this only recovers the
// common "name value" shape so a brick constructor has something to read.
func parseKeyValueOptions(body string) map[string]string {
	out := map[string]string{}
	for _, clause := range strings.Split(body, ",") {
		fields := strings.Fields(strings.TrimSpace(clause))
		if len(fields) >= 2 {
			out[fields[0]] = strings.Join(fields[1:], " ")
		} else if len(fields) == 1 && fields[0] != "" {
			out[fields[0]] = ""
		}
	}
	return out
}

// numericallyComputedJacobianBlocksHandler parses either a single variable
// name or a braced "{name1, name2, ...}" list, marking each named
// integration variable's Jacobian row as numerically computed (spec.md
// §4.5's mixed analytic/numerical scheme).
func numericallyComputedJacobianBlocksHandler(c *Cursor, desc *behaviour.Description) error {
	const handler = "@NumericallyComputedJacobianBlocks"
	data := desc.Umbrella()
	tok, ok := c.Peek()
	if !ok {
		return mferr.New(mferr.SyntaxError, handler, "expected a variable name or '{', found end of input").At(c.File, c.Line())
	}
	if tok.Lexeme == "{" {
		c.Advance()
		for {
			name, err := c.ExpectIdentifier(handler)
			if err != nil {
				return err
			}
			data.NumericalJacobianBlocks[name] = true
			tok, ok := c.Peek()
			if !ok {
				return mferr.New(mferr.SyntaxError, handler, "unterminated list, expected '}'").At(c.File, c.Line())
			}
			if tok.Lexeme == "," {
				c.Advance()
				continue
			}
			if tok.Lexeme == "}" {
				c.Advance()
				break
			}
			return mferr.New(mferr.SyntaxError, handler, "expected ',' or '}', found %q", tok.Lexeme).At(c.File, tok.Line)
		}
	} else {
		name, err := c.ExpectIdentifier(handler)
		if err != nil {
			return err
		}
		data.NumericalJacobianBlocks[name] = true
	}
	return c.Expect(handler, ";")
}

func singleStringOrWordsField(handler string, assign func(desc *behaviour.Description, value string)) Handler {
	return func(c *Cursor, desc *behaviour.Description) error {
		tok, ok := c.Peek()
		if !ok {
			return mferr.New(mferr.SyntaxError, handler, "expected a value, found end of input").At(c.File, c.Line())
		}
		if tok.Kind == token.StringLiteral {
			s, err := c.ExpectString(handler)
			if err != nil {
				return err
			}
			if err := c.Expect(handler, ";"); err != nil {
				return err
			}
			assign(desc, s)
			return nil
		}
		text, err := parseExpressionUntil(c, handler, ";")
		if err != nil {
			return err
		}
		if err := c.Expect(handler, ";"); err != nil {
			return err
		}
		assign(desc, text)
		return nil
	}
}

func modellingHypothesisHandler(multiple bool) Handler {
	return func(c *Cursor, desc *behaviour.Description) error {
		const handler = "@ModellingHypothesis"
		for {
			tok, ok := c.Peek()
			if !ok {
				return mferr.New(mferr.SyntaxError, handler, "unterminated hypothesis list").At(c.File, c.Line())
			}
			if tok.Lexeme == ".+" {
				c.Advance()
				for _, h := range hypothesis.ExpandWildcard(nil) {
					desc.Hypotheses[h] = true
				}
			} else {
				name, err := c.ExpectIdentifier(handler)
				if err != nil {
					return err
				}
				h, err := hypothesis.Parse(name)
				if err != nil {
					return err
				}
				desc.Hypotheses[h] = true
			}
			if !multiple {
				break
			}
			tok, ok = c.Peek()
			if ok && tok.Lexeme == "," {
				c.Advance()
				continue
			}
			break
		}
		return c.Expect(handler, ";")
	}
}

func mainVariableHandler(handler, kind string) Handler {
	return func(c *Cursor, desc *behaviour.Description) error {
		data := desc.Umbrella()
		typeName, err := c.ExpectIdentifier(handler)
		if err != nil {
			return err
		}
		name, err := c.ExpectIdentifier(handler)
		if err != nil {
			return err
		}
		if err := c.Expect(handler, ";"); err != nil {
			return err
		}
		v := behaviour.NewVariable(typeName, name, c.Line())
		if kind == "Gradient" {
			data.Pending.PushGradient(v)
		} else {
			data.Pending.PushThermodynamicForce(v)
		}
		if gradient, force, ok := data.Pending.Pop(); ok {
			return data.AddMainVariable(gradient, force, true)
		}
		return nil
	}
}

func variableListHandler(handler string, cat behaviour.Category, defaultType string) Handler {
	return func(c *Cursor, desc *behaviour.Description) error {
		vars, err := ParseVariableList(c, handler, defaultType)
		if err != nil {
			return err
		}
		data := desc.Umbrella()
		for _, v := range vars {
			if err := data.AddVariable(cat, v); err != nil {
				return err
			}
		}
		return nil
	}
}

func boundsHandler(handler string, physical bool) Handler {
	return func(c *Cursor, desc *behaviour.Description) error {
		name, err := c.ExpectIdentifier(handler)
		if err != nil {
			return err
		}
		v := lookupVariable(desc.Umbrella(), name)
		if v == nil {
			return mferr.New(mferr.UnknownEntity, handler, "variable %q is not declared", name)
		}
		if err := c.Expect(handler, "in"); err != nil {
			return err
		}
		b, err := parseBoundsRange(c, handler)
		if err != nil {
			return err
		}
		if err := c.Expect(handler, ";"); err != nil {
			return err
		}
		if physical {
			v.PhysicalBounds = b
		} else {
			v.Bounds = b
		}
		return nil
	}
}

// parseBoundsRange parses "[lo,hi]", "[lo:hi]", "[lo:*]" or "[*:hi]" style
// ranges (',' and ':' are both accepted as separator); '*' marks an
// unbounded endpoint (spec.md §4.3: "or half-open").
func parseBoundsRange(c *Cursor, handler string) (*behaviour.Bounds, error) {
	if err := c.Expect(handler, "["); err != nil {
		return nil, err
	}
	b := &behaviour.Bounds{}
	lowerTok, ok := c.Peek()
	if !ok {
		return nil, mferr.New(mferr.SyntaxError, handler, "unterminated bounds range").At(c.File, c.Line())
	}
	hasLower := lowerTok.Lexeme != "*"
	if hasLower {
		lo, err := c.ExpectNumber(handler)
		if err != nil {
			return nil, err
		}
		b.Lower = lo
	} else {
		c.Advance()
	}
	sep, ok := c.Advance()
	if !ok || (sep.Lexeme != ":" && sep.Lexeme != ",") {
		return nil, mferr.New(mferr.SyntaxError, handler, "expected ':' or ',' between bounds").At(c.File, c.Line())
	}
	upperTok, ok := c.Peek()
	if !ok {
		return nil, mferr.New(mferr.SyntaxError, handler, "unterminated bounds range").At(c.File, c.Line())
	}
	hasUpper := upperTok.Lexeme != "*"
	if hasUpper {
		hi, err := c.ExpectNumber(handler)
		if err != nil {
			return nil, err
		}
		b.Upper = hi
	} else {
		c.Advance()
	}
	if err := c.Expect(handler, "]"); err != nil {
		return nil, err
	}
	switch {
	case hasLower && hasUpper:
		b.Kind = behaviour.LowerAndUpperBound
	case hasLower:
		b.Kind = behaviour.LowerBound
	case hasUpper:
		b.Kind = behaviour.UpperBound
	default:
		return nil, mferr.New(mferr.InconsistentDeclaration, handler, "at least one bound endpoint must be given")
	}
	return b, nil
}

func orthotropicBehaviourHandler(c *Cursor, desc *behaviour.Description) error {
	const handler = "@OrthotropicBehaviour"
	desc.Symmetry = behaviour.Orthotropic
	if tok, ok := c.Peek(); ok && tok.Lexeme == "<" {
		c.Advance()
		name, err := c.ExpectIdentifier(handler)
		if err != nil {
			return err
		}
		switch name {
		case "Pipe":
			desc.AxesConvention = behaviour.PipeAxesConvention
		case "Plate":
			desc.AxesConvention = behaviour.PlateAxesConvention
		case "Default":
			desc.AxesConvention = behaviour.DefaultAxesConvention
		default:
			return mferr.New(mferr.UnknownEntity, handler, "unknown orthotropic axes convention %q", name)
		}
		if err := c.Expect(handler, ">"); err != nil {
			return err
		}
	}
	return c.Expect(handler, ";")
}

func numericParamHandler(handler string, apply func(desc *behaviour.Description, v float64) error) Handler {
	return func(c *Cursor, desc *behaviour.Description) error {
		v, err := c.ExpectNumber(handler)
		if err != nil {
			return err
		}
		if err := c.Expect(handler, ";"); err != nil {
			return err
		}
		return apply(desc, v)
	}
}

// codeBlockKind maps a code-block keyword to the kind string the behaviour
// data indexes code blocks by (spec.md §6).
func codeBlockKind(keyword string) string {
	return keyword[1:] // strip leading '@'
}

func codeBlockHandler(handler, kind string) Handler {
	return func(c *Cursor, desc *behaviour.Description) error {
		opts, err := ParseCodeBlockOptions(c, handler)
		if err != nil {
			return err
		}
		if err := c.Expect(handler, "{"); err != nil {
			return err
		}
		text, err := parseBracedBody(c, handler)
		if err != nil {
			return err
		}
		targets := opts.TargetHypotheses(declaredHypotheses(desc))
		for _, h := range targets {
			data := desc.Data(h)
			if h != hypothesis.Undefined && !desc.HasSpecialisation(h) {
				data = desc.Specialise(h)
			}
			cb := data.CodeBlock(kind, c.Line())
			if err := cb.Insert(text, opts.Policy, opts.Position); err != nil {
				return err
			}
			data.DisableNewUserDefinedVariables()
		}
		return nil
	}
}

// declaredHypotheses lists every hypothesis named by @ModellingHypothesis(es)
// so far, i.e. the set the ".+" wildcard in code-block options expands to.
func declaredHypotheses(desc *behaviour.Description) []hypothesis.Hypothesis {
	var out []hypothesis.Hypothesis
	for h := range desc.Hypotheses {
		out = append(out, h)
	}
	return out
}

// parseBracedBody consumes tokens up to the matching closing brace,
// tracking nesting depth, and returns the verbatim (whitespace-normalised)
// text. The opening '{' has already been consumed by the caller.
func parseBracedBody(c *Cursor, handler string) (string, error) {
	depth := 1
	var out string
	for {
		tok, ok := c.Peek()
		if !ok {
			return "", mferr.New(mferr.SyntaxError, handler, "unterminated code block, expected '}'").At(c.File, c.Line())
		}
		if tok.Lexeme == "{" {
			depth++
		}
		if tok.Lexeme == "}" {
			depth--
			if depth == 0 {
				c.Advance()
				return out, nil
			}
		}
		if out != "" {
			out += " "
		}
		out += tok.Lexeme
		c.Advance()
	}
}
