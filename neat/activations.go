package neat

import (
	"fmt"
	"math"
)

// ActivationType computes a HIDDEN node's output from its aggregated,
// response-scaled, bias-shifted input (§3: activator(aggregator(inputs) *
// response + bias)). The variadic params slot exists so functions that take
// extra tuning constants share the same signature as ones that don't.
type ActivationType func(input float64, params ...float64) float64

// ActivationFunctions maps the §6 activation_options/activation_default
// config names to their implementations.
var ActivationFunctions = map[string]ActivationType{
	"sigmoid":  Sigmoid,
	"tanh":     Tanh,
	"relu":     ReLU,
	"identity": Identity,
	"clamped":  Clamped,
	"gaussian": Gaussian,
	"absolute": Absolute,
	"sine":     Sine,
	"cosine":   Cosine,
	"inv":      Inv,
	"log":      Log,
	"exp":      Exp,
	"abs":      Absolute, // alias
	"hat":      Hat,
	"square":   Square,
	"cube":     Cube,
}

// GetActivation retrieves an activation function by name.
func GetActivation(name string) (ActivationType, error) {
	if fn, ok := ActivationFunctions[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown activation function: %s", name)
}

// sigmoidSteepness is the logistic curve's steepness constant k in
// 1/(1+exp(-k*x)); response scales the pre-activation sum separately, so
// this stays a fixed constant rather than a configurable parameter.
const sigmoidSteepness = 4.9

// Sigmoid is the standard logistic sigmoid, steepened by sigmoidSteepness.
func Sigmoid(x float64, params ...float64) float64 {
	return 1.0 / (1.0 + math.Exp(-sigmoidSteepness*x))
}

// Tanh is the hyperbolic tangent.
func Tanh(x float64, params ...float64) float64 {
	return math.Tanh(x)
}

// ReLU is the rectified linear unit, max(0, x).
func ReLU(x float64, params ...float64) float64 {
	return math.Max(0, x)
}

// Identity returns x unchanged.
func Identity(x float64, params ...float64) float64 {
	return x
}

// Clamped returns x clamped to [-1, 1].
func Clamped(x float64, params ...float64) float64 {
	return clamp(x, -1.0, 1.0)
}

// Gaussian is exp(-x^2/2), an unnormalized bell curve centered at 0.
func Gaussian(x float64, params ...float64) float64 {
	return math.Exp(-x * x / 2.0)
}

// Absolute returns |x|.
func Absolute(x float64, params ...float64) float64 {
	return math.Abs(x)
}

// Sine is math.Sin.
func Sine(x float64, params ...float64) float64 {
	return math.Sin(x)
}

// Cosine is math.Cos.
func Cosine(x float64, params ...float64) float64 {
	return math.Cos(x)
}

// Inv returns 1/x, or 0 for x == 0 rather than propagating +-Inf/NaN into
// the network.
func Inv(x float64, params ...float64) float64 {
	if x == 0.0 {
		return 0.0
	}
	return 1.0 / x
}

// logEpsilon floors Log's argument so x <= 0 returns a large negative
// finite value instead of -Inf or NaN.
const logEpsilon = 1e-9

// Log is the natural logarithm, floored at logEpsilon for non-positive x.
func Log(x float64, params ...float64) float64 {
	return math.Log(math.Max(logEpsilon, x))
}

// expClampBound bounds Exp's input so large pre-activation sums saturate
// instead of overflowing to +Inf.
const expClampBound = 60.0

// Exp is e^x, with x clamped to +-expClampBound first.
func Exp(x float64, params ...float64) float64 {
	return math.Exp(clamp(x, -expClampBound, expClampBound))
}

// Hat is a triangular pulse centered at 0, zero outside [-1, 1].
func Hat(x float64, params ...float64) float64 {
	return math.Max(0.0, 1.0-math.Abs(x))
}

// Square returns x^2.
func Square(x float64, params ...float64) float64 {
	return x * x
}

// Cube returns x^3.
func Cube(x float64, params ...float64) float64 {
	return x * x * x
}
