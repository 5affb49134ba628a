package recurrent

import "math/rand/v2"

/*
Linear is an affine map y = W x + b. Bias is nil for bias-free projections.
*/
type Linear struct {
	Weight *Mat // out x in
	Bias   *Mat // out x 1
}

/*
NewLinear registers a Xavier-initialized weight under prefix+".weight" and,
when withBias is set, a U[0,1) bias under prefix+".bias".
*/
func NewLinear(ps *ParamSet, prefix string, in int, out int, withBias bool, src rand.Source) *Linear {
	l := &Linear{Weight: ps.Add(prefix+".weight", NewMat(out, in))}
	XavierUniform(l.Weight, src)
	if withBias {
		l.Bias = ps.Add(prefix+".bias", RandMat(out, 1, 0, 1, src))
	}
	return l
}

/*
Forward applies the map to the column vector x.
*/
func (l *Linear) Forward(g *Graph, x *Mat) *Mat {
	y := g.Mul(l.Weight, x)
	if l.Bias != nil {
		y = g.Add(y, l.Bias)
	}
	return y
}
