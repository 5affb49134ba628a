package recurrent

/*
Param is a named trainable matrix.
*/
type Param struct {
	Name string
	*Mat
}

/*
ParamSet holds trainable matrices in registration order. Anything outside a
ParamSet is never seen by a Solver.
*/
type ParamSet struct {
	params []Param
	index  map[string]int
}

/*
NewParamSet instantiates an empty ParamSet.
*/
func NewParamSet() *ParamSet {
	return &ParamSet{index: make(map[string]int)}
}

/*
Add registers m under name and returns it.
*/
func (ps *ParamSet) Add(name string, m *Mat) *Mat {
	_, exists := ps.index[name]
	Assert(!exists, "duplicate parameter "+name)

	ps.index[name] = len(ps.params)
	ps.params = append(ps.params, Param{Name: name, Mat: m})
	return m
}

/*
Get returns the matrix registered under name, or nil.
*/
func (ps *ParamSet) Get(name string) *Mat {
	i, ok := ps.index[name]
	if !ok {
		return nil
	}
	return ps.params[i].Mat
}

/*
All returns the parameters in registration order.
*/
func (ps *ParamSet) All() []Param {
	out := make([]Param, len(ps.params))
	copy(out, ps.params)
	return out
}

/*
Size is the total number of scalars across all parameters.
*/
func (ps *ParamSet) Size() int {
	total := 0
	for _, p := range ps.params {
		total += p.Size()
	}
	return total
}

/*
ZeroGrad clears the gradients of every parameter.
*/
func (ps *ParamSet) ZeroGrad() {
	for _, p := range ps.params {
		p.ZeroGrad()
	}
}
