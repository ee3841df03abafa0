package reduce

// Poly is a polynomial of degree N with coefficients stored as signed int32.
type Poly [N]int32

// Reduce applies Reduce32 to every coefficient.
func (p *Poly) Reduce() {
	for i := range p {
		p[i] = Reduce32(p[i])
	}
}

// CAddQ applies CAddQ to every coefficient.
func (p *Poly) CAddQ() {
	for i := range p {
		p[i] = CAddQ(p[i])
	}
}

// Freeze maps every coefficient to its canonical representative in [0, Q).
func (p *Poly) Freeze() {
	for i := range p {
		p[i] = Freeze(p[i])
	}
}

// Add evaluates p = a + b without reduction.
func (p *Poly) Add(a, b *Poly) {
	for i := range p {
		p[i] = a[i] + b[i]
	}
}

// Sub evaluates p = a - b without reduction.
func (p *Poly) Sub(a, b *Poly) {
	for i := range p {
		p[i] = a[i] - b[i]
	}
}

// CheckNorm returns true if the infinity norm of p is at least bound, or if
// bound > (Q-1)/8. The coefficients must be the output of Reduce.
//
// The running time does not depend on the value of the coefficients, only
// on the index of the first one exceeding the bound.
func (p *Poly) CheckNorm(bound int32) bool {

	if bound > (Q-1)/8 {
		return true
	}

	for i := range p {
		// absolute value without branching
		t := p[i] >> 31
		t = p[i] - (t & (2 * p[i]))

		if t >= bound {
			return true
		}
	}

	return false
}
