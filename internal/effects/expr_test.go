package effects

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSineTermRender(t *testing.T) {
	s := SineTerm{Amp: 0.006, Freq: 0.2}
	assert.Equal(t, "0.006*sin(2*PI*(t)*0.2)", s.Render())

	s = SineTerm{Amp: 10, Freq: 0.6, TimeVar: "on/30"}
	assert.Equal(t, "10*sin(2*PI*(on/30)*0.6)", s.Render())
}

func TestSineTermEval(t *testing.T) {
	s := SineTerm{Amp: 2, Freq: 1} // one cycle per second
	assert.InDelta(t, 0, s.Eval(0), 1e-12)
	assert.InDelta(t, 2, s.Eval(0.25), 1e-12)
	assert.InDelta(t, 0, s.Eval(0.5), 1e-12)
	assert.InDelta(t, -2, s.Eval(0.75), 1e-12)
}

func TestSumRenderAndEval(t *testing.T) {
	s := Sum{Const(1.01), SineTerm{Amp: 0.01, Freq: 0.125}}
	assert.Equal(t, "1.01+0.01*sin(2*PI*(t)*0.125)", s.Render())
	assert.InDelta(t, 1.01, s.Eval(0), 1e-12)
}

func TestWindowRenderForms(t *testing.T) {
	assert.Equal(t, "if(lte(t,0.5),1,0)", Window{Start: 0, End: 0.5}.render())
	assert.Equal(t, "if(gte(t,4.5),1,0)", Window{Start: 4.5, End: math.Inf(1)}.render())
	assert.Equal(t, "if(between(t,1,2),1,0)", Window{Start: 1, End: 2}.render())

	// An unbounded window that also starts at zero must render as a gte()
	// check; the expression language has no Inf literal.
	assert.Equal(t, "if(gte(t,0),1,0)", Window{Start: 0, End: math.Inf(1)}.render())
}

func TestGateZeroOutsideWindows(t *testing.T) {
	g := Gate{
		Windows: []Window{{Start: 0, End: 0.5}, {Start: 4.5, End: math.Inf(1)}},
		Inner:   Const(3),
	}

	assert.Equal(t, 3.0, g.Eval(0.2))
	assert.Equal(t, 3.0, g.Eval(4.8))
	assert.Equal(t, 0.0, g.Eval(0.6))
	assert.Equal(t, 0.0, g.Eval(2.5))
	assert.Equal(t, 0.0, g.Eval(4.4))
}

func TestGateRender(t *testing.T) {
	g := Gate{
		Windows: []Window{{Start: 0, End: 0.5}, {Start: 4.5, End: math.Inf(1)}},
		Inner:   SineTerm{Amp: 0.008, Freq: 1},
	}
	assert.Equal(t, "(if(lte(t,0.5),1,0)+if(gte(t,4.5),1,0))*(0.008*sin(2*PI*(t)*1))", g.Render())
}

func TestEnableRenderAndActive(t *testing.T) {
	e := Enable{{Start: 0, End: 0.5}, {Start: 4.5, End: 5}}
	assert.Equal(t, "between(t,0,0.5)+between(t,4.5,5)", e.Render())

	assert.True(t, e.Active(0))
	assert.True(t, e.Active(0.5))
	assert.True(t, e.Active(4.7))
	assert.False(t, e.Active(0.51))
	assert.False(t, e.Active(2.5))
	assert.False(t, e.Active(4.49))
}
