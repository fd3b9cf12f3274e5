package effects

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Expr is one term of an ffmpeg filter expression. Every term renders to the
// encoder's expression syntax and evaluates in Go at a playback time, so
// amplitudes, frequencies, and gating are testable without running ffmpeg.
type Expr interface {
	Render() string
	Eval(t float64) float64
}

type Const float64

func (c Const) Render() string {
	return num(float64(c))
}

func (c Const) Eval(t float64) float64 {
	return float64(c)
}

// SineTerm is amp*sin(2*PI*time*freq). TimeVar names playback seconds in the
// surrounding filter: "t" for most filters, "on/FPS" inside zoompan where
// only the output frame number is available.
type SineTerm struct {
	Amp     float64
	Freq    float64 // cycles per second
	TimeVar string
}

func (s SineTerm) Render() string {
	tv := s.TimeVar
	if tv == "" {
		tv = "t"
	}
	return fmt.Sprintf("%s*sin(2*PI*(%s)*%s)", num(s.Amp), tv, num(s.Freq))
}

func (s SineTerm) Eval(t float64) float64 {
	return s.Amp * math.Sin(2*math.Pi*t*s.Freq)
}

type Sum []Expr

func (s Sum) Render() string {
	parts := make([]string, len(s))
	for i, e := range s {
		parts[i] = e.Render()
	}
	return strings.Join(parts, "+")
}

func (s Sum) Eval(t float64) float64 {
	var total float64
	for _, e := range s {
		total += e.Eval(t)
	}
	return total
}

// Window is a closed time interval. An unbounded end (math.Inf(1)) renders as
// a gte() check; the output duration cap bounds it in practice.
type Window struct {
	Start float64
	End   float64
}

func (w Window) render() string {
	switch {
	case math.IsInf(w.End, 1):
		return fmt.Sprintf("if(gte(t,%s),1,0)", num(w.Start))
	case w.Start <= 0:
		return fmt.Sprintf("if(lte(t,%s),1,0)", num(w.End))
	default:
		return fmt.Sprintf("if(between(t,%s,%s),1,0)", num(w.Start), num(w.End))
	}
}

func (w Window) contains(t float64) bool {
	return t >= w.Start && t <= w.End
}

// Gate multiplies an inner expression by indicator windows: the result is the
// inner value inside any window and zero elsewhere.
type Gate struct {
	Windows []Window
	Inner   Expr
}

func (g Gate) Render() string {
	parts := make([]string, len(g.Windows))
	for i, w := range g.Windows {
		parts[i] = w.render()
	}
	return fmt.Sprintf("(%s)*(%s)", strings.Join(parts, "+"), g.Inner.Render())
}

func (g Gate) Eval(t float64) float64 {
	var indicator float64
	for _, w := range g.Windows {
		if w.contains(t) {
			indicator++
		}
	}
	return indicator * g.Inner.Eval(t)
}

// Enable renders windows as a filter enable predicate, a separate expression
// from any Gate sharing the same windows.
type Enable []Window

func (e Enable) Render() string {
	parts := make([]string, len(e))
	for i, w := range e {
		parts[i] = fmt.Sprintf("between(t,%s,%s)", num(w.Start), num(w.End))
	}
	return strings.Join(parts, "+")
}

func (e Enable) Active(t float64) bool {
	for _, w := range e {
		if w.contains(t) {
			return true
		}
	}
	return false
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
