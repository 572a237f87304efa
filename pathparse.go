package bota

import (
	"fmt"
	"math"
	"strconv"
)

// ParsePath parses SVG path data ("d" attribute grammar) into a Path.
//
// Supported commands: M L H V C S Q T A Z in absolute and relative form,
// implicit command repetition, implicit lineto after moveto, exponents and
// compact number forms such as "1.5.5" and "-1-2". Elliptical arcs are
// converted to cubic curves. Any syntax error yields a *MalformedPathError.
func ParsePath(d string) (*Path, error) {
	p := pathParser{s: d}
	segs, err := p.parse()
	if err != nil {
		return nil, err
	}
	return NewPath(segs), nil
}

type pathParser struct {
	s string
	i int

	segs  []Segment
	pen   Vec2
	start Vec2
	ctrl  Vec2 // last control point, for S and T reflection
	prev  byte // previous command, uppercased
}

func (p *pathParser) fail(off int, format string, args ...any) error {
	return &MalformedPathError{Offset: off, Reason: fmt.Sprintf(format, args...)}
}

func (p *pathParser) parse() ([]Segment, error) {
	var cmd byte
	for {
		p.skipSpace()
		if p.i >= len(p.s) {
			break
		}
		c := p.s[p.i]
		switch {
		case isPathCommand(c):
			cmd = c
			p.i++
		case isNumberStart(c):
			switch cmd {
			case 0:
				return nil, p.fail(p.i, "expected command, found %q", c)
			case 'Z', 'z':
				return nil, p.fail(p.i, "unexpected number after closepath")
			case 'M':
				cmd = 'L'
			case 'm':
				cmd = 'l'
			}
		default:
			return nil, p.fail(p.i, "unexpected character %q", c)
		}
		if err := p.command(cmd); err != nil {
			return nil, err
		}
	}
	return p.segs, nil
}

func isPathCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c',
		'S', 's', 'Q', 'q', 'T', 't', 'A', 'a', 'Z', 'z':
		return true
	}
	return false
}

func isNumberStart(c byte) bool {
	return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.'
}

// command consumes the arguments of one command instance.
func (p *pathParser) command(cmd byte) error {
	rel := cmd >= 'a' && cmd <= 'z'
	upper := cmd
	if rel {
		upper = cmd - ('a' - 'A')
	}

	var base Vec2
	if rel {
		base = p.pen
	}

	switch upper {
	case 'M':
		pt, err := p.point(base)
		if err != nil {
			return err
		}
		p.emit(SegMoveTo, pt)
		p.pen, p.start, p.ctrl = pt, pt, pt

	case 'L':
		pt, err := p.point(base)
		if err != nil {
			return err
		}
		p.lineTo(pt)

	case 'H':
		x, err := p.number()
		if err != nil {
			return err
		}
		p.lineTo(Vec2{X: x + base.X, Y: p.pen.Y})

	case 'V':
		y, err := p.number()
		if err != nil {
			return err
		}
		p.lineTo(Vec2{X: p.pen.X, Y: y + base.Y})

	case 'C':
		pts, err := p.points(base, 3)
		if err != nil {
			return err
		}
		p.emit(SegCubicTo, pts...)
		p.ctrl, p.pen = pts[1], pts[2]

	case 'S':
		c1 := p.pen
		if p.prev == 'C' || p.prev == 'S' {
			c1 = reflect(p.ctrl, p.pen)
		}
		pts, err := p.points(base, 2)
		if err != nil {
			return err
		}
		p.emit(SegCubicTo, c1, pts[0], pts[1])
		p.ctrl, p.pen = pts[0], pts[1]

	case 'Q':
		pts, err := p.points(base, 2)
		if err != nil {
			return err
		}
		p.emit(SegQuadTo, pts...)
		p.ctrl, p.pen = pts[0], pts[1]

	case 'T':
		c := p.pen
		if p.prev == 'Q' || p.prev == 'T' {
			c = reflect(p.ctrl, p.pen)
		}
		pt, err := p.point(base)
		if err != nil {
			return err
		}
		p.emit(SegQuadTo, c, pt)
		p.ctrl, p.pen = c, pt

	case 'A':
		if err := p.arc(base); err != nil {
			return err
		}

	case 'Z':
		p.segs = append(p.segs, Segment{Kind: SegClose})
		p.pen, p.ctrl = p.start, p.start
	}

	p.prev = upper
	return nil
}

func (p *pathParser) emit(kind SegmentKind, pts ...Vec2) {
	s := Segment{Kind: kind}
	copy(s.P[:], pts)
	p.segs = append(p.segs, s)
}

func (p *pathParser) lineTo(pt Vec2) {
	p.emit(SegLineTo, pt)
	p.pen, p.ctrl = pt, pt
}

func reflect(ctrl, about Vec2) Vec2 {
	return Vec2{X: 2*about.X - ctrl.X, Y: 2*about.Y - ctrl.Y}
}

func (p *pathParser) arc(base Vec2) error {
	var args [5]float64
	for k := 0; k < 3; k++ {
		v, err := p.number()
		if err != nil {
			return err
		}
		args[k] = v
	}
	for k := 3; k < 5; k++ {
		f, err := p.flag()
		if err != nil {
			return err
		}
		args[k] = f
	}
	end, err := p.point(base)
	if err != nil {
		return err
	}

	for _, c := range arcToCubics(p.pen, args[0], args[1], args[2], args[3] != 0, args[4] != 0, end) {
		p.emit(SegCubicTo, c[0], c[1], c[2])
	}
	if p.pen == end {
		return nil
	}
	if args[0] == 0 || args[1] == 0 {
		p.emit(SegLineTo, end)
	}
	p.pen, p.ctrl = end, end
	return nil
}

func (p *pathParser) skipSpace() {
	for p.i < len(p.s) {
		switch p.s[p.i] {
		case ' ', '\t', '\n', '\r', '\f':
			p.i++
		default:
			return
		}
	}
}

// skipSeparator skips whitespace and at most one comma.
func (p *pathParser) skipSeparator() {
	p.skipSpace()
	if p.i < len(p.s) && p.s[p.i] == ',' {
		p.i++
		p.skipSpace()
	}
}

func (p *pathParser) point(base Vec2) (Vec2, error) {
	x, err := p.number()
	if err != nil {
		return Vec2{}, err
	}
	y, err := p.number()
	if err != nil {
		return Vec2{}, err
	}
	return Vec2{X: x + base.X, Y: y + base.Y}, nil
}

func (p *pathParser) points(base Vec2, n int) ([]Vec2, error) {
	pts := make([]Vec2, n)
	for k := range pts {
		pt, err := p.point(base)
		if err != nil {
			return nil, err
		}
		pts[k] = pt
	}
	return pts, nil
}

// number scans one SVG number: sign, digits, fraction, exponent.
func (p *pathParser) number() (float64, error) {
	p.skipSeparator()
	begin := p.i
	s := p.s
	i := p.i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		if begin >= len(s) {
			return 0, p.fail(begin, "unexpected end of data, expected number")
		}
		return 0, p.fail(begin, "expected number, found %q", s[begin])
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expDigits := 0
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
			expDigits++
		}
		if expDigits > 0 {
			i = j
		}
	}
	v, err := strconv.ParseFloat(s[begin:i], 64)
	if err != nil {
		return 0, p.fail(begin, "invalid number %q", s[begin:i])
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, p.fail(begin, "number out of range %q", s[begin:i])
	}
	p.i = i
	return v, nil
}

// flag scans an arc flag, which may be packed without separators ("11").
func (p *pathParser) flag() (float64, error) {
	p.skipSeparator()
	if p.i >= len(p.s) {
		return 0, p.fail(p.i, "unexpected end of data, expected arc flag")
	}
	switch p.s[p.i] {
	case '0':
		p.i++
		return 0, nil
	case '1':
		p.i++
		return 1, nil
	}
	return 0, p.fail(p.i, "invalid arc flag %q", p.s[p.i])
}

// arcToCubics converts an SVG elliptical arc into cubic segments of at most
// a quarter turn each. Each element holds control1, control2, end.
func arcToCubics(from Vec2, rx, ry, xRotDeg float64, largeArc, sweep bool, to Vec2) [][3]Vec2 {
	if from == to || rx == 0 || ry == 0 {
		return nil
	}
	rx, ry = math.Abs(rx), math.Abs(ry)

	phi := xRotDeg * math.Pi / 180
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)

	dx := (from.X - to.X) / 2
	dy := (from.Y - to.Y) / 2
	x1p := cosPhi*dx + sinPhi*dy
	y1p := -sinPhi*dx + cosPhi*dy

	lambda := (x1p*x1p)/(rx*rx) + (y1p*y1p)/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	rxSq, rySq := rx*rx, ry*ry
	denom := rxSq*y1p*y1p + rySq*x1p*x1p
	if denom == 0 {
		return nil
	}
	num := rxSq*rySq - denom
	if num < 0 {
		num = 0
	}
	sq := math.Sqrt(num / denom)
	if largeArc == sweep {
		sq = -sq
	}
	cxp := sq * rx * y1p / ry
	cyp := -sq * ry * x1p / rx

	cx := cosPhi*cxp - sinPhi*cyp + (from.X+to.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (from.Y+to.Y)/2

	theta1 := vectorAngle(1, 0, (x1p-cxp)/rx, (y1p-cyp)/ry)
	dTheta := vectorAngle((x1p-cxp)/rx, (y1p-cyp)/ry, (-x1p-cxp)/rx, (-y1p-cyp)/ry)
	if !sweep && dTheta > 0 {
		dTheta -= 2 * math.Pi
	} else if sweep && dTheta < 0 {
		dTheta += 2 * math.Pi
	}

	n := int(math.Ceil(math.Abs(dTheta) / (math.Pi / 2)))
	if n < 1 {
		n = 1
	}
	step := dTheta / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	// point on the ellipse and its derivative at angle t
	at := func(t float64) (Vec2, Vec2) {
		cos, sin := math.Cos(t), math.Sin(t)
		p := Vec2{
			X: cx + rx*cos*cosPhi - ry*sin*sinPhi,
			Y: cy + rx*cos*sinPhi + ry*sin*cosPhi,
		}
		d := Vec2{
			X: -rx*sin*cosPhi - ry*cos*sinPhi,
			Y: -rx*sin*sinPhi + ry*cos*cosPhi,
		}
		return p, d
	}

	out := make([][3]Vec2, 0, n)
	t := theta1
	_, d0 := at(t)
	p0 := from
	for i := 0; i < n; i++ {
		t2 := t + step
		p1, d1 := at(t2)
		if i == n-1 {
			p1 = to
		}
		out = append(out, [3]Vec2{
			{X: p0.X + k*d0.X, Y: p0.Y + k*d0.Y},
			{X: p1.X - k*d1.X, Y: p1.Y - k*d1.Y},
			p1,
		})
		t, p0, d0 = t2, p1, d1
	}
	return out
}

func vectorAngle(ux, uy, vx, vy float64) float64 {
	lenU := math.Hypot(ux, uy)
	lenV := math.Hypot(vx, vy)
	if lenU == 0 || lenV == 0 {
		return 0
	}
	cos := clamp((ux*vx+uy*vy)/(lenU*lenV), -1, 1)
	a := math.Acos(cos)
	if ux*vy-uy*vx < 0 {
		a = -a
	}
	return a
}
