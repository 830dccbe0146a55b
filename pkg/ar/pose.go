package ar

import "math"

// Vector3 is a position in metres.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Quaternion is a unit rotation, w being the real part.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

func IdentityQuaternion() Quaternion {
	return Quaternion{W: 1}
}

// Mul returns the Hamilton product q*r (apply r first, then q).
func (q Quaternion) Mul(r Quaternion) Quaternion {
	return Quaternion{
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalize returns q scaled to unit length. The zero quaternion maps to identity.
func (q Quaternion) Normalize() Quaternion {
	n := q.Norm()
	if n == 0 {
		return IdentityQuaternion()
	}
	return Quaternion{X: q.X / n, Y: q.Y / n, Z: q.Z / n, W: q.W / n}
}

// Rotate applies the rotation to v.
func (q Quaternion) Rotate(v Vector3) Vector3 {
	p := Quaternion{X: v.X, Y: v.Y, Z: v.Z}
	r := q.Mul(p).Mul(q.Conjugate())
	return Vector3{X: r.X, Y: r.Y, Z: r.Z}
}

// Pose is a rigid transform: a position and an orientation in some reference space.
type Pose struct {
	Position    Vector3    `json:"position"`
	Orientation Quaternion `json:"orientation"`
}

func IdentityPose() Pose {
	return Pose{Orientation: IdentityQuaternion()}
}

// Compose expresses child (given relative to p) in the space p is expressed in.
func (p Pose) Compose(child Pose) Pose {
	q := p.Orientation.Normalize()
	return Pose{
		Position:    p.Position.Add(q.Rotate(child.Position)),
		Orientation: q.Mul(child.Orientation.Normalize()).Normalize(),
	}
}

// Inverse returns the transform that undoes p.
func (p Pose) Inverse() Pose {
	inv := p.Orientation.Normalize().Conjugate()
	return Pose{
		Position:    inv.Rotate(p.Position.Scale(-1)),
		Orientation: inv,
	}
}

// ApproxEqual reports whether two poses match within eps per component.
// q and -q encode the same rotation and compare equal.
func (p Pose) ApproxEqual(o Pose, eps float64) bool {
	near := func(a, b float64) bool { return math.Abs(a-b) <= eps }
	if !near(p.Position.X, o.Position.X) || !near(p.Position.Y, o.Position.Y) || !near(p.Position.Z, o.Position.Z) {
		return false
	}
	a, b := p.Orientation.Normalize(), o.Orientation.Normalize()
	dot := a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
	return near(math.Abs(dot), 1)
}
