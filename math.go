package playrho

import (
	"math"

	"github.com/setanarut/vec"
)

// IsValid reports whether a floating point number is neither NaN nor infinity.
func IsValid(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Vec2IsValid reports whether both components are finite.
func Vec2IsValid(v vec.Vec2) bool {
	return IsValid(v.X) && IsValid(v.Y)
}

// Vec2Zero is the zero vector.
var Vec2Zero = vec.Vec2{}

// Rot is a rotation stored as a sine/cosine pair.
type Rot struct {
	S, C float64
}

// MakeRot returns the identity rotation.
func MakeRot() Rot {
	return Rot{S: 0.0, C: 1.0}
}

// MakeRotFromAngle initializes from an angle in radians.
func MakeRotFromAngle(anglerad float64) Rot {
	return Rot{
		S: math.Sin(anglerad),
		C: math.Cos(anglerad),
	}
}

// Set sets the rotation from an angle in radians.
func (r *Rot) Set(anglerad float64) {
	r.S = math.Sin(anglerad)
	r.C = math.Cos(anglerad)
}

// SetIdentity sets the identity rotation.
func (r *Rot) SetIdentity() {
	r.S = 0.0
	r.C = 1.0
}

// GetAngle returns the angle in radians.
func (r Rot) GetAngle() float64 {
	return math.Atan2(r.S, r.C)
}

// GetXAxis returns the rotated x-axis.
func (r Rot) GetXAxis() vec.Vec2 {
	return vec.Vec2{X: r.C, Y: r.S}
}

// GetYAxis returns the rotated y-axis.
func (r Rot) GetYAxis() vec.Vec2 {
	return vec.Vec2{X: -r.S, Y: r.C}
}

// Transform contains translation and rotation. It is used to represent
// the position and orientation of rigid frames.
type Transform struct {
	P vec.Vec2
	Q Rot
}

func MakeTransform() Transform {
	return Transform{Q: MakeRot()}
}

func MakeTransformFromPositionAndRotation(position vec.Vec2, rotation Rot) Transform {
	return Transform{P: position, Q: rotation}
}

// SetIdentity sets this to the identity transform.
func (t *Transform) SetIdentity() {
	t.P = vec.Vec2{}
	t.Q.SetIdentity()
}

// Set sets this based on a position and an angle in radians.
func (t *Transform) Set(position vec.Vec2, anglerad float64) {
	t.P = position
	t.Q.Set(anglerad)
}

// Sweep describes the motion of a body origin through a step. Shapes are
// defined with respect to the body origin, which may not coincide with the
// center of mass; dynamics interpolates the center of mass position.
type Sweep struct {
	LocalCenter vec.Vec2 // local center of mass position
	C0, C       vec.Vec2 // center world positions
	A0, A       float64  // world angles

	// Fraction of the current time step in the range [0,1].
	// C0 and A0 are the positions at Alpha0.
	Alpha0 float64
}

// GetTransform interpolates the sweep transform at the given time,
// with beta in [0,1].
func (sweep Sweep) GetTransform(xf *Transform, beta float64) {
	xf.P = sweep.C0.Scale(1.0 - beta).Add(sweep.C.Scale(beta))
	xf.Q.Set((1.0-beta)*sweep.A0 + beta*sweep.A)

	// Shift to origin
	xf.P = xf.P.Sub(RotVec2Mul(xf.Q, sweep.LocalCenter))
}

// Advance advances the sweep forward, yielding a new initial state.
func (sweep *Sweep) Advance(alpha float64) {
	assert(sweep.Alpha0 < 1.0)
	beta := (alpha - sweep.Alpha0) / (1.0 - sweep.Alpha0)
	sweep.C0 = sweep.C0.Add(sweep.C.Sub(sweep.C0).Scale(beta))
	sweep.A0 += beta * (sweep.A - sweep.A0)
	sweep.Alpha0 = alpha
}

// Normalize normalizes the angles to be between -pi and pi.
func (sweep *Sweep) Normalize() {
	twoPi := 2.0 * math.Pi
	d := twoPi * math.Floor(sweep.A0/twoPi)
	sweep.A0 -= d
	sweep.A -= d
}

// Vec3 is a 2D column vector with 3 elements.
type Vec3 struct {
	X, Y, Z float64
}

func MakeVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v *Vec3) SetZero() {
	v.X, v.Y, v.Z = 0.0, 0.0, 0.0
}

func (v Vec3) Neg() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

func Vec3Add(a, b Vec3) Vec3 {
	return Vec3{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z}
}

func Vec3Sub(a, b Vec3) Vec3 {
	return Vec3{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}

func Vec3MulScalar(s float64, a Vec3) Vec3 {
	return Vec3{X: s * a.X, Y: s * a.Y, Z: s * a.Z}
}

func Vec3Dot(a, b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func Vec3Cross(a, b Vec3) Vec3 {
	return Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

// Mat22 is a 2-by-2 matrix stored in column-major order.
type Mat22 struct {
	Ex, Ey vec.Vec2
}

func MakeMat22FromColumns(c1, c2 vec.Vec2) Mat22 {
	return Mat22{Ex: c1, Ey: c2}
}

func MakeMat22FromScalars(a11, a12, a21, a22 float64) Mat22 {
	return Mat22{
		Ex: vec.Vec2{X: a11, Y: a21},
		Ey: vec.Vec2{X: a12, Y: a22},
	}
}

func (m *Mat22) SetZero() {
	m.Ex = vec.Vec2{}
	m.Ey = vec.Vec2{}
}

func (m Mat22) GetInverse() Mat22 {
	a := m.Ex.X
	b := m.Ey.X
	c := m.Ex.Y
	d := m.Ey.Y

	det := a*d - b*c
	if det != 0.0 {
		det = 1.0 / det
	}

	return Mat22{
		Ex: vec.Vec2{X: det * d, Y: -det * c},
		Ey: vec.Vec2{X: -det * b, Y: det * a},
	}
}

// Solve solves A * x = b, where b is a column vector. This is more
// efficient than computing the inverse in one-shot cases.
func (m Mat22) Solve(b vec.Vec2) vec.Vec2 {
	a11 := m.Ex.X
	a12 := m.Ey.X
	a21 := m.Ex.Y
	a22 := m.Ey.Y
	det := a11*a22 - a12*a21

	if det != 0.0 {
		det = 1.0 / det
	}

	return vec.Vec2{
		X: det * (a22*b.X - a12*b.Y),
		Y: det * (a11*b.Y - a21*b.X),
	}
}

// Mat33 is a 3-by-3 matrix stored in column-major order.
type Mat33 struct {
	Ex, Ey, Ez Vec3
}

func (m *Mat33) SetZero() {
	m.Ex.SetZero()
	m.Ey.SetZero()
	m.Ez.SetZero()
}

// Solve33 solves A * x = b, where b is a column vector.
func (m Mat33) Solve33(b Vec3) Vec3 {
	det := Vec3Dot(m.Ex, Vec3Cross(m.Ey, m.Ez))
	if det != 0.0 {
		det = 1.0 / det
	}

	return Vec3{
		X: det * Vec3Dot(b, Vec3Cross(m.Ey, m.Ez)),
		Y: det * Vec3Dot(m.Ex, Vec3Cross(b, m.Ez)),
		Z: det * Vec3Dot(m.Ex, Vec3Cross(m.Ey, b)),
	}
}

// Solve22 solves A * x = b over the 2-by-2 upper-left block of the matrix.
func (m Mat33) Solve22(b vec.Vec2) vec.Vec2 {
	a11 := m.Ex.X
	a12 := m.Ey.X
	a21 := m.Ex.Y
	a22 := m.Ey.Y

	det := a11*a22 - a12*a21
	if det != 0.0 {
		det = 1.0 / det
	}

	return vec.Vec2{
		X: det * (a22*b.X - a12*b.Y),
		Y: det * (a11*b.Y - a21*b.X),
	}
}

// GetInverse22 writes the inverse of the 2-by-2 upper-left block to M,
// zeroing the rest.
func (m Mat33) GetInverse22(M *Mat33) {
	a := m.Ex.X
	b := m.Ey.X
	c := m.Ex.Y
	d := m.Ey.Y

	det := a*d - b*c
	if det != 0.0 {
		det = 1.0 / det
	}

	M.Ex = Vec3{X: det * d, Y: -det * c}
	M.Ey = Vec3{X: -det * b, Y: det * a}
	M.Ez = Vec3{}
}

// GetSymInverse33 writes the symmetric inverse to M.
// Yields the zero matrix if singular.
func (m Mat33) GetSymInverse33(M *Mat33) {
	det := Vec3Dot(m.Ex, Vec3Cross(m.Ey, m.Ez))
	if det != 0.0 {
		det = 1.0 / det
	}

	a11 := m.Ex.X
	a12 := m.Ey.X
	a13 := m.Ez.X
	a22 := m.Ey.Y
	a23 := m.Ez.Y
	a33 := m.Ez.Z

	M.Ex.X = det * (a22*a33 - a23*a23)
	M.Ex.Y = det * (a13*a23 - a12*a33)
	M.Ex.Z = det * (a12*a23 - a13*a22)

	M.Ey.X = M.Ex.Y
	M.Ey.Y = det * (a11*a33 - a13*a13)
	M.Ey.Z = det * (a13*a12 - a11*a23)

	M.Ez.X = M.Ex.Z
	M.Ez.Y = M.Ey.Z
	M.Ez.Z = det * (a11*a22 - a12*a12)
}

// CrossVec2Scalar performs the cross product of a vector and a scalar,
// producing a vector.
func CrossVec2Scalar(a vec.Vec2, s float64) vec.Vec2 {
	return vec.Vec2{X: s * a.Y, Y: -s * a.X}
}

// CrossScalarVec2 performs the cross product of a scalar and a vector,
// producing a vector.
func CrossScalarVec2(s float64, a vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: -s * a.Y, Y: s * a.X}
}

// Mat22Vec2Mul multiplies a matrix times a vector. If a rotation matrix is
// provided, this transforms the vector from one frame to another.
func Mat22Vec2Mul(A Mat22, v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: A.Ex.X*v.X + A.Ey.X*v.Y,
		Y: A.Ex.Y*v.X + A.Ey.Y*v.Y,
	}
}

// Mat22Vec2MulT multiplies a matrix transpose times a vector.
func Mat22Vec2MulT(A Mat22, v vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: v.Dot(A.Ex), Y: v.Dot(A.Ey)}
}

func Mat22Add(A, B Mat22) Mat22 {
	return Mat22{Ex: A.Ex.Add(B.Ex), Ey: A.Ey.Add(B.Ey)}
}

// Mat33Vec3Mul multiplies a matrix times a vector.
func Mat33Vec3Mul(A Mat33, v Vec3) Vec3 {
	return Vec3Add(
		Vec3Add(Vec3MulScalar(v.X, A.Ex), Vec3MulScalar(v.Y, A.Ey)),
		Vec3MulScalar(v.Z, A.Ez),
	)
}

// Mat33Vec2Mul22 multiplies the 2-by-2 upper-left block times a vector.
func Mat33Vec2Mul22(A Mat33, v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: A.Ex.X*v.X + A.Ey.X*v.Y,
		Y: A.Ex.Y*v.X + A.Ey.Y*v.Y,
	}
}

// RotMul multiplies two rotations: q * r.
func RotMul(q, r Rot) Rot {
	return Rot{
		S: q.S*r.C + q.C*r.S,
		C: q.C*r.C - q.S*r.S,
	}
}

// RotMulT transpose-multiplies two rotations: qT * r.
func RotMulT(q, r Rot) Rot {
	return Rot{
		S: q.C*r.S - q.S*r.C,
		C: q.C*r.C + q.S*r.S,
	}
}

// RotVec2Mul rotates a vector.
func RotVec2Mul(q Rot, v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: q.C*v.X - q.S*v.Y,
		Y: q.S*v.X + q.C*v.Y,
	}
}

// RotVec2MulT inverse-rotates a vector.
func RotVec2MulT(q Rot, v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: q.C*v.X + q.S*v.Y,
		Y: -q.S*v.X + q.C*v.Y,
	}
}

// TransformVec2Mul maps a point from the local frame of T to the world frame.
func TransformVec2Mul(T Transform, v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: (T.Q.C*v.X - T.Q.S*v.Y) + T.P.X,
		Y: (T.Q.S*v.X + T.Q.C*v.Y) + T.P.Y,
	}
}

// TransformVec2MulT maps a world point into the local frame of T.
func TransformVec2MulT(T Transform, v vec.Vec2) vec.Vec2 {
	px := v.X - T.P.X
	py := v.Y - T.P.Y
	return vec.Vec2{
		X: T.Q.C*px + T.Q.S*py,
		Y: -T.Q.S*px + T.Q.C*py,
	}
}

func TransformMul(A, B Transform) Transform {
	return Transform{
		P: RotVec2Mul(A.Q, B.P).Add(A.P),
		Q: RotMul(A.Q, B.Q),
	}
}

func TransformMulT(A, B Transform) Transform {
	return Transform{
		P: RotVec2MulT(A.Q, B.P.Sub(A.P)),
		Q: RotMulT(A.Q, B.Q),
	}
}

// Vec2LengthSquared avoids the square root of Mag for comparisons.
func Vec2LengthSquared(v vec.Vec2) float64 {
	return v.X*v.X + v.Y*v.Y
}

func Vec2DistanceSquared(a, b vec.Vec2) float64 {
	d := a.Sub(b)
	return d.X*d.X + d.Y*d.Y
}

// Normalize converts v into a unit vector and returns its former length.
// Vectors shorter than epsilon are left untouched and report zero.
func Normalize(v *vec.Vec2) float64 {
	length := v.Mag()
	if length < epsilon {
		return 0.0
	}

	invLength := 1.0 / length
	v.X *= invLength
	v.Y *= invLength

	return length
}

// FloatClamp clamps a into [low, high]; non-finite bounds are ignored.
func FloatClamp(a, low, high float64) float64 {
	b := a
	if IsValid(high) {
		b = math.Min(b, high)
	}
	if IsValid(low) {
		b = math.Max(b, low)
	}
	return b
}

func Vec2Min(a, b vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
}

func Vec2Max(a, b vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
}

func Vec2Clamp(a, low, high vec.Vec2) vec.Vec2 {
	return Vec2Max(low, Vec2Min(a, high))
}
