package components

import (
	"math"

	"github.com/lgasteroids/asteroids/ecs"
	"github.com/lgasteroids/asteroids/util"
	"github.com/lgasteroids/asteroids/vmath"
)

func NewRigidbody() *Rigidbody {
	return &Rigidbody{
		Error:              0.001,
		Mass:               1,
		MaxAngularVelocity: math.Inf(1),
		MaxVelocity:        math.Inf(1),
	}
}

// Rigidbody samples delta time on the fixed pass and integrates its
// transform on the update pass, position before velocity.
type Rigidbody struct {
	ecs.Component
	// Error is the magnitude under which velocity and resultant snap to zero.
	Error              float64
	Mass               float64
	Friction           float64
	AngularResultant   float64
	MaxAngularVelocity float64
	MaxVelocity        float64
	resultant          vmath.Vector2
	velocity           vmath.Vector2
	angularVelocity    float64
	transform          *Transform
}

func (r *Rigidbody) Velocity() vmath.Vector2 {
	return r.velocity
}

func (r *Rigidbody) SetVelocity(velocity vmath.Vector2) {
	velocity = vmath.ClampMagnitude(velocity, r.MaxVelocity)
	if velocity.Magnitude() < r.Error {
		velocity = vmath.Vector2{}
	}
	r.velocity = velocity
}

func (r *Rigidbody) Resultant() vmath.Vector2 {
	return r.resultant
}

func (r *Rigidbody) SetResultant(resultant vmath.Vector2) {
	if resultant.Magnitude() < r.Error {
		resultant = vmath.Vector2{}
	}
	r.resultant = resultant
}

// AddForce accumulates force into the resultant for the next update.
func (r *Rigidbody) AddForce(force vmath.Vector2) {
	r.SetResultant(vmath.Sum(r.resultant, force))
}

func (r *Rigidbody) AngularVelocity() float64 {
	return r.angularVelocity
}

func (r *Rigidbody) SetAngularVelocity(velocity float64) {
	abs := math.Min(math.Abs(velocity), r.MaxAngularVelocity)
	if velocity < 0 {
		abs = -abs
	}
	r.angularVelocity = abs
}

func (r *Rigidbody) Transform() *Transform {
	return r.transform
}

func (r *Rigidbody) OnAwake() {
	r.transform, _ = ecs.SiblingOf[*Transform](r)
}

func (r *Rigidbody) OnFixedLoop() {
	r.RefreshDeltaTime()
}

func (r *Rigidbody) OnLoop() {
	if r.transform == nil {
		return
	}
	dt := r.DeltaTime()

	r.SetAngularVelocity(r.angularVelocity + r.AngularResultant*r.Mass*dt)
	r.transform.SetRotation(r.transform.Rotation() + r.angularVelocity*dt)

	acceleration := vmath.Multiply(r.resultant, 1/r.Mass)
	r.transform.Translate(vmath.Multiply(r.velocity, dt))
	r.SetVelocity(vmath.Sum(r.velocity, vmath.Multiply(acceleration, dt)))

	friction := vmath.Multiply(r.velocity.Normalized().Neg(), r.Friction*r.Mass)
	r.SetResultant(vmath.Multiply(friction, dt))
}

type rigidbodyUse struct {
	Error              *float64       `mapstructure:"error"`
	Mass               *float64       `mapstructure:"mass"`
	Friction           *float64       `mapstructure:"friction"`
	AngularResultant   *float64       `mapstructure:"angularResultant"`
	MaxAngularVelocity *float64       `mapstructure:"maxAngularVelocity"`
	MaxVelocity        *float64       `mapstructure:"maxVelocity"`
	Velocity           *vmath.Vector2 `mapstructure:"velocity"`
	Resultant          *vmath.Vector2 `mapstructure:"resultant"`
	AngularVelocity    *float64       `mapstructure:"angularVelocity"`
}

// Use sets the limits first so the velocity setters clamp against them.
func (r *Rigidbody) Use(m util.M) *util.Err {
	var u rigidbodyUse
	if err := decodeUse(m, &u); err != nil {
		return err
	}
	setFloat(&r.Error, u.Error)
	setFloat(&r.Mass, u.Mass)
	setFloat(&r.Friction, u.Friction)
	setFloat(&r.AngularResultant, u.AngularResultant)
	setFloat(&r.MaxAngularVelocity, u.MaxAngularVelocity)
	setFloat(&r.MaxVelocity, u.MaxVelocity)
	if r.Mass <= 0 {
		return util.NewErr(util.EcParamsErr, util.M{
			"mass": r.Mass,
		})
	}
	if u.Velocity != nil {
		r.SetVelocity(*u.Velocity)
	}
	if u.Resultant != nil {
		r.SetResultant(*u.Resultant)
	}
	if u.AngularVelocity != nil {
		r.SetAngularVelocity(*u.AngularVelocity)
	}
	return nil
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
