package corosim

import (
	"time"

	"github.com/orbitkit/corosim/propagator"
	"github.com/orbitkit/corosim/tle"
)

// Kind names one of the closed set of component kinds an entity may
// carry. It is a small string enum rather than an iota so log lines and
// query-service error messages stay human-readable.
type Kind string

const (
	KindOrbitalElements Kind = "orbital-elements"
	KindPropagator      Kind = "propagator"
	KindPosition        Kind = "position"
	KindVelocity        Kind = "velocity"
	KindBillboard       Kind = "billboard"
	KindMesh            Kind = "mesh"
	KindLabel           Kind = "label"
	KindTimeVisibility  Kind = "time-visibility"
	KindTransform       Kind = "transform"
)

// Frame re-exports propagator.Frame so callers attaching Position or
// Velocity components don't need to import the propagator package
// themselves just to name a frame.
type Frame = propagator.Frame

const (
	FrameECI    = propagator.FrameECI
	FrameECEF   = propagator.FrameECEF
	FrameJ2000  = propagator.FrameJ2000
	FrameTEME   = propagator.FrameTEME
	FrameRender = propagator.FrameRender
)

// ElementsKind tags which variant of the orbital-elements union is
// populated.
type ElementsKind uint8

const (
	ElementsKeplerian ElementsKind = iota + 1
	ElementsTLE
	ElementsCartesian
)

// KeplerianElements is the classical element set, angles in radians.
type KeplerianElements struct {
	SemiMajorAxisKM float64
	Eccentricity    float64
	InclinationRad  float64
	RAANRad         float64
	ArgPerigeeRad   float64
	TrueAnomalyRad  float64
}

// CartesianElements is a raw initial state vector, used when an entity's
// orbit is seeded directly rather than from Keplerian elements or a TLE.
type CartesianElements struct {
	R, V  [3]float64
	Frame Frame
}

// OrbitalElements is the tagged union over {keplerian, tle, cartesian}
// plus an epoch. It is immutable after attach: to change an
// object's elements, Detach then Attach a new OrbitalElements row (the
// store enforces nothing here; this is a documented convention the
// propagation system and Hybrid.ForceSGP4 rely on).
type OrbitalElements struct {
	Kind      ElementsKind
	Keplerian KeplerianElements
	TLE       tle.Record
	Cartesian CartesianElements
	Epoch     time.Time
}

// PropagatorComponent owns the propagator instance bound to an entity's
// orbital elements at attach time.
type PropagatorComponent struct {
	Propagator propagator.Propagator
}

// PositionComponent mirrors the position buffer for component-store
// consumers that don't want to deal with slots directly.
type PositionComponent struct {
	X, Y, Z float64 // km
	Frame   Frame
}

// VelocityComponent is the velocity counterpart to PositionComponent.
type VelocityComponent struct {
	VX, VY, VZ float64 // km/s
	Frame      Frame
}

// BillboardComponent is presentation-only: a renderer hint, never
// touched by propagation.
type BillboardComponent struct {
	Size            float32
	ColorRGB        uint32
	SizeAttenuated  bool
}

// MeshComponent names a renderer-owned geometry/material pair plus a
// per-entity scale. The keys are opaque strings the renderer resolves;
// the core never loads or interprets them.
type MeshComponent struct {
	GeometryKey, MaterialKey string
	Scale                    [3]float32
}

// LabelComponent is a screen-space text annotation.
type LabelComponent struct {
	Text   string
	Offset [2]float32
	Style  string
}

// TimeVisibilityComponent filters queries without destroying the
// entity: it is "alive" only while clock.Now() falls in [Start, End).
type TimeVisibilityComponent struct {
	Start, End float64 // sim-time milliseconds
}

// Contains reports whether t (sim-time ms) falls within [Start, End).
func (v TimeVisibilityComponent) Contains(t float64) bool {
	return t >= v.Start && t < v.End
}

// TransformComponent caches a 4x4 render-space matrix, column-major,
// rather than recomputing it every read.
type TransformComponent struct {
	Matrix [16]float32
}
