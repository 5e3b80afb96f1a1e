package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/avdwal/mbtree/internal/compose"
	"github.com/avdwal/mbtree/internal/config"
	"github.com/avdwal/mbtree/internal/mech"
)

func buildPreset(t *testing.T, preset string) (*RollingDisc, *mech.System) {
	t.Helper()
	cfg, err := config.Preset(preset)
	if err != nil {
		t.Fatalf("preset %s: %v", preset, err)
	}
	disc, err := Assemble(cfg, NewRegistry())
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if err := disc.DefineAll(); err != nil {
		t.Fatalf("define all: %v", err)
	}
	sys, err := compose.ToSystem(disc)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	return disc, sys
}

func TestRollingDiscDefinition(t *testing.T) {
	disc, sys := buildPreset(t, "rolling_disc")

	if got := len(sys.Coordinates()); got != 5 {
		t.Errorf("expected 5 coordinates, got %d", got)
	}
	if got := len(sys.Speeds()); got != 5 {
		t.Errorf("expected 5 speeds, got %d", got)
	}
	if got := len(sys.AuxiliarySpeeds()); got != 0 {
		t.Errorf("expected no auxiliary speeds, got %d", got)
	}
	if got := len(sys.Kdes()); got != 5 {
		t.Errorf("expected 5 kdes, got %d", got)
	}
	if got := len(sys.Bodies()); got != 2 {
		t.Errorf("expected ground and wheel bodies, got %d", got)
	}
	if got := len(sys.HolonomicConstraints()); got != 0 {
		t.Errorf("expected no holonomic constraints on flat ground, got %d", got)
	}
	if got := len(sys.NonholonomicConstraints()); got != 2 {
		t.Errorf("expected 2 no-slip constraints, got %d", got)
	}
	if got := len(sys.Loads()); got != 0 {
		t.Errorf("expected no loads, got %d", got)
	}

	if !disc.IsRoot() {
		t.Error("expected externally defined disc to be root")
	}
	if !disc.Tire().(*NonHolonomicTire).OnGround() {
		t.Error("expected flat-ground contact to be structurally satisfied")
	}

	if sys.Frame() != disc.Ground().Frame() {
		t.Error("expected merged system rooted at the ground frame")
	}
}

func TestRollingDiscVelocityConstraints(t *testing.T) {
	_, sys := buildPreset(t, "rolling_disc")

	if !sys.HasVelocityConstraintOverride() {
		t.Fatal("expected the tire to set an explicit velocity constraint override")
	}
	vc := sys.VelocityConstraints()
	if len(vc) != 2 {
		t.Fatalf("expected 2 velocity constraints, got %d", len(vc))
	}
	nh := sys.NonholonomicConstraints()
	for i := range vc {
		if vc[i].String() != nh[i].String() {
			t.Errorf("constraint %d: expected %s, got %s", i, nh[i], vc[i])
		}
	}
}

func TestRollingDiscNoSlipDependencies(t *testing.T) {
	disc, sys := buildPreset(t, "rolling_disc")

	nh := sys.NonholonomicConstraints()
	q := disc.Q()
	// The contact-plane rates and the rotation rate must appear in the
	// no-slip conditions; coupling them is the point of the constraint.
	for i, c := range nh {
		if !mech.DependsOn(c, q[0].Diff()) && !mech.DependsOn(c, q[1].Diff()) {
			t.Errorf("constraint %d does not involve the contact rates: %s", i, c)
		}
	}
	if !mech.DependsOn(mech.Add(nh[0], nh[1]), q[4].Diff()) {
		t.Error("expected the rotation rate to enter the no-slip conditions")
	}
}

func TestRollingDiscGravity(t *testing.T) {
	disc, sys := buildPreset(t, "rolling_disc_gravity")

	loads := sys.Loads()
	if len(loads) != 1 {
		t.Fatalf("expected 1 gravity load, got %d", len(loads))
	}
	f, ok := loads[0].(mech.Force)
	if !ok {
		t.Fatal("expected a force load")
	}
	if f.Point != disc.Disc().Body().Masscenter() {
		t.Error("expected gravity applied at the wheel mass center")
	}
	x, y, z := f.Vec.Components()
	if !mech.IsZero(x) || !mech.IsZero(y) {
		t.Error("expected gravity along the inertial z axis only")
	}
	if mech.IsZero(z) {
		t.Error("expected a nonzero downward component")
	}
}

func TestRollingDiscNormalForce(t *testing.T) {
	disc, sys := buildPreset(t, "rolling_disc_normal_force")

	aux := sys.AuxiliarySpeeds()
	if len(aux) != 1 {
		t.Fatalf("expected 1 auxiliary speed, got %d", len(aux))
	}
	if aux[0].String() != "normal_force_uaux" {
		t.Errorf("unexpected auxiliary speed name %s", aux[0])
	}

	// Gravity on the wheel plus the materialized normal reaction.
	loads := sys.Loads()
	if len(loads) != 2 {
		t.Fatalf("expected 2 loads, got %d", len(loads))
	}
	var shadow *mech.Force
	for i := range loads {
		f := loads[i].(mech.Force)
		if strings.HasSuffix(f.Point.Name(), "_aux") {
			shadow = &f
		}
	}
	if shadow == nil {
		t.Fatal("expected the normal reaction on a shadow point")
	}
	if shadow.Point.Name() != "tire_contact_point_aux" {
		t.Errorf("unexpected shadow point name %s", shadow.Point.Name())
	}

	// The measured contact stays structurally closed, so the no-slip
	// conditions remain the only velocity constraints.
	if got := len(sys.HolonomicConstraints()); got != 0 {
		t.Errorf("expected no holonomic constraints, got %d", got)
	}
	vc := sys.VelocityConstraints()
	if len(vc) != 2 {
		t.Fatalf("expected 2 velocity constraints, got %d", len(vc))
	}

	// The wheel center velocity carries the auxiliary term after
	// finalization.
	tire := disc.Tire().(*NonHolonomicTire)
	v, err := disc.Disc().Center().Vel(disc.Ground().Frame())
	if err != nil {
		t.Fatalf("center velocity: %v", err)
	}
	if !mech.DependsOn(v.Dot(disc.Ground().Normal()), aux[0]) {
		t.Errorf("expected the auxiliary speed in the center's normal velocity, got %s", v)
	}
	av, err := disc.AuxiliaryHandler().AuxiliaryVelocity(tire.ContactPoint())
	if err != nil {
		t.Fatalf("auxiliary velocity: %v", err)
	}
	if !mech.DependsOn(av.Dot(disc.Ground().Normal()), aux[0]) {
		t.Errorf("expected the auxiliary speed at the contact point, got %s", av)
	}
}

func TestRollingDiscDescriptions(t *testing.T) {
	disc, _ := buildPreset(t, "rolling_disc_normal_force")

	desc := compose.AllDescriptions(disc)
	for _, key := range []string{
		"rolling_disc_normal_force_q1",
		"rolling_disc_normal_force_u5",
		"disc_r",
		"gravity_g",
		"normal_force_uaux",
		"normal_force_Fz",
	} {
		if desc[key] == "" {
			t.Errorf("expected a description for %s", key)
		}
	}
}

func TestAssembleRejectsUnknownKinds(t *testing.T) {
	cfg, err := config.Preset("rolling_disc")
	if err != nil {
		t.Fatalf("preset: %v", err)
	}
	cfg.Ground.Kind = "curved"
	if _, err := Assemble(cfg, NewRegistry()); err == nil {
		t.Error("expected unknown ground kind to fail assembly")
	}
}

func TestSlotCapabilityEnforced(t *testing.T) {
	disc := NewRollingDisc("disc_model")
	err := disc.SetSubmodel("ground", NewKnifeEdgeWheel("wheel"))
	if !errors.Is(err, compose.ErrCapabilityMismatch) {
		t.Errorf("expected ErrCapabilityMismatch, got %v", err)
	}
	if _, bound := disc.Submodel("ground"); bound {
		t.Error("expected ground slot to stay unset")
	}
}

func TestNormalForceRequiresTireParent(t *testing.T) {
	wheel := NewKnifeEdgeWheel("wheel")
	err := wheel.AddLoadGroups(NewNormalForceLoad("fz"))
	if !errors.Is(err, compose.ErrParentTypeMismatch) {
		t.Errorf("expected ErrParentTypeMismatch, got %v", err)
	}
}

// axisless is a rolling-disc variant whose kinematics never provide the
// tire's radial axis.
type axisless struct {
	*compose.Model
}

func newAxisless(name string) *axisless {
	m := &axisless{}
	m.Model = compose.NewModel(name, m,
		[]compose.Requirement{
			{Name: "ground", Capability: GroundCap},
			{Name: "disc", Capability: WheelCap},
		},
		[]compose.Requirement{
			{Name: "tire", Capability: TireCap},
		})
	return m
}

func (m *axisless) LocalConnections() error {
	conn, _ := m.ConnectionAt("tire")
	tire := conn.(Tire)
	ground, _ := m.Submodel("ground")
	wheel, _ := m.Submodel("disc")
	if err := tire.SetSubmodel("ground", ground); err != nil {
		return err
	}
	return tire.SetSubmodel("wheel", wheel)
}

func (m *axisless) LocalObjects() error {
	s, _ := m.Submodel("ground")
	g := s.(Ground)
	m.SetSystem(mech.NewSystem(g.Frame(), g.Origin()))
	return nil
}

func TestTireRequiresRadialAxis(t *testing.T) {
	m := newAxisless("axisless")
	if err := m.SetSubmodel("ground", NewFlatGround("ground")); err != nil {
		t.Fatalf("bind ground: %v", err)
	}
	if err := m.SetSubmodel("disc", NewKnifeEdgeWheel("wheel")); err != nil {
		t.Fatalf("bind wheel: %v", err)
	}
	if err := m.SetConnection("tire", NewNonHolonomicTire("tire")); err != nil {
		t.Fatalf("bind tire: %v", err)
	}
	if err := m.DefineConnections(); err != nil {
		t.Fatalf("connections: %v", err)
	}
	if err := m.DefineObjects(); err != nil {
		t.Fatalf("objects: %v", err)
	}
	err := m.DefineKinematics()
	if !errors.Is(err, ErrNoRadialAxis) {
		t.Errorf("expected ErrNoRadialAxis, got %v", err)
	}
}

func TestSetUpwardRadialAxisValidation(t *testing.T) {
	disc, _ := buildPreset(t, "rolling_disc")
	tire := disc.Tire()
	err := tire.SetUpwardRadialAxis(disc.Ground().Normal())
	if err == nil {
		t.Error("expected radial axis to be frozen after the kinematics stage")
	}

	fresh := NewNonHolonomicTire("fresh")
	if err := fresh.SetUpwardRadialAxis(mech.Vector{}); err == nil {
		t.Error("expected zero radial axis to be rejected")
	}
}

func TestRegistryKinds(t *testing.T) {
	reg := NewRegistry()

	checks := []struct {
		name string
		got  []string
		want []string
	}{
		{"grounds", reg.ListGrounds(), []string{"flat"}},
		{"wheels", reg.ListWheels(), []string{"knife_edge"}},
		{"tires", reg.ListTires(), []string{"nonholonomic"}},
		{"load groups", reg.ListLoadGroups(), []string{"gravity", "normal_force"}},
	}
	for _, c := range checks {
		if len(c.got) != len(c.want) {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, c.got)
			continue
		}
		for i := range c.want {
			if c.got[i] != c.want[i] {
				t.Errorf("%s: expected %v, got %v", c.name, c.want, c.got)
				break
			}
		}
	}

	if _, err := reg.Tire("radial", "t"); err == nil {
		t.Error("expected unknown tire kind to fail")
	}
}
