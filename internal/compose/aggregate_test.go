package compose

import (
	"errors"
	"testing"

	"github.com/avdwal/mbtree/internal/mech"
)

func definedRig(t *testing.T) (*fakeRoot, *fakeWidget, *fakeLink) {
	t.Helper()
	root, sub, conn := newRig(t, nil)
	if err := root.DefineAll(); err != nil {
		t.Fatalf("define all failed: %v", err)
	}
	return root, sub, conn
}

func TestToSystemRequiresFullDefinition(t *testing.T) {
	root, _, _ := newRig(t, nil)
	if err := root.DefineConnections(); err != nil {
		t.Fatalf("connections failed: %v", err)
	}
	_, err := ToSystem(root)
	if !errors.Is(err, ErrStageOrder) {
		t.Errorf("expected ErrStageOrder, got %v", err)
	}
}

func TestToSystemMergesAndDedups(t *testing.T) {
	root, sub, _ := definedRig(t)

	shared := mech.NewRigidBody("shared_body")
	own := mech.NewRigidBody("sub_body")
	q := mech.Dyn("q_shared")

	root.System().AddBodies(shared)
	root.System().AddCoordinates(q)
	root.System().AddSpeeds(mech.Dyn("root_u"))
	sub.System().AddBodies(shared, own)
	sub.System().AddCoordinates(q)
	sub.System().AddKdes(mech.Sub(mech.Dyn("root_u"), mech.Dt(q)))

	sys, err := ToSystem(root)
	if err != nil {
		t.Fatalf("aggregation failed: %v", err)
	}
	if got := len(sys.Bodies()); got != 2 {
		t.Errorf("expected 2 bodies after pointer dedup, got %d", got)
	}
	if got := len(sys.Coordinates()); got != 1 {
		t.Errorf("expected shared coordinate to merge once, got %d", got)
	}
	if got := len(sys.Speeds()); got != 1 {
		t.Errorf("expected 1 speed, got %d", got)
	}
	if got := len(sys.Kdes()); got != 1 {
		t.Errorf("expected 1 kde, got %d", got)
	}
	if sys.Frame() != root.System().Frame() || sys.Origin() != root.System().Origin() {
		t.Error("expected merged system rooted at the root's frame and origin")
	}
}

func TestToSystemSymbolCategoryCollision(t *testing.T) {
	root, sub, _ := definedRig(t)

	root.System().AddCoordinates(mech.Dyn("clash"))
	sub.System().AddSpeeds(mech.Dyn("clash"))

	_, err := ToSystem(root)
	if !errors.Is(err, ErrDuplicateSymbol) {
		t.Errorf("expected ErrDuplicateSymbol, got %v", err)
	}
}

func TestToSystemVelocityConstraintOverride(t *testing.T) {
	root, sub, _ := definedRig(t)

	nh := mech.Dyn("root_u")
	root.System().AddNonholonomicConstraints(nh)
	override := mech.Dyn("sub_expr")
	sub.System().SetVelocityConstraints([]mech.Expr{override})

	sys, err := ToSystem(root)
	if err != nil {
		t.Fatalf("aggregation failed: %v", err)
	}
	if !sys.HasVelocityConstraintOverride() {
		t.Fatal("expected merged system to carry an explicit override")
	}
	vc := sys.VelocityConstraints()
	if len(vc) != 2 {
		t.Fatalf("expected 2 velocity constraints, got %d", len(vc))
	}
	if vc[0].String() != nh.String() || vc[1].String() != override.String() {
		t.Errorf("unexpected constraint order: %v, %v", vc[0], vc[1])
	}
}

func TestToSystemVelocityConstraintsDerived(t *testing.T) {
	root, _, _ := definedRig(t)

	nh := mech.Dyn("root_u")
	root.System().AddNonholonomicConstraints(nh)

	sys, err := ToSystem(root)
	if err != nil {
		t.Fatalf("aggregation failed: %v", err)
	}
	if sys.HasVelocityConstraintOverride() {
		t.Error("expected no explicit override when no node set one")
	}
	vc := sys.VelocityConstraints()
	if len(vc) != 1 || vc[0].String() != nh.String() {
		t.Errorf("expected derived velocity constraints, got %v", vc)
	}
}
