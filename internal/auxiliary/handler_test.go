package auxiliary_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/avdwal/mbtree/internal/auxiliary"
	"github.com/avdwal/mbtree/internal/mech"
)

var _ = Describe("Handler", func() {
	var (
		n       *mech.Frame
		origin  *mech.Point
		p1, p2  *mech.Point
		p3      *mech.Point
		q1, q2  mech.Sym
		u1, u2  mech.Sym
		f1, f2  mech.Sym
		handler *auxiliary.Handler
	)

	BeforeEach(func() {
		n = mech.NewFrame("N")
		origin = mech.NewPoint("O")
		origin.SetVel(n, mech.Vector{})

		q1, q2 = mech.Dyn("q1"), mech.Dyn("q2")
		u1, u2 = mech.Dyn("u1"), mech.Dyn("u2")
		f1, f2 = mech.Dyn("F1"), mech.Dyn("F2")

		p1 = mech.NewPoint("p1")
		p1.SetPos(origin, n.X().Scale(q1))
		p2 = mech.NewPoint("p2")
		p2.SetPos(p1, n.Y().Scale(q2))
		p3 = mech.NewPoint("p3")
		p3.SetPos(origin, n.Z())

		handler = auxiliary.NewHandler(n, origin)
	})

	register := func() {
		_, err := handler.AddNoncontributingForce(p1, n.Z(), u1, f1)
		Expect(err).NotTo(HaveOccurred())
		_, err = handler.AddNoncontributingForce(p2, n.X(), u2, f2)
		Expect(err).NotTo(HaveOccurred())
	}

	Describe("AuxiliaryVelocity", func() {
		It("sums the entries along the position chain", func() {
			register()

			v, err := handler.AuxiliaryVelocity(p2)
			Expect(err).NotTo(HaveOccurred())
			x, y, z := v.Components()
			Expect(x.String()).To(Equal(u2.String()))
			Expect(mech.IsZero(y)).To(BeTrue())
			Expect(z.String()).To(Equal(u1.String()))
		})

		It("stops contributions above the queried point", func() {
			register()

			v, err := handler.AuxiliaryVelocity(p1)
			Expect(err).NotTo(HaveOccurred())
			x, _, z := v.Components()
			Expect(mech.IsZero(x)).To(BeTrue())
			Expect(z.String()).To(Equal(u1.String()))
		})

		It("is zero on branches without entries", func() {
			register()

			v, err := handler.AuxiliaryVelocity(p3)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.IsZero()).To(BeTrue())
		})

		It("rejects points not connected to the origin", func() {
			register()

			stray := mech.NewPoint("stray")
			_, err := handler.AuxiliaryVelocity(stray)
			Expect(err).To(MatchError(auxiliary.ErrDisconnected))
		})

		It("rejects cyclic position graphs", func() {
			a := mech.NewPoint("a")
			b := mech.NewPoint("b")
			a.SetPos(b, n.X())
			b.SetPos(a, n.Y())

			_, err := handler.AuxiliaryVelocity(a)
			Expect(err).To(MatchError(auxiliary.ErrCyclicGraph))
		})
	})

	Describe("FinalizeVelocities", func() {
		var sys *mech.System

		BeforeEach(func() {
			sys = mech.NewSystem(n, origin)
			register()
		})

		It("stamps ordinary plus auxiliary velocity onto each point", func() {
			Expect(handler.FinalizeVelocities(sys)).To(Succeed())

			v, err := p2.Vel(n)
			Expect(err).NotTo(HaveOccurred())
			x, y, z := v.Components()
			Expect(mech.DependsOn(x, q1.Diff())).To(BeTrue())
			Expect(mech.DependsOn(x, u2)).To(BeTrue())
			Expect(mech.DependsOn(y, q2.Diff())).To(BeTrue())
			Expect(mech.DependsOn(z, u1)).To(BeTrue())
		})

		It("leaves entry-free points with their ordinary velocity", func() {
			Expect(handler.FinalizeVelocities(sys)).To(Succeed())

			v, err := p3.Vel(n)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.IsZero()).To(BeTrue())
		})

		It("registers the auxiliary speeds with the system", func() {
			Expect(handler.FinalizeVelocities(sys)).To(Succeed())

			names := []string{}
			for _, s := range sys.AuxiliarySpeeds() {
				names = append(names, s.String())
			}
			Expect(names).To(Equal([]string{u1.String(), u2.String()}))
		})

		It("can only run once", func() {
			Expect(handler.FinalizeVelocities(sys)).To(Succeed())
			Expect(handler.FinalizeVelocities(sys)).To(MatchError(auxiliary.ErrAlreadyFinalized))
		})

		It("rejects registrations after finalization", func() {
			Expect(handler.FinalizeVelocities(sys)).To(Succeed())

			_, err := handler.AddNoncontributingForce(p3, n.Z(), mech.Dyn("u3"), mech.Dyn("F3"))
			Expect(err).To(MatchError(auxiliary.ErrAlreadyFinalized))
		})

		It("fails when an entry point is disconnected", func() {
			stray := mech.NewPoint("stray")
			_, err := handler.AddNoncontributingForce(stray, n.Z(), mech.Dyn("u3"), mech.Dyn("F3"))
			Expect(err).NotTo(HaveOccurred())

			Expect(handler.FinalizeVelocities(sys)).To(MatchError(auxiliary.ErrDisconnected))
		})
	})

	Describe("TrackPoints", func() {
		var sys *mech.System

		BeforeEach(func() {
			sys = mech.NewSystem(n, origin)
		})

		It("accepts points that resolve against the origin", func() {
			Expect(handler.TrackPoints(p1, p2, p3)).To(Succeed())
			Expect(handler.FinalizeVelocities(sys)).To(Succeed())
		})

		It("detects cycles that carry no entries", func() {
			a := mech.NewPoint("a")
			b := mech.NewPoint("b")
			a.SetPos(b, n.X())
			b.SetPos(a, n.Y())
			Expect(handler.TrackPoints(a, b)).To(Succeed())

			Expect(handler.FinalizeVelocities(sys)).To(MatchError(auxiliary.ErrCyclicGraph))
		})

		It("fails finalization for tracked points left unpositioned", func() {
			Expect(handler.TrackPoints(mech.NewPoint("stray"))).To(Succeed())

			Expect(handler.FinalizeVelocities(sys)).To(MatchError(auxiliary.ErrDisconnected))
		})

		It("rejects tracking after finalization", func() {
			Expect(handler.FinalizeVelocities(sys)).To(Succeed())
			Expect(handler.TrackPoints(p3)).To(MatchError(auxiliary.ErrAlreadyFinalized))
		})
	})

	Describe("FinalizeForces", func() {
		It("adds one force per entry on a shadow point", func() {
			register()
			sys := mech.NewSystem(n, origin)
			Expect(handler.FinalizeVelocities(sys)).To(Succeed())
			Expect(handler.FinalizeForces(sys)).To(Succeed())

			loads := sys.Loads()
			Expect(loads).To(HaveLen(2))
			first, ok := loads[0].(mech.Force)
			Expect(ok).To(BeTrue())
			Expect(first.Point.Name()).To(Equal("p1_aux"))
			x, _, z := first.Vec.Components()
			Expect(mech.IsZero(x)).To(BeTrue())
			Expect(z.String()).To(Equal(f1.String()))
		})

		It("gives the shadow point only the auxiliary velocity", func() {
			register()
			sys := mech.NewSystem(n, origin)
			Expect(handler.FinalizeVelocities(sys)).To(Succeed())
			Expect(handler.FinalizeForces(sys)).To(Succeed())

			force := sys.Loads()[1].(mech.Force)
			v, err := force.Point.Vel(n)
			Expect(err).NotTo(HaveOccurred())
			x, y, _ := v.Components()
			Expect(x.String()).To(Equal(u2.String()))
			Expect(mech.IsZero(y)).To(BeTrue())
		})
	})
})
