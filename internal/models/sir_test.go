package models_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/episim/internal/dynamo"
	"github.com/san-kum/episim/internal/integrators"
	"github.com/san-kum/episim/internal/models"
)

func run(sys dynamo.System, x0 dynamo.State, horizon float64, samples int, dt float64) dynamo.Trajectory {
	grid, err := dynamo.NewGrid(horizon, samples)
	Expect(err).NotTo(HaveOccurred())
	res, err := dynamo.New(sys, integrators.NewRK4()).Run(context.Background(), x0, grid, dt)
	Expect(err).NotTo(HaveOccurred())
	return res.Trajectory
}

var _ = Describe("SIR", func() {
	var m *models.SIR

	BeforeEach(func() {
		m = models.NewSIR(0.27, 0.043, 15000)
	})

	Describe("Derive", func() {
		It("matches the closed-form rates", func() {
			dx := m.Derive(dynamo.State{14550, 450, 0}, 0)
			infection := 0.27 * 14550 * 450 / 15000.0
			Expect(dx[0]).To(BeNumerically("~", -infection, 1e-9))
			Expect(dx[1]).To(BeNumerically("~", infection-0.043*450, 1e-9))
			Expect(dx[2]).To(BeNumerically("~", 0.043*450, 1e-9))
		})

		It("has derivatives that sum to zero", func() {
			dx := m.Derive(dynamo.State{1000, 7000, 7000}, 3.5)
			Expect(dx.Sum()).To(BeNumerically("~", 0, 1e-9))
		})

		It("ignores time", func() {
			x := dynamo.State{14000, 800, 200}
			Expect(m.Derive(x, 0)).To(Equal(m.Derive(x, 42)))
		})

		It("is stationary without infected individuals", func() {
			dx := m.Derive(dynamo.State{15000, 0, 0}, 0)
			Expect(dx.Norm()).To(BeZero())
		})

		It("does not mutate its input", func() {
			x := dynamo.State{14550, 450, 0}
			m.Derive(x, 0)
			Expect(x).To(Equal(dynamo.State{14550, 450, 0}))
		})
	})

	It("splits the initial population by the infected fraction", func() {
		x0 := m.InitialState(0.03)
		Expect(x0[0]).To(BeNumerically("~", 14550, 1e-9))
		Expect(x0[1]).To(BeNumerically("~", 450, 1e-9))
		Expect(x0[2]).To(BeZero())
		Expect(m.Invariant(x0)).To(BeNumerically("~", 15000, 1e-9))
	})

	It("exposes its parameters", func() {
		Expect(m.GetParams()).To(HaveKeyWithValue("alpha", 0.27))
		Expect(m.SetParam("beta", 0.1)).To(Succeed())
		Expect(m.Beta).To(Equal(0.1))

		err := m.SetParam("gamma", 1)
		Expect(errors.Is(err, dynamo.ErrUnknownParameter)).To(BeTrue())
	})

	DescribeTable("Validate",
		func(alpha, beta, n float64, valid bool) {
			err := models.NewSIR(alpha, beta, n).Validate()
			if valid {
				Expect(err).NotTo(HaveOccurred())
				return
			}
			Expect(errors.Is(err, dynamo.ErrInvalidParameter)).To(BeTrue())
		},
		Entry("baseline", 0.27, 0.043, 15000.0, true),
		Entry("no transmission", 0.0, 0.043, 15000.0, true),
		Entry("no recovery", 0.27, 0.0, 15000.0, true),
		Entry("zero population", 0.27, 0.043, 0.0, false),
		Entry("negative population", 0.27, 0.043, -10.0, false),
		Entry("negative alpha", -0.1, 0.043, 15000.0, false),
		Entry("negative beta", 0.27, -0.1, 15000.0, false),
	)

	Context("integrated with RK4 over the baseline scenario", func() {
		var traj dynamo.Trajectory

		BeforeEach(func() {
			traj = run(m, m.InitialState(0.03), 150, 10, 0.1)
		})

		It("conserves the population", func() {
			Expect(traj.CheckInvariant(m.Invariant, 15000, 1e-6)).To(Succeed())
		})

		It("never increases the susceptible count", func() {
			s := traj.Component(0)
			for k := 1; k < len(s); k++ {
				Expect(s[k]).To(BeNumerically("<=", s[k-1]), "sample %d", k)
			}
		})

		It("never decreases the recovered count", func() {
			r := traj.Component(2)
			for k := 1; k < len(r); k++ {
				Expect(r[k]).To(BeNumerically(">=", r[k-1]), "sample %d", k)
			}
		})

		It("produces an epidemic peak", func() {
			i := traj.Component(1)
			peak := 0.0
			for _, v := range i {
				peak = max(peak, v)
			}
			Expect(peak).To(BeNumerically(">", 450))
			Expect(i[len(i)-1]).To(BeNumerically("<", peak))
		})
	})

	It("keeps R identically zero without recovery", func() {
		m.Beta = 0
		for _, r := range run(m, m.InitialState(0.03), 50, 10, 0.1).Component(2) {
			Expect(r).To(BeZero())
		}
	})

	It("keeps S constant without transmission", func() {
		m.Alpha = 0
		for _, s := range run(m, m.InitialState(0.03), 50, 10, 0.1).Component(0) {
			Expect(s).To(Equal(14550.0))
		}
	})
})
