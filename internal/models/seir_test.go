package models_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/episim/internal/dynamo"
	"github.com/san-kum/episim/internal/models"
)

var _ = Describe("SEIR", func() {
	var m *models.SEIR

	BeforeEach(func() {
		m = models.NewSEIR(0.5, 0.2, 0.1, 1000)
	})

	It("has four labeled compartments", func() {
		Expect(m.StateDim()).To(Equal(4))
		Expect(m.Labels()).To(Equal([]string{"S", "E", "I", "R"}))
	})

	It("routes new infections through the exposed compartment", func() {
		dx := m.Derive(dynamo.State{990, 0, 10, 0}, 0)
		Expect(dx[0]).To(BeNumerically("~", -0.5*990*10/1000.0, 1e-12))
		Expect(dx[1]).To(BeNumerically("~", 0.5*990*10/1000.0, 1e-12))
		Expect(dx[2]).To(BeNumerically("~", -0.1*10, 1e-12))
		Expect(dx[3]).To(BeNumerically("~", 0.1*10, 1e-12))
		Expect(dx.Sum()).To(BeNumerically("~", 0, 1e-12))
	})

	It("starts with nobody exposed", func() {
		x0 := m.InitialState(0.01)
		Expect(x0).To(HaveLen(4))
		Expect(x0[1]).To(BeZero())
		Expect(x0[2]).To(BeNumerically("~", 10, 1e-9))
	})

	It("conserves the population when integrated", func() {
		traj := run(m, m.InitialState(0.01), 100, 10, 0.1)
		Expect(traj.Len()).To(Equal(1000))
		Expect(traj.CheckInvariant(m.Invariant, 1000, 1e-8)).To(Succeed())
	})

	It("rejects a negative incubation rate", func() {
		m.Sigma = -1
		Expect(errors.Is(m.Validate(), dynamo.ErrInvalidParameter)).To(BeTrue())
	})

	It("exposes sigma as a parameter", func() {
		Expect(m.SetParam("sigma", 0.3)).To(Succeed())
		Expect(m.GetParams()).To(HaveKeyWithValue("sigma", 0.3))
	})
})
