package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/vehsim/internal/control"
	"github.com/san-kum/vehsim/internal/dynamo"
	"github.com/san-kum/vehsim/internal/path"
	"github.com/san-kum/vehsim/internal/scenario"
	"github.com/san-kum/vehsim/internal/sim"
	"github.com/san-kum/vehsim/internal/vehicle"
)

var _ = Describe("Ramp over the hill", func() {
	var result *dynamo.Result

	BeforeEach(func() {
		s := sim.New(vehicle.NewDefault(), sim.NewOpenLoop(scenario.DefaultRamp(), scenario.DefaultHill()))
		var err error
		result, err = s.Run(context.Background(), dynamo.Config{Dt: 0.01, Duration: 20, ValidateState: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Errors).To(BeEmpty())
	})

	It("records one sample per tick plus the initial state", func() {
		Expect(result.Samples).To(HaveLen(2001))
	})

	It("crosses 150 m when the throttle starts to fall", func() {
		tc, ok := result.CrossingTime(150)
		Expect(ok).To(BeTrue())
		Expect(tc).To(BeNumerically("~", 15.0, 0.5))
	})

	It("never rolls backward", func() {
		for _, s := range result.Samples {
			Expect(s.Velocity).To(BeNumerically(">", 0))
		}
	})

	It("applies the grade of the section the vehicle is on", func() {
		for _, s := range result.Samples[1:] {
			Expect(s.Grade).To(BeNumerically(">=", 0))
			Expect(s.Grade).To(BeNumerically("<=", math.Atan(9.0/90.0)))
		}
	})
})

var _ = Describe("Closed-loop speed tracking", func() {
	It("settles on the waypoint speed", func() {
		c := control.NewController(path.Straight(0, 3000, 12, 301), control.DefaultGains())
		s := sim.New(vehicle.NewDefault(), sim.NewClosedLoop(c, nil, nil))

		result, err := s.Run(context.Background(), dynamo.Config{Dt: 0.01, Duration: 150})
		Expect(err).NotTo(HaveOccurred())

		last := result.Samples[len(result.Samples)-1]
		Expect(last.Velocity).To(BeNumerically("~", 12.0, 0.01))
		Expect(last.DesiredSpeed).To(Equal(12.0))
		Expect(last.Steer).To(BeNumerically("~", 0, 1e-12))
	})

	It("never throttles and brakes on the same tick", func() {
		c := control.NewController(path.Straight(0, 500, 8, 51), control.DefaultGains())
		s := sim.New(vehicle.NewDefault(), sim.NewClosedLoop(c, scenario.DefaultHill(), nil))

		result, err := s.Run(context.Background(), dynamo.Config{Dt: 0.01, Duration: 30})
		Expect(err).NotTo(HaveOccurred())

		braked := false
		for _, smp := range result.Samples {
			Expect(smp.Throttle == 0 || smp.Brake == 0).To(BeTrue())
			braked = braked || smp.Brake > 0
		}
		Expect(braked).To(BeTrue())
	})
})
