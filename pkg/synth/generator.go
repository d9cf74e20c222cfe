package synth

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"liyu1981.xyz/agri-maintenance/pkg/models"
)

// Options controls the synthetic sensor log. The defaults produce 10 machines
// sampled once a minute for 3240 minutes, i.e. 32400 rows.
type Options struct {
	Machines       int
	Minutes        int
	Seed           int64
	Start          time.Time
	Interval       time.Duration
	FailureHorizon int     // minutes before a failure labelled as failing
	MinCycle       int     // shortest run between failures, in minutes
	MaxCycle       int     // longest run between failures, in minutes
	NullRate       float64 // share of sensor cells blanked out, for cleaning tests
}

func DefaultOptions() Options {
	return Options{
		Machines:       10,
		Minutes:        3240,
		Seed:           42,
		Start:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:       time.Minute,
		FailureHorizon: 30,
		MinCycle:       360,
		MaxCycle:       900,
	}
}

func (o Options) Validate() error {
	if o.Machines < 1 || o.Minutes < 1 {
		return fmt.Errorf("machines and minutes must be positive, got %d and %d", o.Machines, o.Minutes)
	}
	if o.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", o.Interval)
	}
	if o.MinCycle < 1 || o.MaxCycle < o.MinCycle {
		return fmt.Errorf("invalid failure cycle range [%d, %d]", o.MinCycle, o.MaxCycle)
	}
	// every cycle needs at least one healthy minute before the horizon
	if o.FailureHorizon < 0 || o.FailureHorizon >= o.MinCycle {
		return fmt.Errorf("failure horizon %d must be within [0, %d)", o.FailureHorizon, o.MinCycle)
	}
	if o.NullRate < 0 || o.NullRate >= 1 {
		return fmt.Errorf("null rate must be within [0, 1), got %v", o.NullRate)
	}
	return nil
}

// modeProfile is the nominal operating point of a machine in a mode.
type modeProfile struct {
	vibration float64
	current   float64
	motorTemp float64
	torque    float64
	rpm       float64
}

var profiles = map[models.OperatingMode]modeProfile{
	models.OperatingModeIdle:      {vibration: 0.2, current: 4, motorTemp: 40, torque: 20, rpm: 800},
	models.OperatingModeHydraulic: {vibration: 0.6, current: 14, motorTemp: 62, torque: 180, rpm: 1600},
	models.OperatingModeTraction:  {vibration: 0.9, current: 22, motorTemp: 70, torque: 320, rpm: 2100},
	models.OperatingModePTO:       {vibration: 0.8, current: 18, motorTemp: 66, torque: 260, rpm: 1900},
}

// Row is a generated reading plus the sensor cells that were blanked.
type Row struct {
	Reading models.SensorReading
	Nulls   []string
}

type machineState struct {
	id         string
	mode       models.OperatingMode
	modeLeft   int
	cycle      int
	remaining  int
	ambientDay float64
}

type Generator struct {
	opts Options
	rnd  *rand.Rand
}

func NewGenerator(opts Options) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Generator{opts: opts, rnd: rand.New(rand.NewSource(opts.Seed))}, nil
}

func (g *Generator) between(lo, hi int) int {
	return lo + g.rnd.Intn(hi-lo+1)
}

func (g *Generator) nextMode(st *machineState) {
	st.mode = models.OperatingModes[g.rnd.Intn(len(models.OperatingModes))]
	st.modeLeft = g.between(30, 120)
}

func (g *Generator) nextCycle(st *machineState) {
	st.cycle = g.between(g.opts.MinCycle, g.opts.MaxCycle)
	st.remaining = st.cycle
}

// Generate returns rows grouped by machine, each machine in time order.
func (g *Generator) Generate() []Row {
	rows := make([]Row, 0, g.opts.Machines*g.opts.Minutes)

	for m := range g.opts.Machines {
		st := &machineState{
			id:         fmt.Sprintf("M%03d", m+1),
			ambientDay: 18 + g.rnd.Float64()*8,
		}
		g.nextMode(st)
		g.nextCycle(st)
		// machines do not all start fresh
		st.remaining = g.between(g.opts.FailureHorizon+1, st.cycle)

		for minute := range g.opts.Minutes {
			rows = append(rows, g.sample(st, minute))

			st.modeLeft--
			if st.modeLeft <= 0 {
				g.nextMode(st)
			}
			st.remaining--
			if st.remaining < 0 {
				g.nextCycle(st)
			}
		}
	}
	return rows
}

func (g *Generator) sample(st *machineState, minute int) Row {
	p := profiles[st.mode]
	// wear grows from 0 to 1 over a cycle, fastest near the failure
	wear := math.Pow(1-float64(st.remaining)/float64(st.cycle), 3)
	noise := func(scale float64) float64 { return g.rnd.NormFloat64() * scale }

	ts := g.opts.Start.Add(time.Duration(minute) * g.opts.Interval)
	dayPhase := 2 * math.Pi * float64(minute%1440) / 1440

	r := models.SensorReading{
		Timestamp:        ts,
		MachineID:        st.id,
		VibrationLevel:   round(math.Max(0, p.vibration*(1+1.5*wear)+noise(0.05)), 4),
		MotorCurrent:     round(math.Max(0, p.current*(1+0.4*wear)+noise(0.5)), 3),
		AmbientTemp:      round(st.ambientDay+4*math.Sin(dayPhase)+noise(0.3), 2),
		MotorTemp:        round(p.motorTemp+25*wear+noise(1.0), 2),
		Torque:           round(math.Max(0, p.torque*(1-0.2*wear)+noise(5)), 2),
		RPM:              round(math.Max(0, p.rpm*(1-0.1*wear)+noise(20)), 1),
		OperatingMode:    st.mode,
		RemainingMinutes: st.remaining,
	}
	if st.remaining <= g.opts.FailureHorizon {
		r.FailureLabel = 1
	}

	var nulls []string
	if g.opts.NullRate > 0 {
		for _, col := range models.SensorColumns {
			if g.rnd.Float64() < g.opts.NullRate {
				nulls = append(nulls, col)
			}
		}
	}
	return Row{Reading: r, Nulls: nulls}
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
