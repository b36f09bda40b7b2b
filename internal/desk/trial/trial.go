// Package trial decides what is wrong, if anything, with each card the
// machine ejects.
package trial

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Fault is a set of defects that make a card invalid.
type Fault uint8

const (
	FaultExpired Fault = 1 << iota
	FaultSerialMismatch

	FaultNone Fault = 0
)

func (f Fault) String() string {
	if f == FaultNone {
		return "none"
	}
	var parts []string
	if f&FaultExpired != 0 {
		parts = append(parts, "expired")
	}
	if f&FaultSerialMismatch != 0 {
		parts = append(parts, "serial_mismatch")
	}
	return strings.Join(parts, "|")
}

type Config struct {
	Seed           uint64  `yaml:"seed"`
	ExpiredChance  float64 `yaml:"expired_chance"`
	MismatchChance float64 `yaml:"mismatch_chance"`
}

func DefaultConfig() Config {
	return Config{ExpiredChance: 0.15, MismatchChance: 0.15}
}

func (c Config) Validate() error {
	for name, p := range map[string]float64{"expired_chance": c.ExpiredChance, "mismatch_chance": c.MismatchChance} {
		if p < 0 || p > 1 {
			return fmt.Errorf("trial: %s must be in [0, 1], got %v", name, p)
		}
	}
	return nil
}

// Trial is the hidden truth about one card.
type Trial struct {
	Round  int
	Faults Fault
}

func (t Trial) Valid() bool { return t.Faults == FaultNone }

// Dealer rolls faults per round. The same seed and round always give the
// same trial, whatever order rounds are dealt in.
type Dealer struct {
	cfg    Config
	forced []bool
}

func NewDealer(cfg Config) *Dealer {
	return &Dealer{cfg: cfg}
}

// Force queues validities that override the next deals, in order.
func (d *Dealer) Force(valid ...bool) {
	d.forced = append(d.forced, valid...)
}

// Deal returns the trial for round.
func (d *Dealer) Deal(round int) Trial {
	rng := d.rng(round)
	t := Trial{Round: round}
	if rng.Float64() < d.cfg.ExpiredChance {
		t.Faults |= FaultExpired
	}
	if rng.Float64() < d.cfg.MismatchChance {
		t.Faults |= FaultSerialMismatch
	}
	if len(d.forced) > 0 {
		valid := d.forced[0]
		d.forced = d.forced[1:]
		switch {
		case valid:
			t.Faults = FaultNone
		case t.Faults == FaultNone:
			if rng.IntN(2) == 0 {
				t.Faults = FaultExpired
			} else {
				t.Faults = FaultSerialMismatch
			}
		}
	}
	return t
}

func (d *Dealer) rng(round int) *rand.Rand {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], d.cfg.Seed)
	binary.LittleEndian.PutUint64(buf[8:], uint64(round))
	h := xxhash.Sum64(buf[:])
	return rand.New(rand.NewPCG(h, d.cfg.Seed^0x9e3779b97f4a7c15))
}
