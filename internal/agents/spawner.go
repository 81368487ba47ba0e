// Citizen spawning — creates citizens with starting capital and a random
// intrinsic valuation.
package agents

import (
	"fmt"
	"math/rand"

	"boxlands/internal/world"
)

// SpawnConfig holds the starting-state parameters for new citizens.
type SpawnConfig struct {
	CapitalMin                float64
	CapitalMax                float64
	StartingBoxes             int
	StartingProfitExpectation float64
	InvestmentFraction        float64
	Pricing                   PricingParams
}

// Spawner creates citizens for the simulation.
type Spawner struct {
	rng    *rand.Rand
	nextID CitizenID
	cfg    SpawnConfig
}

// NewSpawner creates a citizen spawner with the given seed.
func NewSpawner(seed int64, cfg SpawnConfig) *Spawner {
	return &Spawner{
		rng:    rand.New(rand.NewSource(seed + 300)),
		nextID: 1,
		cfg:    cfg,
	}
}

// Spawn creates a single citizen at the given position with a uniform
// random capital draw and a valuation in [0,1).
func (s *Spawner) Spawn(pos world.Position) *Citizen {
	id := s.nextID
	s.nextID++

	capital := s.cfg.CapitalMin + s.rng.Float64()*(s.cfg.CapitalMax-s.cfg.CapitalMin)

	return &Citizen{
		ID:                 id,
		Name:               s.name(id),
		Position:           pos,
		Wallet:             capital,
		StartingWallet:     capital,
		Boxes:              s.cfg.StartingBoxes,
		Pricing:            s.cfg.Pricing,
		BaseValuation:      s.rng.Float64(),
		ProfitExpectation:  s.cfg.StartingProfitExpectation,
		InvestmentFraction: s.cfg.InvestmentFraction,
		Alive:              true,
	}
}

// SpawnPopulation creates count citizens at random field positions.
func (s *Spawner) SpawnPopulation(count int, f *world.Field) []*Citizen {
	citizens := make([]*Citizen, 0, count)
	for i := 0; i < count; i++ {
		citizens = append(citizens, s.Spawn(f.RandomPosition()))
	}
	return citizens
}

func (s *Spawner) name(id CitizenID) string {
	if int(id) <= len(namePool) {
		return namePool[id-1]
	}
	return fmt.Sprintf("%s %d", namePool[int(id-1)%len(namePool)], (int(id-1)/len(namePool))+1)
}

var namePool = []string{
	"Ansel", "Berta", "Casper", "Dagny", "Elof", "Freja", "Gustav", "Hedda",
	"Ivar", "Jutta", "Klaas", "Lieke", "Maarten", "Nienke", "Otto", "Petra",
	"Quirin", "Rutger", "Saskia", "Tijmen", "Ursel", "Vera", "Wouter", "Xenia",
	"Ysbrand", "Zelda",
}
