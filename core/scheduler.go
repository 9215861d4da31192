package core

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/sony/gobreaker"
)

// Execute advances every live processor one word, in creation order,
// applying each step's effect to the world before the next processor
// steps. A GeneWrite committed by an earlier processor is therefore
// visible to every later processor in the same tick.
func (w *World) Execute(rng *rand.Rand) {
	for _, key := range w.processorOrder {
		p := w.processors[key]

		if w.quarantine != nil {
			_, err := w.quarantine.breakerFor(key).Execute(func() (interface{}, error) {
				effect, stepErr := p.execute(w, rng)
				w.applyEffect(effect)
				return nil, stepErr
			})
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				w.stats.QuarantineSkips++
				continue
			}
			w.stats.Steps++
			continue
		}

		effect, _ := p.execute(w, rng)
		w.applyEffect(effect)
		w.stats.Steps++
	}
	w.stats.Ticks++
}

// ExecuteAmount runs n ticks.
func (w *World) ExecuteAmount(n int, rng *rand.Rand) {
	for i := 0; i < n; i++ {
		w.Execute(rng)
	}
}

// applyEffect commits a deferred mutation. Effects arrive in scheduling
// order, one per step at most.
func (w *World) applyEffect(effect Effect) {
	switch e := effect.(type) {
	case nil:
	case GeneWriteEffect:
		gene := w.genes[e.Gene]
		wasEmpty := len(gene.Code) == 0
		gene.Code = append(gene.Code, e.Value)
		w.stats.GeneWrites++
		// a gene born without code becomes addressable on its first word;
		// established genes keep the entry coordinate captured at insertion
		if wasEmpty {
			if cellKey, ok := w.cellOf[e.Gene]; ok {
				w.cells[cellKey].index(e.Gene, gene.Coordinates())
			}
		}
	case GeneCreateEffect:
		key := w.insertGene(NewGene(e.ID, nil))
		w.registerGeneID(e.ID, key)
		w.cells[e.Cell].addMember(key)
		w.cellOf[key] = e.Cell
		w.stats.GeneCreates++
	}
}

// quarantine skips processors that keep failing. Each processor gets a
// circuit breaker that trips after the configured number of consecutive
// failed steps and re-admits the processor after the cooldown.
type quarantine struct {
	threshold uint32
	breakers  map[ProcessorKey]*gobreaker.CircuitBreaker
	settings  gobreaker.Settings
}

func newQuarantine(config Config) *quarantine {
	q := &quarantine{
		threshold: config.QuarantineThreshold,
		breakers:  make(map[ProcessorKey]*gobreaker.CircuitBreaker),
	}
	q.settings = gobreaker.Settings{
		Timeout: config.QuarantineCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= q.threshold
		},
	}
	return q
}

func (q *quarantine) breakerFor(key ProcessorKey) *gobreaker.CircuitBreaker {
	cb, ok := q.breakers[key]
	if !ok {
		settings := q.settings
		settings.Name = fmt.Sprintf("processor-%d", key)
		cb = gobreaker.NewCircuitBreaker(settings)
		q.breakers[key] = cb
	}
	return cb
}
