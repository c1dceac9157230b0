// Package tawzi assigns exam supervisors to schools.
//
// A run takes a Snapshot of schools, supervisors, guidance (specialty)
// codes, ranked supervisor wishes and the previous final list, and
// produces one Assignment per school together with an ordered run log.
//
// # Quick Start
//
//	import "github.com/arloliu/tawzi"
//
//	cfg := tawzi.DefaultConfig()
//	d, err := tawzi.NewDistributor(&cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := d.Run(ctx, snap)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, line := range res.Log.Lines() {
//	    fmt.Println(line)
//	}
//
// # Passes
//
// Sources are applied in priority order and no supervisor exceeds
// Config.LoadLimit schools, except through locks carried from the
// previous run:
//
//	locks > mandatory > fixed > wish 1..4 > balanced fallback
//
// Pass 1 carries locked entries of the previous final list and resolves
// mandatory names and fixed codes. Pass 2 honors wishes rank by rank in a
// shuffled supervisor order, so no supervisor is systematically favored.
// Pass 3 gives each remaining school to the least loaded candidate,
// preferring supervisors of the school's specialty.
//
// # Reproducibility
//
// With Config.Seed (or Config.SeedFromSnapshot) set, identical input
// yields an identical result. The seed of every run is recorded in
// Result.Seed.
//
// # Persistence
//
// Redistribute reads the previous final list from an AssignmentStore
// (store.Memory or store.NATSKV) and saves the new one, so administrator
// locks survive between runs.
//
// See cmd/tawzi for a command line front end and examples/ for a complete
// program.
package tawzi
