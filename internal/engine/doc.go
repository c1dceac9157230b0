// Package engine implements the multi-pass supervisor distribution algorithm.
//
// A run is a fixed pipeline over an immutable snapshot:
//
//	Pass 1: carry locks forward, then mandatory and fixed assignments
//	Pass 2: wish rounds 1..N, one shuffled sweep of active supervisors per round
//	Pass 3: fairness-balanced greedy fill of the remaining schools
//
// Every pass registers load in a run-private LoadTracker so that later
// passes score candidates against the load created by earlier ones, and
// every assignment backfills the school's guidance code from the supervisor
// when the school has none.
//
// The engine is single-threaded. Randomness comes only from the *rand.Rand
// handed to New, so a seeded source makes a run reproducible.
package engine
