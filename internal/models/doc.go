// Package models provides compartmental epidemic models.
//
// Each model implements [dynamo.System] with its rate parameters bound on
// the value, plus [dynamo.Conserved] (total population) and
// [dynamo.Labeled] (compartment names):
//
//   - [SIR]: susceptible, infected, recovered
//   - [SEIR]: SIR with an exposed, not yet infectious, compartment
//
// Models do not validate on every call; validate once with Validate before
// the first Derive.
package models
