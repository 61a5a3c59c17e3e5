// Package channel provides loss models for exercising FEC delivery
// without a real network.
//
// A Channel takes the full encoded packet stream and returns the subset
// that "arrived". Implementations may reorder and drop packets but never
// invent or mutate them, so any Channel is a valid stand-in for a lossy
// transport. Deterministic models (DropIndices, BurstLoss) exist for
// reproducible tests; RandomLoss matches the behavior of a uniformly
// lossy link.
package channel
