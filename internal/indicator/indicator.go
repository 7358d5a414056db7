// Package indicator holds the signal primitives every rule composes: book levels,
// mid price, spread, VWAP, moving averages, monotonic trend detection and crossovers.
//
// Book primitives fail with an ErrCodeEmptyBook error when the side they read is empty.
// History primitives only ever read the trailing window they are asked for.
package indicator
