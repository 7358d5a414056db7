// Package history keeps the rolling, append-only value sequences a policy
// accumulates across steps. Each sequence is identified by a key (a product
// symbol or an observation key) and a series name.
package history

import (
	"github.com/moznion/go-optional"
)

// Series names a tracked quantity.
type Series string

const (
	SeriesMid         Series = "mid"
	SeriesVWAPBid     Series = "vwap_bid"
	SeriesVWAPAsk     Series = "vwap_ask"
	SeriesObservation Series = "observation"
)

type seriesKey struct {
	key    string
	series Series
}

// Reader is the read-only view rules get of the store.
type Reader interface {
	// Values returns the full sequence. Callers must not modify it.
	Values(key string, series Series) []float64
	// Window returns at most the last n values.
	Window(key string, series Series, n int) []float64
	// Last returns the newest value, None when nothing was recorded.
	Last(key string, series Series) optional.Option[float64]
	// Previous returns the value before the newest one.
	Previous(key string, series Series) optional.Option[float64]
	Len(key string, series Series) int
}

// Store is a Reader that can also append. It is not safe for concurrent use.
type Store struct {
	sequences map[seriesKey][]float64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		sequences: make(map[seriesKey][]float64),
	}
}

// Append records value as the newest element of the sequence.
func (s *Store) Append(key string, series Series, value float64) {
	k := seriesKey{key: key, series: series}
	s.sequences[k] = append(s.sequences[k], value)
}

func (s *Store) Values(key string, series Series) []float64 {
	return s.sequences[seriesKey{key: key, series: series}]
}

func (s *Store) Window(key string, series Series, n int) []float64 {
	values := s.Values(key, series)
	if n <= 0 {
		return nil
	}

	if n >= len(values) {
		return values
	}

	return values[len(values)-n:]
}

func (s *Store) Last(key string, series Series) optional.Option[float64] {
	return s.fromEnd(key, series, 1)
}

func (s *Store) Previous(key string, series Series) optional.Option[float64] {
	return s.fromEnd(key, series, 2)
}

func (s *Store) Len(key string, series Series) int {
	return len(s.Values(key, series))
}

// Reset drops every sequence.
func (s *Store) Reset() {
	s.sequences = make(map[seriesKey][]float64)
}

func (s *Store) fromEnd(key string, series Series, offset int) optional.Option[float64] {
	values := s.Values(key, series)
	if len(values) < offset {
		return optional.None[float64]()
	}

	return optional.Some(values[len(values)-offset])
}
