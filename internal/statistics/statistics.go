package statistics

import (
	"fmt"
	"math"
	"sort"
)

// RoundResult is one seat's outcome in a single round
type RoundResult struct {
	Net     int   // Points won (or lost) against the whole table
	Seed    int64 // Deal seed for this round (for replay)
	Seat    int   // Seat index, 0-based
	Foul    bool  // Seat's arrangement fouled
	Special bool  // Seat scored a confirmed special pattern
}

// SeatStats tracks results for one seat
type SeatStats struct {
	Rounds int
	Sum    float64
	Sum2   float64
}

// Statistics aggregates seat results across many simulated rounds
type Statistics struct {
	Rounds int
	Sum    float64
	Sum2   float64   // Sum of squares for variance calculation
	Values []float64 // Store all values for median/percentile calculation

	Wins   int
	Losses int
	Pushes int

	// Points split by how the seat's round resolved; they always add up to All
	SpecialPoints float64
	FoulPoints    float64
	AreaPoints    float64
	All           float64

	Fouls    int
	Specials int

	Seats []SeatStats

	MaxWin  int
	MaxLoss int
}

// Mean returns the mean net points per seat-round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.Sum / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.Sum2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// FoulRate is the share of seat-rounds that fouled.
func (s *Statistics) FoulRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Fouls) / float64(s.Rounds)
}

// SpecialRate is the share of seat-rounds scored as a special pattern.
func (s *Statistics) SpecialRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Specials) / float64(s.Rounds)
}

// Add incorporates a new seat result into the statistics
func (s *Statistics) Add(result RoundResult) {
	net := float64(result.Net)
	s.Rounds++
	s.Sum += net
	s.Sum2 += net * net
	s.Values = append(s.Values, net)

	switch {
	case result.Net > 0:
		s.Wins++
	case result.Net < 0:
		s.Losses++
	default:
		s.Pushes++
	}

	switch {
	case result.Special:
		s.Specials++
		s.SpecialPoints += net
	case result.Foul:
		s.Fouls++
		s.FoulPoints += net
	default:
		s.AreaPoints += net
	}
	s.All += net

	if result.Seat >= 0 {
		for len(s.Seats) <= result.Seat {
			s.Seats = append(s.Seats, SeatStats{})
		}
		seat := &s.Seats[result.Seat]
		seat.Rounds++
		seat.Sum += net
		seat.Sum2 += net * net
	}

	if result.Net > s.MaxWin {
		s.MaxWin = result.Net
	}
	if result.Net < s.MaxLoss {
		s.MaxLoss = result.Net
	}
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// SeatMean returns the mean result for a seat
func (s *Statistics) SeatMean(seat int) float64 {
	if seat < 0 || seat >= len(s.Seats) {
		return 0
	}
	ss := s.Seats[seat]
	if ss.Rounds == 0 {
		return 0
	}
	return ss.Sum / float64(ss.Rounds)
}

// IsLedgerBalanced checks that the points buckets add up to the total
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.All-s.SpecialPoints-s.FoulPoints-s.AreaPoints) <= 1e-6
}

// IsZeroSum reports whether the table as a whole neither gained nor lost.
// Every complete round is zero-sum, so this holds once whole rounds are added.
func (s *Statistics) IsZeroSum() bool {
	return math.Abs(s.All) <= 1e-6
}

// Validate performs consistency checks on the collected data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: all=%.1f, special=%.1f, foul=%.1f, areas=%.1f",
			s.All, s.SpecialPoints, s.FoulPoints, s.AreaPoints)
	}
	if !s.IsZeroSum() {
		return fmt.Errorf("table is not zero-sum: net %.1f over %d seat-rounds", s.All, s.Rounds)
	}

	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	if s.Wins+s.Losses+s.Pushes != s.Rounds {
		return fmt.Errorf("wins+losses+pushes (%d) does not match rounds count (%d)",
			s.Wins+s.Losses+s.Pushes, s.Rounds)
	}

	seatRounds := 0
	for _, seat := range s.Seats {
		seatRounds += seat.Rounds
	}
	if seatRounds != s.Rounds {
		return fmt.Errorf("seat rounds total (%d) does not match rounds count (%d)",
			seatRounds, s.Rounds)
	}

	return nil
}
