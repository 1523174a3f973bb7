package main

import (
	"math"
	"net"
	"sort"
)

type errCountSlice []errCount

func (s errCountSlice) Len() int           { return len(s) }
func (s errCountSlice) Less(i, j int) bool { return s[i].Count > s[j].Count }
func (s errCountSlice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

type errCount struct {
	Err   error
	Count int
}

// topErrs groups errors by message, most frequent first.
func topErrs(errs []error) []errCount {
	counts := map[string]errCount{}

	for _, e := range errs {
		msg := "<nil>"
		if ne, ok := e.(net.Error); ok && ne.Timeout() {
			msg = "i/o timeout" // remove ip because it's spammy otherwise
		} else if e != nil {
			msg = e.Error()
		}

		c, exist := counts[msg]
		if !exist {
			c.Err = e
		}

		c.Count++
		counts[msg] = c
	}

	var slice errCountSlice
	for _, c := range counts {
		slice = append(slice, c)
	}

	sort.Stable(slice)

	return slice
}

func errorRate(errs []error) float64 {
	if len(errs) == 0 {
		return 0
	}
	var n float64
	for _, e := range errs {
		if e != nil {
			n++
		}
	}
	return n / float64(len(errs))
}

// percentile interpolates linearly between the two closest samples. xs is
// sorted in place.
func percentile(xs []float64, perc float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}

	size := float64(len(xs))
	sort.Float64s(xs)

	i := perc * size
	switch {
	case i < 1.0:
		return xs[0]
	case i >= size:
		return xs[len(xs)-1]
	default:
		frac := i - math.Floor(i)
		a := xs[int(i)-1]
		b := xs[int(i)]
		return a + frac*(b-a)
	}
}
