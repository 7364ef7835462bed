// Package combination enumerates k-element subsets of {0,...,n-1} in
// lexicographic order.
package combination

// Enumerator walks every size-k combination of n indices exactly once.
// It is not restartable; create a new one to enumerate again. Each
// Enumerator owns its counter so independent enumerations may run from
// different goroutines.
type Enumerator struct {
	n, k    int
	counter []int
	done    bool
}

// New returns an enumerator positioned before the first combination.
// Invalid sizes (k < 1 or k > n) yield an empty sequence.
func New(n, k int) *Enumerator {
	e := &Enumerator{n: n, k: k}
	if k < 1 || k > n {
		e.done = true
		return e
	}
	e.counter = make([]int, k)
	for i := range e.counter {
		e.counter[i] = i
	}
	return e
}

// Next returns the next combination and true, or nil and false once the
// sequence is exhausted. The returned slice is a copy.
func (e *Enumerator) Next() ([]int, bool) {
	if e.done {
		return nil, false
	}
	out := make([]int, e.k)
	copy(out, e.counter)
	e.advance()
	return out, true
}

// advance moves the counter to the following combination, carrying from
// the rightmost position leftwards. Position pos may hold at most
// n-k+pos, so it overflows once it reaches n-k+1+pos.
func (e *Enumerator) advance() {
	pos := e.k - 1
	for pos >= 0 {
		e.counter[pos]++
		if e.counter[pos] < e.n-e.k+1+pos {
			break
		}
		pos--
	}
	if pos < 0 {
		e.done = true
		return
	}
	for i := pos + 1; i < e.k; i++ {
		e.counter[i] = e.counter[i-1] + 1
	}
}

// All drains a fresh enumeration into a slice.
func All(n, k int) [][]int {
	out := make([][]int, 0, Binomial(n, k))
	e := New(n, k)
	for c, ok := e.Next(); ok; c, ok = e.Next() {
		out = append(out, c)
	}
	return out
}

// Binomial returns C(n, k) using the multiplicative formula on
// min(k, n-k). It returns 0 when k is out of [0, n].
func Binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if n-k < k {
		k = n - k
	}
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
	}
	return result
}
