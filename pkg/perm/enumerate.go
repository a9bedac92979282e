package perm

import "math/big"

// Sequence enumerates all n! permutations of size n in ascending identifier
// order, starting from a given permutation's identifier. The sequence is
// lazy and finite; [Sequence.Reset] restarts it at the original starting
// identifier.
//
// Enumeration visits n! permutations and is only tractable for small n:
// 12! is already about 479 million.
type Sequence struct {
	n     int
	start *big.Int
	next  *big.Int
	total *big.Int
}

// NewSequence creates an enumerator over all permutations of start's size,
// beginning at start itself. Pass [Identity] to enumerate from identifier 0.
func NewSequence(start *Permutation) *Sequence {
	id := start.ID()
	return &Sequence{
		n:     start.Len(),
		start: id,
		next:  new(big.Int).Set(id),
		total: Factorial(start.Len()),
	}
}

// Next returns the next permutation, or nil when all n! permutations have
// been yielded.
func (s *Sequence) Next() *Permutation {
	if s.next.Cmp(s.total) >= 0 {
		return nil
	}
	p := New(s.n, s.next)
	s.next.Add(s.next, bigOne)
	return p
}

// Reset rewinds the sequence to its starting identifier.
func (s *Sequence) Reset() {
	s.next.Set(s.start)
}

// Remaining returns how many permutations the sequence has left to yield.
func (s *Sequence) Remaining() *big.Int {
	rem := new(big.Int).Sub(s.total, s.next)
	if rem.Sign() < 0 {
		rem.SetInt64(0)
	}
	return rem
}

// EnumerateFunc yields permutations one at a time via callback until fn
// returns false or the sequence is exhausted, and returns the number of
// permutations processed. The callback receives a fresh permutation each
// call, safe to retain.
func (s *Sequence) EnumerateFunc(fn func(*Permutation) bool) int {
	count := 0
	for p := s.Next(); p != nil; p = s.Next() {
		count++
		if !fn(p) {
			break
		}
	}
	return count
}

var bigOne = big.NewInt(1)
