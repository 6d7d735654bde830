package protocol

// between and incSeq are the circular sequence-number helpers that
// p5.c and protocols/p6.c each redeclare as a private static function;
// Go's package scoping means declaring the same helper twice in one
// package would collide, so it is kept here once and shared by
// [GoBackN] and [SelectiveRepeat] instead of being duplicated per file.
func between(a, b, c uint32) bool {
	return ((a <= b) && (b < c)) || ((c < a) && (a <= b)) || ((b < c) && (c < a))
}

// incSeq increments k circularly within [0, maxSeq].
func incSeq(k, maxSeq uint32) uint32 {
	if k < maxSeq {
		return k + 1
	}
	return 0
}
