package gc

// primeSizes is the fixed table the registry chooses its bucket count
// from: every table size a registry ever holds is one of these values,
// picked by nextPrime. Doubling (roughly) keeps the rehash count
// logarithmic in nitems while staying prime, which keeps Robin Hood
// probe sequences from degenerating on pathological pointer strides.
var primeSizes = []int{
	11, 23, 47, 97, 197, 397, 797, 1597, 3203, 6421,
	12853, 25717, 51437, 102877, 205759, 411527, 823117,
	1646237, 3292489, 6584983, 13169977, 26339969, 52679969,
	105359939, 210719881, 421439783, 842879579, 1685759167,
}

// nextPrime returns the smallest table size in primeSizes that is
// greater than or equal to n. Callers larger than the table's ceiling
// get the largest entry; a registry holding more than ~1.6 billion
// entries is out of scope for this collector.
func nextPrime(n int) int {
	for _, p := range primeSizes {
		if p >= n {
			return p
		}
	}
	return primeSizes[len(primeSizes)-1]
}

// prevPrime returns the largest table size in primeSizes strictly
// smaller than n, or n's own floor if already at the smallest entry —
// used when shrinking the table after a sweep drops the load factor.
func prevPrime(n int) int {
	for i := len(primeSizes) - 1; i >= 0; i-- {
		if primeSizes[i] < n {
			return primeSizes[i]
		}
	}
	return primeSizes[0]
}
