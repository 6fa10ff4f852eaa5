package model

// indexer interface is design to give a unique index to every feasible (course, timeslot, room) combination and vice versa.
// Combinations that were pruned before variable creation have no index.
type indexer interface {
	// Returns the index of the assignment variable of a combination, false if the variable does not exist
	Index(course, timeslot, room uint64) (int64, bool)
	// Returns the combination of an existing variable's index
	Attributes(index int64) (course, timeslot, room uint64)
	// Returns the amount of assignment variables (indices go from 1 to Variables())
	Variables() uint64
}

// newIndexer numbers the permutations (Course, Timeslot, Room) in the order they were generated
func newIndexer(permutations [][]uint64) indexer {
	indexer := &indexerImplementation{
		indices:    make(map[[3]uint64]int64, len(permutations)),
		attributes: make([][3]uint64, 0, len(permutations)),
	}
	for _, permutation := range permutations {
		key := [3]uint64{permutation[0], permutation[1], permutation[2]}
		indexer.attributes = append(indexer.attributes, key)
		indexer.indices[key] = int64(len(indexer.attributes))
	}
	return indexer
}

type indexerImplementation struct {
	indices    map[[3]uint64]int64
	attributes [][3]uint64
}

func (indexer *indexerImplementation) Index(course, timeslot, room uint64) (int64, bool) {
	index, ok := indexer.indices[[3]uint64{course, timeslot, room}]
	return index, ok
}

func (indexer *indexerImplementation) Attributes(index int64) (course, timeslot, room uint64) {
	attributes := indexer.attributes[index-1]
	return attributes[0], attributes[1], attributes[2]
}

func (indexer *indexerImplementation) Variables() uint64 {
	return uint64(len(indexer.attributes))
}
