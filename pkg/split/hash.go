package split

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math"
	"sort"

	"housingml/pkg/data"
)

// InTestSet reports whether id belongs to the test set for testRatio.
// The CRC-32 (IEEE) of the id's 8-byte little-endian encoding is compared
// against testRatio * 2^32, so the answer depends on nothing but (id, testRatio).
func InTestSet(id int64, testRatio float64) bool {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(id))
	return float64(crc32.ChecksumIEEE(buf[:])) < testRatio*(1<<32)
}

// ByIDHash partitions row positions by the hash of their identifiers.
func ByIDHash(ids []int64, testRatio float64) (Fold, error) {
	if err := checkRatio(testRatio); err != nil {
		return Fold{}, err
	}
	var f Fold
	for i, id := range ids {
		if InTestSet(id, testRatio) {
			f.Test = append(f.Test, i)
		} else {
			f.Train = append(f.Train, i)
		}
	}
	return f, nil
}

// IDs reads a numeric identifier column, truncating values to int64.
func IDs(t *data.Table, idCol string) ([]int64, error) {
	vals, err := t.Numeric(idCol)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("%w: row %d of %q", ErrMissingID, i, idCol)
		}
		ids[i] = int64(v)
	}
	return ids, nil
}

// HashSplit splits t on the identifiers in idCol.
func HashSplit(t *data.Table, testRatio float64, idCol string) (train, test *data.Table, err error) {
	ids, err := IDs(t, idCol)
	if err != nil {
		return nil, nil, err
	}
	f, err := ByIDHash(ids, testRatio)
	if err != nil {
		return nil, nil, err
	}
	train, test = Apply(t, f)
	return train, test, nil
}

// IDFromCoordinates derives a district identifier from its location.
func IDFromCoordinates(longitude, latitude float64) float64 {
	return longitude*1000 + latitude
}

// AddCoordinateID appends an "id" column built by IDFromCoordinates.
func AddCoordinateID(t *data.Table, name string) error {
	lon, err := t.Numeric("longitude")
	if err != nil {
		return err
	}
	lat, err := t.Numeric("latitude")
	if err != nil {
		return err
	}
	ids := make([]float64, len(lon))
	for i := range lon {
		ids[i] = IDFromCoordinates(lon[i], lat[i])
	}
	return t.AddNumeric(name, ids)
}

// AddIndexID appends the row index as an identifier column.
// It is only stable if new rows are always appended at the end.
func AddIndexID(t *data.Table, name string) error {
	ids := make([]float64, t.Len())
	for i := range ids {
		ids[i] = float64(i)
	}
	return t.AddNumeric(name, ids)
}

// DuplicateIDs returns the identifiers that occur more than once, sorted.
// Duplicates share a split assignment, which can leak related rows.
func DuplicateIDs(ids []int64) []int64 {
	seen := make(map[int64]int, len(ids))
	for _, id := range ids {
		seen[id]++
	}
	var dups []int64
	for id, n := range seen {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	sort.Slice(dups, func(i, j int) bool { return dups[i] < dups[j] })
	return dups
}
