package content

import "math/rand/v2"

// SampleHashtags draws count tags from the pool without replacement. When the
// pool holds fewer than count tags the whole pool is returned; the order is
// random either way.
func SampleHashtags(pool []string, count int) []string {
	if count <= 0 || len(pool) == 0 {
		return nil
	}
	if count > len(pool) {
		count = len(pool)
	}
	indexes := rand.Perm(len(pool))
	sample := make([]string, 0, count)
	for _, index := range indexes[:count] {
		sample = append(sample, pool[index])
	}
	return sample
}
