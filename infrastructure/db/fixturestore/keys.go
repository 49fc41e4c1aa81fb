package fixturestore

import "github.com/kaspanet/chaingen/domain/consensus/model/externalapi"

var (
	blockBucket = []byte("block/")
	nameBucket  = []byte("name/")
	tipKey      = []byte("tip")
)

func bucketKey(bucket []byte, suffix []byte) []byte {
	key := make([]byte, 0, len(bucket)+len(suffix))
	key = append(key, bucket...)
	return append(key, suffix...)
}

func blockKey(hash *externalapi.DomainHash) []byte {
	return bucketKey(blockBucket, hash.ByteSlice())
}

func nameKey(name string) []byte {
	return bucketKey(nameBucket, []byte(name))
}
