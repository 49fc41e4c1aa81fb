package bip32

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type path struct {
	isPrivate bool
	indexes   []uint32
}

// parsePath parses paths of the form m/0'/1/2' (private) or M/0/1 (public).
func parsePath(pathString string) (*path, error) {
	parts := strings.Split(pathString, "/")
	isPrivate := false
	switch parts[0] {
	case "m":
		isPrivate = true
	case "M":
		isPrivate = false
	default:
		return nil, errors.Errorf("%s is an invalid extended key type", parts[0])
	}

	indexes := make([]uint32, len(parts)-1)
	for i := 1; i < len(parts); i++ {
		index, err := parseIndex(parts[i])
		if err != nil {
			return nil, errors.Wrapf(err, "invalid path %s", pathString)
		}
		indexes[i-1] = index
	}

	return &path{
		isPrivate: isPrivate,
		indexes:   indexes,
	}, nil
}

func parseIndex(indexString string) (uint32, error) {
	isHardenedIndex := strings.HasSuffix(indexString, "'")
	if isHardenedIndex {
		indexString = strings.TrimSuffix(indexString, "'")
	}

	index, err := strconv.ParseUint(indexString, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "cannot parse index %s", indexString)
	}
	if index >= hardenedIndexStart {
		return 0, errors.Errorf("index %d is out of the range of non-hardened indexes", index)
	}

	if isHardenedIndex {
		return uint32(index) + hardenedIndexStart, nil
	}
	return uint32(index), nil
}
