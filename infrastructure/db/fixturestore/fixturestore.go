// Package fixturestore archives generated blocks in a leveldb database,
// indexed by hash and by name, together with the tip of the generated chain.
package fixturestore

import (
	"bytes"

	"github.com/kaspanet/chaingen/domain/consensus/model/externalapi"
	"github.com/kaspanet/chaingen/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/chaingen/domain/consensus/utils/serialization"
	"github.com/kaspanet/chaingen/util/binaryserializer"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	ldbErrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// ErrNotFound is returned when a requested block isn't in the store.
var ErrNotFound = errors.New("not found")

// IsNotFoundError returns whether err is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// TipInfo describes the last block put into a store.
type TipInfo struct {
	Name   string
	Height uint32
	Block  *externalapi.DomainBlock
}

// Store is a fixture store backed by leveldb.
type Store struct {
	ldb *leveldb.DB
}

// Open opens the fixture store at path, creating it if it doesn't exist.
func Open(path string) (*Store, error) {
	ldb, err := leveldb.OpenFile(path, Options())

	// If the database is corrupted, attempt to recover.
	if _, corrupted := err.(*ldbErrors.ErrCorrupted); corrupted {
		log.Warnf("LevelDB corruption detected for path %s: %s",
			path, err)
		ldb, err = leveldb.RecoverFile(path, nil)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		log.Warnf("LevelDB recovered from corruption for path %s",
			path)
	}

	// If the database cannot be opened for any other
	// reason, return the error as-is.
	if err != nil {
		return nil, errors.WithStack(err)
	}

	log.Debugf("Opened fixture store at %s", path)
	return &Store{ldb: ldb}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return errors.WithStack(s.ldb.Close())
}

// PutBlock stores block under name at the given height and makes it the
// tip. Putting a block under an existing name moves the name to it.
func (s *Store) PutBlock(name string, block *externalapi.DomainBlock, height uint32) error {
	serializedBlock, err := serialization.SerializeBlock(block)
	if err != nil {
		return err
	}
	hash := consensushashing.BlockHash(block)

	tipRecord := bytes.NewBuffer(make([]byte, 0, externalapi.DomainHashSize+4+len(name)))
	tipRecord.Write(hash.ByteSlice())
	err = binaryserializer.PutUint32(tipRecord, height)
	if err != nil {
		return err
	}
	tipRecord.WriteString(name)

	batch := new(leveldb.Batch)
	batch.Put(blockKey(hash), serializedBlock)
	batch.Put(nameKey(name), hash.ByteSlice())
	batch.Put(tipKey, tipRecord.Bytes())
	err = s.ldb.Write(batch, nil)
	if err != nil {
		return errors.WithStack(err)
	}

	log.Tracef("Stored block %s as %s at height %d", hash, name, height)
	return nil
}

// BlockByHash returns the block with the given hash.
func (s *Store) BlockByHash(hash *externalapi.DomainHash) (*externalapi.DomainBlock, error) {
	serializedBlock, err := s.get(blockKey(hash))
	if err != nil {
		return nil, errors.Wrapf(err, "block %s", hash)
	}
	return serialization.DeserializeBlock(serializedBlock)
}

// BlockByName returns the block stored under name.
func (s *Store) BlockByName(name string) (*externalapi.DomainBlock, error) {
	hashBytes, err := s.get(nameKey(name))
	if err != nil {
		return nil, errors.Wrapf(err, "block named %s", name)
	}
	hash, err := externalapi.NewDomainHashFromByteSlice(hashBytes)
	if err != nil {
		return nil, err
	}
	return s.BlockByHash(hash)
}

// Tip returns the last block put into the store.
func (s *Store) Tip() (*TipInfo, error) {
	tipRecord, err := s.get(tipKey)
	if err != nil {
		return nil, errors.Wrap(err, "tip")
	}
	if len(tipRecord) < externalapi.DomainHashSize+4 {
		return nil, errors.Errorf("tip record of %d bytes is too short", len(tipRecord))
	}

	hash, err := externalapi.NewDomainHashFromByteSlice(tipRecord[:externalapi.DomainHashSize])
	if err != nil {
		return nil, err
	}
	reader := bytes.NewReader(tipRecord[externalapi.DomainHashSize:])
	height, err := binaryserializer.Uint32(reader)
	if err != nil {
		return nil, err
	}
	block, err := s.BlockByHash(hash)
	if err != nil {
		return nil, err
	}

	return &TipInfo{
		Name:   string(tipRecord[externalapi.DomainHashSize+4:]),
		Height: height,
		Block:  block,
	}, nil
}

// Chain returns the stored chain from its first block up to its tip,
// following previous block hashes back from the tip.
func (s *Store) Chain() ([]*externalapi.DomainBlock, error) {
	tip, err := s.Tip()
	if err != nil {
		return nil, err
	}

	chain := make([]*externalapi.DomainBlock, tip.Height+1)
	block := tip.Block
	for height := tip.Height; ; height-- {
		chain[height] = block
		if height == 0 {
			break
		}
		block, err = s.BlockByHash(&block.Header.PreviousBlockHash)
		if err != nil {
			return nil, errors.Wrapf(err, "missing the block at height %d", height-1)
		}
	}
	return chain, nil
}

// Names returns the names of all stored blocks in lexicographical order.
func (s *Store) Names() ([]string, error) {
	iterator := s.ldb.NewIterator(util.BytesPrefix(nameBucket), nil)
	defer iterator.Release()

	var names []string
	for iterator.Next() {
		names = append(names, string(iterator.Key()[len(nameBucket):]))
	}
	return names, errors.WithStack(iterator.Error())
}

func (s *Store) get(key []byte) ([]byte, error) {
	data, err := s.ldb.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, errors.WithStack(ErrNotFound)
		}
		return nil, errors.WithStack(err)
	}
	return data, nil
}
