package bip32

import "github.com/pkg/errors"

// Extended key serialization versions.
var (
	// BitcoinMainnetPrivate is the version of xprv keys.
	BitcoinMainnetPrivate = [4]byte{0x04, 0x88, 0xad, 0xe4}
	// BitcoinMainnetPublic is the version of xpub keys.
	BitcoinMainnetPublic = [4]byte{0x04, 0x88, 0xb2, 0x1e}
	// BitcoinTestnetPrivate is the version of tprv keys.
	BitcoinTestnetPrivate = [4]byte{0x04, 0x35, 0x83, 0x94}
	// BitcoinTestnetPublic is the version of tpub keys.
	BitcoinTestnetPublic = [4]byte{0x04, 0x35, 0x87, 0xcf}
)

var privateToPublicVersion = map[[4]byte][4]byte{
	BitcoinMainnetPrivate: BitcoinMainnetPublic,
	BitcoinTestnetPrivate: BitcoinTestnetPublic,
}

func toPublicVersion(version [4]byte) ([4]byte, error) {
	publicVersion, ok := privateToPublicVersion[version]
	if !ok {
		return [4]byte{}, errors.Errorf("unknown private version %x", version)
	}
	return publicVersion, nil
}

func isPrivateVersion(version [4]byte) (bool, error) {
	if _, ok := privateToPublicVersion[version]; ok {
		return true, nil
	}
	for _, publicVersion := range privateToPublicVersion {
		if publicVersion == version {
			return false, nil
		}
	}
	return false, errors.Errorf("unknown version %x", version)
}
