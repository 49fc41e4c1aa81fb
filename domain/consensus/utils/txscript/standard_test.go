// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/kaspanet/chaingen/util"
)

const (
	compressedPubKey1 = "02192d74d0cb94344c9569c2e77901573d8d7903c3ebec3a957724895dca52c6b4"
	compressedPubKey2 = "03b0bd634234abbb1ba1e986e884185c61cf43e001f9137f23c2c409273eb16e65"
)

// newAddressPubKeyHash returns a new util.AddressPubKeyHash from the
// provided hash. It panics if an error occurs. This is only used in the tests
// as a helper since the only way it can fail is if there is an error in the
// test source code.
func newAddressPubKeyHash(pkHash []byte) util.Address {
	addr, err := util.NewAddressPubKeyHash(pkHash, util.MainNetPubKeyHashAddrID)
	if err != nil {
		panic("invalid public key hash in test source")
	}

	return addr
}

// bogusAddress implements the util.Address interface so the tests can ensure
// unsupported address types are handled properly.
type bogusAddress struct{}

// EncodeAddress simply returns an empty string. It exists to satisfy the
// util.Address interface.
func (b *bogusAddress) EncodeAddress() string {
	return ""
}

// ScriptAddress simply returns an empty byte slice. It exists to satisfy the
// util.Address interface.
func (b *bogusAddress) ScriptAddress() []byte {
	return nil
}

// String simply returns an empty string. It exists to satisfy the
// util.Address interface.
func (b *bogusAddress) String() string {
	return ""
}

func (b *bogusAddress) NetID() byte {
	return 0xff
}

// TestPayToAddrScript ensures the PayToAddrScript function generates the
// correct scripts for the various types of addresses.
func TestPayToAddrScript(t *testing.T) {
	t.Parallel()

	// 1MirQ9bwyQcGVJPwKUgapu5ouK2E2Ey4gX
	p2pkhMain := newAddressPubKeyHash(hexToBytes("e34cce70c86" +
		"373273efcc54ce7d2a491bb4a0e84"))

	// Errors used in the tests below defined here for convenience and to
	// keep the horizontal test size shorter.
	errUnsupportedAddress := scriptError(ErrUnsupportedAddress, "")

	tests := []struct {
		in       util.Address
		expected string
		err      error
	}{
		// pay-to-pubkey-hash address on mainnet
		{
			p2pkhMain,
			"DUP HASH160 DATA_20 0xe34cce70c86373273efcc54ce7d2a4" +
				"91bb4a0e84 EQUALVERIFY CHECKSIG",
			nil,
		},

		// Supported address types with nil pointers.
		{(*util.AddressPubKeyHash)(nil), "", errUnsupportedAddress},

		// Unsupported address type.
		{&bogusAddress{}, "", errUnsupportedAddress},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		scriptPublicKey, err := PayToAddrScript(test.in)
		if e := checkScriptError(err, test.err); e != nil {
			t.Errorf("PayToAddrScript #%d unexpected error - "+
				"got %v, want %v", i, err, test.err)
			continue
		}

		expected := mustParseShortForm(test.expected)
		if !bytes.Equal(scriptPublicKey, expected) {
			t.Errorf("PayToAddrScript #%d got: %x\nwant: %x",
				i, scriptPublicKey, expected)
			continue
		}
	}
}

func TestPayToPubKeyScript(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pubKey   []byte
		expected string
		err      error
	}{
		{
			name:     "compressed ECDSA key",
			pubKey:   hexToBytes(compressedPubKey1),
			expected: "DATA_33 0x" + compressedPubKey1 + " CHECKSIG",
		},
		{
			name:     "x-only Schnorr key",
			pubKey:   hexToBytes(compressedPubKey1[2:]),
			expected: "DATA_32 0x" + compressedPubKey1[2:] + " CHECKSIG",
		},
		{
			name: "uncompressed key",
			pubKey: hexToBytes("0411db93e1dcdb8a016b49840f8c53bc1eb68a382e" +
				"97b1482ecad7b148a6909a5cb2e0eaddfb84ccf9744464f82e16" +
				"0bfa9b8b64f9d4c03f999b8643f656b412a3"),
			err: scriptError(ErrUnsupportedAddress, ""),
		},
		{
			name:   "empty key",
			pubKey: nil,
			err:    scriptError(ErrUnsupportedAddress, ""),
		},
	}

	for _, test := range tests {
		script, err := PayToPubKeyScript(test.pubKey)
		if e := checkScriptError(err, test.err); e != nil {
			t.Errorf("%s: %v", test.name, e)
			continue
		}
		if test.err != nil {
			continue
		}
		expected := mustParseShortForm(test.expected)
		if !bytes.Equal(script, expected) {
			t.Errorf("%s: got: %x\nwant: %x", test.name, script, expected)
			continue
		}
		if class := GetScriptClass(script); class != PubKeyTy {
			t.Errorf("%s: expected class %s, got %s", test.name, PubKeyTy, class)
		}
	}
}

func TestPayToPubKeyHashScript(t *testing.T) {
	t.Parallel()

	script, err := PayToPubKeyHashScript(hexToBytes("e34cce70c86373273efcc54ce7d2a491bb4a0e84"))
	if err != nil {
		t.Fatalf("PayToPubKeyHashScript: %v", err)
	}
	expected := mustParseShortForm("DUP HASH160 DATA_20 " +
		"0xe34cce70c86373273efcc54ce7d2a491bb4a0e84 EQUALVERIFY CHECKSIG")
	if !bytes.Equal(script, expected) {
		t.Errorf("PayToPubKeyHashScript got: %x\nwant: %x", script, expected)
	}

	_, err = PayToPubKeyHashScript(hexToBytes("e34cce70c86373273efcc54ce7d2a491bb4a0e"))
	if !IsErrorCode(err, ErrUnsupportedAddress) {
		t.Errorf("PayToPubKeyHashScript: expected ErrUnsupportedAddress "+
			"for a 19 byte hash, got %v", err)
	}
}

func TestExtractScriptPubKeyAddress(t *testing.T) {
	t.Parallel()

	script := mustParseShortForm("DUP HASH160 DATA_20 " +
		"0xe34cce70c86373273efcc54ce7d2a491bb4a0e84 EQUALVERIFY CHECKSIG")
	addr, err := ExtractScriptPubKeyAddress(script, util.MainNetPubKeyHashAddrID)
	if err != nil {
		t.Fatalf("ExtractScriptPubKeyAddress: %v", err)
	}
	if addr.EncodeAddress() != "1MirQ9bwyQcGVJPwKUgapu5ouK2E2Ey4gX" {
		t.Errorf("ExtractScriptPubKeyAddress: expected 1MirQ9bwyQcGVJPwKUgapu5ouK2E2Ey4gX, got %s",
			addr.EncodeAddress())
	}

	_, err = ExtractScriptPubKeyAddress(mustParseShortForm("DATA_33 0x"+compressedPubKey1+" CHECKSIG"),
		util.MainNetPubKeyHashAddrID)
	if err == nil {
		t.Errorf("ExtractScriptPubKeyAddress: expected an error for a pay-to-pubkey script")
	}
}

// TestMultiSigScript ensures the MultiSigScript function returns the expected
// scripts and errors.
func TestMultiSigScript(t *testing.T) {
	t.Parallel()

	pubKey1 := hexToBytes(compressedPubKey1)
	pubKey2 := hexToBytes(compressedPubKey2)

	tests := []struct {
		keys      [][]byte
		nrequired int
		expected  string
		err       error
	}{
		{
			[][]byte{pubKey1, pubKey2},
			1,
			"1 DATA_33 0x" + compressedPubKey1 +
				" DATA_33 0x" + compressedPubKey2 + " 2 CHECKMULTISIG",
			nil,
		},
		{
			[][]byte{pubKey1, pubKey2},
			2,
			"2 DATA_33 0x" + compressedPubKey1 +
				" DATA_33 0x" + compressedPubKey2 + " 2 CHECKMULTISIG",
			nil,
		},
		{
			[][]byte{pubKey1, pubKey2[1:]},
			2,
			"2 DATA_33 0x" + compressedPubKey1 +
				" DATA_32 0x" + compressedPubKey2[2:] + " 2 CHECKMULTISIG",
			nil,
		},
		{
			[][]byte{pubKey1, pubKey2},
			3,
			"",
			scriptError(ErrTooManyRequiredSigs, ""),
		},
		{
			[][]byte{pubKey1},
			0,
			"",
			scriptError(ErrTooManyRequiredSigs, ""),
		},
		{
			nil,
			1,
			"",
			scriptError(ErrTooManyPubKeys, ""),
		},
		{
			[][]byte{pubKey1, pubKey1, pubKey1, pubKey1, pubKey1, pubKey1,
				pubKey1, pubKey1, pubKey1, pubKey1, pubKey1, pubKey1,
				pubKey1, pubKey1, pubKey1, pubKey1, pubKey1},
			1,
			"",
			scriptError(ErrTooManyPubKeys, ""),
		},
		{
			[][]byte{pubKey1, pubKey2[:20]},
			1,
			"",
			scriptError(ErrUnsupportedAddress, ""),
		},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		script, err := MultiSigScript(test.keys, test.nrequired)
		if e := checkScriptError(err, test.err); e != nil {
			t.Errorf("MultiSigScript #%d: %v", i, e)
			continue
		}
		if test.err != nil {
			continue
		}

		expected := mustParseShortForm(test.expected)
		if !bytes.Equal(script, expected) {
			t.Errorf("MultiSigScript #%d got: %x\nwant: %x",
				i, script, expected)
			continue
		}

		numPubKeys, numSigs, err := CalcMultiSigStats(script)
		if err != nil {
			t.Errorf("CalcMultiSigStats #%d: %v", i, err)
			continue
		}
		if numPubKeys != len(test.keys) || numSigs != test.nrequired {
			t.Errorf("CalcMultiSigStats #%d: got %d-of-%d, want %d-of-%d",
				i, numSigs, numPubKeys, test.nrequired, len(test.keys))
		}
	}
}

func TestCalcMultiSigStatsNotMultisig(t *testing.T) {
	t.Parallel()

	script := mustParseShortForm("DUP HASH160 DATA_20 " +
		"0xe34cce70c86373273efcc54ce7d2a491bb4a0e84 EQUALVERIFY CHECKSIG")
	_, _, err := CalcMultiSigStats(script)
	if !IsErrorCode(err, ErrNotMultisigScript) {
		t.Errorf("CalcMultiSigStats: expected ErrNotMultisigScript, got %v", err)
	}
}

// TestNullDataScript tests whether NullDataScript returns a valid script.
func TestNullDataScript(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     []byte
		expected []byte
		err      error
		class    ScriptClass
	}{
		{
			name:     "small int",
			data:     hexToBytes("01"),
			expected: mustParseShortForm("RETURN 1"),
			err:      nil,
			class:    NullDataTy,
		},
		{
			name:     "max small int",
			data:     hexToBytes("10"),
			expected: mustParseShortForm("RETURN 16"),
			err:      nil,
			class:    NullDataTy,
		},
		{
			name:     "data of size before OP_PUSHDATA1 is needed",
			data:     bytes.Repeat([]byte{0x04}, 75),
			expected: append([]byte{OpReturn, OpData75}, bytes.Repeat([]byte{0x04}, 75)...),
			err:      nil,
			class:    NullDataTy,
		},
		{
			name:     "max data carrier size",
			data:     bytes.Repeat([]byte{0x04}, MaxDataCarrierSize),
			expected: append([]byte{OpReturn, OpPushData1, MaxDataCarrierSize}, bytes.Repeat([]byte{0x04}, MaxDataCarrierSize)...),
			err:      nil,
			class:    NullDataTy,
		},
		{
			name:     "too big",
			data:     bytes.Repeat([]byte{0x04}, MaxDataCarrierSize+1),
			expected: nil,
			err:      scriptError(ErrTooMuchNullData, ""),
			class:    NonStandardTy,
		},
	}

	for i, test := range tests {
		script, err := NullDataScript(test.data)
		if e := checkScriptError(err, test.err); e != nil {
			t.Errorf("NullDataScript: #%d (%s): %v", i, test.name,
				e)
			continue

		}

		// Check that the expected result was returned.
		if !bytes.Equal(script, test.expected) {
			t.Errorf("NullDataScript: #%d (%s) wrong result\n"+
				"got: %x\nwant: %x", i, test.name, script,
				test.expected)
			continue
		}

		// Check that the script has the correct type.
		scriptType := GetScriptClass(script)
		if scriptType != test.class {
			t.Errorf("GetScriptClass: #%d (%s) wrong result -- "+
				"got: %v, want: %v", i, test.name, scriptType,
				test.class)
			continue
		}
	}
}

// scriptClassTests houses several test scripts used to ensure various class
// determination is working as expected.
var scriptClassTests = []struct {
	name   string
	script string
	class  ScriptClass
}{
	{
		name: "Pay Pubkey",
		script: "DATA_33 0x0232abdc893e7f0631364d7fd01cb33d24da45329a" +
			"00357b3a7886211ab414d55a CHECKSIG",
		class: PubKeyTy,
	},
	{
		name: "Pay Schnorr Pubkey",
		script: "DATA_32 0x32abdc893e7f0631364d7fd01cb33d24da45329a" +
			"00357b3a7886211ab414d55a CHECKSIG",
		class: PubKeyTy,
	},
	{
		name: "Pay uncompressed Pubkey",
		script: "DATA_65 0x0411db93e1dcdb8a016b49840f8c53bc1eb68a382e" +
			"97b1482ecad7b148a6909a5cb2e0eaddfb84ccf9744464f82e16" +
			"0bfa9b8b64f9d4c03f999b8643f656b412a3 CHECKSIG",
		class: NonStandardTy,
	},
	// tx 599e47a8114fe098103663029548811d2651991b62397e057f0c863c2bc9f9ea
	{
		name: "Pay PubkeyHash",
		script: "DUP HASH160 DATA_20 0x660d4ef3a743e3e696ad990364e555" +
			"c271ad504b EQUALVERIFY CHECKSIG",
		class: PubKeyHashTy,
	},
	// mutlisig
	{
		name: "multisig",
		script: "1 DATA_33 0x0232abdc893e7f0631364d7fd01cb33d24da4" +
			"5329a00357b3a7886211ab414d55a 1 CHECKMULTISIG",
		class: MultiSigTy,
	},
	// tx e5779b9e78f9650debc2893fd9636d827b26b4ddfa6a8172fe8708c924f5c39d
	{
		name: "P2SH",
		script: "HASH160 DATA_20 0x433ec2ac1ffa1b7b7d027f564529c57197f" +
			"9ae88 EQUAL",
		class: NonStandardTy,
	},
	{
		name:   "nulldata no data",
		script: "RETURN",
		class:  NullDataTy,
	},
	{
		name:   "nulldata",
		script: "RETURN 0",
		class:  NullDataTy,
	},
	{
		name:   "nulldata with two pushes",
		script: "RETURN 0 0",
		class:  NonStandardTy,
	},

	// The next few are almost multisig (it is the more complex script type)
	// but with various changes to make it fail.
	{
		// Multisig but invalid nsigs.
		name: "strange 1",
		script: "DUP DATA_33 0x0232abdc893e7f0631364d7fd01cb33d24da45" +
			"329a00357b3a7886211ab414d55a 1 CHECKMULTISIG",
		class: NonStandardTy,
	},
	{
		// Multisig but invalid pubkey.
		name:   "strange 2",
		script: "1 1 1 CHECKMULTISIG",
		class:  NonStandardTy,
	},
	{
		// Multisig but no matching npubkeys opcode.
		name: "strange 3",
		script: "1 DATA_33 0x0232abdc893e7f0631364d7fd01cb33d24da4532" +
			"9a00357b3a7886211ab414d55a DATA_33 0x0232abdc893e7f0" +
			"631364d7fd01cb33d24da45329a00357b3a7886211ab414d55a " +
			"CHECKMULTISIG",
		class: NonStandardTy,
	},
	{
		// Multisig but with multisigverify.
		name: "strange 4",
		script: "1 DATA_33 0x0232abdc893e7f0631364d7fd01cb33d24da4532" +
			"9a00357b3a7886211ab414d55a 1 CHECKMULTISIGVERIFY",
		class: NonStandardTy,
	},
	{
		// Multisig but wrong length.
		name:   "strange 5",
		script: "1 CHECKMULTISIG",
		class:  NonStandardTy,
	},
	{
		name:   "doesn't parse",
		script: "DATA_5 0x01020304",
		class:  NonStandardTy,
	},
	{
		name: "multisig script with wrong number of pubkeys",
		script: "2 " +
			"DATA_33 " +
			"0x027adf5df7c965a2d46203c781bd4dd8" +
			"21f11844136f6673af7cc5a4a05cd29380 " +
			"DATA_33 " +
			"0x02c08f3de8ee2de9be7bd770f4c10eb0" +
			"d6ff1dd81ee96eedd3a9d4aeaf86695e80 " +
			"3 CHECKMULTISIG",
		class: NonStandardTy,
	},
}

// TestScriptClass ensures all the scripts in scriptClassTests have the expected
// class.
func TestScriptClass(t *testing.T) {
	t.Parallel()

	for _, test := range scriptClassTests {
		script := mustParseShortForm(test.script)
		class := GetScriptClass(script)
		if class != test.class {
			t.Errorf("%s: expected %s got %s (script %x)", test.name,
				test.class, class, script)
			continue
		}
	}
}

// TestStringifyClass ensures the script class string returns the expected
// string for each script class.
func TestStringifyClass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		class    ScriptClass
		stringed string
	}{
		{
			name:     "nonstandardty",
			class:    NonStandardTy,
			stringed: "nonstandard",
		},
		{
			name:     "pubkey",
			class:    PubKeyTy,
			stringed: "pubkey",
		},
		{
			name:     "pubkeyhash",
			class:    PubKeyHashTy,
			stringed: "pubkeyhash",
		},
		{
			name:     "multisig",
			class:    MultiSigTy,
			stringed: "multisig",
		},
		{
			name:     "nulldataty",
			class:    NullDataTy,
			stringed: "nulldata",
		},
		{
			name:     "broken",
			class:    ScriptClass(255),
			stringed: "Invalid",
		},
	}

	for _, test := range tests {
		typeString := test.class.String()
		if typeString != test.stringed {
			t.Errorf("%s: got %#q, want %#q", test.name,
				typeString, test.stringed)
		}
	}
}

func TestPushedData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		script string
		out    [][]byte
		valid  bool
	}{
		{
			"0 IF 0 ELSE 2 ENDIF",
			[][]byte{nil, nil},
			true,
		},
		{
			"16777216 10000000",
			[][]byte{
				{0x00, 0x00, 0x00, 0x01}, // 16777216
				{0x80, 0x96, 0x98, 0x00}, // 10000000
			},
			true,
		},
		{
			"DUP HASH160 '17VZNX1SN5NtKa8UQFxwQbFeFc3iqRYhem' EQUALVERIFY CHECKSIG",
			[][]byte{
				// 17VZNX1SN5NtKa8UQFxwQbFeFc3iqRYhem
				{
					0x31, 0x37, 0x56, 0x5a, 0x4e, 0x58, 0x31, 0x53, 0x4e, 0x35,
					0x4e, 0x74, 0x4b, 0x61, 0x38, 0x55, 0x51, 0x46, 0x78, 0x77,
					0x51, 0x62, 0x46, 0x65, 0x46, 0x63, 0x33, 0x69, 0x71, 0x52,
					0x59, 0x68, 0x65, 0x6d,
				},
			},
			true,
		},
		{
			"PUSHDATA4 1000 EQUAL",
			nil,
			false,
		},
	}

	for i, test := range tests {
		script := mustParseShortForm(test.script)
		data, err := PushedData(script)
		if test.valid && err != nil {
			t.Errorf("TestPushedData failed test #%d: %v\n", i, err)
			continue
		} else if !test.valid && err == nil {
			t.Errorf("TestPushedData failed test #%d: test should "+
				"be invalid\n", i)
			continue
		}
		if !reflect.DeepEqual(data, test.out) {
			t.Errorf("TestPushedData failed test #%d: want: %x "+
				"got: %x\n", i, test.out, data)
		}
	}
}

func TestDisasmString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		script   []byte
		expected string
		valid    bool
	}{
		{
			name: "pay to pubkey hash",
			script: mustParseShortForm("DUP HASH160 DATA_20 " +
				"0xe34cce70c86373273efcc54ce7d2a491bb4a0e84 EQUALVERIFY CHECKSIG"),
			expected: "OP_DUP OP_HASH160 e34cce70c86373273efcc54ce7d2a491bb4a0e84 " +
				"OP_EQUALVERIFY OP_CHECKSIG",
			valid: true,
		},
		{
			name: "multisig",
			script: mustParseShortForm("1 DATA_33 0x" + compressedPubKey1 +
				" 1 CHECKMULTISIG"),
			expected: "1 " + compressedPubKey1 + " 1 OP_CHECKMULTISIG",
			valid:    true,
		},
		{
			name:     "truncated push",
			script:   hexToBytes("76a914e34cce70"),
			expected: "OP_DUP OP_HASH160 [error]",
			valid:    false,
		},
	}

	for _, test := range tests {
		disasm, err := DisasmString(test.script)
		if (err == nil) != test.valid {
			t.Errorf("%s: unexpected error state %v", test.name, err)
			continue
		}
		if disasm != test.expected {
			t.Errorf("%s: got %q, want %q", test.name, disasm, test.expected)
		}
	}
}
