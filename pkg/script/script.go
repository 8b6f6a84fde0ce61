// Package script builds and classifies the locking scripts used by a 2-party
// pay-to-script-hash (P2SH) spending condition.
//
// The redeem script is a bare 2-of-2 multisig:
//
//	OP_2 <pubkey1> <pubkey2> OP_2 OP_CHECKMULTISIG
//
// and the output locking it is the standard P2SH template:
//
//	OP_HASH160 <HASH160(redeem script)> OP_EQUAL
//
// See: BIP 16 (https://github.com/bitcoin/bips/blob/master/bip-0016.mediawiki)
package script

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // HASH160 is defined over RIPEMD-160
)

// P2SHScriptLength is the length of a standard P2SH output script.
const P2SHScriptLength = 1 + 1 + ripemd160.Size + 1

// IsP2SH reports whether script is a standard pay-to-script-hash output script.
func IsP2SH(script []byte) bool {
	return txscript.IsPayToScriptHash(script)
}

// Hash160 returns RIPEMD160(SHA256(b)).
func Hash160(b []byte) []byte {
	sum := sha256.Sum256(b)
	h := ripemd160.New()
	h.Write(sum[:])
	return h.Sum(nil)
}

// TwoOfTwoRedeemScript returns the multisig redeem script requiring signatures
// from both keys. Keys are pushed in the order given, which is also the order
// in which signatures must appear when the script is satisfied.
func TwoOfTwoRedeemScript(key1, key2 []byte) ([]byte, error) {
	for i, k := range [][]byte{key1, key2} {
		if len(k) != 33 && len(k) != 65 {
			return nil, fmt.Errorf("key %d: invalid public key length %d", i+1, len(k))
		}
	}

	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_2).
		AddData(key1).
		AddData(key2).
		AddOp(txscript.OP_2).
		AddOp(txscript.OP_CHECKMULTISIG).
		Script()
}

// PayToScriptHash returns the P2SH output script committing to redeemScript.
func PayToScriptHash(redeemScript []byte) ([]byte, error) {
	if len(redeemScript) == 0 {
		return nil, fmt.Errorf("empty redeem script")
	}
	if len(redeemScript) > txscript.MaxScriptElementSize {
		return nil, fmt.Errorf("redeem script is %d bytes, max %d",
			len(redeemScript), txscript.MaxScriptElementSize)
	}

	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_HASH160).
		AddData(Hash160(redeemScript)).
		AddOp(txscript.OP_EQUAL).
		Script()
}

// TwoOfTwoP2SH builds the redeem script for key1/key2 and returns it together
// with the P2SH output script that locks funds to it.
func TwoOfTwoP2SH(key1, key2 []byte) (redeemScript, outputScript []byte, err error) {
	redeemScript, err = TwoOfTwoRedeemScript(key1, key2)
	if err != nil {
		return nil, nil, err
	}
	outputScript, err = PayToScriptHash(redeemScript)
	if err != nil {
		return nil, nil, err
	}
	return redeemScript, outputScript, nil
}
