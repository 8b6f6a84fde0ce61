// txsig CLI - sign and verify inputs of Bitcoin-style transactions
//
// This CLI exposes the txsig library: SIGHASH_ALL digests, canonical even-S
// signatures carried as 8-field wire messages, and 2-of-2 P2SH
// verification. Transactions, scripts, keys and signatures are passed as
// hex.
//
// Example usage:
//
//	# Build the scripts of a 2-of-2 output
//	txsig redeem-2of2 --key1 02... --key2 03...
//
//	# Sign input 0 of a transaction spending that output
//	txsig sign --tx 0100... --input 0 --subscript a914...87 --key Kw...
//
//	# Verify both parties' signatures
//	txsig verify-2of2 --tx 0100... --input 0 --spent a914...87 \
//	  --key1 02... --key2 03... --sig1 09... --sig2 09...
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/suffix-labs/txsig/pkg/api"
	"github.com/suffix-labs/txsig/pkg/sigproto"
)

const (
	exitError        = 1
	exitVerifyFailed = 2
)

// errUsage marks errors caused by bad command-line arguments.
var errUsage = errors.New("usage error")

// stdout receives command output.
var stdout io.Writer = os.Stdout

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitError)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "sighash":
		err = cmdSighash(args)
	case "sign":
		err = cmdSign(args)
	case "verify-2of2":
		err = cmdVerifyTwoOfTwo(args)
	case "redeem-2of2":
		err = cmdRedeemTwoOfTwo(args)
	case "decode-sig":
		err = cmdDecodeSig(args)
	case "pubkey":
		err = cmdPubkey(args)
	case "version":
		cmdVersion()
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(exitError)
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		if errors.Is(err, errVerifyFailed) {
			os.Exit(exitVerifyFailed)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}
}

func printUsage() {
	fmt.Fprintln(stdout, `txsig - per-input transaction signing and 2-of-2 verification

Usage:
  txsig <command> [options]

Commands:
  sighash       Compute the SIGHASH_ALL digest of an input
  sign          Sign an input and print the wire signature
  verify-2of2   Verify two wire signatures against a 2-of-2 P2SH output
  redeem-2of2   Print the redeem and P2SH output scripts for two keys
  decode-sig    Decode a wire signature
  pubkey        Print the compressed public key of a WIF private key
  version       Show version information
  help          Show this help message

Every command accepts --debuglevel (trace, debug, info, warn, error,
critical, off). Run 'txsig <command> -h' for the options of a command.

Exit status is 0 on success, 1 on error, and 2 when verify-2of2 finds the
signatures invalid.`)
}

func cmdVersion() {
	fmt.Fprintln(stdout, "txsig v0.1.0")
	fmt.Fprintln(stdout, "SIGHASH_ALL signing with canonical even-S signatures")
}

// newFlagSet returns a flag set for a command with the shared --debuglevel
// option registered.
func newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	level := fs.String("debuglevel", "off", "Logging level for the signing and verification packages")
	return fs, level
}

// parseFlags parses args and configures logging.
func parseFlags(fs *flag.FlagSet, level *string, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return setLogLevel(*level)
}

// hexFlag decodes a required hex-encoded flag value.
func hexFlag(name, value string) ([]byte, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: --%s is required", errUsage, name)
	}
	b, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: --%s is not valid hex: %v", errUsage, name, err)
	}
	return b, nil
}

// optionalHexFlag decodes a hex-encoded flag value that may be empty.
func optionalHexFlag(name, value string) ([]byte, error) {
	b, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: --%s is not valid hex: %v", errUsage, name, err)
	}
	return b, nil
}

// indexFlag parses an input index, which must fit in 32 bits.
func indexFlag(name, value string) (uint32, error) {
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: --%s must be an input index below 2^32: %v", errUsage, name, err)
	}
	return uint32(n), nil
}

func cmdSighash(args []string) error {
	fs, level := newFlagSet("sighash")
	txHex := fs.String("tx", "", "Serialized transaction (hex) with empty input scripts")
	input := fs.String("input", "0", "Index of the input")
	subscriptHex := fs.String("subscript", "", "Script substituted for the input's script (hex)")
	if err := parseFlags(fs, level, args); err != nil {
		return err
	}

	rawTx, err := hexFlag("tx", *txHex)
	if err != nil {
		return err
	}
	subscript, err := optionalHexFlag("subscript", *subscriptHex)
	if err != nil {
		return err
	}
	index, err := indexFlag("input", *input)
	if err != nil {
		return err
	}

	sighash, err := api.GetSighash(rawTx, index, subscript)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, hex.EncodeToString(sighash[:]))
	return nil
}

func cmdSign(args []string) error {
	fs, level := newFlagSet("sign")
	txHex := fs.String("tx", "", "Serialized transaction (hex) with empty input scripts")
	input := fs.String("input", "0", "Index of the input to sign")
	subscriptHex := fs.String("subscript", "", "Script substituted for the input's script (hex)")
	wif := fs.String("key", "", "WIF-encoded private key")
	if err := parseFlags(fs, level, args); err != nil {
		return err
	}

	rawTx, err := hexFlag("tx", *txHex)
	if err != nil {
		return err
	}
	subscript, err := optionalHexFlag("subscript", *subscriptHex)
	if err != nil {
		return err
	}
	index, err := indexFlag("input", *input)
	if err != nil {
		return err
	}
	if *wif == "" {
		return fmt.Errorf("%w: --key is required", errUsage)
	}

	sig, err := api.SignInput(rawTx, index, subscript, *wif)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, hex.EncodeToString(sig))
	return nil
}

// errVerifyFailed is returned when verification completes with a negative
// result.
var errVerifyFailed = errors.New("verification failed")

func cmdVerifyTwoOfTwo(args []string) error {
	fs, level := newFlagSet("verify-2of2")
	txHex := fs.String("tx", "", "Serialized transaction (hex) with empty input scripts")
	input := fs.String("input", "0", "Index of the input being verified")
	spentHex := fs.String("spent", "", "Script of the spent P2SH output (hex)")
	key1Hex := fs.String("key1", "", "First public key (hex)")
	key2Hex := fs.String("key2", "", "Second public key (hex)")
	sig1Hex := fs.String("sig1", "", "Wire signature under the first key (hex)")
	sig2Hex := fs.String("sig2", "", "Wire signature under the second key (hex)")
	if err := parseFlags(fs, level, args); err != nil {
		return err
	}

	index, err := indexFlag("input", *input)
	if err != nil {
		return err
	}

	values := []struct {
		name  string
		value string
	}{
		{"tx", *txHex}, {"spent", *spentHex},
		{"key1", *key1Hex}, {"key2", *key2Hex},
		{"sig1", *sig1Hex}, {"sig2", *sig2Hex},
	}
	decoded := make([][]byte, len(values))
	for i, v := range values {
		b, err := hexFlag(v.name, v.value)
		if err != nil {
			return err
		}
		decoded[i] = b
	}

	ok, err := api.VerifyTwoOfTwo(
		decoded[0], index, decoded[1],
		decoded[2], decoded[3],
		decoded[4], decoded[5],
	)
	if err != nil {
		return err
	}

	if !ok {
		fmt.Fprintln(stdout, "invalid")
		return errVerifyFailed
	}
	fmt.Fprintln(stdout, "valid")
	return nil
}

func cmdRedeemTwoOfTwo(args []string) error {
	fs, level := newFlagSet("redeem-2of2")
	key1Hex := fs.String("key1", "", "First public key (hex)")
	key2Hex := fs.String("key2", "", "Second public key (hex)")
	if err := parseFlags(fs, level, args); err != nil {
		return err
	}

	key1, err := hexFlag("key1", *key1Hex)
	if err != nil {
		return err
	}
	key2, err := hexFlag("key2", *key2Hex)
	if err != nil {
		return err
	}

	redeem, output, err := api.TwoOfTwoScripts(key1, key2)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Redeem script: %x\n", redeem)
	fmt.Fprintf(stdout, "P2SH script:   %x\n", output)
	return nil
}

func cmdDecodeSig(args []string) error {
	fs, level := newFlagSet("decode-sig")
	sigHex := fs.String("sig", "", "Wire signature (hex)")
	if err := parseFlags(fs, level, args); err != nil {
		return err
	}

	data, err := hexFlag("sig", *sigHex)
	if err != nil {
		return err
	}

	pb, err := sigproto.Unmarshal(data)
	if err != nil {
		return err
	}
	sig, canonical := sigproto.Decode(pb)

	fmt.Fprintf(stdout, "R:         %x\n", sig.R)
	fmt.Fprintf(stdout, "S:         %x\n", sig.S)
	fmt.Fprintf(stdout, "Canonical: %t\n", canonical)
	fmt.Fprintln(stdout, "Fields:")
	for i, f := range []sigproto.Field{pb.R1, pb.R2, pb.R3, pb.R4, pb.S1, pb.S2, pb.S3, pb.S4} {
		name := fmt.Sprintf("r%d", i+1)
		if i >= 4 {
			name = fmt.Sprintf("s%d", i-3)
		}
		fmt.Fprintf(stdout, "  %s: %x (fixed64 %d)\n", name, f[:], f.Uint64())
	}
	return nil
}

func cmdPubkey(args []string) error {
	fs, level := newFlagSet("pubkey")
	wif := fs.String("key", "", "WIF-encoded private key")
	if err := parseFlags(fs, level, args); err != nil {
		return err
	}
	if *wif == "" {
		return fmt.Errorf("%w: --key is required", errUsage)
	}

	pub, err := api.PublicKeyFromWIF(*wif)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, hex.EncodeToString(pub))
	return nil
}
