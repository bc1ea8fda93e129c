// Command redstone-cli is the CLI entry point (C11, SPEC_FULL.md §2): a
// thin dispatcher over oracle.ProcessPayload/VerifyUpdate/VerifyDataStaleness
// against a bbolt-backed FeedStore.
//
// Grounded on node/main.go's subcommand-dispatch shape: one flag.FlagSet
// per subcommand, plain fmt.Fprintln(os.Stderr, ...) error reporting, no
// logging library (SPEC_FULL.md §4.9).
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	"redstone.dev/oracle/config"
	"redstone.dev/oracle/cryptoprovider"
	"redstone.dev/oracle/oracle"
	"redstone.dev/oracle/protocol"
	"redstone.dev/oracle/store"
)

const usageCommands = "commands: process-payload --payload-hex <hex> --signers <addr,addr,...> --feeds <name,name,...> --threshold <u8> --block-timestamp <u64> [--max-past-ms <u64>] [--max-future-ms <u64>] [--strict-threshold] | verify-update --datadir <path> --feed <name> --updater <addr> [--trusted <addr,addr,...>] --now <u64> --value-hex <hex32> --package-time <u64> --min-inter-update-ms <u64> | verify-staleness --datadir <path> --feed <name> --now <u64> --ttl-ms <u64>"

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: redstone-cli <command> [args]")
	fmt.Fprintln(os.Stderr, usageCommands)
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}
	cmd := os.Args[1]
	argv := os.Args[2:]

	var code int
	switch cmd {
	case "process-payload":
		code = cmdProcessPayload(argv)
	case "verify-update":
		code = cmdVerifyUpdate(argv)
	case "verify-staleness":
		code = cmdVerifyStaleness(argv)
	default:
		printUsage()
		code = 2
	}
	os.Exit(code)
}

func parseSignerList(csv string) ([]protocol.SignerAddress, error) {
	if csv == "" {
		return nil, nil
	}
	parts := strings.Split(csv, ",")
	out := make([]protocol.SignerAddress, 0, len(parts))
	for _, p := range parts {
		addr, err := parseSignerAddress(p)
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, nil
}

func parseSignerAddress(hexStr string) (protocol.SignerAddress, error) {
	var addr protocol.SignerAddress
	b, err := hex.DecodeString(strings.TrimPrefix(hexStr, "0x"))
	if err != nil || len(b) != 20 {
		return addr, fmt.Errorf("bad signer address %q", hexStr)
	}
	copy(addr[:], b)
	return addr, nil
}

func cmdProcessPayload(argv []string) int {
	fs := flag.NewFlagSet("process-payload", flag.ExitOnError)
	payloadHex := fs.String("payload-hex", "", "hex-encoded payload bytes")
	signersCSV := fs.String("signers", "", "comma-separated signer addresses (hex, 20 bytes each)")
	feedsCSV := fs.String("feeds", "", "comma-separated feed ids (short ASCII names)")
	threshold := fs.Uint("threshold", 0, "signer_count_threshold")
	blockTimestamp := fs.Uint64("block-timestamp", 0, "block timestamp in milliseconds")
	maxPastMs := fs.Uint64("max-past-ms", uint64(config.DefaultMaxPastMs), "max past tolerance in milliseconds")
	maxFutureMs := fs.Uint64("max-future-ms", uint64(config.DefaultMaxFutureMs), "max future tolerance in milliseconds")
	strictThreshold := fs.Bool("strict-threshold", false, "fail instead of skip when a feed has too few signers")
	restrictAlphabet := fs.Bool("restrict-feed-alphabet", false, "restrict feed ids to [0-9A-Z]")
	_ = fs.Parse(argv)

	raw, err := hex.DecodeString(*payloadHex)
	if err != nil {
		fmt.Fprintln(os.Stderr, "process-payload error: bad --payload-hex")
		return 2
	}
	signers, err := parseSignerList(*signersCSV)
	if err != nil {
		fmt.Fprintln(os.Stderr, "process-payload error:", err)
		return 2
	}
	var feedIDs []protocol.FeedId
	for _, name := range strings.Split(*feedsCSV, ",") {
		if name == "" {
			continue
		}
		feedIDs = append(feedIDs, protocol.NewFeedId(name))
	}

	opts := []config.Option{
		config.WithMaxPastMs(protocol.TimestampMillis(*maxPastMs)),
		config.WithMaxFutureMs(protocol.TimestampMillis(*maxFutureMs)),
	}
	if *strictThreshold {
		opts = append(opts, config.WithThresholdPolicy(config.PolicyStrict))
	}
	if *restrictAlphabet {
		opts = append(opts, config.WithRestrictFeedIDAlphabet())
	}

	cfg, err := config.New(uint8(*threshold), signers, feedIDs, protocol.TimestampMillis(*blockTimestamp), opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "process-payload error:", err)
		return 1
	}

	crypto := cryptoprovider.NewSecp256k1Keccak()
	vp, err := oracle.ProcessPayload(crypto, cfg, raw)
	if err != nil {
		fmt.Fprintln(os.Stderr, "process-payload error:", err)
		return 1
	}

	fmt.Printf("timestamp=%d\n", vp.Timestamp)
	for _, fv := range vp.Values {
		fmt.Printf("%s=%s\n", fv.FeedID.String(), hex.EncodeToString(fv.Value[:]))
	}
	return 0
}

func cmdVerifyUpdate(argv []string) int {
	fs := flag.NewFlagSet("verify-update", flag.ExitOnError)
	datadir := fs.String("datadir", "", "bbolt data directory")
	feedName := fs.String("feed", "", "feed id (short ASCII name)")
	updaterHex := fs.String("updater", "", "updater address (hex, 20 bytes)")
	trustedCSV := fs.String("trusted", "", "comma-separated trusted updater addresses")
	now := fs.Uint64("now", 0, "current time in milliseconds")
	valueHex := fs.String("value-hex", "", "new value (hex, up to 32 bytes)")
	packageTime := fs.Uint64("package-time", 0, "new package timestamp in milliseconds")
	minInterUpdateMs := fs.Uint64("min-inter-update-ms", 0, "minimum inter-update spacing in milliseconds")
	_ = fs.Parse(argv)

	if *datadir == "" {
		fmt.Fprintln(os.Stderr, "missing required flag: --datadir")
		return 2
	}

	updater, err := parseSignerAddress(*updaterHex)
	if err != nil {
		fmt.Fprintln(os.Stderr, "verify-update error:", err)
		return 2
	}
	trustedList, err := parseSignerList(*trustedCSV)
	if err != nil {
		fmt.Fprintln(os.Stderr, "verify-update error:", err)
		return 2
	}
	trusted := make(map[protocol.SignerAddress]struct{}, len(trustedList))
	for _, a := range trustedList {
		trusted[a] = struct{}{}
	}

	var value protocol.Value
	valueBytes, err := hex.DecodeString(strings.TrimPrefix(*valueHex, "0x"))
	if err != nil || len(valueBytes) > 32 {
		fmt.Fprintln(os.Stderr, "verify-update error: bad --value-hex")
		return 2
	}
	copy(value[32-len(valueBytes):], valueBytes)

	feedID := protocol.NewFeedId(*feedName)

	fs2, err := store.OpenBoltFeedStore(*datadir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "verify-update error:", err)
		return 1
	}
	defer func() { _ = fs2.Close() }()

	stored, err := fs2.Get(feedID)
	if err != nil {
		fmt.Fprintln(os.Stderr, "verify-update error:", err)
		return 1
	}

	next, err := oracle.VerifyUpdate(
		oracle.NoopEnvironment{},
		updater,
		trusted,
		stored,
		protocol.TimestampMillis(*now),
		value,
		protocol.TimestampMillis(*packageTime),
		protocol.TimestampMillis(*minInterUpdateMs),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "verify-update rejected:", err)
		return 1
	}

	if err := fs2.Put(feedID, *next); err != nil {
		fmt.Fprintln(os.Stderr, "verify-update error:", err)
		return 1
	}
	fmt.Println("OK")
	return 0
}

func cmdVerifyStaleness(argv []string) int {
	fs := flag.NewFlagSet("verify-staleness", flag.ExitOnError)
	datadir := fs.String("datadir", "", "bbolt data directory")
	feedName := fs.String("feed", "", "feed id (short ASCII name)")
	now := fs.Uint64("now", 0, "current time in milliseconds")
	ttlMs := fs.Uint64("ttl-ms", 0, "staleness TTL in milliseconds")
	_ = fs.Parse(argv)

	if *datadir == "" {
		fmt.Fprintln(os.Stderr, "missing required flag: --datadir")
		return 2
	}

	fs2, err := store.OpenBoltFeedStore(*datadir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "verify-staleness error:", err)
		return 1
	}
	defer func() { _ = fs2.Close() }()

	stored, err := fs2.Get(protocol.NewFeedId(*feedName))
	if err != nil {
		fmt.Fprintln(os.Stderr, "verify-staleness error:", err)
		return 1
	}
	if stored == nil {
		fmt.Fprintln(os.Stderr, "verify-staleness error: feed has never been written")
		return 1
	}

	if err := oracle.VerifyDataStaleness(stored.WriteTime, protocol.TimestampMillis(*now), protocol.TimestampMillis(*ttlMs)); err != nil {
		fmt.Fprintln(os.Stderr, "verify-staleness rejected:", err)
		return 1
	}
	fmt.Println("OK")
	return 0
}
