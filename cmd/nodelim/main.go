// nodelim is a small tool around the nodelim encoding.
//
// Usage:
//
//	nodelim [flags] size N...
//	nodelim [flags] demo
//
// size prints the size code of each N in hex. demo stores a sample record in
// Redis, prints the raw bytes Redis holds for it and reads it back.
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/go-cmp/cmp"
	"github.com/oy3o/nodelim"
	"github.com/oy3o/nodelim/redisstore"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type config struct {
	addr     string
	db       int
	verbose  bool
	compress string
	timeout  time.Duration
}

func run(args []string, stdout io.Writer) error {
	var cfg config
	flagSet := pflag.NewFlagSet("nodelim", pflag.ContinueOnError)
	flagSet.StringVar(&cfg.addr, "addr", "localhost:6379", "Redis address for demo")
	flagSet.IntVar(&cfg.db, "db", 0, "Redis database for demo")
	flagSet.BoolVarP(&cfg.verbose, "verbose", "v", false, "log at debug level")
	flagSet.StringVar(&cfg.compress, "compress", "none", "value compression for demo: none, zstd or lz4")
	flagSet.DurationVar(&cfg.timeout, "timeout", 5*time.Second, "timeout for Redis operations")
	flagSet.Usage = func() {
		fmt.Fprintf(flagSet.Output(), "Usage: nodelim [flags] size N... | demo\n\n%s", flagSet.FlagUsages())
	}
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	logger, err := newLogger(cfg.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	rest := flagSet.Args()
	if len(rest) == 0 {
		flagSet.Usage()
		return errors.New("missing command")
	}
	switch rest[0] {
	case "size":
		return runSize(stdout, rest[1:])
	case "demo":
		ctx, cancel := context.WithTimeout(context.Background(), cfg.timeout)
		defer cancel()
		return runDemo(ctx, stdout, logger, cfg)
	default:
		return fmt.Errorf("unknown command %q", rest[0])
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func runSize(w io.Writer, args []string) error {
	if len(args) == 0 {
		return errors.New("size: need at least one number")
	}
	for _, arg := range args {
		n, err := strconv.ParseUint(arg, 0, 64)
		if err != nil {
			return fmt.Errorf("size: %w", err)
		}
		fmt.Fprintf(w, "%d\t%s\n", n, hex.EncodeToString(nodelim.AppendSize(nil, n)))
	}
	return nil
}

func runDemo(ctx context.Context, w io.Writer, logger *zap.Logger, cfg config) error {
	compression, err := redisstore.ParseCompression(cfg.compress)
	if err != nil {
		return err
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.addr, DB: cfg.db})
	defer client.Close()

	store := redisstore.New(client, recordShape,
		redisstore.WithLogger(logger),
		redisstore.WithCompression(compression),
	)

	want := sampleRecord()
	fmt.Fprintf(w, "value: %+v\n", want)
	if err := store.Set(ctx, demoKey, want); err != nil {
		return err
	}
	raw, err := client.Get(ctx, demoKey).Bytes()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "bytes: % x\n", raw)
	fmt.Fprintf(w, "length: %d\n", len(raw))

	got, found, err := store.Get(ctx, demoKey)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("key %q vanished", demoKey)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		return fmt.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	logger.Info("round trip ok", zap.String("key", demoKey), zap.Int("bytes", len(raw)))
	fmt.Fprintln(w, "round trip ok")
	return nil
}
