// Command ringtb runs the ring memory verification bench from the command
// line.
//
// Exit status is 0 when the run passes, 1 on mismatches, a sync fault or
// interruption, and 2 on a configuration error.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/dverif/ringtb"
	"github.com/dverif/ringtb/cover"
	"github.com/dverif/ringtb/device"
	"github.com/dverif/ringtb/watch"
)

var (
	policy    = flag.String("policy", "random", "generator policy: "+strings.Join(ringtb.PolicyNames(), ", "))
	scriptSrc = flag.String("script", "", "stimulus script, e.g. \"w:a5 i*15 r\" (implies -policy script)")
	seqLen    = flag.Int("n", 10, "number of transactions to generate")
	size      = flag.Int("size", 16, "address space size in words")
	width     = flag.Int("width", 8, "word width in bits")
	seed      = flag.Int64("seed", 1, "random seed")
	hold      = flag.Int("hold", 1, "ticks to hold each transaction's signals")
	wratio    = flag.Float64("wr", 0.5, "write ratio for the random policy")
	interval  = flag.Duration("interval", 0, "real time tick interval (0 runs free)")
	buggy     = flag.String("buggy", "", "run against a defective device: forwarding, earlywrap")
	watchAddr = flag.String("watch", "", "serve a live trace on this address, e.g. :8080 (pair with -interval)")
	coverage  = flag.Bool("cover", false, "print a coverage summary after the run")
	jsonOut   = flag.Bool("json", false, "print the report as JSON")
	verbose   = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	if *verbose {
		ringtb.SetLogLevel(ringtb.LogDebug)
	} else {
		ringtb.SetLogLevel(ringtb.LogInfo)
	}

	cfg := ringtb.Config{
		Size:       *size,
		Width:      *width,
		SeqLen:     *seqLen,
		Seed:       *seed,
		Policy:     *policy,
		Script:     *scriptSrc,
		Hold:       *hold,
		Interval:   *interval,
		WriteRatio: *wratio,
	}
	if *scriptSrc != "" {
		cfg.Policy = "script"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "ringtb:", err)
		return 2
	}

	var dev ringtb.Device
	switch *buggy {
	case "":
		dev = device.NewRingMem(cfg.Size, cfg.Width)
	case "forwarding":
		dev = device.NewForwarding(cfg.Size, cfg.Width)
	case "earlywrap":
		dev = device.NewEarlyWrap(cfg.Size, cfg.Width)
	default:
		fmt.Fprintf(os.Stderr, "ringtb: unknown device variant %q\n", *buggy)
		return 2
	}

	env, err := ringtb.New(cfg, dev)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ringtb:", err)
		return 2
	}

	var cov *cover.Collector
	if *coverage {
		cov = cover.New(cfg.Size)
		cov.Attach(env)
	}
	var ws *watch.Server
	if *watchAddr != "" {
		ws = watch.NewServer()
		ws.Attach(env)
		mux := http.NewServeMux()
		mux.Handle("/", watch.Page("/ws"))
		mux.Handle("/ws", ws)
		go func() {
			if err := http.ListenAndServe(*watchAddr, mux); err != nil {
				log.Printf("watch: %v", err)
			}
		}()
		log.Printf("live trace on http://localhost%s/", *watchAddr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := env.Run(ctx)
	if cov != nil {
		cov.Wait()
	}
	if ws != nil {
		ws.Wait()
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintln(os.Stderr, "ringtb:", err)
		}
	} else {
		fmt.Print(report)
		if cov != nil {
			fmt.Print("coverage:\n", cov.Summary())
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "ringtb:", err)
		return 1
	}
	if !report.Passed() {
		return 1
	}
	return 0
}
