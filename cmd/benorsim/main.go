// Command benorsim runs the Ben-Or randomized asynchronous binary
// consensus simulator and prints each peer's outcomes as they arrive.
//
// This is the external collaborator spec.md §6 keeps out of THE CORE:
// argument parsing and human-readable formatting, nothing more.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"

	"github.com/jabolina/ben-or-consensus/internal/logging"
	"github.com/jabolina/ben-or-consensus/internal/simulator"
	"github.com/jabolina/ben-or-consensus/internal/step"
	"github.com/jabolina/ben-or-consensus/internal/transport"
)

func main() {
	args := os.Args[1:]
	cfg, err := parse(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing args: %v\n", err)
		usage(os.Args[0])
		os.Exit(1)
	}

	log := logging.NewDefaultLogger("benorsim")

	var transports []transport.Transport
	switch cfg.transportType {
	case "message_channel":
		transports = transport.NewMemoryTransport(cfg.n, log)
	case "byte_channel":
		transports = transport.NewByteTransport(cfg.n, log)
	}

	out := colorable.NewColorableStdout()
	done := color.New(color.FgGreen)
	pending := color.New(color.FgYellow)

	for tup := range simulator.Simulate(cfg.numZeros, cfg.numAdversaries, cfg.behavior, transports) {
		if tup.Outcome.Decision.Done {
			done.Fprintf(out, "Process %d: outcome: %s\n", tup.ID, tup.Outcome)
		} else {
			pending.Fprintf(out, "Process %d: outcome: %s\n", tup.ID, tup.Outcome)
		}
	}
}

func usage(binName string) {
	fmt.Fprintf(os.Stderr, "Usage: %s <N> <num_zeros> <num_adversaries> <behavior> <transport_type>\n", binName)
	fmt.Fprintln(os.Stderr, "behavior: correct|crashes|sends_invalid_messages|stops_executing|randomly_adversarial")
	fmt.Fprintln(os.Stderr, "transport_type: message_channel|byte_channel")
}

type config struct {
	n              int
	numZeros       int
	numAdversaries int
	behavior       step.Behavior
	transportType  string
}

func parse(args []string) (config, error) {
	if len(args) != 5 {
		return config{}, fmt.Errorf("need 5 args, got %d", len(args))
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		return config{}, fmt.Errorf("N: %w", err)
	}
	numZeros, err := strconv.Atoi(args[1])
	if err != nil {
		return config{}, fmt.Errorf("num_zeros: %w", err)
	}
	numAdversaries, err := strconv.Atoi(args[2])
	if err != nil {
		return config{}, fmt.Errorf("num_adversaries: %w", err)
	}
	behavior, err := step.ParseBehavior(args[3])
	if err != nil {
		return config{}, err
	}
	transportType := args[4]
	if transportType != "message_channel" && transportType != "byte_channel" {
		return config{}, fmt.Errorf("invalid transport_type %q", transportType)
	}

	return config{
		n:              n,
		numZeros:       numZeros,
		numAdversaries: numAdversaries,
		behavior:       behavior,
		transportType:  transportType,
	}, nil
}
