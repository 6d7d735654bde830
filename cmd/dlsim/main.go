// Command dlsim runs a data-link layer protocol simulation between two
// endpoints connected by a lossy, corrupting virtual channel.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/netlab/dlsim"
	"github.com/netlab/dlsim/protocol"
)

var (
	protocolName string
	seed         int64
)

var rootCmd = &cobra.Command{
	Use:   "dlsim events timeout pct_loss pct_cksum debug_flags",
	Short: "dlsim simulates a data-link layer protocol",
	Long: "dlsim drives two endpoints of a data-link protocol over a simulated " +
		"channel with configurable loss and corruption, reporting the same " +
		"statistics as the reference simulator.",
	Args: cobra.ExactArgs(5),
	Run:  run,
}

func init() {
	rootCmd.Flags().StringVarP(&protocolName, "protocol", "p", "", "protocol to run (p2|p3|p4|p5|p6)")
	rootCmd.Flags().Int64Var(&seed, "seed", 1, "seed for the channel and scheduler RNG")
	dlsim.Must0(rootCmd.MarkFlagRequired("protocol"))
}

// parsedArgs holds the five positional parameters, translated from the
// reference simulator's parse_first_five_parameters.
type parsedArgs struct {
	events     int
	timeout    dlsim.Tick
	pctLoss    int
	pctCksum   int
	debugFlags int
}

func parsePositional(args []string) (parsedArgs, error) {
	events, err := strconv.Atoi(args[0])
	if err != nil || events <= 0 {
		return parsedArgs{}, fmt.Errorf("%w: events must be a positive integer, got %q", dlsim.ErrInvalidArgument, args[0])
	}
	timeout, err := strconv.Atoi(args[1])
	if err != nil || timeout <= 0 {
		return parsedArgs{}, fmt.Errorf("%w: timeout must be a positive integer, got %q", dlsim.ErrInvalidArgument, args[1])
	}
	pctLoss, err := strconv.Atoi(args[2])
	if err != nil || pctLoss < 0 || pctLoss > 99 {
		return parsedArgs{}, fmt.Errorf("%w: pct_loss must be in [0,99], got %q", dlsim.ErrInvalidArgument, args[2])
	}
	pctCksum, err := strconv.Atoi(args[3])
	if err != nil || pctCksum < 0 || pctCksum > 99 {
		return parsedArgs{}, fmt.Errorf("%w: pct_cksum must be in [0,99], got %q", dlsim.ErrInvalidArgument, args[3])
	}
	debugFlags, err := strconv.Atoi(args[4])
	if err != nil || debugFlags < 0 {
		return parsedArgs{}, fmt.Errorf("%w: debug_flags must be a non-negative integer, got %q", dlsim.ErrInvalidArgument, args[4])
	}
	return parsedArgs{
		events:     events,
		timeout:    dlsim.Tick(timeout),
		pctLoss:    pctLoss,
		pctCksum:   pctCksum,
		debugFlags: debugFlags,
	}, nil
}

// protocolPair returns the two [dlsim.Protocol] values and the engine
// modulus override (0 meaning "use the engine default") for name.
func protocolPair(name string) (proc0, proc1 dlsim.Protocol, modulus uint32, err error) {
	switch name {
	case "p2":
		return protocol.NewStopWaitSender(), protocol.NewStopWaitReceiver(), 0, nil
	case "p3":
		return protocol.NewParSender(), protocol.NewParReceiver(), 0, nil
	case "p4":
		return protocol.NewOneBit(), protocol.NewOneBit(), 0, nil
	case "p5":
		gbn := protocol.NewGoBackN(0)
		return gbn, protocol.NewGoBackN(0), 0, nil
	case "p6":
		sr := protocol.NewSelectiveRepeat(0)
		return sr, protocol.NewSelectiveRepeat(0), sr.Modulus(), nil
	default:
		return nil, nil, 0, fmt.Errorf("%w: unknown protocol %q (want one of p2, p3, p4, p5, p6)", dlsim.ErrInvalidArgument, name)
	}
}

func run(cmd *cobra.Command, args []string) {
	parsed, err := parsePositional(args)
	if err != nil {
		log.WithError(err).Error("dlsim: invalid argument")
		os.Exit(1)
	}

	proc0, proc1, modulus, err := protocolPair(protocolName)
	if err != nil {
		log.WithError(err).Error("dlsim: invalid argument")
		os.Exit(1)
	}

	// debug_flags selects verbose per-tick tracing; any bit set turns
	// it on, mirroring the reference simulator's all-or-nothing fprintf
	// gating at the granularity our structured logger actually offers.
	if parsed.debugFlags != 0 {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	engine := dlsim.NewEngine(dlsim.EngineConfig{
		MaxEvents:       parsed.events,
		TimeoutInterval: parsed.timeout,
		PktLossThresh:   parsed.pctLoss * 10,
		CksumThresh:     parsed.pctCksum * 10,
		Modulus:         modulus,
		RNG:             rand.New(rand.NewSource(seed)),
		Logger:          log.Log,
	})

	result, err := engine.Run(context.Background(), proc0, proc1)
	printSummary(result)
	if err != nil {
		log.WithError(err).Error("dlsim: run failed")
		os.Exit(1)
	}
}

func printSummary(result dlsim.Result) {
	for id := 0; id < 2; id++ {
		s := result.Stats[id]
		fmt.Printf("--- endpoint %d ---\n", id)
		fmt.Printf("data_sent=%d data_retransmitted=%d data_lost=%d\n", s.DataSent, s.DataRetransmitted, s.DataLost)
		fmt.Printf("acks_sent=%d acks_lost=%d naks_sent=%d\n", s.AcksSent, s.AcksLost, s.NaksSent)
		fmt.Printf("good_data_recd=%d cksum_data_recd=%d good_acks_recd=%d cksum_acks_recd=%d\n",
			s.GoodDataRecd, s.CksumDataRecd, s.GoodAcksRecd, s.CksumAcksRecd)
		fmt.Printf("payloads_accepted=%d timeouts=%d ack_timeouts=%d efficiency=%d%%\n",
			s.PayloadsAccepted, s.Timeouts, s.AckTimeouts, s.Efficiency())
	}
	fmt.Printf("time=%d deadlocked=%t\n", result.Ticks/dlsim.DefaultDelta, result.Deadlocked)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
