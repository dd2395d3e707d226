package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"lsh-core/internal/wire"
)

var (
	sendActuatorID int
	sendState      []int
	sendClickID    int
	sendClickKind  string
)

var sendCmd = &cobra.Command{
	Use:   "send <command>",
	Short: "Send one wire record and exit",
	Long: `Send a single wire.Record to a connected device. Supported commands:

  request-details              REQUEST_DETAILS
  request-state                REQUEST_STATE (the device replies with every actuator)
  set-state --state 1,0,1,...  SET_STATE across all actuators
  set-actuator --actuator N --state 0|1
                                SET_SINGLE_ACTUATOR
  failover-click --clickable N --kind long|super_long
                                FAILOVER_CLICK, as a failed-over hub would`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().IntVar(&sendActuatorID, "actuator", 0, "Actuator ID")
	sendCmd.Flags().IntSliceVar(&sendState, "state", nil, "State vector, comma-separated")
	sendCmd.Flags().IntVar(&sendClickID, "clickable", 0, "Clickable ID")
	sendCmd.Flags().StringVar(&sendClickKind, "kind", "long", "Click kind: long|super_long")
}

func runSend(cmd *cobra.Command, args []string) error {
	rec, err := buildSendRecord(args[0])
	if err != nil {
		return err
	}

	conn, desc, err := openConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	f := framer()
	payload, err := f.Encode(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("write to %s: %w", desc, err)
	}

	fmt.Printf("sent to %s: %s\n", desc, describeRecord(rec))
	return nil
}

func buildSendRecord(name string) (wire.Record, error) {
	switch name {
	case "request-details":
		return wire.Record{P: wire.RequestDetails}, nil

	case "request-state":
		return wire.Record{P: wire.RequestState, I: uint8(sendActuatorID)}, nil

	case "set-state":
		return wire.Record{P: wire.SetState, S: intsToState(sendState)}, nil

	case "set-actuator":
		if len(sendState) != 1 {
			return wire.Record{}, fmt.Errorf("set-actuator needs exactly one --state value")
		}
		return wire.Record{P: wire.SetSingleActuator, I: uint8(sendActuatorID), S: intsToState(sendState)}, nil

	case "failover-click":
		kind, err := parseClickKind(sendClickKind)
		if err != nil {
			return wire.Record{}, err
		}
		return wire.Record{P: wire.FailoverClick, I: uint8(sendClickID), T: kind}, nil

	default:
		return wire.Record{}, fmt.Errorf("unknown send command %q", name)
	}
}

func parseClickKind(s string) (wire.ClickKind, error) {
	switch s {
	case "long":
		return wire.Long, nil
	case "super_long", "super-long":
		return wire.SuperLong, nil
	default:
		return 0, fmt.Errorf("unknown click kind %q (want long|super_long)", s)
	}
}

func intsToState(vals []int) wire.StateVal {
	if vals == nil {
		return nil
	}
	s := make(wire.StateVal, len(vals))
	for i, v := range vals {
		s[i] = uint8(v)
	}
	return s
}
