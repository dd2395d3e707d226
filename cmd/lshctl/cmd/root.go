package cmd

import (
	"github.com/spf13/cobra"
)

var (
	portName string
	baudRate int

	wsURL string

	binaryFraming bool
)

var rootCmd = &cobra.Command{
	Use:   "lshctl",
	Short: "Developer console for an lsh-node physical-layer device",
	Long: `lshctl watches, sends, and replays the lsh-node wire protocol from
outside the device, over either a real serial port or a websocket bridge.

Connection modes:
  Serial:    --port /dev/ttyACM0 [--baud 115200]
  WebSocket: --ws ws://host/path

Framing defaults to the LF-terminated JSON text mode; pass --binary for
the MessagePack framing a production hub bridge speaks.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate (serial only)")
	rootCmd.PersistentFlags().StringVar(&wsURL, "ws", "", "WebSocket URL (ws:// or wss://) instead of a serial port")
	rootCmd.PersistentFlags().BoolVar(&binaryFraming, "binary", false, "Decode/encode MessagePack binary framing instead of LF-terminated JSON")

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(replayCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
