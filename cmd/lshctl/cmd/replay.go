package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <capture-file>",
	Short: "Decode a captured raw frame dump offline",
	Long: `Replay reads a file of raw bytes captured from a link (e.g. via
shell redirection off a serial device) and decodes it through the same
Framer watch uses, printing one line per record with an index instead
of a wall-clock timestamp.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func runReplay(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read capture file: %w", err)
	}

	f := framer()
	buf := bytes.NewBuffer(data)

	n := 0
	for {
		rec, ok, err := f.Decode(buf)
		if err != nil {
			fmt.Printf("[%d] decode error: %v\n", n, err)
			continue
		}
		if !ok {
			break
		}
		fmt.Printf("[%d] %s\n", n, describeRecord(rec))
		n++
	}

	fmt.Printf("%d record(s) decoded, %d byte(s) left undecoded\n", n, buf.Len())
	return nil
}
