package cmd

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"lsh-core/internal/wire"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard of records flowing over the link",
	RunE:  runWatch,
}

// logEntry is one line in the scrolling record log.
type logEntry struct {
	at  time.Time
	msg string
}

type recordMsg wire.Record
type linkErrMsg struct{ err error }

type watchModel struct {
	connDesc string
	quitting bool
	err      error

	lastBySource string
	records      int
	entries      []logEntry
	maxEntries   int
}

func initialWatchModel(connDesc string) watchModel {
	return watchModel{
		connDesc:   connDesc,
		maxEntries: 200,
	}
}

func (m watchModel) Init() tea.Cmd { return tea.EnterAltScreen }

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case recordMsg:
		m.records++
		m.entries = append(m.entries, logEntry{at: time.Now(), msg: describeRecord(wire.Record(msg))})
		if len(m.entries) > m.maxEntries {
			m.entries = m.entries[len(m.entries)-m.maxEntries:]
		}

	case linkErrMsg:
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func describeRecord(rec wire.Record) string {
	switch rec.P {
	case wire.DeviceDetails:
		return fmt.Sprintf("DEVICE_DETAILS n=%q", rec.N)
	case wire.ActuatorsState:
		return fmt.Sprintf("ACTUATORS_STATE a=%v s=%v", rec.A, rec.S)
	case wire.NetworkClick:
		return fmt.Sprintf("NETWORK_CLICK i=%d t=%d c=%d", rec.I, rec.T, rec.C)
	case wire.Boot:
		return "BOOT"
	case wire.Ping:
		return "PING"
	case wire.RequestDetails:
		return "REQUEST_DETAILS"
	case wire.RequestState:
		return fmt.Sprintf("REQUEST_STATE i=%d", rec.I)
	case wire.SetState:
		return fmt.Sprintf("SET_STATE a=%v s=%v", rec.A, rec.S)
	case wire.SetSingleActuator:
		return fmt.Sprintf("SET_SINGLE_ACTUATOR i=%d s=%v", rec.I, rec.S)
	case wire.NetworkClickAck:
		return fmt.Sprintf("NETWORK_CLICK_ACK i=%d t=%d c=%d", rec.I, rec.T, rec.C)
	case wire.Failover:
		return "FAILOVER"
	case wire.FailoverClick:
		return fmt.Sprintf("FAILOVER_CLICK i=%d t=%d", rec.I, rec.T)
	default:
		return fmt.Sprintf("UNKNOWN p=%d", rec.P)
	}
}

func (m watchModel) View() string {
	if m.quitting {
		if m.err != nil {
			return fmt.Sprintf("link closed: %v\n", m.err)
		}
		return "bye\n"
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1).
		Render("lshctl watch")

	header := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).
		Render(fmt.Sprintf("%s   records: %d   press q to quit", m.connDesc, m.records))

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var b strings.Builder
	start := 0
	if len(m.entries) > 20 {
		start = len(m.entries) - 20
	}
	for _, e := range m.entries[start:] {
		b.WriteString(e.at.Format("15:04:05.000"))
		b.WriteString("  ")
		b.WriteString(e.msg)
		b.WriteString("\n")
	}

	return title + "\n" + header + "\n\n" + logStyle.Render(b.String())
}

func runWatch(cmd *cobra.Command, args []string) error {
	conn, desc, err := openConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	records, errs := recordStream(conn)

	p := tea.NewProgram(initialWatchModel(desc))

	go func() {
		for {
			select {
			case rec, ok := <-records:
				if !ok {
					return
				}
				p.Send(recordMsg(rec))
			case err, ok := <-errs:
				if !ok {
					return
				}
				p.Send(linkErrMsg{err: err})
				return
			}
		}
	}()

	_, err = p.Run()
	return err
}
