// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kennelworks

package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kennelworks/barker/pkg/caixian"
	"github.com/spf13/cobra"
)

//////////////////////////////////////////////////////////////
// Constants
//////////////////////////////////////////////////////////////

const (
	strengthStep     = 1
	strengthPageStep = 10
	tuiMaxLogEntries = 100
)

// repeatCycle is the set of repeat counts the r key steps through
var repeatCycle = []uint{1, 3, 5, 10}

//////////////////////////////////////////////////////////////
// Command Registration
//////////////////////////////////////////////////////////////

var tuiDelay uint32

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive remote TUI",
	Long: `Drive a collar interactively from a terminal UI.

Edit the transmitter ID, cycle channel and mode, adjust strength, and fire
commands with live statistics, a wire preview and an event log. Continuous
mode retransmits the current command as each send completes, for holding a
collar's attention longer than a single repeat burst.

Keys:
  tab     Edit the transmitter ID (enter/esc to finish)
  c       Cycle channel 1/2/3
  m       Cycle mode SHOCK/VIBRATE/BEEP
  up/down Adjust strength by 1 (pgup/pgdn by 10)
  r       Cycle repeat count 1/3/5/10
  enter   Transmit the current command
  space   Toggle continuous transmission
  C       Recalibrate the quarter-phase delay
  q       Quit (an in-flight send stops between frames)

A delay of 0 calibrates on startup before the first command.`,
	RunE: runTui,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().Uint32VarP(&tuiDelay, "delay", "d", caixian.DefaultDelay, "Quarter-phase delay in microseconds (0 = calibrate on startup)")
}

//////////////////////////////////////////////////////////////
// Types
//////////////////////////////////////////////////////////////

// Event log entry
type eventLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool // true for errors, false for info
}

// remoteModel is the Bubble Tea model for the interactive remote
type remoteModel struct {
	// Transmission (the emitter is never driven concurrently: busy gates
	// every transmit and calibrate command to one in flight)
	tx      *caixian.Transmitter
	ctx     context.Context
	cancel  context.CancelFunc
	outInfo string

	// Command parameters under edit
	idInput  textinput.Model
	channel  caixian.Channel
	mode     caixian.Mode
	strength uint8
	repeat   uint

	// Monitoring
	stats         *caixian.Statistics
	eventLog      []eventLogEntry
	maxLogEntries int

	// UI state
	idFocused  bool
	busy       bool
	continuous bool
	width      int
	height     int
	quitting   bool
}

//////////////////////////////////////////////////////////////
// Messages
//////////////////////////////////////////////////////////////

type remoteTickMsg time.Time

type sendDoneMsg struct {
	params    caixian.Params
	sent      uint
	requested uint
	elapsed   time.Duration
}

type calibrateDoneMsg struct {
	delay uint32
	err   error
}

//////////////////////////////////////////////////////////////
// Model Initialization
//////////////////////////////////////////////////////////////

func initialRemoteModel(tx *caixian.Transmitter, ctx context.Context, cancel context.CancelFunc, outInfo string) remoteModel {
	ti := textinput.New()
	ti.Placeholder = strconv.Itoa(caixian.DefaultTransmitterID)
	ti.CharLimit = 5
	ti.Width = 8

	m := remoteModel{
		tx:            tx,
		ctx:           ctx,
		cancel:        cancel,
		outInfo:       outInfo,
		idInput:       ti,
		channel:       caixian.Channel1,
		mode:          caixian.ModeBeep,
		strength:      0,
		repeat:        1,
		stats:         caixian.NewStatistics(),
		eventLog:      make([]eventLogEntry, 0),
		maxLogEntries: tuiMaxLogEntries,
		width:         80,
		height:        24,
	}

	// A zero delay means nothing sensible can transmit yet; Init kicks off
	// the startup calibration the busy flag reserves the emitter for.
	if tx.Emitter().Delay() == caixian.AutoDelay {
		m.busy = true
		m.addLogEntry("Calibrating...", false)
	}

	return m
}

//////////////////////////////////////////////////////////////
// Bubble Tea Interface
//////////////////////////////////////////////////////////////

func (m remoteModel) Init() tea.Cmd {
	if m.busy {
		return tea.Batch(remoteTickCmd(), recalibrateCmd(m.ctx, m.tx))
	}
	return remoteTickCmd()
}

func remoteTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return remoteTickMsg(t)
	})
}

func (m remoteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case remoteTickMsg:
		m.stats.CalculateRates()
		return m, remoteTickCmd()

	case sendDoneMsg:
		m.busy = false
		m.stats.RecordSend(msg.sent, msg.requested, msg.elapsed)
		if msg.sent < msg.requested {
			m.addLogEntry(fmt.Sprintf("Send stopped after %d/%d frames", msg.sent, msg.requested), false)
		} else {
			m.addLogEntry(fmt.Sprintf("Sent %s (%d frames, %s)",
				caixian.FormatMode(msg.params.CommandMode()), msg.sent,
				msg.elapsed.Round(time.Millisecond)), false)
		}
		if m.quitting {
			return m, tea.Quit
		}
		if m.continuous && m.ctx.Err() == nil {
			next := m.startSend()
			return m, next
		}

	case calibrateDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.addLogEntry(fmt.Sprintf("Calibration failed: %v", msg.err), true)
		} else {
			m.stats.RecordCalibration(msg.delay)
			m.addLogEntry(fmt.Sprintf("Calibrated: delay %d us", msg.delay), false)
		}
		if m.quitting {
			return m, tea.Quit
		}
	}

	if m.idFocused {
		var cmd tea.Cmd
		m.idInput, cmd = m.idInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *remoteModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The ID input swallows everything except focus release and quit
	if m.idFocused {
		switch msg.String() {
		case "ctrl+c":
			return m.quit()
		case "enter", "esc", "tab":
			m.idFocused = false
			m.idInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.idInput, cmd = m.idInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m.quit()

	case "tab", "i":
		m.idFocused = true
		m.idInput.Focus()

	case "c":
		m.channel = (m.channel + 1) % 3

	case "m":
		m.mode++
		if m.mode > caixian.ModeBeep {
			m.mode = caixian.ModeShock
		}

	case "up":
		m.adjustStrength(strengthStep)

	case "down":
		m.adjustStrength(-strengthStep)

	case "pgup":
		m.adjustStrength(strengthPageStep)

	case "pgdown":
		m.adjustStrength(-strengthPageStep)

	case "r":
		m.repeat = nextRepeat(m.repeat)

	case "enter":
		if m.busy {
			m.addLogEntry("Transmission already in flight", true)
			return m, nil
		}
		return m, m.startSend()

	case " ":
		m.continuous = !m.continuous
		if m.continuous {
			m.addLogEntry("Continuous mode on", false)
			if !m.busy {
				return m, m.startSend()
			}
		} else {
			m.addLogEntry("Continuous mode off", false)
		}

	case "C":
		if m.busy {
			m.addLogEntry("Cannot calibrate: transmission in flight", true)
			return m, nil
		}
		m.busy = true
		m.addLogEntry("Calibrating...", false)
		return m, recalibrateCmd(m.ctx, m.tx)
	}

	return m, nil
}

// quit cancels any in-flight send and exits. A busy transmitter stops
// between frames and delivers its done message, which completes the quit;
// an idle one quits immediately.
func (m *remoteModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.continuous = false
	m.cancel()
	if m.busy {
		return m, nil
	}
	return m, tea.Quit
}

func (m *remoteModel) adjustStrength(delta int) {
	v := int(m.strength) + delta
	if v < 0 {
		v = 0
	}
	if v > caixian.MaxStrength {
		v = caixian.MaxStrength
	}
	m.strength = uint8(v)
}

func nextRepeat(current uint) uint {
	for i, r := range repeatCycle {
		if r == current {
			return repeatCycle[(i+1)%len(repeatCycle)]
		}
	}
	return repeatCycle[0]
}

//////////////////////////////////////////////////////////////
// Commands
//////////////////////////////////////////////////////////////

func (m *remoteModel) startSend() tea.Cmd {
	params, err := m.currentParams()
	if err != nil {
		m.addLogEntry(fmt.Sprintf("Invalid command: %v", err), true)
		m.continuous = false
		return nil
	}

	m.busy = true
	return transmitCmd(m.ctx, m.tx, params)
}

func transmitCmd(ctx context.Context, tx *caixian.Transmitter, p caixian.Params) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		sent := tx.Send(ctx, p)
		return sendDoneMsg{
			params:    p,
			sent:      sent,
			requested: p.Repeat(),
			elapsed:   time.Since(start),
		}
	}
}

func recalibrateCmd(ctx context.Context, tx *caixian.Transmitter) tea.Cmd {
	return func() tea.Msg {
		delay, err := tx.Calibrate(ctx)
		return calibrateDoneMsg{delay: delay, err: err}
	}
}

//////////////////////////////////////////////////////////////
// Helpers
//////////////////////////////////////////////////////////////

// currentParams validates the edited fields into a command. The strength
// shown in the panel is kept even in beep mode; the constructor normalizes
// it to 0 on the wire.
func (m *remoteModel) currentParams() (caixian.Params, error) {
	idStr := m.idInput.Value()
	if idStr == "" {
		idStr = m.idInput.Placeholder
	}
	id, err := strconv.ParseUint(idStr, 10, 16)
	if err != nil {
		return caixian.Params{}, fmt.Errorf("transmitter ID %q: want 0..65535", idStr)
	}
	return caixian.NewParams(uint16(id), m.channel, m.mode, m.strength, m.repeat)
}

func (m *remoteModel) addLogEntry(message string, isError bool) {
	m.eventLog = append(m.eventLog, eventLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	})

	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}

//////////////////////////////////////////////////////////////
// View
//////////////////////////////////////////////////////////////

func (m remoteModel) View() string {
	if m.quitting && !m.busy {
		return "Shutting down...\n"
	}

	var s strings.Builder

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	// Header
	s.WriteString(titleStyle.Render("BARKER REMOTE"))
	s.WriteString(" ")
	status := "idle"
	if m.busy {
		status = warningStyle.Render("TRANSMITTING")
	}
	if m.continuous {
		status += " " + warningStyle.Render("[continuous]")
	}
	s.WriteString(headerStyle.Render(fmt.Sprintf("| %s | %s | q=quit enter=send space=continuous C=calibrate", m.outInfo, status)))
	s.WriteString("\n\n")

	// Parameters and wire preview panels
	paramsPanel := boxStyle.Width(34).Render(m.renderParamsPanel(labelStyle, valueStyle))
	wirePanel := boxStyle.Width(m.width - 42).Render(m.renderWirePanel(labelStyle, valueStyle, errorStyle))
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, paramsPanel, " ", wirePanel))
	s.WriteString("\n\n")

	// Statistics bar
	s.WriteString(m.renderStatisticsBar(labelStyle, valueStyle, boxStyle))
	s.WriteString("\n\n")

	// Event log
	s.WriteString(m.renderEventLog(labelStyle, warningStyle, errorStyle, headerStyle, boxStyle))

	return s.String()
}

func (m remoteModel) renderParamsPanel(labelStyle, valueStyle lipgloss.Style) string {
	var s strings.Builder

	s.WriteString(labelStyle.Render("COMMAND"))
	s.WriteString("\n\n")

	s.WriteString(labelStyle.Render("ID:       "))
	if m.idFocused {
		s.WriteString(m.idInput.View())
	} else {
		val := m.idInput.Value()
		if val == "" {
			val = m.idInput.Placeholder
		}
		s.WriteString(valueStyle.Render(fmt.Sprintf("[%s]", val)))
	}
	s.WriteString("\n")

	s.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Channel: "), valueStyle.Render(caixian.FormatChannel(m.channel))))
	s.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Mode:    "), valueStyle.Render(caixian.FormatMode(m.mode))))

	strengthText := fmt.Sprintf("%d", m.strength)
	if m.mode == caixian.ModeBeep {
		strengthText += " (beep sends 0)"
	}
	s.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Strength:"), valueStyle.Render(strengthText)))
	s.WriteString(fmt.Sprintf("%s %s", labelStyle.Render("Repeat:  "), valueStyle.Render(fmt.Sprintf("%d", m.repeat))))

	return s.String()
}

func (m remoteModel) renderWirePanel(labelStyle, valueStyle, errorStyle lipgloss.Style) string {
	var s strings.Builder

	s.WriteString(labelStyle.Render("WIRE PREVIEW"))
	s.WriteString("\n\n")

	params, err := m.currentParams()
	if err != nil {
		s.WriteString(errorStyle.Render(fmt.Sprintf("%v", err)))
		return s.String()
	}

	f := caixian.NewFrame(params)
	width := m.width - 48
	if width < 12 {
		width = 12
	}
	for _, line := range wrapWire(caixian.FormatWire(*f), width) {
		s.WriteString(valueStyle.Render(line))
		s.WriteString("\n")
	}
	s.WriteString(fmt.Sprintf("%s %d  %s %d us",
		labelStyle.Render("Checksum:"), f.FrameChecksum(),
		labelStyle.Render("Delay:"), m.tx.Emitter().Delay()))

	return s.String()
}

func (m remoteModel) renderStatisticsBar(labelStyle, valueStyle, boxStyle lipgloss.Style) string {
	content := fmt.Sprintf("%s %s  %s %s  %s %s  %s %s",
		labelStyle.Render("Commands:"), valueStyle.Render(fmt.Sprintf("%d", m.stats.TotalCommands)),
		labelStyle.Render("Frames:"), valueStyle.Render(fmt.Sprintf("%d", m.stats.TotalFrames)),
		labelStyle.Render("Rate:"), valueStyle.Render(fmt.Sprintf("%.1f frames/s", m.stats.FrameRate)),
		labelStyle.Render("Delay:"), valueStyle.Render(fmt.Sprintf("%d us", m.tx.Emitter().Delay())),
	)

	return boxStyle.Width(m.width - 4).Render(content)
}

func (m remoteModel) renderEventLog(labelStyle, warningStyle, errorStyle, headerStyle lipgloss.Style, boxStyle lipgloss.Style) string {
	var s strings.Builder
	s.WriteString(labelStyle.Render("EVENTS"))
	s.WriteString("\n")

	logHeight := 8
	if len(m.eventLog) < logHeight {
		logHeight = len(m.eventLog)
	}

	startIdx := len(m.eventLog) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	if len(m.eventLog) == 0 {
		s.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for i := startIdx; i < len(m.eventLog); i++ {
			entry := m.eventLog[i]
			icon := "i"
			style := warningStyle
			if entry.isError {
				icon = "x"
				style = errorStyle
			}
			s.WriteString(fmt.Sprintf("%s %s %s\n",
				headerStyle.Render(entry.timestamp.Format("15:04:05.000")),
				style.Render(icon),
				entry.message))
		}
	}

	return boxStyle.Width(m.width - 4).Render(s.String())
}

//////////////////////////////////////////////////////////////
// Entry Point
//////////////////////////////////////////////////////////////

func runTui(cmd *cobra.Command, args []string) error {
	out, outInfo, err := OpenOutput()
	if err != nil {
		return err
	}
	defer out.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tx := caixian.NewTransmitter(caixian.NewEmitter(out, tuiDelay))

	m := initialRemoteModel(tx, ctx, cancel, outInfo)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
