// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mira Holt, Copperline

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/copperline/gotchiscope/pkg/capture"
	"github.com/copperline/gotchiscope/pkg/pwnzero"
)

// Event log entry shared by the TUI and text mode
type watchLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// TUI model
type watchModel struct {
	srcInfo string
	showAll bool
	mon     *pwnzero.Monitor

	snap     pwnzero.StatusSnapshot
	haveSnap bool
	stats    pwnzero.Statistics
	dropped  uint64
	evicted  uint64

	eventLog      []watchLogEntry
	maxLogEntries int
	synchronized  bool
	invalidBytes  int
	replayDone    bool

	width    int
	height   int
	quitting bool
}

// Messages
type watchTickMsg time.Time
type watchUpdateMsg pwnzero.StatusSnapshot
type watchSyncMsg struct {
	invalidBytes int
}
type watchEventMsg struct {
	message string
	isError bool
}
type watchReplayDoneMsg struct{}

func initialWatchModel(srcInfo string, showAll bool, mon *pwnzero.Monitor) watchModel {
	return watchModel{
		srcInfo:       srcInfo,
		showAll:       showAll,
		mon:           mon,
		stats:         mon.Stats(),
		eventLog:      make([]watchLogEntry, 0),
		maxLogEntries: 100,
		width:         80,
		height:        24,
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(
		watchTickCmd(),
		tea.EnterAltScreen,
	)
}

func watchTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case watchTickMsg:
		m.stats = m.mon.Stats()
		m.stats.CalculateRates()
		m.dropped = m.mon.Dropped()
		m.evicted = m.mon.Evicted()
		return m, watchTickCmd()

	case watchSyncMsg:
		m.synchronized = true
		m.invalidBytes = msg.invalidBytes
		if msg.invalidBytes > 0 {
			m.addLogEntry(fmt.Sprintf("Synchronized after skipping %d invalid bytes", msg.invalidBytes), false)
		} else {
			m.addLogEntry("Synchronized", false)
		}

	case watchUpdateMsg:
		m.snap = pwnzero.StatusSnapshot(msg)
		m.haveSnap = true

	case watchEventMsg:
		m.addLogEntry(msg.message, msg.isError)

	case watchReplayDoneMsg:
		m.replayDone = true
		m.addLogEntry("Replay finished", false)
	}

	return m, nil
}

func (m *watchModel) addLogEntry(message string, isError bool) {
	entry := watchLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	}
	m.eventLog = append(m.eventLog, entry)

	// Keep only last N entries
	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}

func (m watchModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

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

	glyphStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11")).
		Bold(true)

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
	var s strings.Builder
	s.WriteString(titleStyle.Render("GOTCHISCOPE - STATUS WATCH"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | Mode: %s | Press 'q' to quit",
		m.srcInfo, func() string {
			if m.showAll {
				return "All frames"
			}
			return "Anomalies only"
		}())))
	s.WriteString("\n\n")

	// Sync status
	switch {
	case m.replayDone:
		s.WriteString(valueStyle.Render("✓ Replay finished"))
		s.WriteString("\n\n")
	case !m.synchronized:
		s.WriteString(warningStyle.Render("⏳ Waiting for synchronization..."))
		s.WriteString("\n\n")
	default:
		s.WriteString(valueStyle.Render("✓ Synchronized"))
		if m.invalidBytes > 0 {
			s.WriteString(headerStyle.Render(fmt.Sprintf(" (skipped %d invalid bytes)", m.invalidBytes)))
		}
		s.WriteString("\n\n")
	}

	// Status panel
	statusContent := strings.Builder{}
	if !m.haveSnap {
		statusContent.WriteString(headerStyle.Render("(no status received yet)"))
	} else {
		face := pwnzero.Face(m.snap.Face)
		statusContent.WriteString(fmt.Sprintf("%s  %s\n\n",
			glyphStyle.Render(face.Glyph()),
			labelStyle.Render(face.String()),
		))
		statusContent.WriteString(fmt.Sprintf("%s %s   %s %s\n",
			labelStyle.Render("Hostname:"), valueStyle.Render(orDash(m.snap.Hostname)),
			labelStyle.Render("Mode:"), valueStyle.Render(m.snap.Mode.String()),
		))
		statusContent.WriteString(fmt.Sprintf("%s %s   %s %s\n",
			labelStyle.Render("Channel:"), valueStyle.Render(orDash(m.snap.Channel)),
			labelStyle.Render("APs:"), valueStyle.Render(orDash(m.snap.APs)),
		))
		statusContent.WriteString(fmt.Sprintf("%s %s   %s %s\n",
			labelStyle.Render("Uptime:"), valueStyle.Render(orDash(m.snap.Uptime)),
			labelStyle.Render("Handshakes:"), valueStyle.Render(orDash(m.snap.Handshakes)),
		))
		statusContent.WriteString(fmt.Sprintf("%s %s\n",
			labelStyle.Render("Message:"), valueStyle.Render(orDash(m.snap.Message)),
		))
		if !m.snap.LastUpdate.IsZero() {
			statusContent.WriteString(headerStyle.Render(
				fmt.Sprintf("Updated %s (%d applied)", m.snap.LastUpdate.Format("15:04:05"), m.snap.Applied)))
		}
	}
	s.WriteString(boxStyle.Render(statusContent.String()))
	s.WriteString("\n\n")

	// Statistics
	var validPercent, errorPercent float64
	errorCount := m.stats.StrayBytes + m.stats.InterruptedFrames + m.stats.AnomalousFrames
	if m.stats.TotalFrames > 0 {
		validPercent = float64(m.stats.ValidFrames) * 100.0 / float64(m.stats.TotalFrames)
		errorPercent = float64(errorCount) * 100.0 / float64(m.stats.TotalFrames)
	}

	statsContent := strings.Builder{}
	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
		labelStyle.Render("Total:"), valueStyle.Render(fmt.Sprintf("%d", m.stats.TotalFrames)),
		labelStyle.Render("Valid:"), valueStyle.Render(fmt.Sprintf("%d (%.1f%%)", m.stats.ValidFrames, validPercent)),
		labelStyle.Render("Errors:"), errorStyle.Render(fmt.Sprintf("%d (%.1f%%)", errorCount, errorPercent)),
	))

	if m.stats.StrayBytes > 0 || m.stats.InterruptedFrames > 0 {
		statsContent.WriteString(fmt.Sprintf("%s %s   %s %s\n",
			labelStyle.Render("Stray Bytes:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.StrayBytes)),
			labelStyle.Render("Interrupted:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.InterruptedFrames)),
		))
	}

	if m.stats.AnomalousFrames > 0 {
		statsContent.WriteString(fmt.Sprintf("%s %s",
			labelStyle.Render("Anomalous:"), warningStyle.Render(fmt.Sprintf("%d", m.stats.AnomalousFrames)),
		))
		details := []string{}
		if m.stats.FaceRangeErrors > 0 {
			details = append(details, fmt.Sprintf("face range: %d", m.stats.FaceRangeErrors))
		}
		if m.stats.UnknownModes > 0 {
			details = append(details, fmt.Sprintf("unknown modes: %d", m.stats.UnknownModes))
		}
		if m.stats.MissingArgs > 0 {
			details = append(details, fmt.Sprintf("missing args: %d", m.stats.MissingArgs))
		}
		if m.stats.BinaryText > 0 {
			details = append(details, fmt.Sprintf("binary text: %d", m.stats.BinaryText))
		}
		if m.stats.TruncatedArgs > 0 {
			details = append(details, fmt.Sprintf("truncated: %d", m.stats.TruncatedArgs))
		}
		if len(details) > 0 {
			statsContent.WriteString(headerStyle.Render(" (" + strings.Join(details, ", ") + ")"))
		}
		statsContent.WriteString("\n")
	}

	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s\n",
		labelStyle.Render("Applied:"), valueStyle.Render(fmt.Sprintf("%d", m.stats.AppliedUpdates)),
		labelStyle.Render("No-op:"), valueStyle.Render(fmt.Sprintf("%d", m.stats.NoopFrames)),
	))

	if m.dropped > 0 || m.evicted > 0 {
		statsContent.WriteString(fmt.Sprintf("%s %s   %s %s\n",
			labelStyle.Render("Dropped Bytes:"), warningStyle.Render(fmt.Sprintf("%d", m.dropped)),
			labelStyle.Render("Evicted Frames:"), warningStyle.Render(fmt.Sprintf("%d", m.evicted)),
		))
	}

	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s",
		labelStyle.Render("Frame Rate:"), valueStyle.Render(fmt.Sprintf("%.1f frames/s", m.stats.FrameRate)),
		labelStyle.Render("Error Rate:"), func() string {
			if m.stats.ErrorRate > 0 {
				return errorStyle.Render(fmt.Sprintf("%.1f err/s", m.stats.ErrorRate))
			}
			return valueStyle.Render(fmt.Sprintf("%.1f err/s", m.stats.ErrorRate))
		}(),
	))

	s.WriteString(boxStyle.Render(statsContent.String()))
	s.WriteString("\n\n")

	// Event log
	s.WriteString(labelStyle.Render("Recent Events:"))
	s.WriteString("\n")

	logHeight := m.height - 22 // Reserve space for header, status, stats
	if logHeight < 4 {
		logHeight = 4
	}

	logContent := strings.Builder{}
	startIdx := len(m.eventLog) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	if len(m.eventLog) == 0 {
		logContent.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for i := startIdx; i < len(m.eventLog); i++ {
			entry := m.eventLog[i]
			timestamp := entry.timestamp.Format("15:04:05.000")
			if entry.isError {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					errorStyle.Render("✗ "+entry.message),
				))
			} else {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					warningStyle.Render("ℹ "+entry.message),
				))
			}
		}
	}

	s.WriteString(boxStyle.Width(m.width - 4).Render(logContent.String()))

	return s.String()
}

// orDash substitutes a dash for fields no frame has filled yet
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// runWatchTUI wires the monitor into a full-screen status view
func runWatchTUI(src ByteSource, srcInfo string) error {
	var p *tea.Program

	// Callback state lives on the monitor's worker goroutine; p is set
	// before the feed loop starts, so the callbacks never see it nil.
	synchronized := false
	invalidBytes := 0

	mon := pwnzero.NewMonitor(pwnzero.MonitorConfig{
		SinkCapacity:  appConfig.SinkCapacity,
		QueueCapacity: appConfig.QueueCapacity,
		OnUpdate: func(snap pwnzero.StatusSnapshot) {
			p.Send(watchUpdateMsg(snap))
		},
		OnPacket: func(packet *pwnzero.Packet, validationErrors []pwnzero.ValidationError) {
			if !synchronized {
				synchronized = true
				p.Send(watchSyncMsg{invalidBytes: invalidBytes})
			}
			name := pwnzero.FormatParamCode(packet.Code())
			if len(validationErrors) > 0 {
				for _, verr := range validationErrors {
					p.Send(watchEventMsg{message: fmt.Sprintf("%s: %s", name, verr.Message), isError: true})
				}
			} else if watchShowAll {
				p.Send(watchEventMsg{message: fmt.Sprintf("%s (valid)", name), isError: false})
			}
		},
		OnDecodeError: func(err error) {
			if synchronized {
				p.Send(watchEventMsg{message: fmt.Sprintf("DECODE ERROR: %v", err), isError: true})
			} else {
				invalidBytes++
			}
		},
	})

	m := initialWatchModel(srcInfo, watchShowAll, mon)
	p = tea.NewProgram(m)

	go feedLoop(src, mon, func() { p.Send(watchReplayDoneMsg{}) })

	if _, err := p.Run(); err != nil {
		mon.Stop()
		return fmt.Errorf("TUI error: %v", err)
	}

	mon.Stop()
	return nil
}

// Capture picker for watch --replay <dir>

// captureItem is one capture file in the picker list
type captureItem struct {
	path string
	size int64
	mod  time.Time
}

func (c captureItem) Title() string { return filepath.Base(c.path) }
func (c captureItem) Description() string {
	return fmt.Sprintf("%s, %s", humanSize(c.size), c.mod.Format("2006-01-02 15:04"))
}
func (c captureItem) FilterValue() string { return filepath.Base(c.path) }

type capturePickerModel struct {
	list   list.Model
	choice string
}

func (m capturePickerModel) Init() tea.Cmd {
	return nil
}

func (m capturePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(captureItem); ok {
				m.choice = item.path
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-2, msg.Height-2)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m capturePickerModel) View() string {
	return "\n" + m.list.View()
}

// pickCaptureFile lists the capture files in dir and lets the user pick
// one. Returns an error when the directory has none or the user cancels.
func pickCaptureFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("replay directory: %v", err)
	}

	items := []list.Item{}
	for _, entry := range entries {
		if entry.IsDir() || !capture.IsCapturePath(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		items = append(items, captureItem{
			path: filepath.Join(dir, entry.Name()),
			size: info.Size(),
			mod:  info.ModTime(),
		})
	}
	if len(items) == 0 {
		return "", fmt.Errorf("no capture files in %s", dir)
	}

	// Newest first; recorded names sort by timestamp
	sort.Slice(items, func(i, j int) bool {
		return items[i].(captureItem).Title() > items[j].(captureItem).Title()
	})

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.SetHeight(2)
	l := list.New(items, delegate, 40, 14)
	l.Title = "Capture files"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	final, err := tea.NewProgram(capturePickerModel{list: l}).Run()
	if err != nil {
		return "", fmt.Errorf("picker error: %v", err)
	}

	choice := final.(capturePickerModel).choice
	if choice == "" {
		return "", fmt.Errorf("no capture file selected")
	}
	return choice, nil
}

// humanSize formats a byte count for the picker list
func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
