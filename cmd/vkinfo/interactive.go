package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	vk "github.com/wippyai/vulkan-runtime"
	"github.com/wippyai/vulkan-runtime/instance"
	"github.com/wippyai/vulkan-runtime/loader"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// eventLogCap bounds the on-screen diagnostic log.
const eventLogCap = 8

type section int

const (
	sectionLayers section = iota
	sectionExtensions
	sectionDevices
	sectionGroups
	sectionCount
)

type interactiveModel struct {
	l    *loader.Loader
	inst *instance.Instance
	cb   *instance.DebugCallback

	layers     []instance.LayerProperties
	extensions []instance.ExtensionProperties
	devices    []*instance.PhysicalDevice
	groups     []instance.DeviceGroup

	events chan instance.Event
	log    []instance.Event

	section  section
	selected int
	input    textinput.Model
	typing   bool
	err      error
	loaded   bool
}

type loadedMsg struct {
	err        error
	inst       *instance.Instance
	cb         *instance.DebugCallback
	layers     []instance.LayerProperties
	extensions []instance.ExtensionProperties
	devices    []*instance.PhysicalDevice
	groups     []instance.DeviceGroup
}

type eventMsg instance.Event

func newInteractiveModel(l *loader.Loader) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "diagnostic message"
	ti.Prompt = "send: "
	ti.Width = 48
	return &interactiveModel{
		l:      l,
		events: make(chan instance.Event, 64),
		input:  ti,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return tea.Batch(m.load, m.waitForEvent)
}

func (m *interactiveModel) load() tea.Msg {
	layers, err := instance.InstanceLayers(m.l)
	if err != nil {
		return loadedMsg{err: err}
	}
	exts, err := instance.InstanceExtensions(m.l, "")
	if err != nil {
		return loadedMsg{err: err}
	}

	opts := instance.Options{
		AppName:    "vkinfo",
		APIVersion: vk.APIVersion13,
	}
	if hasExtension(exts, instance.DebugReportExtensionName) {
		opts.EnabledExtensions = []string{instance.DebugReportExtensionName}
	}

	inst, err := instance.Create(m.l, opts)
	if err != nil {
		return loadedMsg{err: err}
	}

	devices, err := inst.PhysicalDevices()
	if err != nil {
		inst.Destroy()
		return loadedMsg{err: err}
	}
	groups, err := inst.DeviceGroups()
	if err != nil {
		inst.Destroy()
		return loadedMsg{err: err}
	}

	var cb *instance.DebugCallback
	if len(opts.EnabledExtensions) > 0 {
		// Pump driver events into the model's channel. The handler runs
		// on driver threads; the channel hop keeps the TUI loop single
		// threaded.
		cb, err = inst.RegisterDebugCallback(vk.AllSeverities, func(ev instance.Event) bool {
			select {
			case m.events <- ev:
			default:
			}
			return false
		})
		if err != nil {
			inst.Destroy()
			return loadedMsg{err: err}
		}
	}

	return loadedMsg{
		inst:       inst,
		cb:         cb,
		layers:     layers,
		extensions: exts,
		devices:    devices,
		groups:     groups,
	}
}

func (m *interactiveModel) waitForEvent() tea.Msg {
	return eventMsg(<-m.events)
}

func (m *interactiveModel) teardown() {
	if m.cb != nil {
		m.cb.Close()
	}
	if m.inst != nil {
		m.inst.Destroy()
	}
}

func (m *interactiveModel) sectionLen() int {
	switch m.section {
	case sectionLayers:
		return len(m.layers)
	case sectionExtensions:
		return len(m.extensions)
	case sectionDevices:
		return len(m.devices)
	default:
		return len(m.groups)
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.typing {
			switch msg.String() {
			case "enter":
				text := m.input.Value()
				m.input.SetValue("")
				m.input.Blur()
				m.typing = false
				if text != "" && m.inst != nil && m.cb != nil {
					if err := m.inst.SubmitMessage(vk.Information, vk.ObjectInstance,
						uint64(m.inst.Handle()), 0, 0, "vkinfo", text); err != nil {
						m.err = err
					}
				}
				return m, nil
			case "esc":
				m.input.Blur()
				m.typing = false
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			m.teardown()
			return m, tea.Quit

		case "tab":
			m.section = (m.section + 1) % sectionCount
			m.selected = 0

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.selected < m.sectionLen()-1 {
				m.selected++
			}

		case "s":
			if m.cb != nil {
				m.typing = true
				m.input.Focus()
				return m, textinput.Blink
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.inst = msg.inst
		m.cb = msg.cb
		m.layers = msg.layers
		m.extensions = msg.extensions
		m.devices = msg.devices
		m.groups = msg.groups
		m.loaded = true

	case eventMsg:
		m.log = append(m.log, instance.Event(msg))
		if len(m.log) > eventLogCap {
			m.log = m.log[len(m.log)-eventLogCap:]
		}
		return m, m.waitForEvent
	}

	return m, nil
}

func (m *interactiveModel) View() string {
	if m.err != nil && !m.loaded {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if !m.loaded {
		return "Querying driver..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Vulkan Instance Explorer"))
	b.WriteString("\n\n")

	m.renderSection(&b, sectionLayers, "Layers", len(m.layers), func(i int) string {
		ly := m.layers[i]
		return nameStyle.Render(ly.Name) + " " + detailStyle.Render(ly.Description)
	})
	m.renderSection(&b, sectionExtensions, "Extensions", len(m.extensions), func(i int) string {
		ex := m.extensions[i]
		return nameStyle.Render(ex.Name) + " " + detailStyle.Render(fmt.Sprintf("rev %d", ex.SpecVersion))
	})
	m.renderSection(&b, sectionDevices, "Physical devices", len(m.devices), func(i int) string {
		return nameStyle.Render(fmt.Sprintf("device %d", i)) + " " +
			detailStyle.Render(fmt.Sprintf("handle %#x", uintptr(m.devices[i].Handle())))
	})
	m.renderSection(&b, sectionGroups, "Device groups", len(m.groups), func(i int) string {
		g := m.groups[i]
		return nameStyle.Render(fmt.Sprintf("group %d", i)) + " " +
			detailStyle.Render(fmt.Sprintf("%d device(s)", len(g.Devices)))
	})

	if len(m.log) > 0 {
		b.WriteString("Diagnostics:\n")
		for _, ev := range m.log {
			b.WriteString("  ")
			b.WriteString(eventStyle.Render(fmt.Sprintf("[%s] %s: %s",
				severityLabel(ev.Flags), ev.LayerPrefix, ev.Message)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	if m.typing {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter send • esc cancel"))
	} else {
		help := "tab section • ↑/↓ select • q quit"
		if m.cb != nil {
			help = "tab section • ↑/↓ select • s send message • q quit"
		}
		b.WriteString(helpStyle.Render(help))
	}

	return b.String()
}

func (m *interactiveModel) renderSection(b *strings.Builder, s section, title string, n int, line func(int) string) {
	b.WriteString(title)
	b.WriteString(fmt.Sprintf(" (%d)\n", n))
	for i := 0; i < n; i++ {
		if s == m.section && i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line(i)))
		} else {
			b.WriteString("  " + line(i))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func runInteractive(l *loader.Loader) error {
	p := tea.NewProgram(newInteractiveModel(l), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
