package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	vk "github.com/wippyai/vulkan-runtime"
	"github.com/wippyai/vulkan-runtime/instance"
	"github.com/wippyai/vulkan-runtime/loader"
	"github.com/wippyai/vulkan-runtime/testbed"
)

func main() {
	var (
		libPath     = flag.String("lib", "", "Path to the driver library (default: system search)")
		useStub     = flag.Bool("stub", false, "Use the built-in stub driver instead of a real one")
		layerName   = flag.String("layer", "", "Restrict extension listing to this layer")
		message     = flag.String("send", "", "Inject a diagnostic message and print what comes back")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *interactive && !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: -i requires a terminal")
		os.Exit(1)
	}

	l, err := openLoader(*useStub, *libPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer l.Close()

	if *interactive {
		if err := runInteractive(l); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(l, *layerName, *message); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openLoader(useStub bool, libPath string) (*loader.Loader, error) {
	if useStub {
		return loader.New(testbed.New(testbed.Config{PhysicalDevices: 2})), nil
	}
	if libPath != "" {
		return loader.Open(loader.WithLibrary(libPath))
	}
	return loader.Open()
}

func run(l *loader.Loader, layerName, message string) error {
	layers, err := instance.InstanceLayers(l)
	if err != nil {
		return fmt.Errorf("list layers: %w", err)
	}
	fmt.Printf("Instance layers: %d\n", len(layers))
	for _, ly := range layers {
		fmt.Printf("  %s (spec %s, impl %d) %s\n",
			ly.Name, formatVersion(ly.SpecVersion), ly.ImplementationVersion, ly.Description)
	}

	exts, err := instance.InstanceExtensions(l, layerName)
	if err != nil {
		return fmt.Errorf("list extensions: %w", err)
	}
	fmt.Printf("\nInstance extensions: %d\n", len(exts))
	for _, ex := range exts {
		fmt.Printf("  %s (rev %d)\n", ex.Name, ex.SpecVersion)
	}

	opts := instance.Options{
		AppName:    "vkinfo",
		AppVersion: vk.MakeVersion(1, 0, 0),
		APIVersion: vk.APIVersion13,
	}
	debugAvailable := hasExtension(exts, instance.DebugReportExtensionName)
	if debugAvailable {
		opts.EnabledExtensions = []string{instance.DebugReportExtensionName}
	}

	inst, err := instance.Create(l, opts)
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	defer inst.Destroy()

	devs, err := inst.PhysicalDevices()
	if err != nil {
		return fmt.Errorf("list devices: %w", err)
	}
	fmt.Printf("\nPhysical devices: %d\n", len(devs))
	for i, d := range devs {
		fmt.Printf("  device %d: handle %#x\n", i, uintptr(d.Handle()))
	}

	groups, err := inst.DeviceGroups()
	if err != nil {
		return fmt.Errorf("list device groups: %w", err)
	}
	fmt.Printf("\nDevice groups: %d\n", len(groups))
	for i, g := range groups {
		fmt.Printf("  group %d: %d device(s), subset allocation %v\n",
			i, len(g.Devices), g.SubsetAllocation)
	}

	if message == "" {
		return nil
	}
	if !debugAvailable {
		return fmt.Errorf("-send requires the %s extension", instance.DebugReportExtensionName)
	}

	cb, err := inst.RegisterDebugCallback(vk.AllSeverities, func(ev instance.Event) bool {
		fmt.Printf("\n[%s] %s: %s\n", severityLabel(ev.Flags), ev.LayerPrefix, ev.Message)
		return false
	})
	if err != nil {
		return fmt.Errorf("register callback: %w", err)
	}
	defer cb.Close()

	return inst.SubmitMessage(vk.Information, vk.ObjectInstance,
		uint64(inst.Handle()), 0, 0, "vkinfo", message)
}

func hasExtension(exts []instance.ExtensionProperties, name string) bool {
	for _, ex := range exts {
		if ex.Name == name {
			return true
		}
	}
	return false
}

func formatVersion(v uint32) string {
	return fmt.Sprintf("%d.%d.%d", v>>22, (v>>12)&0x3FF, v&0xFFF)
}

func severityLabel(f vk.DebugReportFlags) string {
	switch {
	case f.Has(vk.Error):
		return "ERROR"
	case f.Has(vk.Warning):
		return "WARNING"
	case f.Has(vk.PerformanceWarning):
		return "PERF"
	case f.Has(vk.Debug):
		return "DEBUG"
	default:
		return "INFO"
	}
}
