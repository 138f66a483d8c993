package executor

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss/tree"

	"github.com/eugenenazirov/executor-runtime/internal/configuration"
	"github.com/eugenenazirov/executor-runtime/internal/fancy"
	"github.com/eugenenazirov/executor-runtime/internal/registration"
	"github.com/eugenenazirov/executor-runtime/internal/resources"
)

const maxDisplayedValue = 80

// Summary is the serializable form of a RuntimeConfig.
type Summary struct {
	SlotCount                  int                 `json:"slotCount"`
	DefaultSlotResourceProfile resources.Profile   `json:"defaultSlotResourceProfile"`
	TotalResourceProfile       resources.Profile   `json:"totalResourceProfile"`
	TmpDirectories             []string            `json:"tmpDirectories"`
	RPCTimeout                 string              `json:"rpcTimeout"`
	SlotTimeout                string              `json:"slotTimeout"`
	MaxRegistrationDuration    *string             `json:"maxRegistrationDuration"`
	ExitOnOutOfMemory          bool                `json:"exitOnOutOfMemory"`
	LogFilePath                *string             `json:"logFilePath"`
	StdoutFilePath             *string             `json:"stdoutFilePath"`
	LogDirectory               *string             `json:"logDirectory"`
	ExternalAddress            string              `json:"externalAddress"`
	WorkingDirectory           string              `json:"workingDirectory"`
	RetryingRegistration       registrationSummary `json:"retryingRegistration"`
}

type registrationSummary struct {
	InitialTimeout string `json:"initialTimeout"`
	MaxTimeout     string `json:"maxTimeout"`
	ErrorDelay     string `json:"errorDelay"`
	RefusedDelay   string `json:"refusedDelay"`
}

// Snapshot returns a serializable summary. Absent optional fields are nil.
func (c *RuntimeConfig) Snapshot() Summary {
	s := Summary{
		SlotCount:                  c.slotCount,
		DefaultSlotResourceProfile: c.defaultSlotResourceProfile,
		TotalResourceProfile:       c.totalResourceProfile,
		TmpDirectories:             c.TmpDirectories(),
		RPCTimeout:                 c.rpcTimeout.String(),
		SlotTimeout:                c.slotTimeout.String(),
		ExitOnOutOfMemory:          c.exitOnOutOfMemory,
		LogFilePath:                optional(c.LogFilePath()),
		StdoutFilePath:             optional(c.StdoutFilePath()),
		LogDirectory:               optional(c.LogDirectory()),
		ExternalAddress:            c.externalAddress,
		WorkingDirectory:           c.workingDirectory,
		RetryingRegistration:       summarizeRegistration(c.retryingRegistration),
	}
	if d, ok := c.MaxRegistrationDuration(); ok {
		text := d.String()
		s.MaxRegistrationDuration = &text
	}
	return s
}

// String renders the configuration as a tree. Sensitive raw entries are hidden.
func (c *RuntimeConfig) String() string {
	t := fancy.Tree()
	t.Root(fancy.RootStyle.Render(fmt.Sprintf("Executor %s", c.externalAddress)))

	general := fancy.BranchNode("General", "")
	general.Child(fancy.Field("Slots", strconv.Itoa(c.slotCount)))
	general.Child(fancy.Field("Working directory", c.workingDirectory))
	general.Child(fancy.Field("Exit on OOM", strconv.FormatBool(c.exitOnOutOfMemory)))
	tmp := fancy.BranchNode("Tmp directories", fmt.Sprintf("(%d)", len(c.tmpDirectories)))
	for _, dir := range c.tmpDirectories {
		tmp.Child(dir)
	}
	general.Child(tmp)
	t.Child(general)

	timeouts := fancy.BranchNode("Timeouts", "")
	timeouts.Child(fancy.Field("RPC", c.rpcTimeout.String()))
	timeouts.Child(fancy.Field("Slot", c.slotTimeout.String()))
	maxReg, ok := c.MaxRegistrationDuration()
	timeouts.Child(fancy.OptionalField("Max registration", maxReg.String(), ok, "unbounded"))
	timeouts.Child(registrationTree(c.retryingRegistration))
	t.Child(timeouts)

	res := fancy.BranchNode("Resources", "")
	res.Child(profileTree("Total", c.totalResourceProfile))
	res.Child(profileTree("Default slot", c.defaultSlotResourceProfile))
	t.Child(res)

	logs := fancy.BranchNode("Logging", "")
	logPath, ok := c.LogFilePath()
	logs.Child(fancy.OptionalField("Log file", logPath, ok, "not configured"))
	stdout, ok := c.StdoutFilePath()
	logs.Child(fancy.OptionalField("Stdout file", stdout, ok, "not configured"))
	logDir, ok := c.LogDirectory()
	logs.Child(fancy.OptionalField("Log directory", logDir, ok, "not configured"))
	t.Child(logs)

	entries := configuration.DisplayEntries(c.configuration)
	raw := fancy.BranchNode("Configuration", fmt.Sprintf("(%d entries)", len(entries)))
	for _, e := range entries {
		raw.Child(fancy.Field(e.Key, fancy.TruncateString(e.Value, maxDisplayedValue)))
	}
	t.Child(raw)

	return t.String()
}

func profileTree(title string, p resources.Profile) *tree.Tree {
	node := fancy.BranchNode(title, "")
	node.Child(fancy.Field("CPU cores", p.CPUCores.String()))
	node.Child(fancy.Field("Task heap", p.TaskHeap.String()))
	node.Child(fancy.Field("Task off-heap", p.TaskOffHeap.String()))
	node.Child(fancy.Field("Network", p.Network.String()))
	node.Child(fancy.Field("Managed", p.Managed.String()))
	return node
}

func registrationTree(r registration.Config) *tree.Tree {
	node := fancy.BranchNode("Registration retries", "")
	node.Child(fancy.Field("Initial timeout", r.InitialTimeout.String()))
	node.Child(fancy.Field("Max timeout", r.MaxTimeout.String()))
	node.Child(fancy.Field("Error delay", r.ErrorDelay.String()))
	node.Child(fancy.Field("Refused delay", r.RefusedDelay.String()))
	return node
}

func summarizeRegistration(r registration.Config) registrationSummary {
	return registrationSummary{
		InitialTimeout: r.InitialTimeout.String(),
		MaxTimeout:     r.MaxTimeout.String(),
		ErrorDelay:     r.ErrorDelay.String(),
		RefusedDelay:   r.RefusedDelay.String(),
	}
}

func optional(value string, ok bool) *string {
	if !ok {
		return nil
	}
	return &value
}
