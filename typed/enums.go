package typed

import "github.com/lordmilko/PrtgAPI-sub005/wire"

// -----------------------------------------------------
// STATUS
// -----------------------------------------------------

// Status is the state of a sensor, device, group or probe. Values are the
// server's numeric status codes.
type Status int

const (
	StatusUnknown            Status = 1
	StatusCollecting         Status = 2
	StatusUp                 Status = 3
	StatusWarning            Status = 4
	StatusDown               Status = 5
	StatusNoProbe            Status = 6
	StatusPausedByUser       Status = 7
	StatusPausedByDependency Status = 8
	StatusPausedBySchedule   Status = 9
	StatusUnusual            Status = 10
	StatusPausedByLicense    Status = 11
	StatusPausedUntil        Status = 12
	StatusDownAcknowledged   Status = 13
	StatusDownPartial        Status = 14

	// StatusPaused matches every paused state when used in a filter. The
	// server never reports it.
	StatusPaused Status = 100
)

var statusEnum = wire.Register[Status](
	wire.Member{Name: "Unknown", Value: int64(StatusUnknown), Wire: []string{"1"}},
	wire.Member{Name: "Collecting", Value: int64(StatusCollecting), Wire: []string{"2"}},
	wire.Member{Name: "Up", Value: int64(StatusUp), Wire: []string{"3"}},
	wire.Member{Name: "Warning", Value: int64(StatusWarning), Wire: []string{"4"}},
	wire.Member{Name: "Down", Value: int64(StatusDown), Wire: []string{"5"}},
	wire.Member{Name: "NoProbe", Value: int64(StatusNoProbe), Wire: []string{"6", "No Probe"}},
	wire.Member{Name: "PausedByUser", Value: int64(StatusPausedByUser), Wire: []string{"7", "Paused (paused by user)"}},
	wire.Member{Name: "PausedByDependency", Value: int64(StatusPausedByDependency), Wire: []string{"8", "Paused (paused by dependency)"}},
	wire.Member{Name: "PausedBySchedule", Value: int64(StatusPausedBySchedule), Wire: []string{"9", "Paused (paused by schedule)"}},
	wire.Member{Name: "Unusual", Value: int64(StatusUnusual), Wire: []string{"10"}},
	wire.Member{Name: "PausedByLicense", Value: int64(StatusPausedByLicense), Wire: []string{"11", "Paused (paused by license)"}},
	wire.Member{Name: "PausedUntil", Value: int64(StatusPausedUntil), Wire: []string{"12", "Paused (paused until)"}},
	wire.Member{Name: "DownAcknowledged", Value: int64(StatusDownAcknowledged), Wire: []string{"13", "Down (Acknowledged)"}},
	wire.Member{Name: "DownPartial", Value: int64(StatusDownPartial), Wire: []string{"14", "Down (Partial)"}},
	wire.Member{Name: "Paused", Value: int64(StatusPaused), Of: []string{
		"PausedByUser", "PausedByDependency", "PausedBySchedule", "PausedByLicense", "PausedUntil",
	}},
)

func (s Status) String() string { return wire.NameOf(s) }

// IsPaused reports whether s is one of the paused states.
func (s Status) IsPaused() bool {
	members, err := statusEnum.Expand(int64(StatusPaused))
	if err != nil {
		return false
	}
	for _, m := range members {
		if m.Value == int64(s) {
			return true
		}
	}
	return false
}

// -----------------------------------------------------
// PRIORITY
// -----------------------------------------------------

// Priority ranks objects from one to five stars.
type Priority uint8

const (
	PriorityOne Priority = iota + 1
	PriorityTwo
	PriorityThree
	PriorityFour
	PriorityFive
)

func init() {
	wire.Register[Priority](
		wire.Member{Name: "One", Value: int64(PriorityOne), Wire: []string{"1"}},
		wire.Member{Name: "Two", Value: int64(PriorityTwo), Wire: []string{"2"}},
		wire.Member{Name: "Three", Value: int64(PriorityThree), Wire: []string{"3"}},
		wire.Member{Name: "Four", Value: int64(PriorityFour), Wire: []string{"4"}},
		wire.Member{Name: "Five", Value: int64(PriorityFive), Wire: []string{"5"}},
	)
}

func (p Priority) String() string { return wire.NameOf(p) }

// -----------------------------------------------------
// PROBE CONDITION
// -----------------------------------------------------

// ProbeStatus says whether a probe is connected to the core server.
type ProbeStatus int

const (
	ProbeDisconnected ProbeStatus = iota
	ProbeConnected
)

func init() {
	wire.Register[ProbeStatus](
		wire.Member{Name: "Disconnected", Value: int64(ProbeDisconnected), Wire: []string{"0"}},
		wire.Member{Name: "Connected", Value: int64(ProbeConnected), Wire: []string{"1"}},
	)
}

func (p ProbeStatus) String() string { return wire.NameOf(p) }

// -----------------------------------------------------
// LOG STATUS
// -----------------------------------------------------

// LogStatus classifies a log entry. It is a flag enumeration so that a filter
// can select several kinds of entry at once.
type LogStatus int64

const (
	LogUp LogStatus = 1 << iota
	LogWarning
	LogDown
	LogPaused
	LogResumed
	LogAcknowledged
	LogUnusual
	LogStatusChanged
	LogSystemStart
	LogNotification
	LogConnected
	LogDisconnected
	LogError
)

func init() {
	wire.RegisterFlags[LogStatus](
		wire.Member{Name: "Up", Value: int64(LogUp), Wire: []string{"607"}},
		wire.Member{Name: "Warning", Value: int64(LogWarning), Wire: []string{"606"}},
		wire.Member{Name: "Down", Value: int64(LogDown), Wire: []string{"608"}},
		wire.Member{Name: "Paused", Value: int64(LogPaused), Wire: []string{"612"}},
		wire.Member{Name: "Resumed", Value: int64(LogResumed), Wire: []string{"613"}},
		wire.Member{Name: "Acknowledged", Value: int64(LogAcknowledged), Wire: []string{"609"}},
		wire.Member{Name: "Unusual", Value: int64(LogUnusual), Wire: []string{"611"}},
		wire.Member{Name: "StatusChanged", Value: int64(LogStatusChanged), Wire: []string{"610", "Status Changed"}},
		wire.Member{Name: "SystemStart", Value: int64(LogSystemStart), Wire: []string{"1", "System Start"}},
		wire.Member{Name: "Notification", Value: int64(LogNotification), Wire: []string{"202"}},
		wire.Member{Name: "Connected", Value: int64(LogConnected), Wire: []string{"614"}},
		wire.Member{Name: "Disconnected", Value: int64(LogDisconnected), Wire: []string{"615"}},
		wire.Member{Name: "Error", Value: int64(LogError), Wire: []string{"2"}},
	)
}

func (l LogStatus) String() string { return wire.NameOf(l) }

// -----------------------------------------------------
// TRIGGER TYPE
// -----------------------------------------------------

// TriggerType is the kind of condition a notification trigger watches.
type TriggerType int

const (
	TriggerState TriggerType = iota + 1
	TriggerSpeed
	TriggerVolume
	TriggerThreshold
	TriggerChange
)

func init() {
	wire.Register[TriggerType](
		wire.Member{Name: "State", Value: int64(TriggerState), Wire: []string{"state"}},
		wire.Member{Name: "Speed", Value: int64(TriggerSpeed), Wire: []string{"speed"}},
		wire.Member{Name: "Volume", Value: int64(TriggerVolume), Wire: []string{"volume"}},
		wire.Member{Name: "Threshold", Value: int64(TriggerThreshold), Wire: []string{"threshold"}},
		wire.Member{Name: "Change", Value: int64(TriggerChange), Wire: []string{"change"}},
	)
}

func (t TriggerType) String() string { return wire.NameOf(t) }
