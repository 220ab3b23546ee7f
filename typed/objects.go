package typed

import "time"

// -----------------------------------------------------
// COMMON PROPERTIES
// -----------------------------------------------------

// PrtgObject holds the properties every table object has.
type PrtgObject struct {
	ID          int      `prtg:"objid" required:"true"`
	Name        string   `prtg:"name"`
	Tags        []string `prtg:"tags" split:"true"`
	DisplayType string   `prtg:"type"`
	Active      *bool    `prtg:"active_raw"`
}

// SensorOrDeviceOrGroupOrProbe holds the properties shared by objects that
// sit in the device tree.
type SensorOrDeviceOrGroupOrProbe struct {
	PrtgObject

	Status   Status   `prtg:"status_raw,status"`
	Priority Priority `prtg:"priority_raw,priority"`
	ParentID *int     `prtg:"parentid"`
	Message  *string  `prtg:"message_raw,message"`
	Comments *string  `prtg:"comments"`
	Favorite *bool    `prtg:"favorite_raw"`
	BaseType string   `prtg:"basetype"`
	URL      string   `prtg:"baselink"`
}

// DeviceOrGroupOrProbe holds the sensor totals of containers.
type DeviceOrGroupOrProbe struct {
	SensorOrDeviceOrGroupOrProbe

	Collapsed               *bool `prtg:"fold"`
	UpSensors               *int  `prtg:"upsens_raw"`
	DownSensors             *int  `prtg:"downsens_raw"`
	DownAcknowledgedSensors *int  `prtg:"downacksens_raw"`
	PartialDownSensors      *int  `prtg:"partialdownsens_raw"`
	WarningSensors          *int  `prtg:"warnsens_raw"`
	PausedSensors           *int  `prtg:"pausedsens_raw"`
	UnusualSensors          *int  `prtg:"unusualsens_raw"`
	UnknownSensors          *int  `prtg:"undefinedsens_raw"`
	TotalSensors            *int  `prtg:"totalsens"`
}

// -----------------------------------------------------
// SENSOR
// -----------------------------------------------------

// Sensor is a monitoring check on a device.
type Sensor struct {
	SensorOrDeviceOrGroupOrProbe

	Probe              string         `prtg:"probe"`
	Group              string         `prtg:"group"`
	Device             string         `prtg:"device"`
	DisplayLastValue   string         `prtg:"lastvalue"`
	LastValue          *float64       `prtg:"lastvalue_raw"`
	LastCheck          *time.Time     `prtg:"lastcheck_raw"`
	LastUp             *time.Time     `prtg:"lastup_raw"`
	LastDown           *time.Time     `prtg:"lastdown_raw"`
	Interval           *time.Duration `prtg:"interval_raw"`
	Uptime             *float64       `prtg:"uptime_raw" convert:"percent"`
	Downtime           *float64       `prtg:"downtime_raw" convert:"percent"`
	TotalUptime        *time.Duration `prtg:"uptimetime_raw" convert:"milliseconds"`
	TotalDowntime      *time.Duration `prtg:"downtimetime_raw" convert:"milliseconds"`
	DataCollectedSince *time.Time     `prtg:"cumsince_raw"`
	Kind               string         `prtg:"type_raw"`
}

// -----------------------------------------------------
// DEVICE
// -----------------------------------------------------

type Device struct {
	DeviceOrGroupOrProbe

	Location string `prtg:"location_raw,location"`
	Host     string `prtg:"host"`
	Group    string `prtg:"group"`
	Probe    string `prtg:"probe"`
	Icon     string `prtg:"icon"`
}

// -----------------------------------------------------
// GROUP
// -----------------------------------------------------

type Group struct {
	DeviceOrGroupOrProbe

	Probe        string `prtg:"probe"`
	TotalGroups  *int   `prtg:"groupnum"`
	TotalDevices *int   `prtg:"devicenum"`
}

// -----------------------------------------------------
// PROBE
// -----------------------------------------------------

type Probe struct {
	DeviceOrGroupOrProbe

	ProbeStatus  ProbeStatus `prtg:"condition_raw,condition"`
	TotalGroups  *int        `prtg:"groupnum"`
	TotalDevices *int        `prtg:"devicenum"`
}

// -----------------------------------------------------
// LOG
// -----------------------------------------------------

// Log is an entry of the server's event log.
type Log struct {
	ID       int       `prtg:"objid" required:"true"`
	Name     string    `prtg:"name"`
	DateTime time.Time `prtg:"datetime_raw" required:"true"`
	Parent   string    `prtg:"parent"`
	Status   LogStatus `prtg:"status_raw,status"`
	Message  *string   `prtg:"message_raw,message"`
	Probe    string    `prtg:"probe"`
	Group    string    `prtg:"group"`
	Device   string    `prtg:"device"`
	Sensor   string    `prtg:"sensor"`
}

// -----------------------------------------------------
// NOTIFICATION TRIGGER
// -----------------------------------------------------

// NotificationTrigger fires notification actions when a condition on an
// object is met.
type NotificationTrigger struct {
	ObjectID       int            `prtg:"objid" required:"true"`
	SubID          int            `prtg:"subid" required:"true"`
	Type           TriggerType    `prtg:"type_raw,type"`
	TypeName       string         `prtg:"typename"`
	ParentID       *int           `prtg:"parentid"`
	Inherited      *bool          `prtg:"inherited"`
	OnNotification string         `prtg:"onnotificationid"`
	Latency        *time.Duration `prtg:"latency"`
	Channel        string         `prtg:"channel"`
	Condition      string         `prtg:"condition"`
	Threshold      string         `prtg:"threshold"`
}

// -----------------------------------------------------
// SCHEDULE
// -----------------------------------------------------

type Schedule struct {
	PrtgObject

	URL string `prtg:"baselink"`
}

// -----------------------------------------------------
// SERVER STATUS
// -----------------------------------------------------

// ServerStatus is the document returned by the status endpoint. Counts the
// server leaves blank are nil.
type ServerStatus struct {
	NewMessages              *int   `prtg:"NewMessages"`
	NewAlarms                *int   `prtg:"NewAlarms"`
	Alarms                   *int   `prtg:"Alarms"`
	AcknowledgedAlarms       *int   `prtg:"AckAlarms"`
	NewToDos                 *int   `prtg:"NewToDos"`
	Clock                    string `prtg:"Clock"`
	ActivationStatusMessage  string `prtg:"ActivationStatusMessage"`
	BackgroundTasks          *int   `prtg:"BackgroundTasks"`
	CorrelationTasks         *int   `prtg:"CorrelationTasks"`
	AutoDiscoveryTasks       *int   `prtg:"AutoDiscoTasks"`
	Version                  string `prtg:"Version" required:"true"`
	UpdateAvailable          string `prtg:"PRTGUpdateAvailable"`
	IsAdminUser              *bool  `prtg:"IsAdminUser"`
	IsCluster                *bool  `prtg:"IsCluster"`
	ReadOnlyUser             *bool  `prtg:"ReadOnlyUser"`
	ReadOnlyAllowAcknowledge *bool  `prtg:"ReadOnlyAllowAcknowledge"`
}
