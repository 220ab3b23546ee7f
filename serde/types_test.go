package serde

import (
	"time"

	"github.com/lordmilko/PrtgAPI-sub005/wire"
)

type testStatus int

const (
	testUnknown            testStatus = 1
	testUp                 testStatus = 3
	testDown               testStatus = 5
	testPausedByUser       testStatus = 7
	testPausedByDependency testStatus = 8
	testPaused             testStatus = -1
)

func init() {
	wire.Register[testStatus](
		wire.Member{Name: "Unknown", Value: int64(testUnknown)},
		wire.Member{Name: "Up", Value: int64(testUp)},
		wire.Member{Name: "Down", Value: int64(testDown), Wire: []string{"Down (Acknowledged)"}},
		wire.Member{Name: "PausedByUser", Value: int64(testPausedByUser), Wire: []string{"Paused (paused by user)"}},
		wire.Member{Name: "PausedByDependency", Value: int64(testPausedByDependency), Wire: []string{"Paused (paused by dependency)"}},
		wire.Member{Name: "Paused", Value: int64(testPaused), Of: []string{"PausedByUser", "PausedByDependency"}},
	)
}

type testObject struct {
	ID   int    `prtg:"objid"`
	Name string `prtg:"name"`
}

type testSensor struct {
	testObject

	Status    testStatus    `prtg:"status_raw,status"`
	Active    bool          `prtg:"active_raw,active"`
	Priority  uint8         `prtg:"priority"`
	LastValue *float64      `prtg:"lastvalue_raw"`
	LastUp    *time.Time    `prtg:"lastup_raw"`
	Interval  time.Duration `prtg:"interval_raw"`
	Uptime    *float64      `prtg:"uptime_raw" convert:"percent"`
	Downtime  float64       `prtg:"downtime_raw"`
	Tags      []string      `prtg:"tags" split:"true"`
	Message   *string       `prtg:"message_raw,message"`
	Kind      string        `prtg:"@kind"`
	Comment   string        `prtg:"#text"`
	Probe     string        `prtg:"probe" required:"true"`
}
