package rest

import (
	"context"
	"fmt"

	"github.com/lordmilko/PrtgAPI-sub005/core"
	"github.com/lordmilko/PrtgAPI-sub005/query"
	"github.com/lordmilko/PrtgAPI-sub005/typed"
)

// anyServerVersion marks resources every server version serves.
const anyServerVersion = "0.0.0"

// TableResourceAPI is the part of a table resource that does not depend on its item type.
type TableResourceAPI interface {
	Content() string
	Columns() []string
	Session() *core.Session
}

type PrtgRest struct {
	ctx         context.Context
	Session     *core.Session
	resourceMap map[string]TableResourceAPI // Resources by content type

	Sensors              *core.TableResource[typed.Sensor]
	Devices              *core.TableResource[typed.Device]
	Groups               *core.TableResource[typed.Group]
	Probes               *core.TableResource[typed.Probe]
	Logs                 *core.TableResource[typed.Log]
	NotificationTriggers *core.TableResource[typed.NotificationTrigger]
	Schedules            *core.TableResource[typed.Schedule]
}

// NewPrtgRest validates config, opens a session and binds every object type
// to its content type.
func NewPrtgRest(config *core.PRTGConfig) (*PrtgRest, error) {
	session, err := core.NewSession(config)
	if err != nil {
		return nil, err
	}
	rest := &PrtgRest{
		ctx:         config.Context,
		Session:     session,
		resourceMap: make(map[string]TableResourceAPI),
	}

	rest.Sensors = newResource[typed.Sensor](rest, typed.ContentSensors, anyServerVersion)
	rest.Devices = newResource[typed.Device](rest, typed.ContentDevices, anyServerVersion)
	rest.Groups = newResource[typed.Group](rest, typed.ContentGroups, anyServerVersion)
	// Probes are the groups directly under the root.
	rest.Probes = newResource[typed.Probe](rest, typed.ContentProbes, anyServerVersion,
		typed.Where(typed.PropertyParentID, query.Equals, 0))
	rest.Logs = newResource[typed.Log](rest, typed.ContentLogs, anyServerVersion)
	rest.NotificationTriggers = newResource[typed.NotificationTrigger](rest, typed.ContentTriggers, "14.4.0")
	rest.Schedules = newResource[typed.Schedule](rest, typed.ContentSchedules, anyServerVersion)

	return rest, nil
}

func newResource[T any](rest *PrtgRest, content, availableFromVersion string, filters ...query.SearchFilter) *core.TableResource[T] {
	resource := core.MustTableResource[T](rest.Session, content)
	if len(filters) > 0 {
		resource = resource.WithFilters(filters...)
	}
	if availableFromVersion != anyServerVersion {
		resource.RequireVersion(availableFromVersion)
	}
	if _, dup := rest.resourceMap[content]; dup {
		panic(fmt.Sprintf("content %s bound twice", content))
	}
	rest.resourceMap[content] = resource
	return resource
}

func (rest *PrtgRest) GetResourceMap() map[string]TableResourceAPI {
	return rest.resourceMap
}

func (rest *PrtgRest) GetCtx() context.Context {
	return rest.ctx
}

func (rest *PrtgRest) SetCtx(ctx context.Context) {
	rest.ctx = ctx
}

func (rest *PrtgRest) context(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	if rest.ctx != nil {
		return rest.ctx
	}
	return context.Background()
}

// OnRetry subscribes fn to retry notifications. remaining is the number of
// retries left after the one about to happen.
func (rest *PrtgRest) OnRetry(fn func(remaining int)) {
	rest.Session.Events().OnRetry(func(ev core.RetryEvent) { fn(ev.Remaining) })
}

// OnVerboseLog subscribes fn to progress messages.
func (rest *PrtgRest) OnVerboseLog(fn func(message string)) {
	rest.Session.Events().OnVerboseLog(fn)
}

// GetTotalCount returns the number of objects of a content type.
func (rest *PrtgRest) GetTotalCount(ctx context.Context, content string) (int, error) {
	return rest.Session.GetTotalCount(rest.context(ctx), content)
}

// GetServerStatus returns the server's status document.
func (rest *PrtgRest) GetServerStatus(ctx context.Context) (*typed.ServerStatus, error) {
	status, err := core.FetchStatus[typed.ServerStatus](rest.context(ctx), rest.Session)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// GetNotificationTriggers returns the triggers defined on, or inherited by, an object.
func (rest *PrtgRest) GetNotificationTriggers(ctx context.Context, objectID int) ([]typed.NotificationTrigger, error) {
	params := query.NewParameterSet().Set(query.ID, objectID)
	return rest.NotificationTriggers.List(rest.context(ctx), params)
}

// StreamLogs lazily reads log entries matching filters, newest first.
func (rest *PrtgRest) StreamLogs(ctx context.Context, opts core.StreamOptions) (*core.Stream[typed.Log], error) {
	params := query.NewParameterSet().Set(query.SortBy, "-datetime")
	return rest.Logs.Stream(rest.context(ctx), params, opts)
}
