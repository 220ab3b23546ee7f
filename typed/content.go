package typed

import "github.com/lordmilko/PrtgAPI-sub005/query"

// Content types served by the table endpoint.
const (
	ContentSensors   = "sensors"
	ContentDevices   = "devices"
	ContentGroups    = "groups"
	ContentProbes    = "probenode"
	ContentLogs      = "messages"
	ContentTriggers  = "triggers"
	ContentSchedules = "schedules"
)

// Property names a filterable column.
type Property string

const (
	PropertyID        Property = "objid"
	PropertyName      Property = "name"
	PropertyTags      Property = "tags"
	PropertyStatus    Property = "status"
	PropertyParentID  Property = "parentid"
	PropertyProbe     Property = "probe"
	PropertyGroup     Property = "group"
	PropertyDevice    Property = "device"
	PropertyHost      Property = "host"
	PropertyType      Property = "type"
	PropertyLastValue Property = "lastvalue"
	PropertyLastUp    Property = "lastup"
	PropertyInterval  Property = "interval"
	PropertyDateTime  Property = "datetime"
	PropertyMessage   Property = "message"
	PropertyPriority  Property = "priority"
	PropertyActive    Property = "active"
)

// Where builds a filter on p. Dates, durations, enums and slices are encoded
// the same way as in any other parameter.
func Where(p Property, op query.FilterOperator, value any) query.SearchFilter {
	return query.Filter(string(p), op, value)
}
