// Package query encodes typed parameter sets into the query strings the
// server's API endpoints expect.
//
// Parameters are declared once with their arity:
//
//	set := query.NewParameterSet().
//		Set(query.Content, "sensors").
//		Set(query.Columns, []string{"objid", "name", "status"}).
//		Set(query.Filters, query.Filter("status", query.Equals, typed.StatusPaused))
//
// Enumeration values in filters are expanded to their concrete members, dates
// become day counts and durations whole seconds.
package query
