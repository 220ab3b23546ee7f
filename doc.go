/*
Package prtgapi provides a typed client for the PRTG network monitor HTTP/XML API.

Objects such as sensors, devices, groups, probes, logs, notification triggers and
schedules are read from the server's table endpoint and decoded into Go structs
described by prtg struct tags. Each object type is exposed as a table resource
supporting List, Get, GetByIDs, GetTotalCount, Refresh and Stream, with an async
variant of List.

The main entry point is PrtgRest, which is initialized from a PRTGConfig. The
config carries the server address, credentials (a password or a pass-hash), SSL
behavior, timeouts, the retry budget for transient network failures, batching and
paging limits, and request hooks.
*/
package prtgapi
