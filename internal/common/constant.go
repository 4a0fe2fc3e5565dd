// Package common contains shared constants and sentinel errors used across
// the Fleet Console client core.
package common

// AuthorizationHeader carries the bearer credential on outbound requests.
const AuthorizationHeader = "Authorization"

// DefaultBaseURL is the admin API root all dispatcher paths are resolved
// against unless overridden by configuration.
const DefaultBaseURL = "https://api.citycarcenters.com/api/v1/secure/route/admin"

// DefaultEventsURL is the push event stream the realtime bridge subscribes to.
const DefaultEventsURL = "https://api.citycarcenters.com/api/v1/events"
