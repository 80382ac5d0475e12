// Package countries serves the registration country list as JSON options for
// select inputs and client-side lookups.
//
// The handler responds to GET and HEAD requests with {"data": [...]} and
// supports query and limit parameters. Without a query the full list is
// returned in display order.
package countries
