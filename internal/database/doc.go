// Package database owns the process-wide MySQL connection pool and the one
// query the service runs against it.
//
// Every call to Pool.Now checks out a dedicated connection, runs
// SELECT NOW() on it and returns the connection to the pool before
// returning, whether or not the query succeeded. Checkout is bounded by an
// acquire timeout so a saturated pool fails fast instead of queueing forever.
//
// Failures are reported as *Error values tagged with a Kind:
//
//   - KindConnectFailed: dial, DNS, unknown database, checkout timeout
//   - KindAuthFailed: the server rejected the credentials
//   - KindQueryFailed: the query, its result set or the scan failed
//
// Error() is the driver's message unchanged, and every kind matches
// ErrUnavailable with errors.Is.
package database
