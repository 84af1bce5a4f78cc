// Package redirects builds the immutable path redirect table served by the
// gateway. A table merges the fixed base list of the deployment theme with
// an external list of rules loaded once at startup, and answers exact path
// lookups for every incoming request.
package redirects
