/*
Package observability exports fleet events as Prometheus metrics.

Metrics implements supervisor.Observer: it tracks the supervisor lifecycle
state, the accumulated inactivity, worker exits by failure tier and the
final outcome of the run.
*/
package observability
