/*
Package resilience guards outbound transport writes with a circuit breaker.

A backend that keeps rejecting writes trips the breaker open; further sends
fail fast with ErrCircuitOpen until the cool-down elapses, after which a
limited number of probe writes decide whether to close it again.

	Closed --[ReadyToTrip]-> Open --[Timeout]-> HalfOpen --[MaxProbes ok]-> Closed
	                                               |
	                                           [failure]
	                                               v
	                                              Open

Nothing is retried here. Callers see the original error or the breaker's
sentinel and decide for themselves.
*/
package resilience
