// Package service orchestrates the core components of the venue — book
// engine, event journal, trade outbox and sequencing.
//
// It is the only write entry point: every decoded feed event passes
// through Service.Notify, which journals, applies and publishes in a
// fixed order. The engine itself stays free of I/O.
package service
