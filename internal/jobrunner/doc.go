// Package jobrunner launches a fixed set of lint jobs as child processes,
// waits for all of them, and folds their outcomes into one exit code.
//
// Every child gets a waiter goroutine that posts its terminal outcome to a
// buffered channel. Run itself is the only reader and owns the aggregate
// state, so outcomes are handled strictly one at a time. A job that cannot be
// started terminates the remaining jobs and ends the run immediately; a job
// that exits non-zero only marks the run failed.
package jobrunner
