// Package aggregates owns transaction boundaries for multi-row taste writes
// and maps storage failures onto a small set of error codes that callers can
// act on (retry, report conflict, report not found).
package aggregates
