// Package cobs implements Consistent Overhead Byte Stuffing (COBS), an
// encoding that removes a chosen sentinel byte value from arbitrary payloads
// so that the sentinel can be used unambiguously as a frame delimiter on
// byte-oriented transports.  The package also implements the COBS/R variant,
// which saves one byte on most frames by folding the final data byte into the
// last group's code byte.
package cobs
