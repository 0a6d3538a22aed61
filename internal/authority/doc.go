// Package authority maintains the resilient duplex channel to the remote
// scene authority: the wire message envelope, endpoint derivation from the
// client origin, and a connect/reconnect state machine that tolerates
// disconnects without losing state coherence.
package authority
