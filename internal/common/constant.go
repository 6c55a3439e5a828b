// Package common contains shared constants and sentinel errors used across
// Shiftly components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// CorrelationIDHeaderName is the gRPC metadata key carrying the caller's
// correlation id. It is threaded into sync logs and job logs.
const CorrelationIDHeaderName = "x-correlation-id"
