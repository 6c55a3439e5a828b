// Package client dials the Shiftly ops gRPC service for shiftlyctl. It
// attaches the access token and a correlation id to every call and turns
// gRPC statuses back into the common sentinel errors.
package client
