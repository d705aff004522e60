// Package backend holds what the Rococo gRPC services share. Each
// subpackage implements one rococo.*Service over a storage repository;
// errors leave the service as gRPC statuses via rpc.ToStatus.
package backend
