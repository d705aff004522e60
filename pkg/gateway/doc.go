// Package gateway is the REST backend-for-frontend. It validates requests,
// calls the domain services over gRPC, composes their references into full
// entities and maps backend failures to problem responses.
package gateway
