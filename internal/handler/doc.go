// Package handler provides HTTP request handlers for the model service.
//
// # Handler Pattern
//
//   - Constructor function (NewXxxHandler) accepts its dependencies
//   - Methods handle specific HTTP endpoints
//   - Response helpers from response.go standardize output
//   - Every failure is written through WriteError
//
// # Error Translation
//
// MapError is the single place where failures become responses. It reads
// the model.ErrorKind of the error and produces an envelope:
//
//	{"status":404,"error":"Not Found","code":"NOT_FOUND",
//	 "message":"No model with given id found.","path":"/model/7","traceId":"..."}
//
// Errors without a kind, including store faults, become a 500 with a fixed
// message. Their cause is logged, never returned.
package handler
