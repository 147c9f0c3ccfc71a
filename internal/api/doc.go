// Package api handles incoming HTTP requests for a configured InstaRAG
// application: health probes, application details, the OpenAPI document and
// the chat endpoint. Handlers receive the immutable configuration and their
// collaborators through constructors and never read files themselves.
package api
