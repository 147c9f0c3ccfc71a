// Package generation defines the boundary between the HTTP layer and the
// language model that answers chat requests. Provider packages such as
// platform/gemini implement ChatGenerator; handlers depend only on the
// interface and the errors declared here.
package generation
