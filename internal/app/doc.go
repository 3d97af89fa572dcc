// Package app wires the engine together: logger, config loading, module
// registration, graph evaluation, and the HTTP/socket.io editor bridge.
package app
