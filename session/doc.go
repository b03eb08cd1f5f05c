// File: session/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package session implements the frame-presentation scheduling client:
// the component between an application's render loop and a remote
// compositor reached over one asynchronous session channel.
//
// A Conn paces outgoing frame submissions against the server-granted
// credit budget, stages release fences with a one-cycle handoff delay,
// resolves vsync timing callbacks in FIFO order, and surfaces transport
// failure exactly once. It performs no internal threading and holds no
// locks: all asynchronous effects happen inside run turns of the
// injected dispatcher.
package session
