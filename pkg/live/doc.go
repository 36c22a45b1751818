// Package live serves penguin canvas sessions over HTTP and WebSocket.
//
// # Routes
//
//	GET    /healthz                 liveness and build info
//	GET    /sessions                list live sessions
//	POST   /sessions                open a session from a scene document
//	GET    /sessions/{id}           session state (snapshot and frame)
//	DELETE /sessions/{id}           close a session
//	GET    /sessions/{id}/scene     current scene as a document
//	GET    /sessions/{id}/export    Graphviz export (?format=svg|dot, ?pins, ?selection)
//	POST   /sessions/{id}/events    apply one message, return the new state
//	GET    /sessions/{id}/live      WebSocket: messages in, updates out
//
// # Protocol
//
// Clients send JSON [Message] values as text frames. Each applied message is
// answered with an [Update] of type "state" broadcast to every client of the
// session. A rejected message gets an "error" update sent only to its sender.
// The server pings every PingInterval and drops clients that stop answering.
//
//	{"type": "pointer_down", "x": 20, "y": 10, "mods": ["shift"]}
//	{"type": "pointer_move", "x": 70, "y": 10}
//	{"type": "pointer_up", "x": 70, "y": 10}
//	{"type": "wheel", "x": 100, "y": 100, "delta_y": -1}
//	{"type": "start_wiring", "node": "a", "pin": "out", "output": true}
//	{"type": "set_grid", "enabled": true, "snap": true, "size": 20}
package live
