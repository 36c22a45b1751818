// Package replay runs scripted input against a canvas scene.
//
// A script is a YAML list of steps using the same vocabulary as the live
// protocol, plus "snapshot" steps that record the session state and an
// optional expect block checked after the last step:
//
//	name: drag a onto the grid
//	grid: {enabled: true, snap: true, size: 20}
//	steps:
//	  - {type: pointer_down, x: 20, y: 10}
//	  - {type: pointer_move, x: 73, y: 12}
//	  - {type: pointer_up, x: 73, y: 12}
//	  - {type: snapshot, label: dropped}
//	expect:
//	  mode: idle
//	  selected: [a]
//	  positions:
//	    a: [60, 0]
//
// Steps that the editor rejects are recorded and the run continues, the same
// way the live service keeps a connection open after a bad message.
package replay
