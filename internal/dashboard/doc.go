// Package dashboard implements the hazmon terminal dashboard.
//
// The dashboard is a Bubble Tea program. Everything it shows is driven by
// messages processed one at a time in Update:
//
//   - link events (connection state changes and decoded telemetry), read
//     from the connection manager's channel one at a time by waitForEvent
//   - sample ticks from the synthetic chart generator
//   - log fetch results
//   - key presses and window resizes
//
// # Layout
//
//	hazmon | ● online | ws://localhost:8001/ | Normal
//
//	╭ Gas (MQ3) ╮ ╭ Temp ╮ ╭ Gas dist ╮ ╭ Temp dist ╮
//	│ 12.3      │ │ 20.6 │ │ 1.23     │ │ 0.99      │
//	╰───────────╯ ╰──────╯ ╰──────────╯ ╰───────────╯
//
//	Nodes                         Alerts
//	node-a  12.0 ppm  1.50 m      15:04:05  Gas detected
//
//	Chart (synthetic)
//	⠀⠀⠀⠀⣀⠤⠒⠉⠉⠒⠤⣀⠀⠀
//	⠤⠤⠤⠤⠤⠤⠤⠤⠤⠤⠤⠤⠤⠤
//
// Pressing l replaces the lower half with a scrollable log viewer.
//
// # Key bindings
//
//	q, Ctrl+C  Quit
//	c          Clear the alert feed
//	l          Open the log viewer and fetch the log
//	r          Reload the log (viewer open)
//	Esc        Close the log viewer or help
//	?          Toggle help
//
// Malformed telemetry never reaches the model: the connection manager drops
// frames it cannot decode, so the dashboard only ever applies whole messages.
package dashboard
