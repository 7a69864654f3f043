// Package cli implements the hazmon command-line interface.
//
// Commands:
//
//	hazmon              Start the dashboard (same as "hazmon dashboard")
//	hazmon dashboard    Live terminal dashboard
//	hazmon logs         Print the collector log once
//	hazmon snapshot     Collect chart samples and save them as a PNG
//	hazmon init         Write a .hazmon.yaml config
//	hazmon version      Print version information
//
// Every command reads the same config (see internal/config); --config
// points at a specific file.
package cli
