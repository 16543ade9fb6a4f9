// Package log is a small wrapper around the standard library logger used by
// every ofertas component.
//
// Each component asks for a named logger once and keeps it in a package level
// variable:
//
//	var logger = log.ForService("search")
//
//	logger.Infof("searching %q", query)
//	logger.Debugf("prompt: %s", prompt) // only with debug enabled
//
// Every line carries the level (except INFO) and a "[name>]" prefix so output
// can be grepped per component:
//
//	2025/01/02 10:11:12.123456 WARN [provider>] grounding chunk without uri
//
// Debug output is off by default. It can be enabled for all loggers with
// SetGlobalDebug (the --debug CLI flag) or for a subset with EnableDebugFor /
// EnableDebugList (the --debug-services CLI flag).
//
// Tests redirect output with SetOutput(&bytes.Buffer{}).
package log
