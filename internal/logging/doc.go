// Package logging provides structured logging for upnpcast.
//
// This package wraps zap with the handful of package-level functions the
// rest of the code uses. Logging is silent by default so CLI output stays
// clean; set UPNPCAST_LOG_LEVEL (debug, info, warn, error) to see what the
// discovery and control engines are doing on the wire.
//
// All log calls use structured fields:
//
//	logging.Info("renderer discovered",
//	    zap.String("name", device.Name),
//	    zap.String("address", device.Address),
//	)
//
// All functions are safe for concurrent use; zap handles synchronization.
package logging
