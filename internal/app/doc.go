// Package app wires the tickstats server together and owns its lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, optional YAML file, TICKSTATS_* env)
//	2. Initialize logging and OpenTelemetry
//	3. Create the series registry and the services on top of it
//	4. Build the chi router and its middleware chain
//	5. Create the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// # Graceful Shutdown
//
// Run stops on context cancellation, SIGINT or SIGTERM. Readiness flips to
// not_ready first, in-flight requests get ShutdownTimeout to finish, and
// telemetry providers are flushed last. All series live in memory and are
// discarded with the process.
//
// Initialization errors are returned to the caller; the package never calls
// os.Exit.
package app
