// Package async provides safe background execution for the Rococo services.
//
// # Key Functions
//
// SafeGo: fire-and-forget work with timeout, panic recovery and error logging
//
//	async.SafeGo(ctx, logger, 5*time.Second, "publish user registered", func(ctx context.Context) error {
//		return publisher.UserRegistered(ctx, username)
//	})
//
// Supervise: a long-lived loop that is restarted with backoff when it fails
//
//	done := async.Supervise(ctx, logger, "user events", async.DefaultBackoff, consumer.Run)
//	<-done // after ctx is cancelled
//
// # Users
//
//   - pkg/events: the userdata consumer loop
//   - pkg/auth: registration events published off the request path
//   - pkg/testkit: the token updater and event listener loops
package async
