// Package events carries user lifecycle events between the auth and
// userdata services over Redis pub/sub.
//
// The auth service publishes a UserRegistered message for every new login;
// the userdata service consumes them and creates the profile:
//
//	consumer := events.NewConsumer(redis, cfg.Redis.EventsChannel, func(ctx context.Context, e events.UserRegistered) error {
//		_, err := users.Register(ctx, e.Username)
//		return err
//	}, logger, metrics)
//	done := async.Supervise(ctx, logger, "user events", async.DefaultBackoff, consumer.Run)
//
// Delivery is at most once. Userdata also creates a missing profile on
// first read, so a lost message only delays profile creation.
package events
