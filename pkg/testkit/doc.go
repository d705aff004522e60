// Package testkit provisions test data and drives a running Rococo system
// from Go tests.
//
// # Fixtures
//
// A test declares what it needs and gets it back, created and cleaned up:
//
//	p := &testkit.Provisioner{Catalog: catalog, Accounts: accounts, Login: login}
//	got := p.Provision(t, testkit.Fixtures{User: true, Artists: 1, Paintings: 2})
//	// got.Token signs in as got.User; got.Paintings reference got.Artists[0]
//
// The catalog decides how fixtures reach the system:
//
//	DBCatalog(repos)          repositories, no services involved
//	GRPCCatalog(conns...)     backend gRPC services
//	APICatalog(apiClient)     REST gateway with a bearer token
//
// # Background loops
//
// TokenUpdater keeps a default user's token fresh with the refresh grant on
// a cron schedule. EventListener buffers user registration events so tests
// can wait for them. Both run under async.Supervise.
//
// # Configuration
//
// LoadSettings reads ROCOCO_TEST_MODE, ROCOCO_TEST_GATEWAY_URL,
// ROCOCO_TEST_AUTH_URL, ROCOCO_TEST_CLIENT_ID, ROCOCO_TEST_REDIRECT_URI,
// ROCOCO_TEST_REDIS_URL, ROCOCO_TEST_EVENTS_CHANNEL and
// ROCOCO_TEST_REFRESH_SCHEDULE.
package testkit
