// Package catalog maps view identifiers to controllers.
//
// Components:
//   - Manager: in-memory view registry implementing navigation.Catalog
//   - Parser: decodes view definition files (YAML, TOML, JSON)
//   - Seeder: loads definition files from disk on startup
//   - Watcher: reloads definitions when files change
//   - RemoteSource: fetches definitions from an HTTP endpoint
//
// Definition files hold either a single view or a list under "views":
//
//	views:
//	  - id: home
//	    title: Home
//	    resizable: true
//	    resource: home.html
//	  - id: friend-card
//	    subview: true
//	    resource: cards/friend.html
//
// Relative resources are resolved against the directory of the file that
// declares them.
//
// Example Usage:
//
//	manager := catalog.NewManager(logger)
//	seeder := catalog.NewSeeder(manager, "./views", pattern, logger)
//	result, err := seeder.Seed(ctx)
//	ctrl, err := manager.Resolve(ctx, "home")
package catalog
