// Package navigation manages the views a session displays.
//
// A Navigator owns three slots:
//   - Primary: the view rendered into the main stage
//   - Auxiliary: at most one secondary window
//   - Subviews: embeddable views appended to list containers, in insertion order
//
// View identifiers are resolved through a Catalog; materialising a resolved
// controller is delegated to a Presenter. Neither collaborator is owned here.
//
// Invariants:
//   - Opening an auxiliary window always closes the previous one first
//   - Only descriptors flagged Subview enter the subview sequence
//   - Primary is never cleared once set
//
// Example Usage:
//
//	nav := navigation.NewNavigator(catalog, presenter, logger)
//	err := nav.SetPrimary(ctx, "home", true)
//	err = nav.OpenAuxiliary(ctx, "settings")
//	handle, err := nav.EmbedSubview(ctx, friendsList, "friend-card")
package navigation
