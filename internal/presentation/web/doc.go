// Package web is the in-process presentation layer.
//
// It implements navigation.Presenter over view resources on disk:
//   - Loader reads a resource (optionally .gz or .zst), checks that it is
//     text and transcodes it to UTF-8
//   - Presenter sanitises HTML, extracts the document title, keeps the main
//     stage, open utility windows and the item lists declared by rendered
//     views
//
// Views declare containers with data attributes:
//
//	<ul data-list="friends"></ul>   item list accepting subviews
//	<div data-pane="sidebar"></div> plain container, rejects subviews
//
// The control API serves Snapshot as the stage state.
package web
